package repository

import "errors"

// ErrNotFound is returned when a lookup by ID matches no row. Services
// translate it into the shared app_errors.ErrNotFound so callers never see
// sql.ErrNoRows.
var ErrNotFound = errors.New("repository: not found")
