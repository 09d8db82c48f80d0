package main

import (
	"os"

	"studio/backend/internal/app"
)

// @title           Studio Site API
// @version         1.0
// @description     Backend of the studio website: demo chat proxy, contact form, settings and effect streams.
// @BasePath        /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	os.Exit(app.Run())
}
