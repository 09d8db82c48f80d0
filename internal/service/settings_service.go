package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	app_errors "studio/backend/internal/errors"
	"studio/backend/internal/llm"
	"studio/backend/internal/model"
)

const (
	modelKey     = "model"
	promptPrefix = "prompt."
)

// DefaultPrompts are the system prompts each tier starts with.
var DefaultPrompts = map[model.Tier]string{
	model.TierBasic: "You are the demo assistant of a web design studio. Answer with one small, " +
		"self-contained HTML snippet with inline CSS in a single ```html fenced block, then one " +
		"short sentence describing it. Keep the markup under 60 lines.",
	model.TierBusiness: "You are the demo assistant of a web design studio building sites for small " +
		"businesses. Answer with one polished, responsive HTML section with inline CSS in a single " +
		"```html fenced block: clear headline, supporting copy and a call to action. Follow with two " +
		"short sentences on the design choices.",
	model.TierPremium: "You are the lead designer of a premium web design studio. Answer with one " +
		"striking, responsive HTML section with embedded <style> in a single ```html fenced block. " +
		"Use modern layout, refined typography and subtle CSS animation. Follow with a brief note on " +
		"the art direction.",
}

// SettingsService keeps the runtime settings in the sqlite key/value table.
type SettingsService struct {
	db  *sql.DB
	llm llm.LLMProvider
}

func NewSettingsService(db *sql.DB, llmProvider llm.LLMProvider) *SettingsService {
	return &SettingsService{db: db, llm: llmProvider}
}

// InitAndGet returns the stored settings, seeding them from defaults on the
// first start. Seeding skips model validation so the server can boot while
// the gateway is unreachable.
func (s *SettingsService) InitAndGet(ctx context.Context, defaults *model.Settings) (*model.Settings, error) {
	settings, err := s.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, app_errors.ErrNotFound) {
		return nil, err
	}

	slog.Info("No settings found, seeding defaults", "model", defaults.Model)
	seeded := &model.Settings{Model: defaults.Model, Prompts: make(map[model.Tier]string, len(model.Tiers))}
	for _, tier := range model.Tiers {
		seeded.Prompts[tier] = defaults.Prompt(tier)
		if seeded.Prompts[tier] == "" {
			seeded.Prompts[tier] = DefaultPrompts[tier]
		}
	}
	if err := s.save(ctx, seeded); err != nil {
		return nil, fmt.Errorf("failed to save initial settings: %w", err)
	}
	return seeded, nil
}

// Get loads the settings. It returns app_errors.ErrNotFound when no model
// has been stored yet.
func (s *SettingsService) Get(ctx context.Context) (*model.Settings, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM settings")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, app_errors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	settings := &model.Settings{Prompts: map[model.Tier]string{}}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		switch {
		case key == modelKey:
			settings.Model = value
		case strings.HasPrefix(key, promptPrefix):
			settings.Prompts[model.Tier(strings.TrimPrefix(key, promptPrefix))] = value
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	if settings.Model == "" {
		return nil, app_errors.ErrNotFound
	}
	return settings, nil
}

// Save validates and stores settings. The model is checked against the
// gateway's list when the gateway answers; otherwise it is saved as is.
func (s *SettingsService) Save(ctx context.Context, settings *model.Settings) error {
	if strings.TrimSpace(settings.Model) == "" {
		return fmt.Errorf("%w: model is required", app_errors.ErrValidation)
	}
	for tier := range settings.Prompts {
		if !tier.Valid() {
			return fmt.Errorf("%w: unknown tier '%s'", app_errors.ErrValidation, tier)
		}
	}

	available, err := s.llm.ListModels(ctx)
	if err != nil {
		slog.Warn("Could not list gateway models, saving settings without check", "error", err)
	} else if !slices.Contains(available.IDs(), settings.Model) {
		return fmt.Errorf("%w: model '%s' is not offered by the gateway", app_errors.ErrValidation, settings.Model)
	}

	return s.save(ctx, settings)
}

func (s *SettingsService) save(ctx context.Context, settings *model.Settings) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value")
	if err != nil {
		return fmt.Errorf("could not prepare statement: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.ExecContext(ctx, modelKey, settings.Model); err != nil {
		return fmt.Errorf("could not save model: %w", err)
	}
	// Fixed tier order keeps writes deterministic.
	for _, tier := range model.Tiers {
		prompt, ok := settings.Prompts[tier]
		if !ok {
			continue
		}
		if _, err := stmt.ExecContext(ctx, promptPrefix+string(tier), prompt); err != nil {
			return fmt.Errorf("could not save prompt for %s: %w", tier, err)
		}
	}

	return tx.Commit()
}
