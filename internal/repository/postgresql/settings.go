package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/settings"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type settingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) settings.SettingsRepository {
	return &settingsRepository{db: db}
}

// Get implements settings.SettingsRepository. Settings are a singleton
// row; a zero value comes back when nothing is configured yet, which
// disables the whitelist and the tenant default times.
func (r *settingsRepository) Get(ctx context.Context) (settings.Settings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, default_check_in_time, default_check_out_time, allowed_ips, created_at, updated_at
		FROM settings
		ORDER BY created_at
		LIMIT 1
	`

	var s settings.Settings
	err := q.QueryRow(ctx, query).Scan(
		&s.ID, &s.DefaultCheckInTime, &s.DefaultCheckOutTime, &s.AllowedIPs, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return settings.Settings{}, nil
		}
		return settings.Settings{}, fmt.Errorf("failed to get settings: %w", err)
	}

	return s, nil
}
