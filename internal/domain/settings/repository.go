package settings

import (
	"context"
)

// SettingsRepository provides the tenant settings singleton. Settings
// CRUD belongs to a separate collaborator; the core only reads.
type SettingsRepository interface {
	// Get returns the settings singleton, or zero-value settings when
	// none have been configured yet
	Get(ctx context.Context) (Settings, error)
}
