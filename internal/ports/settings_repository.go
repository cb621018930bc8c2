package ports

import (
	"context"

	"github.com/bnema/klientenportal-cli/internal/domain"
)

// SettingsRepository reads and writes the on-disk portal settings. Environment overrides are not its
// concern.
type SettingsRepository interface {
	Load(ctx context.Context) (domain.Settings, error)
	Save(ctx context.Context, settings domain.Settings) error
	Path() string
}
