package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

const passwordKeyFormat = "klientenportal/%s/password"

// SettingsService merges the settings file, the environment and the secret store.
type SettingsService struct {
	repo  ports.SettingsRepository
	store ports.SecretStore
	env   EnvOverrides
}

func NewSettingsService(repo ports.SettingsRepository, store ports.SecretStore, env EnvOverrides) *SettingsService {
	return &SettingsService{repo: repo, store: store, env: env}
}

// Resolve returns complete settings or an error wrapping domain.ErrMissingSettings.
func (s *SettingsService) Resolve(ctx context.Context) (domain.Settings, error) {
	settings, err := s.merged(ctx)
	if err != nil {
		return domain.Settings{}, err
	}

	if settings.Password == "" && settings.PasswordRef != "" {
		secret, err := s.store.Get(ctx, settings.PasswordRef)
		if err != nil {
			return domain.Settings{}, fmt.Errorf("read password %q from secret store: %w", settings.PasswordRef, err)
		}
		settings.Password = secret
	}

	if err := settings.Validate(); err != nil {
		return domain.Settings{}, fmt.Errorf("%w (create %s or set KLIENTENPORTAL_* variables)", err, s.repo.Path())
	}

	return settings, nil
}

// Describe returns the merged settings without touching the secret store.
func (s *SettingsService) Describe(ctx context.Context) (domain.Settings, error) {
	return s.merged(ctx)
}

func (s *SettingsService) Path() string {
	return s.repo.Path()
}

// Store writes an update. A password goes to the secret store and only its reference is saved.
func (s *SettingsService) Store(ctx context.Context, update SettingsUpdate) error {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	original := settings

	applyIfSet(&settings.PortalID, update.PortalID)
	applyIfSet(&settings.PortalURL, update.PortalURL)
	applyIfSet(&settings.UserID, update.UserID)

	if update.Password == "" {
		if err := s.repo.Save(ctx, settings); err != nil {
			return fmt.Errorf("save settings: %w", err)
		}
		return nil
	}

	if strings.TrimSpace(settings.PortalID) == "" {
		return fmt.Errorf("%w: portal_id is required to store a password", domain.ErrMissingSettings)
	}

	key := fmt.Sprintf(passwordKeyFormat, strings.TrimSpace(settings.PortalID))
	if err := s.store.Put(ctx, key, update.Password); err != nil {
		return fmt.Errorf("store password: %w", err)
	}

	settings.Password = ""
	settings.PasswordRef = key
	if err := s.repo.Save(ctx, settings); err != nil {
		if rollbackErr := s.store.Delete(ctx, key); rollbackErr != nil {
			return fmt.Errorf("save settings and rollback stored password: %w", errors.Join(err, rollbackErr))
		}
		return fmt.Errorf("save settings: %w", err)
	}

	if previous := original.PasswordRef; previous != "" && previous != key {
		if err := s.store.Delete(ctx, previous); err != nil {
			return fmt.Errorf("delete previous password %q: %w", previous, err)
		}
	}

	return nil
}

func (s *SettingsService) merged(ctx context.Context) (domain.Settings, error) {
	settings, err := s.repo.Load(ctx)
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}

	applyIfSet(&settings.PortalID, s.env.PortalID)
	applyIfSet(&settings.UserID, s.env.UserID)
	if s.env.Password != "" {
		settings.Password = s.env.Password
	}

	if strings.TrimSpace(settings.PortalURL) == "" && strings.TrimSpace(settings.PortalID) != "" {
		settings.PortalURL = domain.DefaultPortalURL(settings.PortalID)
	}

	return settings, nil
}

func applyIfSet(field *string, value string) {
	if strings.TrimSpace(value) != "" {
		*field = strings.TrimSpace(value)
	}
}
