package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configFileName   = "config.toml"
	legacyConfigName = "config.json"
	settingsFileMode = 0o600
	settingsDirMode  = 0o700
	tempFilePattern  = ".config-*.toml.tmp"
)

const (
	keyVersion     = "version"
	keyPortalID    = "portal_id"
	keyPortalURL   = "portal_url"
	keyUserID      = "user_id"
	keyPassword    = "password"
	keyPasswordRef = "password_ref"
)

// Repository keeps the portal settings in <config dir>/config.toml. A config.json written by older
// installs is still read; the first save migrates it to TOML and removes it.
type Repository struct {
	configDir string
	mu        *sync.RWMutex
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.SettingsRepository = (*Repository)(nil)

func NewRepository(configDir string) (*Repository, error) {
	if configDir == "" {
		return nil, errors.New("config directory is empty")
	}

	absDir, err := filepath.Abs(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolve config directory: %w", err)
	}
	absDir = filepath.Clean(absDir)

	return &Repository{configDir: absDir, mu: lockForPath(absDir)}, nil
}

// Path is the file settings are written to.
func (r *Repository) Path() string {
	return filepath.Join(r.configDir, configFileName)
}

func (r *Repository) Load(ctx context.Context) (domain.Settings, error) {
	if err := ctx.Err(); err != nil {
		return domain.Settings{}, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return domain.Settings{}, err
	}

	return fromSchema(file), nil
}

func (r *Repository) Save(ctx context.Context, settings domain.Settings) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.writeSchema(toSchema(settings))
}

// readSchema lets viper pick the file so TOML and the legacy JSON decode the same way.
func (r *Repository) readSchema() (settingsSchema, error) {
	path, ok := r.locate()
	if !ok {
		return settingsSchema{}, nil
	}

	// The file may hold a plaintext password.
	if err := os.Chmod(path, settingsFileMode); err != nil {
		return settingsSchema{}, fmt.Errorf("harden settings file %s: %w", path, err)
	}

	cfg := viper.New()
	cfg.SetConfigFile(path)
	if err := cfg.ReadInConfig(); err != nil {
		return settingsSchema{}, fmt.Errorf("read settings file %s: %w", path, err)
	}

	file := settingsSchema{
		Version:     cfg.GetInt(keyVersion),
		PortalID:    cfg.GetString(keyPortalID),
		PortalURL:   cfg.GetString(keyPortalURL),
		UserID:      cfg.GetString(keyUserID),
		Password:    cfg.GetString(keyPassword),
		PasswordRef: cfg.GetString(keyPasswordRef),
	}
	if err := file.validateVersion(); err != nil {
		return settingsSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *Repository) locate() (string, bool) {
	for _, name := range []string{configFileName, legacyConfigName} {
		path := filepath.Join(r.configDir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func (r *Repository) writeSchema(file settingsSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(r.configDir, settingsDirMode); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.Chmod(r.configDir, settingsDirMode); err != nil {
		return fmt.Errorf("chmod config directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode settings file: %w", err)
	}

	tempFile, err := os.CreateTemp(r.configDir, tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if err := tempFile.Chmod(settingsFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp settings file: %w", err)
	}

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp settings file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp settings file: %w", err)
	}

	if err := os.Rename(tempName, r.Path()); err != nil {
		return fmt.Errorf("replace settings file: %w", err)
	}
	cleanup = false

	legacyPath := filepath.Join(r.configDir, legacyConfigName)
	if err := os.Remove(legacyPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove legacy settings file: %w", err)
	}

	return nil
}

func toSchema(settings domain.Settings) settingsSchema {
	return settingsSchema{
		Version:     currentSchemaVersion,
		PortalID:    settings.PortalID,
		PortalURL:   settings.PortalURL,
		UserID:      settings.UserID,
		Password:    settings.Password,
		PasswordRef: settings.PasswordRef,
	}
}

func fromSchema(file settingsSchema) domain.Settings {
	return domain.Settings{
		PortalID:    file.PortalID,
		PortalURL:   file.PortalURL,
		UserID:      file.UserID,
		Password:    file.Password,
		PasswordRef: file.PasswordRef,
	}
}
