package application

import "github.com/bnema/klientenportal-cli/internal/domain"

// SessionOptions control the browser for one command.
type SessionOptions struct {
	Visible bool
}

type UploadCommand struct {
	Files    []string
	Category domain.Category
	// SkipValidation submits documents without the local integrity check.
	SkipValidation bool
}

type DownloadCommand struct {
	// OutputDir is the raw requested directory, empty for the default.
	OutputDir string
}

// SettingsUpdate carries `config set` values; empty fields keep what is stored.
type SettingsUpdate struct {
	PortalID  string
	PortalURL string
	UserID    string
	Password  string
}

// EnvOverrides are settings taken from the environment, applied over the file.
type EnvOverrides struct {
	PortalID string
	UserID   string
	Password string
}
