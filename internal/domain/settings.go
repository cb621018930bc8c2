package domain

import (
	"fmt"
	"strings"
)

const defaultPortalURLFormat = "https://klientenportal.at/prod/%s"

// Settings is the resolved, immutable portal configuration for one invocation.
type Settings struct {
	PortalID  string
	PortalURL string
	UserID    string
	Password  string
	// PasswordRef names a secret-store entry used when Password is empty.
	PasswordRef string
}

// Credentials is what the login form needs. BaseURL is the portal root without a trailing slash.
type Credentials struct {
	BaseURL  string
	UserID   string
	Password string
}

func DefaultPortalURL(portalID string) string {
	return fmt.Sprintf(defaultPortalURLFormat, strings.TrimSpace(portalID))
}

// MissingKeys lists required settings that are empty, in config-file key names.
func (s Settings) MissingKeys() []string {
	var missing []string
	if strings.TrimSpace(s.PortalID) == "" {
		missing = append(missing, "portal_id")
	}
	if strings.TrimSpace(s.UserID) == "" {
		missing = append(missing, "user_id")
	}
	if s.Password == "" {
		missing = append(missing, "password")
	}
	return missing
}

func (s Settings) Validate() error {
	if missing := s.MissingKeys(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	return nil
}

func (s Settings) Credentials() Credentials {
	baseURL := s.PortalURL
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultPortalURL(s.PortalID)
	}

	return Credentials{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		UserID:   s.UserID,
		Password: s.Password,
	}
}

func (c Credentials) Validate() error {
	var missing []string
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "portal_url")
	}
	if strings.TrimSpace(c.UserID) == "" {
		missing = append(missing, "user_id")
	}
	if c.Password == "" {
		missing = append(missing, "password")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingSettings, strings.Join(missing, ", "))
	}
	return nil
}

// String never includes the password.
func (c Credentials) String() string {
	return fmt.Sprintf("%s@%s", c.UserID, c.BaseURL)
}
