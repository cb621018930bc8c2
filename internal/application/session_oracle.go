package application

import (
	"fmt"

	"github.com/bnema/klientenportal-cli/internal/ports"
)

// SessionOracle answers from the current DOM only: the sign-out control exists only for an
// authenticated session.
type SessionOracle struct{}

func (SessionOracle) IsAuthenticated(page ports.Page) (bool, error) {
	count, err := page.Locator(signOutSelector).Count()
	if err != nil {
		return false, fmt.Errorf("query sign-out control: %w", err)
	}

	return count > 0, nil
}
