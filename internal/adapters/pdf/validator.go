package pdf

import (
	"fmt"
	"sync"

	"github.com/bnema/klientenportal-cli/internal/ports"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

var disableConfigDir sync.Once

// Validator checks that a document parses as a PDF before it is sent to the portal, which accepts
// broken files silently.
type Validator struct {
	conf *model.Configuration
}

var _ ports.DocumentValidator = (*Validator)(nil)

func NewValidator() *Validator {
	// pdfcpu otherwise writes its config under the user's config dir on first use.
	disableConfigDir.Do(api.DisableConfigDir)

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return &Validator{conf: conf}
}

func (v *Validator) Validate(path string) error {
	if err := api.ValidateFile(path, v.conf); err != nil {
		return fmt.Errorf("validate %s: %w", path, err)
	}
	return nil
}
