package application

import "github.com/bnema/klientenportal-cli/internal/domain"

// Portal-specific selectors. The page shapes belong to one portal; nothing here is generic.
const (
	confirmDialogSelector   = `dialog button:has-text("OK")`
	modalRootSelector       = "dxbl-modal-root"
	clientLabelSelector     = `text="Klient:"`
	signOutSelector         = "text=Abmelden"
	userInputSelector       = `input[type="text"]`
	passwordInputSelector   = `input[type="password"]`
	loginButtonSelector     = `button:has-text("Login")`
	categoryLabelSelector   = `text="Belegkreis:"`
	parentSelector          = ".."
	comboboxSelector        = `[role="combobox"]`
	fileInputSelector       = `input[type="file"]`
	releasedRowSelector     = "table tbody tr"
	releasedCellSelector    = "td"
	downloadAnchorSelector  = `a[href*="download"], a[href*="Download"]`
	escapeKey               = "Escape"
	enterKey                = "Enter"
	maxReleasedCellsPerRow  = 5
	fallbackDocumentPattern = "document_%d.pdf"
)

const (
	scopeLogin    = "login"
	scopeUpload   = "upload"
	scopeReleased = "released"
	scopeDownload = "download"
	scopeLogout   = "logout"
)

func scopeFor(target domain.WorkflowTarget) string {
	switch target.Name {
	case domain.TargetUpload:
		return scopeUpload
	case domain.TargetHistory:
		return scopeReleased
	case domain.TargetDownload:
		return scopeDownload
	default:
		return scopeLogin
	}
}
