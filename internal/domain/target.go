package domain

import "strings"

type TargetName string

const (
	TargetLogin    TargetName = "login"
	TargetUpload   TargetName = "upload"
	TargetHistory  TargetName = "history"
	TargetDownload TargetName = "download"
)

const LoginPath = "/account/login"

var targetPaths = map[TargetName]string{
	TargetLogin:    LoginPath,
	TargetUpload:   "/Klient/Beleg/BelegTransfer/upload",
	TargetHistory:  "/Klient/Beleg/BelegHistory",
	TargetDownload: "/Klient/Beleg/BelegTransfer/noupload",
}

// WorkflowTarget is one named page of the portal.
type WorkflowTarget struct {
	Name    TargetName
	BaseURL string
	Path    string
}

func NewWorkflowTarget(baseURL string, name TargetName) WorkflowTarget {
	return WorkflowTarget{
		Name:    name,
		BaseURL: strings.TrimRight(baseURL, "/"),
		Path:    targetPaths[name],
	}
}

func (t WorkflowTarget) URL() string {
	return t.BaseURL + t.Path
}

// IsLoginURL reports whether a resolved page URL sits inside the login path.
func IsLoginURL(url string) bool {
	return strings.Contains(url, LoginPath)
}
