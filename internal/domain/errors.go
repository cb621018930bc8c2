package domain

import "errors"

var (
	ErrAuthenticationFailed = errors.New("portal authentication failed")
	ErrPageShapeMismatch    = errors.New("portal page shape mismatch")
	ErrPartialUpload        = errors.New("not all files were uploaded")
	ErrMissingSettings      = errors.New("missing portal settings")
	ErrUnknownCategory      = errors.New("unknown belegkreis")
	ErrNoFilesToUpload      = errors.New("no files found to upload")
	ErrOutputOutsideSandbox = errors.New("output path outside workspace and tmp")
	ErrSecretNotFound       = errors.New("secret not found")
)
