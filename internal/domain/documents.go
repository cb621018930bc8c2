package domain

import "path/filepath"

// UploadItem is the outcome for one local file.
type UploadItem struct {
	Path      string
	Attempted bool
	Succeeded bool
	Err       error
}

func (i UploadItem) Name() string {
	return filepath.Base(i.Path)
}

type UploadReport struct {
	Category  Category
	Items     []UploadItem
	Succeeded int
	Total     int
}

func (r UploadReport) Complete() bool {
	return r.Succeeded == r.Total
}

// ReleasedRow holds the first cells of one row of the released-documents table.
type ReleasedRow struct {
	Cells []string
}

// DownloadedDocument pairs the name the portal suggested with where it was written.
type DownloadedDocument struct {
	SuggestedName string
	SavedPath     string
}
