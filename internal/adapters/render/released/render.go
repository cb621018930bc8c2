// Package released renders the released-documents list and download summaries for the terminal.
package released

import "github.com/bnema/klientenportal-cli/internal/domain"

// Rows prints one line per released document, cells joined with " | ".
func Rows(rows []domain.ReleasedRow) (string, error) {
	return run(func(s styles) string { return renderRows(rows, s) })
}

func Downloads(documents []domain.DownloadedDocument, outputDir string) (string, error) {
	return run(func(s styles) string { return renderDownloads(documents, outputDir, s) })
}
