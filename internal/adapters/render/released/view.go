package released

import (
	"fmt"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

const (
	cellSeparator    = " | "
	noReleasedFiles  = "No released files found."
	noDocumentsFound = "No documents available for download."
)

func renderRows(rows []domain.ReleasedRow, s styles) string {
	if len(rows) == 0 {
		return s.empty.Render(noReleasedFiles)
	}

	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, renderRow(row, s))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// renderRow highlights the first cell, which is the release date on the history page.
func renderRow(row domain.ReleasedRow, s styles) string {
	parts := make([]string, 0, len(row.Cells))
	for i, cell := range row.Cells {
		if i == 0 {
			parts = append(parts, s.date.Render(cell))
			continue
		}
		parts = append(parts, s.cell.Render(cell))
	}
	return strings.Join(parts, s.separator.Render(cellSeparator))
}

func renderDownloads(documents []domain.DownloadedDocument, outputDir string, s styles) string {
	if len(documents) == 0 {
		return s.empty.Render(noDocumentsFound)
	}
	return s.summary.Render(fmt.Sprintf("Saved %d document(s) to %s", len(documents), outputDir))
}
