package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/klientenportal-cli/internal/domain"
	"github.com/bnema/klientenportal-cli/internal/ports"
)

// ReleasedDriver reads the history table of documents the firm has released.
type ReleasedDriver struct {
	navigator *Navigator
}

func NewReleasedDriver(navigator *Navigator) *ReleasedDriver {
	return &ReleasedDriver{navigator: navigator}
}

func (d *ReleasedDriver) Run(ctx context.Context, page ports.Page, creds domain.Credentials) ([]domain.ReleasedRow, error) {
	target := domain.NewWorkflowTarget(creds.BaseURL, domain.TargetHistory)
	ok, err := d.navigator.EnsureOn(ctx, page, target, creds)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrAuthenticationFailed
	}

	rows := page.Locator(releasedRowSelector)
	count, err := rows.Count()
	if err != nil {
		return nil, fmt.Errorf("count released rows: %w", err)
	}

	result := make([]domain.ReleasedRow, 0, count)
	for i := 0; i < count; i++ {
		row, err := readRow(rows.Nth(i))
		if err != nil {
			return nil, fmt.Errorf("read released row %d: %w", i, err)
		}
		result = append(result, row)
	}

	return result, nil
}

func readRow(row ports.Locator) (domain.ReleasedRow, error) {
	cells := row.Locator(releasedCellSelector)
	count, err := cells.Count()
	if err != nil {
		return domain.ReleasedRow{}, err
	}

	count = min(count, maxReleasedCellsPerRow)
	texts := make([]string, 0, count)
	for j := 0; j < count; j++ {
		text, err := cells.Nth(j).InnerText()
		if err != nil {
			return domain.ReleasedRow{}, err
		}
		texts = append(texts, strings.TrimSpace(text))
	}

	return domain.ReleasedRow{Cells: texts}, nil
}
