package report

import (
	"fmt"
	"io"

	"github.com/gocarina/gocsv"

	"github.com/ndewijer/finance-dashboard/internal/model"
)

// WriteCSV writes the positions table of snap as CSV with a header row.
func WriteCSV(w io.Writer, snap model.PortfolioSnapshot) error {
	rows := BuildRows(snap)
	if err := gocsv.Marshal(&rows, w); err != nil {
		return fmt.Errorf("failed to write positions csv: %w", err)
	}
	return nil
}
