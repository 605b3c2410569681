// Package report persists a snapshot to its two output surfaces: a
// single-row CSV file and a two-panel PNG bar chart. Both outputs use
// overwrite semantics; each run clobbers the previous files.
package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/jskimlam/iranwar-simulation/internal/models"
)

// CSVHeader is the fixed column order of the result file.
var CSVHeader = []string{"Update_Time", "WTI", "Benzene", "Ethylene", "SM_Market", "SM_Cost", "Margin", "Status"}

// WriteCSV writes the snapshot as a header row plus exactly one data row.
// The file is written to a temp file in the target directory and renamed
// into place, so readers never observe a partially written result.
func WriteCSV(path string, snap *models.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return fmt.Errorf("invalid snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".result-*.csv")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if err := w.Write(CSVHeader); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.Write(csvRecord(snap)); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write record: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func csvRecord(snap *models.Snapshot) []string {
	return []string{
		snap.FormattedTime(),
		strconv.FormatFloat(snap.WTI, 'f', 2, 64),
		strconv.FormatFloat(snap.Benzene, 'f', 2, 64),
		strconv.FormatFloat(snap.Ethylene, 'f', 2, 64),
		strconv.FormatFloat(snap.SMMarket, 'f', 2, 64),
		strconv.FormatFloat(snap.SMCost, 'f', 2, 64),
		strconv.FormatFloat(snap.Margin, 'f', 2, 64),
		string(snap.Status),
	}
}
