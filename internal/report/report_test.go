package report

import (
	"encoding/csv"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jskimlam/iranwar-simulation/internal/models"
)

func testSnapshot() *models.Snapshot {
	return &models.Snapshot{
		ID:        "snap-1",
		Timestamp: time.Date(2026, 1, 16, 9, 30, 0, 0, time.UTC),
		WTI:       78.45,
		Benzene:   953.54,
		Ethylene:  1109.86,
		SMMarket:  1024.09,
		SMCost:    1095.79,
		Margin:    -71.7,
		Status:    models.StatusMarginSqueeze,
		Source:    "fallback",
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open %s: %v", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse csv: %v", err)
	}
	return records
}

func TestWriteCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulation_result.csv")

	if err := WriteCSV(path, testSnapshot()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d rows, want header plus one data row", len(records))
	}

	wantHeader := []string{"Update_Time", "WTI", "Benzene", "Ethylene", "SM_Market", "SM_Cost", "Margin", "Status"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}

	wantRow := []string{"2026-01-16 09:30 UTC", "78.45", "953.54", "1109.86", "1024.09", "1095.79", "-71.70", "MarginSqueeze"}
	for i, val := range wantRow {
		if records[1][i] != val {
			t.Errorf("row[%d] = %q, want %q", i, records[1][i], val)
		}
	}
}

func TestWriteCSVOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulation_result.csv")

	if err := WriteCSV(path, testSnapshot()); err != nil {
		t.Fatalf("first WriteCSV failed: %v", err)
	}

	second := testSnapshot()
	second.WTI = 90.0
	second.Status = models.StatusHealthy
	if err := WriteCSV(path, second); err != nil {
		t.Fatalf("second WriteCSV failed: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 2 {
		t.Fatalf("got %d rows after rewrite, want 2", len(records))
	}
	if records[1][1] != "90.00" {
		t.Errorf("WTI column = %q, want 90.00", records[1][1])
	}
	if records[1][7] != "Healthy" {
		t.Errorf("status column = %q, want Healthy", records[1][7])
	}
}

func TestWriteCSVRejectsInvalidSnapshot(t *testing.T) {
	snap := testSnapshot()
	snap.ID = ""
	if err := WriteCSV(filepath.Join(t.TempDir(), "out.csv"), snap); err == nil {
		t.Error("WriteCSV passed with invalid snapshot, want error")
	}
}

func TestWriteChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "risk_simulation_report.png")

	if err := WriteChart(path, 150, testSnapshot(), 150.0); err != nil {
		t.Fatalf("WriteChart failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("chart is not a decodable PNG: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		t.Errorf("chart has empty bounds: %v", bounds)
	}
}

func TestWriteChartHealthySnapshot(t *testing.T) {
	snap := testSnapshot()
	snap.Margin = 210.5
	snap.Status = models.StatusHealthy

	path := filepath.Join(t.TempDir(), "report.png")
	if err := WriteChart(path, 96, snap, 150.0); err != nil {
		t.Fatalf("WriteChart failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("chart file missing: %v", err)
	}
	if info.Size() == 0 {
		t.Error("chart file is empty")
	}
}
