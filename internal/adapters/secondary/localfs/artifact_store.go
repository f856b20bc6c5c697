package localfs

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"vehicle-insurance-mlops/internal/core/domain"
	ports "vehicle-insurance-mlops/internal/core/ports/output"
)

type artifactStore struct{}

// NewArtifactStore returns a store that writes stage artifacts to the local
// filesystem, creating parent directories as needed.
func NewArtifactStore() ports.ArtifactStore {
	return &artifactStore{}
}

func (s *artifactStore) WriteFrame(path string, frame *domain.Frame) error {
	records := make([][]string, 0, frame.Len()+1)
	records = append(records, frame.Columns)
	records = append(records, frame.Rows...)
	return writeCSV(path, records)
}

func (s *artifactStore) ReadFrame(path string) (*domain.Frame, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("read frame %s: missing header", path)
	}
	return &domain.Frame{Columns: records[0], Rows: records[1:]}, nil
}

// WriteMatrix stores rows using the shortest exact float representation so
// equal matrices always produce identical bytes.
func (s *artifactStore) WriteMatrix(path string, rows [][]float64) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		rec := make([]string, len(row))
		for j, v := range row {
			rec[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		records[i] = rec
	}
	return writeCSV(path, records)
}

func (s *artifactStore) ReadMatrix(path string) ([][]float64, error) {
	records, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	rows := make([][]float64, len(records))
	for i, rec := range records {
		row := make([]float64, len(rec))
		for j, cell := range rec {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("read matrix %s: row %d col %d: %w", path, i, j, err)
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *artifactStore) WriteJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", path, err)
	}
	return writeFile(path, b)
}

func (s *artifactStore) ReadJSON(path string, v any) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", path, err)
	}
	return nil
}

func writeCSV(path string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return records, nil
}

func writeFile(path string, b []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
