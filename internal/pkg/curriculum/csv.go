package curriculum

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/yigit/qpidash/internal/app/models"
)

// Expected header columns
const (
	ColumnYear     = "Year"
	ColumnSemester = "Semester"
	ColumnUnits    = "Units"
	ColumnName     = "SubjectName"
)

var (
	// ErrMissingColumn is returned when a required header column is absent
	ErrMissingColumn = errors.New("missing curriculum column")
	// ErrInvalidUnits is returned when a row's units are not a positive number
	ErrInvalidUnits = errors.New("invalid subject units")
)

// LoadFile reads a curriculum CSV from disk
func LoadFile(path string) ([]models.Subject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open curriculum file: %w", err)
	}
	defer f.Close()

	subjects, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse curriculum file %s: %w", path, err)
	}
	return subjects, nil
}

// Parse reads Year,Semester,Units,SubjectName rows. Column order is taken
// from the header; extra columns are ignored. Subject IDs are 1-based row numbers.
func Parse(r io.Reader) ([]models.Subject, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[string]int, len(header))
	for i, col := range header {
		index[strings.TrimSpace(strings.TrimPrefix(col, "\ufeff"))] = i
	}
	for _, col := range []string{ColumnYear, ColumnSemester, ColumnUnits, ColumnName} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}

	var subjects []models.Subject
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", row, err)
		}

		field := func(col string) string {
			i := index[col]
			if i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		units, err := strconv.ParseFloat(field(ColumnUnits), 64)
		if err != nil || units <= 0 {
			return nil, fmt.Errorf("%w: row %d has %q", ErrInvalidUnits, row, field(ColumnUnits))
		}

		subjects = append(subjects, models.Subject{
			ID:       int64(row),
			Year:     field(ColumnYear),
			Semester: field(ColumnSemester),
			Name:     field(ColumnName),
			Units:    units,
		})
	}

	return subjects, nil
}
