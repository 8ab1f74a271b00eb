package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/andresuchdata/vaxstock/backend-go/internal/domain"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// readRecords loads a CSV file, or the first sheet of an XLSX workbook, as rows.
func readRecords(path string) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return readXLSX(path)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

func readXLSX(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx file %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("xlsx file %s has no sheets", path)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

// columnIndex maps lower-cased header names to positions.
func columnIndex(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	return idx
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

// parseLocations reads id, name and type columns. Rows without an id get a
// generated one; rows without a name are skipped.
func parseLocations(records [][]string) ([]domain.Facility, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("location file is empty")
	}
	idx := columnIndex(records[0])
	if _, ok := idx["name"]; !ok {
		return nil, fmt.Errorf("location file has no name column")
	}

	locs := make([]domain.Facility, 0, len(records)-1)
	for _, rec := range records[1:] {
		name := field(rec, idx, "name")
		if name == "" {
			continue
		}
		id := field(rec, idx, "id")
		if id == "" {
			id = uuid.NewString()
		}
		locs = append(locs, domain.Facility{
			ID:   domain.FacilityID(id),
			Name: name,
			Type: field(rec, idx, "type"),
		})
	}
	return locs, nil
}

type userRow struct {
	username string
	password string
	role     domain.Role
	location domain.FacilityID
}

func parseUsers(records [][]string) ([]userRow, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("user file is empty")
	}
	idx := columnIndex(records[0])
	for _, col := range []string{"username", "password", "role"} {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("user file has no %s column", col)
		}
	}

	rows := make([]userRow, 0, len(records)-1)
	for line, rec := range records[1:] {
		username := field(rec, idx, "username")
		if username == "" {
			continue
		}
		role, ok := domain.ParseRole(field(rec, idx, "role"))
		if !ok {
			return nil, fmt.Errorf("line %d: unknown role %q", line+2, field(rec, idx, "role"))
		}
		rows = append(rows, userRow{
			username: username,
			password: field(rec, idx, "password"),
			role:     role,
			location: domain.FacilityID(field(rec, idx, "location_id")),
		})
	}
	return rows, nil
}
