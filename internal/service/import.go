package service

import (
	"errors"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	pkgerrors "gradebook/pkg/errors"
)

const maxImportRows = 1000

var (
	errImportNoData    = errors.New("the spreadsheet has no data rows (row 1 is the header)")
	errImportBadHeader = errors.New("the header must contain national_id, first_name, last_name, email and role")
)

// ImportUserRow one parsed spreadsheet row
type ImportUserRow struct {
	Row        int
	NationalID string
	FirstName  string
	LastName   string
	Email      string
	Role       string
}

// ParseImportFile reads the first sheet of an XLSX user list. Column order is free;
// the header row names the columns.
func ParseImportFile(reader io.Reader) ([]ImportUserRow, error) {
	f, err := excelize.OpenReader(reader)
	if err != nil {
		return nil, pkgerrors.Invalid("cannot read spreadsheet: %v", err)
	}
	defer f.Close()

	excelRows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, pkgerrors.Invalid("cannot read sheet: %v", err)
	}
	if len(excelRows) < 2 {
		return nil, pkgerrors.Invalid("%v", errImportNoData)
	}

	col := parseHeaderIndex(excelRows[0])
	for _, k := range importColumns {
		if col[k] < 0 {
			return nil, pkgerrors.Invalid("%v", errImportBadHeader)
		}
	}

	var rows []ImportUserRow
	for i := 1; i < len(excelRows); i++ {
		r := excelRows[i]
		get := func(key string) string {
			if idx := col[key]; idx < len(r) {
				return strings.TrimSpace(r[idx])
			}
			return ""
		}
		item := ImportUserRow{
			Row:        i + 1,
			NationalID: get("national_id"),
			FirstName:  get("first_name"),
			LastName:   get("last_name"),
			Email:      get("email"),
			Role:       strings.ToLower(get("role")),
		}
		if item == (ImportUserRow{Row: item.Row}) {
			continue
		}
		rows = append(rows, item)
	}

	if len(rows) == 0 {
		return nil, pkgerrors.Invalid("%v", errImportNoData)
	}
	if len(rows) > maxImportRows {
		return nil, pkgerrors.Invalid("at most %d rows can be imported at once", maxImportRows)
	}
	return rows, nil
}

var importColumns = []string{"national_id", "first_name", "last_name", "email", "role"}

// parseHeaderIndex maps column keys to indexes; -1 when absent.
func parseHeaderIndex(header []string) map[string]int {
	idx := make(map[string]int, len(importColumns))
	for _, k := range importColumns {
		idx[k] = -1
	}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "national_id", "dni":
			idx["national_id"] = i
		case "first_name", "nombres":
			idx["first_name"] = i
		case "last_name", "apellidos":
			idx["last_name"] = i
		case "email", "correo":
			idx["email"] = i
		case "role", "rol":
			idx["role"] = i
		}
	}
	return idx
}
