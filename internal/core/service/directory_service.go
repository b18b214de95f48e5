package service

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/quotemate/gateway/internal/core/domain"
	"github.com/quotemate/gateway/internal/core/ports"
)

const maxDirectoryBytes = 10 << 20

// headerAliases maps normalised column headers to entry fields.
var headerAliases = map[string]string{
	"company":         "company",
	"company name":    "company",
	"company_name":    "company",
	"name":            "company",
	"business":        "company",
	"trade":           "trade",
	"trades":          "trade",
	"specialty":       "trade",
	"email":           "email",
	"e-mail":          "email",
	"contact email":   "email",
	"contact_email":   "email",
	"phone":           "phone",
	"phone number":    "phone",
	"contact phone":   "phone",
	"contact_phone":   "phone",
	"location":        "location",
	"city":            "location",
	"service area":    "location",
}

type directoryService struct{}

func NewDirectoryService() ports.DirectoryService {
	return directoryService{}
}

// Import reads a CSV or XLSX export of a builder's subcontractors. Rows
// without a company or a trade are reported in Errors and skipped.
func (directoryService) Import(fileName string, r io.Reader) (*domain.DirectoryImport, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDirectoryBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read directory: %w", err)
	}
	if len(data) > maxDirectoryBytes {
		return nil, fmt.Errorf("%w: file is larger than 10MB", domain.ErrUnsupportedFile)
	}

	rows, err := readRows(fileName, data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file is empty", domain.ErrUnsupportedFile)
	}

	cols := map[string]int{}
	for i, h := range rows[0] {
		if field, ok := headerAliases[normalizeHeader(h)]; ok {
			if _, dup := cols[field]; !dup {
				cols[field] = i
			}
		}
	}
	if _, ok := cols["company"]; !ok {
		return nil, fmt.Errorf("%w: missing company column", domain.ErrUnsupportedFile)
	}
	if _, ok := cols["trade"]; !ok {
		return nil, fmt.Errorf("%w: missing trade column", domain.ErrUnsupportedFile)
	}

	out := &domain.DirectoryImport{
		FileName: fileName,
		Entries:  []domain.DirectoryEntry{},
		Trades:   map[string]int{},
	}
	col := func(row []string, field string) string {
		idx, ok := cols[field]
		if !ok {
			return ""
		}
		return cellValue(row, idx)
	}
	for i, row := range rows[1:] {
		line := i + 2
		if blankRow(row) {
			continue
		}
		e := domain.DirectoryEntry{
			CompanyName: col(row, "company"),
			Trade:       col(row, "trade"),
			Email:       col(row, "email"),
			Phone:       col(row, "phone"),
			Location:    col(row, "location"),
		}
		switch {
		case e.CompanyName == "":
			out.Errors = append(out.Errors, domain.DirectoryRowError{Row: line, Reason: "company is required"})
			continue
		case e.Trade == "":
			out.Errors = append(out.Errors, domain.DirectoryRowError{Row: line, Reason: "trade is required"})
			continue
		}
		out.Entries = append(out.Entries, e)
		out.Trades[strings.ToLower(e.Trade)]++
	}
	return out, nil
}

func readRows(fileName string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv":
		cr := csv.NewReader(bytes.NewReader(data))
		cr.FieldsPerRecord = -1
		cr.TrimLeadingSpace = true
		rows, err := cr.ReadAll()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
		}
		return rows, nil
	case ".xlsx":
		file, err := excelize.OpenReader(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
		}
		defer func() { _ = file.Close() }()

		sheet := file.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("%w: no worksheet found", domain.ErrUnsupportedFile)
		}
		rows, err := file.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedFile, err)
		}
		return rows, nil
	case ".xls":
		return nil, fmt.Errorf("%w: legacy .xls files are not supported, save as .xlsx", domain.ErrUnsupportedFile)
	default:
		return nil, errors.Join(domain.ErrUnsupportedFile, fmt.Errorf("expected a .csv or .xlsx file"))
	}
}

func normalizeHeader(h string) string {
	return strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
}

func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
