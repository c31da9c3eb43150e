package vocab

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"lexicards/internal/domain"

	"github.com/xuri/excelize/v2"
)

// LoadSpreadsheet reads a word list from an .xlsx or .csv file. The first
// row names the columns (Word, Meanings, Synonym, Antonym, in any order).
func LoadSpreadsheet(path string) ([]domain.VocabEntry, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open CSV file: %w", err)
		}
		defer file.Close()
		return ParseCSV(file)
	case ".xlsx", ".xlsm":
		return loadExcel(path)
	}
	return nil, fmt.Errorf("unsupported spreadsheet format %q", filepath.Ext(path))
}

func loadExcel(path string) ([]domain.VocabEntry, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

// ParseExcel reads a word list from the first sheet of an .xlsx stream
func ParseExcel(r io.Reader) ([]domain.VocabEntry, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	return fromWorkbook(f)
}

func fromWorkbook(f *excelize.File) ([]domain.VocabEntry, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return fromRows(rows)
}

// ParseCSV reads a word list from CSV with a header row
func ParseCSV(r io.Reader) ([]domain.VocabEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading CSV: %w", err)
	}
	return fromRows(rows)
}

func fromRows(rows [][]string) ([]domain.VocabEntry, error) {
	if len(rows) == 0 {
		return []domain.VocabEntry{}, nil
	}

	colIndex := make(map[string]int)
	for i, name := range rows[0] {
		colIndex[strings.ToLower(strings.TrimSpace(name))] = i
	}
	wordCol, ok := column(colIndex, wordFields)
	if !ok {
		return nil, fmt.Errorf("missing required column: word")
	}
	meaningCol, _ := column(colIndex, meaningFields)
	synonymCol, _ := column(colIndex, synonymFields)
	antonymCol, _ := column(colIndex, antonymFields)

	entries := make([]domain.VocabEntry, 0, len(rows)-1)
	for _, row := range rows[1:] {
		entries = append(entries, domain.VocabEntry{
			Word:    cell(row, wordCol),
			Meaning: cell(row, meaningCol),
			Synonym: cell(row, synonymCol),
			Antonym: cell(row, antonymCol),
		})
	}
	return clean(entries), nil
}

func column(colIndex map[string]int, names []string) (int, bool) {
	for _, n := range names {
		if i, ok := colIndex[n]; ok {
			return i, true
		}
	}
	return -1, false
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
