package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CSVParser handles CSV files: each row becomes one paragraph with its cells
// joined by single spaces.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*Document, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	out := &Document{
		Title: strings.TrimSuffix(filename, ".csv"),
	}

	for _, row := range records {
		out.Paragraphs = append(out.Paragraphs, strings.TrimSpace(strings.Join(row, " ")))
	}

	return out, nil
}
