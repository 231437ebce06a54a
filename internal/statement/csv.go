package statement

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// csvDateFormats are tried in order when parsing statement dates.
var csvDateFormats = []string{
	"2006-01-02",
	"02/01/2006",
	"01/02/2006",
	"2006/01/02",
	"02-01-2006",
}

// CSVParser parses simple date,description,amount statements. A header row
// is detected and skipped when the first field doesn't parse as a date.
type CSVParser struct{}

// NewCSVParser creates a new CSV parser.
func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse parses a CSV statement and returns transactions for the user.
func (p *CSVParser) Parse(_ context.Context, reader io.Reader, userID string) ([]model.Transaction, error) {
	r := csv.NewReader(reader)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	var transactions []model.Transaction
	line := 0

	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		line++

		if len(record) < 3 {
			return nil, fmt.Errorf("line %d: expected at least 3 fields, got %d", line, len(record))
		}

		date, err := parseCSVDate(record[0])
		if err != nil {
			if line == 1 {
				// Header row
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		description := strings.TrimSpace(record[1])
		if description == "" {
			return nil, fmt.Errorf("line %d: description is empty", line)
		}

		amount, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(record[2]), ",", ""), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: invalid amount %q", line, record[2])
		}

		txn := model.Transaction{
			ID:          uuid.NewString(),
			Date:        date,
			Description: description,
			Amount:      amount,
			UserID:      userID,
		}
		txn.Hash = txn.GenerateHash()
		transactions = append(transactions, txn)
	}

	return transactions, nil
}

func parseCSVDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range csvDateFormats {
		if date, err := time.Parse(format, value); err == nil {
			return date, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}
