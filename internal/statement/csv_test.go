package statement

import (
	"context"
	"strings"
	"testing"
	"time"
)

func TestCSVParserParse(t *testing.T) {
	input := `date,description,amount
2026-04-01,AMAZON PURCHASE,-42.50
2026-04-02,PAYROLL DEPOSIT,"1,250.00"
02/04/2026,COFFEE SHOP,-4.80
`

	parser := NewCSVParser()
	txns, err := parser.Parse(context.Background(), strings.NewReader(input), "alice")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(txns) != 3 {
		t.Fatalf("Expected 3 transactions, got %d", len(txns))
	}

	first := txns[0]
	if first.Description != "AMAZON PURCHASE" {
		t.Errorf("Description = %q", first.Description)
	}
	if first.Amount != -42.50 {
		t.Errorf("Amount = %v", first.Amount)
	}
	if !first.Date.Equal(time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Date = %v", first.Date)
	}
	if first.UserID != "alice" {
		t.Errorf("UserID = %q", first.UserID)
	}
	if first.ID == "" || first.Hash == "" {
		t.Error("Expected ID and hash to be populated")
	}

	if txns[1].Amount != 1250.00 {
		t.Errorf("Thousands separator not handled: %v", txns[1].Amount)
	}
}

func TestCSVParserNoHeader(t *testing.T) {
	input := "2026-04-01,AMAZON PURCHASE,-42.50\n"

	parser := NewCSVParser()
	txns, err := parser.Parse(context.Background(), strings.NewReader(input), "alice")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(txns) != 1 {
		t.Errorf("Expected 1 transaction, got %d", len(txns))
	}
}

func TestCSVParserErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{
			name:  "too few fields",
			input: "2026-04-01,AMAZON\n",
		},
		{
			name:  "bad date past header",
			input: "date,description,amount\nnot-a-date,AMAZON,-1.00\n",
		},
		{
			name:  "empty description",
			input: "2026-04-01,   ,-1.00\n",
		},
		{
			name:  "invalid amount",
			input: "2026-04-01,AMAZON,lots\n",
		},
	}

	parser := NewCSVParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parser.Parse(context.Background(), strings.NewReader(tt.input), "alice"); err == nil {
				t.Error("Expected parse error")
			}
		})
	}
}

func TestCSVParserEmptyInput(t *testing.T) {
	parser := NewCSVParser()
	txns, err := parser.Parse(context.Background(), strings.NewReader(""), "alice")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(txns) != 0 {
		t.Errorf("Expected no transactions, got %d", len(txns))
	}
}

func TestForFile(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"statement.ofx", false},
		{"statement.QFX", false},
		{"statement.csv", false},
		{"statement.pdf", true},
		{"statement", true},
	}

	for _, tt := range tests {
		_, err := ForFile(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ForFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}
