// Package statement parses uploaded bank statements into transactions.
package statement

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Veraticus/the-ledger-must-flow/internal/model"
)

// Parser converts one statement format into transactions owned by a user.
type Parser interface {
	Parse(ctx context.Context, reader io.Reader, userID string) ([]model.Transaction, error)
}

// ForFile picks a parser based on the file extension.
func ForFile(path string) (Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ofx", ".qfx":
		return NewOFXParser(), nil
	case ".csv":
		return NewCSVParser(), nil
	default:
		return nil, fmt.Errorf("unsupported statement format: %s", filepath.Ext(path))
	}
}
