package postgres

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/awaisahmed1123/hadeedcart-backend/internal/domain"
)

// scanner is satisfied by pgx.Row and pgx.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// validID reports whether id can be compared against a UUID column. Lookups
// with malformed ids are answered as not found instead of a SQL error.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func marshalJSON(what string, v any) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal %s: %w", what, err)
	}
	return b, nil
}

func unmarshalJSON(what string, data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}

// imageJSON encodes an optional image, storing SQL NULL when absent.
func imageJSON(what string, img *domain.Image) ([]byte, error) {
	if img == nil {
		return nil, nil
	}
	return marshalJSON(what, img)
}
