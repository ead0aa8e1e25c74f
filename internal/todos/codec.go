package todos

import (
	"encoding/json"
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// DeserializationError reports a stored value that is not a well-formed list.
type DeserializationError struct {
	Key string
	Err error
}

func (e *DeserializationError) Error() string {
	return fmt.Sprintf("malformed value at %q: %v", e.Key, e.Err)
}

func (e *DeserializationError) Unwrap() error { return e.Err }

// Encode serializes items as a JSON array of {id,name,complete} records.
// A nil slice is written as [] so the slot always holds a list.
func Encode(items []model.Item) ([]byte, error) {
	if items == nil {
		items = []model.Item{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("json marshal: %w", err)
	}
	return b, nil
}

// Decode parses a stored value. JSON null decodes to an empty list; records
// with an empty or repeated id are rejected.
func Decode(b []byte) ([]model.Item, error) {
	var items []model.Item
	if err := json.Unmarshal(b, &items); err != nil {
		return nil, fmt.Errorf("json unmarshal: %w", err)
	}
	if items == nil {
		return []model.Item{}, nil
	}
	seen := make(map[string]struct{}, len(items))
	for i, it := range items {
		if it.ID == "" {
			return nil, fmt.Errorf("item %d: empty id", i)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("item %d: duplicate id %q", i, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return items, nil
}
