package table

import (
	"bytes"
	"encoding/json"
	"fmt"

	"chartcraft/internal/common/models"
)

// parseJSON accepts an array of objects or a single object, which is treated
// as a one-row array.
func parseJSON(data []byte) ([]models.Row, []string, error) {
	data = bytes.TrimSpace(bytes.TrimPrefix(data, utf8BOM))
	if !json.Valid(data) {
		return nil, nil, fmt.Errorf("%w: invalid JSON", ErrMalformedInput)
	}

	var items []json.RawMessage
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrMalformedInput, err)
		}
	case '{':
		items = []json.RawMessage{data}
	default:
		return nil, nil, fmt.Errorf("%w: top-level JSON value must be an object or an array", ErrMalformedInput)
	}

	rows := make([]models.Row, 0, len(items))
	var keys []string
	for i, item := range items {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, nil, fmt.Errorf("%w: element %d is not an object", ErrMalformedInput, i)
		}
		var row models.Row
		if err := json.Unmarshal(item, &row); err != nil {
			return nil, nil, fmt.Errorf("%w: element %d: %v", ErrMalformedInput, i, err)
		}
		if i == 0 {
			k, err := objectKeys(item)
			if err != nil {
				return nil, nil, fmt.Errorf("%w: element 0: %v", ErrMalformedInput, err)
			}
			keys = uniqueKeys(k)
		}
		rows = append(rows, row)
	}
	return rows, keys, nil
}

// objectKeys lists the keys of a JSON object in document order.
func objectKeys(raw []byte) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	var keys []string
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("unexpected token %v", tok)
		}
		keys = append(keys, key)
		var skip json.RawMessage
		if err := dec.Decode(&skip); err != nil {
			return nil, err
		}
	}
	return keys, nil
}
