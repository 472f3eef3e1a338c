package table

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON serializes the grid as its persisted value: the ordered row
// list. Columns are part of the template and are not duplicated per row.
func (g Grid) MarshalJSON() ([]byte, error) {
	rows := g.Rows
	if rows == nil {
		rows = []Row{}
	}
	return json.Marshal(rows)
}

// DecodeRows parses a persisted table value back into rows. Pass the result
// to Load together with the current schema to reconcile cells against the
// column set.
func DecodeRows(data []byte) ([]Row, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var rows []Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("table: decode rows: %w", err)
	}
	return rows, nil
}

// RowsFromValue normalizes a table field's answer value into rows. Live
// values arrive as []Row or a Grid; values loaded back from persistence
// arrive in the generic shape json.Unmarshal produces for the exported
// `[{id, cells}]` payload. Anything else is not a row list and yields nil.
func RowsFromValue(value any) []Row {
	switch v := value.(type) {
	case nil:
		return nil
	case []Row:
		return v
	case Grid:
		return v.Rows
	case []map[string]any:
		rows := make([]Row, 0, len(v))
		for _, entry := range v {
			rows = append(rows, rowFromMap(entry))
		}
		return rows
	case []any:
		rows := make([]Row, 0, len(v))
		for _, entry := range v {
			m, ok := entry.(map[string]any)
			if !ok {
				return nil
			}
			rows = append(rows, rowFromMap(m))
		}
		return rows
	default:
		return nil
	}
}

func rowFromMap(m map[string]any) Row {
	row := Row{Cells: map[string]any{}}
	if id, ok := m["id"].(string); ok {
		row.ID = id
	}
	if cells, ok := m["cells"].(map[string]any); ok {
		row.Cells = cells
	}
	return row
}
