// Package table implements the row/column engine backing table and matrix
// fields. A Grid pairs a column schema with the rows entered against it and
// maintains the structural invariant that every row holds exactly one cell
// per declared column. Grids are values: operations return an updated Grid
// and never mutate the receiver's rows, so snapshots handed to renderers or
// persistence stay stable.
package table

import (
	"strings"

	"github.com/google/uuid"

	"github.com/goliatone/go-crf/pkg/template"
)

// Row is one line of a table field's value: an opaque id plus a cell per
// column, keyed by column id. Cell maps are never shared between rows.
type Row struct {
	ID    string         `json:"id"`
	Cells map[string]any `json:"cells"`
}

// Grid is the live state of one table/matrix field instance.
type Grid struct {
	Columns         []template.Column
	Rows            []Row
	AllowAddRows    bool
	AllowDeleteRows bool
}

// New builds a Grid from a table schema, seeding the schema's default row
// count with empty cells.
func New(schema template.TableSchema) Grid {
	grid := Grid{
		Columns:         append([]template.Column(nil), schema.Columns...),
		AllowAddRows:    schema.AllowAddRows,
		AllowDeleteRows: schema.AllowDeleteRows,
	}
	return grid.AddRows(schema.DefaultRows)
}

// Load builds a Grid from a schema plus previously persisted rows. Rows are
// reconciled against the column set: missing cells gain the column default,
// cells for dropped columns are stripped.
func Load(schema template.TableSchema, rows []Row) Grid {
	grid := Grid{
		Columns:         append([]template.Column(nil), schema.Columns...),
		AllowAddRows:    schema.AllowAddRows,
		AllowDeleteRows: schema.AllowDeleteRows,
	}
	grid.Rows = make([]Row, 0, len(rows))
	for _, row := range rows {
		id := row.ID
		if strings.TrimSpace(id) == "" {
			id = newRowID()
		}
		cells := make(map[string]any, len(grid.Columns))
		for _, column := range grid.Columns {
			if value, ok := row.Cells[column.ID]; ok {
				cells[column.ID] = value
			} else {
				cells[column.ID] = defaultCell(column)
			}
		}
		grid.Rows = append(grid.Rows, Row{ID: id, Cells: cells})
	}
	return grid
}

// AddRow appends a row holding the default cell for every current column and
// returns the updated grid along with the created row.
func (g Grid) AddRow() (Grid, Row) {
	row := Row{
		ID:    newRowID(),
		Cells: make(map[string]any, len(g.Columns)),
	}
	for _, column := range g.Columns {
		row.Cells[column.ID] = defaultCell(column)
	}
	out := g
	out.Rows = append(append([]Row(nil), g.Rows...), row)
	return out, row
}

// AddRows appends n default rows; the quick-fill path. Non-positive counts
// are a no-op.
func (g Grid) AddRows(n int) Grid {
	out := g
	for i := 0; i < n; i++ {
		out, _ = out.AddRow()
	}
	return out
}

// RemoveRow drops the addressed row. Unknown ids are a silent no-op.
func (g Grid) RemoveRow(rowID string) Grid {
	for idx, row := range g.Rows {
		if row.ID != rowID {
			continue
		}
		out := g
		out.Rows = make([]Row, 0, len(g.Rows)-1)
		out.Rows = append(out.Rows, g.Rows[:idx]...)
		out.Rows = append(out.Rows, g.Rows[idx+1:]...)
		return out
	}
	return g
}

// DuplicateRow deep-copies the addressed row's cells under a new row id,
// appended at the end. All other rows are untouched.
func (g Grid) DuplicateRow(rowID string) (Grid, Row) {
	for _, row := range g.Rows {
		if row.ID != rowID {
			continue
		}
		dup := Row{
			ID:    newRowID(),
			Cells: cloneCells(row.Cells),
		}
		out := g
		out.Rows = append(append([]Row(nil), g.Rows...), dup)
		return out, dup
	}
	return g, Row{}
}

// SetCell replaces exactly one cell. The target row's cell map is copied
// before the write, so the prior grid value and every other row keep
// independent state. Unknown row or column ids are a silent no-op.
func (g Grid) SetCell(rowID, columnID string, value any) Grid {
	if !g.hasColumn(columnID) {
		return g
	}
	for idx, row := range g.Rows {
		if row.ID != rowID {
			continue
		}
		updated := Row{ID: row.ID, Cells: cloneCells(row.Cells)}
		updated.Cells[columnID] = value

		out := g
		out.Rows = make([]Row, len(g.Rows))
		copy(out.Rows, g.Rows)
		out.Rows[idx] = updated
		return out
	}
	return g
}

// Cell reads one cell value.
func (g Grid) Cell(rowID, columnID string) (any, bool) {
	for _, row := range g.Rows {
		if row.ID == rowID {
			value, ok := row.Cells[columnID]
			return value, ok
		}
	}
	return nil, false
}

// AddColumn appends the column to the schema and, in the same step, adds its
// default cell to every existing row. An empty column id is assigned a fresh
// one; a duplicate id is a silent no-op.
func (g Grid) AddColumn(column template.Column) (Grid, template.Column) {
	if strings.TrimSpace(column.ID) == "" {
		column.ID = template.NewColumnID()
	}
	if g.hasColumn(column.ID) {
		return g, template.Column{}
	}

	out := g
	out.Columns = append(append([]template.Column(nil), g.Columns...), column)
	out.Rows = make([]Row, len(g.Rows))
	for idx, row := range g.Rows {
		cells := cloneCells(row.Cells)
		cells[column.ID] = defaultCell(column)
		out.Rows[idx] = Row{ID: row.ID, Cells: cells}
	}
	return out, column
}

// RemoveColumn drops the column and strips its cell from every row. Removing
// the last remaining column is refused; the unchanged grid signals the no-op.
func (g Grid) RemoveColumn(columnID string) Grid {
	if len(g.Columns) <= 1 {
		return g
	}
	target := -1
	for idx, column := range g.Columns {
		if column.ID == columnID {
			target = idx
			break
		}
	}
	if target < 0 {
		return g
	}

	out := g
	out.Columns = make([]template.Column, 0, len(g.Columns)-1)
	out.Columns = append(out.Columns, g.Columns[:target]...)
	out.Columns = append(out.Columns, g.Columns[target+1:]...)
	out.Rows = make([]Row, len(g.Rows))
	for idx, row := range g.Rows {
		cells := cloneCells(row.Cells)
		delete(cells, columnID)
		out.Rows[idx] = Row{ID: row.ID, Cells: cells}
	}
	return out
}

// UpdateColumn patches the column definition in place. Existing cell values
// are deliberately untouched even when the declared type changes; stale
// values surface on the next edit rather than being coerced or cleared.
func (g Grid) UpdateColumn(columnID string, patch template.ColumnPatch) Grid {
	for idx, column := range g.Columns {
		if column.ID != columnID {
			continue
		}
		if patch.Label != nil {
			column.Label = *patch.Label
		}
		if patch.Type != nil {
			column.Type = *patch.Type
		}
		if patch.Required != nil {
			column.Required = *patch.Required
		}
		if patch.Options != nil {
			column.Options = append([]template.Option(nil), patch.Options...)
		}
		if patch.Width != nil {
			column.Width = *patch.Width
		}
		out := g
		out.Columns = make([]template.Column, len(g.Columns))
		copy(out.Columns, g.Columns)
		out.Columns[idx] = column
		return out
	}
	return g
}

func (g Grid) hasColumn(columnID string) bool {
	for _, column := range g.Columns {
		if column.ID == columnID {
			return true
		}
	}
	return false
}

func defaultCell(column template.Column) any {
	if column.Type == template.ColumnCheckbox {
		return false
	}
	return ""
}

func cloneCells(cells map[string]any) map[string]any {
	out := make(map[string]any, len(cells))
	for key, value := range cells {
		out[key] = value
	}
	return out
}

func newRowID() string {
	return "row-" + uuid.NewString()
}
