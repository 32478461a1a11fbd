package extract

import (
	"github.com/tsawler/deckschema/node"
	"github.com/tsawler/deckschema/schema"
)

var tableTypes = []node.Type{node.TypeTable}

// TableExtractor handles table graphic frames.
type TableExtractor struct{}

func (e *TableExtractor) Info() Info {
	return Info{Name: "table", Version: "1.0", Types: tableTypes, Complexity: Simple}
}

func (e *TableExtractor) CanHandle(n node.Shape) bool {
	_, ok := n.(node.TableShape)
	return ok && hasType(n, tableTypes)
}

func (e *TableExtractor) Extract(n node.Shape, c *Context) Result {
	return run("table", n, c, func() (*schema.Shape, error) {
		ts, ok := n.(node.TableShape)
		if !ok || !hasType(n, tableTypes) {
			return nil, ErrCannotHandle
		}
		s, err := commonShape(n, schema.ShapeTypeTable)
		if err != nil {
			return nil, err
		}
		tbl, err := ts.Table()
		if err != nil {
			return nil, err
		}
		s.TableProperties = tableProperties(tbl)
		return s, nil
	})
}

func tableProperties(tbl *node.Table) *schema.TableProperties {
	tp := &schema.TableProperties{
		ColumnWidths: make([]int64, 0),
		Rows:         make([]schema.TableRow, 0),
	}
	if tbl == nil {
		return tp
	}
	tp.Style = tbl.Style
	tp.ColumnWidths = append(tp.ColumnWidths, tbl.Columns...)
	tp.RowCount = len(tbl.Rows)
	tp.ColumnCount = len(tbl.Columns)

	for _, row := range tbl.Rows {
		out := schema.TableRow{Height: row.Height, Cells: make([]schema.TableCell, 0, len(row.Cells))}
		for _, cell := range row.Cells {
			out.Cells = append(out.Cells, schema.TableCell{
				Text:    cell.Text,
				RowSpan: max(cell.RowSpan, 1),
				ColSpan: max(cell.ColSpan, 1),
				Merged:  cell.HMerge || cell.VMerge,
				Fill:    FillOf(cell.Fill),
			})
		}
		// Tables without a grid still report their widest row.
		if len(row.Cells) > tp.ColumnCount {
			tp.ColumnCount = len(row.Cells)
		}
		tp.Rows = append(tp.Rows, out)
	}
	return tp
}
