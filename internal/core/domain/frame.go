package domain

// Frame is the tabular structure raw records travel in between the data
// access layer, ingestion and validation. Cells keep their textual form;
// typing happens in validation and transformation.
type Frame struct {
	Columns []string
	Rows    [][]string
}

func (f *Frame) Len() int {
	return len(f.Rows)
}

// Index returns the position of the named column or -1.
func (f *Frame) Index(name string) int {
	for i, c := range f.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

func (f *Frame) HasColumn(name string) bool {
	return f.Index(name) >= 0
}

// Column returns a copy of the named column's cells, or nil if absent.
func (f *Frame) Column(name string) []string {
	idx := f.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]string, len(f.Rows))
	for i, row := range f.Rows {
		if idx < len(row) {
			out[i] = row[idx]
		}
	}
	return out
}

// Drop returns a new frame without the named columns. Unknown names are ignored.
func (f *Frame) Drop(names ...string) *Frame {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	out := &Frame{}
	for i, c := range f.Columns {
		if drop[c] {
			continue
		}
		keep = append(keep, i)
		out.Columns = append(out.Columns, c)
	}

	out.Rows = make([][]string, len(f.Rows))
	for r, row := range f.Rows {
		nr := make([]string, len(keep))
		for j, idx := range keep {
			if idx < len(row) {
				nr[j] = row[idx]
			}
		}
		out.Rows[r] = nr
	}
	return out
}

// Take returns a new frame holding the rows at the given positions, in order.
func (f *Frame) Take(rows []int) *Frame {
	out := &Frame{
		Columns: append([]string(nil), f.Columns...),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, r := range rows {
		out.Rows = append(out.Rows, append([]string(nil), f.Rows[r]...))
	}
	return out
}

// Record returns row r as a column -> value map.
func (f *Frame) Record(r int) map[string]string {
	rec := make(map[string]string, len(f.Columns))
	for i, c := range f.Columns {
		if i < len(f.Rows[r]) {
			rec[c] = f.Rows[r][i]
		}
	}
	return rec
}
