package export

// Table is tabular export content: an optional title, a header row and
// ordered body rows. Row order is owned by the caller; exporters never
// re-sort.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
