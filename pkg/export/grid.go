package export

// Grid defines tabular timetable content: a header row followed by one row
// per time slot. Each data cell holds zero or more entries; an entry may
// span multiple lines.
type Grid struct {
	Headers []string
	Rows    []GridRow
}

// GridRow is a single time-slot row: a label plus one cell per day column.
type GridRow struct {
	Label string
	Cells [][]string
}
