package report

// Field is one cell of an output row.
type Field struct {
	Key   string
	Value any
}

// Row is one ordered line of a destination table. The field order is the
// column order of the sheet; empty cells hold the empty string so every row of
// a table keeps the same shape.
type Row []Field

// Get returns the value stored under key, or nil when the row has no such
// column.
func (r Row) Get(key string) any {
	for _, f := range r {
		if f.Key == key {
			return f.Value
		}
	}

	return nil
}

// Keys returns the column names in order.
func (r Row) Keys() []string {
	keys := make([]string, len(r))
	for i, f := range r {
		keys[i] = f.Key
	}

	return keys
}

// stepColumns is the fixed schema of the steps table. Every dispatched row
// carries all of these columns, in this order.
var stepColumns = []string{
	"RunCycleNumber",
	"BlockType",
	"Antigen",
	"Channel",
	"Magnification",
	"Clone",
	"DilutionFactor",
	"IncubationTime",
	"ReagentExposure",
	"Coefficient",
	"ActualExposure",
	"ErasingMethod",
	"BleachingEnergy",
	"ValidatedFor",
	"Antibody",
	"AntibodyType",
	"HostSpecies",
	"Isotype",
	"Manufacturer",
	"OrderNumber",
	"Species",
	"Name",
}

// newStepRow lays values out on the fixed step schema; columns without a value
// hold the empty string.
func newStepRow(values map[string]any) Row {
	row := make(Row, 0, len(stepColumns))
	for _, col := range stepColumns {
		val, ok := values[col]
		if !ok || val == nil {
			val = ""
		}
		row = append(row, Field{Key: col, Value: val})
	}

	return row
}

// blankRow builds a row with the given columns and every value empty.
func blankRow(keys []string) Row {
	row := make(Row, len(keys))
	for i, key := range keys {
		row[i] = Field{Key: key, Value: ""}
	}

	return row
}
