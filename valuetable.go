package candb

// ValueTable is a named mapping from integer code to display string, used
// to label enumerated signal values.
type ValueTable struct {
	Name   string
	Values map[int64]string
}

// NewValueTable creates an empty, named ValueTable.
func NewValueTable(name string) *ValueTable {
	return &ValueTable{
		Name:   name,
		Values: make(map[int64]string),
	}
}
