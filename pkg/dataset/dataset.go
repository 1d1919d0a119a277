// Package dataset defines the unified tabular model every fetch produces,
// regardless of which axis the remote source grouped by, plus the pivot
// that builds it from the two raw response shapes.
package dataset

// ValueRecord is one measurement, explicitly tagged with its source
// variable: once results are pivoted to unit-major order, list position
// no longer identifies the variable.
type ValueRecord struct {
	VariableID  int
	Year        int
	Value       float64
	AttributeID int
}

// UnitData holds the ordered records of one territorial unit.
type UnitData struct {
	ID      string
	Name    string
	Records []ValueRecord
}

// record returns the record for (variableID, year), or nil.
func (u *UnitData) record(variableID, year int) *ValueRecord {
	for i := range u.Records {
		if u.Records[i].VariableID == variableID && u.Records[i].Year == year {
			return &u.Records[i]
		}
	}
	return nil
}

// Value returns the value for (variableID, year) and whether it exists.
func (u *UnitData) Value(variableID, year int) (float64, bool) {
	if r := u.record(variableID, year); r != nil {
		return r.Value, true
	}
	return 0, false
}

// Dataset is the unified model: an ordered set of units, each owning an
// ordered record sequence. Unit order is first-seen order across the raw
// results that built the dataset; no sorting is imposed here.
type Dataset struct {
	units []*UnitData
	index map[string]*UnitData
}

// New creates an empty dataset.
func New() *Dataset {
	return &Dataset{
		index: make(map[string]*UnitData),
	}
}

// ensure find-or-creates a unit entry, preserving first-seen order.
func (d *Dataset) ensure(unitID, unitName string) *UnitData {
	unit, ok := d.index[unitID]
	if !ok {
		unit = &UnitData{ID: unitID, Name: unitName}
		d.index[unitID] = unit
		d.units = append(d.units, unit)
	}
	if unit.Name == "" {
		unit.Name = unitName
	}
	return unit
}

// Add appends a record to the unit with the given id, creating the unit
// entry on first sight. A duplicate (variable, year) for the same unit is
// not expected from the source; when one arrives anyway the later value
// overwrites the earlier in place (last-write-wins by arrival order).
func (d *Dataset) Add(unitID, unitName string, rec ValueRecord) {
	unit := d.ensure(unitID, unitName)

	if existing := unit.record(rec.VariableID, rec.Year); existing != nil {
		*existing = rec
		return
	}
	unit.Records = append(unit.Records, rec)
}

// Units returns the units in first-seen order.
func (d *Dataset) Units() []*UnitData {
	return d.units
}

// Unit returns the entry for the given unit id, or nil.
func (d *Dataset) Unit(id string) *UnitData {
	return d.index[id]
}

// Len returns the number of units.
func (d *Dataset) Len() int {
	return len(d.units)
}

// IsEmpty reports whether the dataset holds no records at all. An empty
// dataset is the legitimate "no data" terminal state, distinct from a
// transport failure.
func (d *Dataset) IsEmpty() bool {
	for _, u := range d.units {
		if len(u.Records) > 0 {
			return false
		}
	}
	return true
}
