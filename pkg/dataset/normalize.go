package dataset

import (
	"github.com/pkarczewski/bdl-client/pkg/bdl"
)

// AddVariableValues ingests a variable-major (by-unit) response: every
// variable's value sequence is flattened onto the single queried unit,
// each record tagged with its source variable id. Null measurements
// produce no record, so the cell stays empty on export.
func (d *Dataset) AddVariableValues(unit bdl.Unit, results []bdl.VariableValues) {
	if len(results) > 0 {
		d.ensure(unit.ID, unit.Name)
	}
	for _, vv := range results {
		d.addValues(unit.ID, unit.Name, vv.VariableID, vv.Values)
	}
}

// AddUnitValues ingests a unit-major (by-variable) response, pivoting it
// into the unit-keyed model: for every (unit, value) pair the unit entry
// is found or created by id, then the tagged record appended. This is the
// inversion that lets every downstream consumer work off one shape.
func (d *Dataset) AddUnitValues(variableID int, results []bdl.UnitValues) {
	for _, uv := range results {
		d.addValues(uv.UnitID, uv.UnitName, variableID, uv.Values)
	}
}

func (d *Dataset) addValues(unitID, unitName string, variableID int, values []bdl.YearValue) {
	for _, yv := range values {
		if yv.Value == nil {
			continue
		}
		d.Add(unitID, unitName, ValueRecord{
			VariableID:  variableID,
			Year:        yv.Year,
			Value:       *yv.Value,
			AttributeID: yv.AttributeID,
		})
	}
}
