// Package export renders the unified dataset to CSV and XML. Both
// serializers are pure functions of the dataset and the query context;
// they perform no I/O and produce byte-identical output for identical
// input.
package export

import (
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkarczewski/bdl-client/pkg/dataset"
	"github.com/pkarczewski/bdl-client/pkg/query"
)

// Orientation selects the CSV layout.
type Orientation string

const (
	// OrientationUnitRows lays out rows as (unit, year) tuples with one
	// column per variable. The only layout that fits a multi-unit
	// dataset: a unit/year/variable cube cannot flatten to a 2-D grid
	// without choosing two of the three axes as columns.
	OrientationUnitRows Orientation = "units"

	// OrientationYearRows lays out years as rows and variables as
	// columns. Single-unit datasets only.
	OrientationYearRows Orientation = "years"

	// OrientationVariableRows lays out variables as rows and years as
	// columns. Single-unit datasets only.
	OrientationVariableRows Orientation = "variables"
)

// ToCSV renders the dataset as CSV in the given orientation. Rows follow
// dataset unit order, years follow query year order, and variable
// columns follow query variable order, so output is deterministic.
// Missing cells render as explicit empty strings; the grid stays
// rectangular.
func ToCSV(ds *dataset.Dataset, q query.Query, orientation Orientation) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	var err error
	switch orientation {
	case OrientationUnitRows:
		err = writeUnitRows(w, ds, q)
	case OrientationYearRows:
		err = writeYearRows(w, ds, q)
	case OrientationVariableRows:
		err = writeVariableRows(w, ds, q)
	default:
		return "", fmt.Errorf("unknown orientation %q", orientation)
	}
	if err != nil {
		return "", err
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("write csv: %w", err)
	}
	return sb.String(), nil
}

func writeUnitRows(w *csv.Writer, ds *dataset.Dataset, q query.Query) error {
	header := []string{"UnitId", "UnitName", "Year"}
	for _, v := range q.Variables {
		header = append(header, variableLabel(v.FullName(), v.ID))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, unit := range ds.Units() {
		for _, year := range q.Years {
			row := []string{unit.ID, unit.Name, strconv.Itoa(year)}
			for _, v := range q.Variables {
				row = append(row, cell(unit, v.ID, year))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeYearRows(w *csv.Writer, ds *dataset.Dataset, q query.Query) error {
	header := []string{"Year"}
	for _, v := range q.Variables {
		header = append(header, variableLabel(v.FullName(), v.ID))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	unit := firstUnit(ds)
	for _, year := range q.Years {
		row := []string{strconv.Itoa(year)}
		for _, v := range q.Variables {
			row = append(row, cell(unit, v.ID, year))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeVariableRows(w *csv.Writer, ds *dataset.Dataset, q query.Query) error {
	header := []string{"Variable"}
	for _, year := range q.Years {
		header = append(header, strconv.Itoa(year))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	unit := firstUnit(ds)
	for _, v := range q.Variables {
		row := []string{variableLabel(v.FullName(), v.ID)}
		for _, year := range q.Years {
			row = append(row, cell(unit, v.ID, year))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func firstUnit(ds *dataset.Dataset) *dataset.UnitData {
	if ds.Len() == 0 {
		return nil
	}
	return ds.Units()[0]
}

func cell(unit *dataset.UnitData, variableID, year int) string {
	if unit == nil {
		return ""
	}
	v, ok := unit.Value(variableID, year)
	if !ok {
		return ""
	}
	return formatValue(v)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// variableLabel falls back to a safe placeholder when metadata carries no
// name segments, so export always completes.
func variableLabel(name string, id int) string {
	if name == "" {
		return fmt.Sprintf("variable %d", id)
	}
	return name
}
