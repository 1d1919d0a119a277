package bdl

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Territorial hierarchy level codes used by BDL. The codes are not
// contiguous: level 4 (subregion) is an internal tier that may be absent
// between voivodeship and district depending on the branch of the tree.
const (
	LevelVoivodeship = 2
	LevelSubregion   = 4
	LevelDistrict    = 5
	LevelCommune     = 6
)

// Unit is a territorial unit (voivodeship, district, commune, ...).
// The Level field comes from list responses and is known to be unreliable
// there; callers that depend on it must re-verify after every fetch.
type Unit struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	ParentID string `json:"parentId"`
	Level    int    `json:"level"`
	Kind     string `json:"kind"`
}

// Variable is a statistical indicator. The display name is split across
// the ordered segments N1..N5, most specific last.
type Variable struct {
	ID              int    `json:"id"`
	SubjectID       string `json:"subjectId"`
	N1              string `json:"n1"`
	N2              string `json:"n2"`
	N3              string `json:"n3"`
	N4              string `json:"n4"`
	N5              string `json:"n5"`
	Level           int    `json:"level"`
	MeasureUnitID   int    `json:"measureUnitId"`
	MeasureUnitName string `json:"measureUnitName"`
}

// FullName joins the non-empty name segments into one display label.
func (v Variable) FullName() string {
	segments := make([]string, 0, 5)
	for _, s := range []string{v.N1, v.N2, v.N3, v.N4, v.N5} {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return strings.Join(segments, " - ")
}

// Subject is a data category node in the BDL subject tree.
type Subject struct {
	ID       string   `json:"id"`
	ParentID string   `json:"parentId"`
	Name     string   `json:"name"`
	HasVars  bool     `json:"hasVariables"`
	Children []string `json:"children"`
}

// YearValue is a single measurement. Value is nil when the source reports
// no measurement for that year (null val), which is distinct from zero.
type YearValue struct {
	Year        int
	Value       *float64
	AttributeID int
}

// UnmarshalJSON tolerates the two year encodings BDL uses: a JSON string
// ("2022") on data endpoints and a bare number on some listings.
func (yv *YearValue) UnmarshalJSON(data []byte) error {
	var wire struct {
		Year   json.RawMessage `json:"year"`
		Val    *float64        `json:"val"`
		AttrID int             `json:"attrId"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("decode value record: %w", err)
	}

	yearStr := strings.Trim(string(wire.Year), `"`)
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return fmt.Errorf("parse year %q: %w", yearStr, err)
	}

	yv.Year = year
	yv.Value = wire.Val
	yv.AttributeID = wire.AttrID
	return nil
}

// VariableValues is one entry of a by-unit data response: a variable id
// with its value sequence for the queried unit (variable-major shape).
type VariableValues struct {
	VariableID    int         `json:"id"`
	MeasureUnitID int         `json:"measureUnitId"`
	Values        []YearValue `json:"values"`
}

// UnitValues is one entry of a by-variable data response: a unit with its
// value sequence for the queried variable (unit-major shape).
type UnitValues struct {
	UnitID   string      `json:"id"`
	UnitName string      `json:"name"`
	Values   []YearValue `json:"values"`
}

// Paged response envelopes. The Gateway issues exactly one request per
// call and never follows the links block; callers keep result sets below
// one page by pre-filtering (see ListUnitsOptions.PageSize).

type unitsEnvelope struct {
	TotalRecords int    `json:"totalRecords"`
	Page         int    `json:"page"`
	PageSize     int    `json:"pageSize"`
	Results      []Unit `json:"results"`
}

type variablesEnvelope struct {
	TotalRecords int        `json:"totalRecords"`
	Page         int        `json:"page"`
	PageSize     int        `json:"pageSize"`
	Results      []Variable `json:"results"`
}

type subjectsEnvelope struct {
	TotalRecords int       `json:"totalRecords"`
	Page         int       `json:"page"`
	PageSize     int       `json:"pageSize"`
	Results      []Subject `json:"results"`
}

type dataByUnitEnvelope struct {
	TotalRecords int              `json:"totalRecords"`
	UnitID       string           `json:"unitId"`
	UnitName     string           `json:"unitName"`
	Results      []VariableValues `json:"results"`
}

type dataByVariableEnvelope struct {
	TotalRecords  int          `json:"totalRecords"`
	VariableID    int          `json:"variableId"`
	MeasureUnitID int          `json:"measureUnitId"`
	Results       []UnitValues `json:"results"`
}
