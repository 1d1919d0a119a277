package export

import (
	"encoding/xml"
	"fmt"
	"time"

	"github.com/pkarczewski/bdl-client/pkg/dataset"
	"github.com/pkarczewski/bdl-client/pkg/query"
)

// Scope values of the XML document.
const (
	scopeSingleUnit = "single-unit"
	scopeMultiUnit  = "multi-unit"
)

type xmlDocument struct {
	XMLName   xml.Name      `xml:"statisticalData"`
	Metadata  xmlMetadata   `xml:"metadata"`
	Variables []xmlVariable `xml:"variables>variable"`
	Results   xmlResults    `xml:"results"`
}

type xmlMetadata struct {
	Scope        string `xml:"scope"`
	RootUnitID   string `xml:"rootUnitId"`
	RootUnitName string `xml:"rootUnitName"`
	GeneratedAt  string `xml:"generatedAt"`
}

type xmlVariable struct {
	ID          int    `xml:"id,attr"`
	Name        string `xml:"name"`
	MeasureUnit string `xml:"measureUnit,omitempty"`
}

type xmlResults struct {
	// Records is the flat variable/year list of a single-unit scope.
	Records []xmlRecord `xml:"record,omitempty"`

	// Units nests records per unit in a multi-unit scope.
	Units []xmlUnit `xml:"unit,omitempty"`
}

type xmlUnit struct {
	ID      string      `xml:"id,attr"`
	Name    string      `xml:"name,attr"`
	Records []xmlRecord `xml:"record"`
}

type xmlRecord struct {
	VariableID  int    `xml:"variableId,attr"`
	Year        int    `xml:"year,attr"`
	AttributeID int    `xml:"attributeId,attr,omitempty"`
	Value       string `xml:",chardata"`
}

// ToXML renders the dataset as the export XML document. All text content
// is escaped by the encoder. The generation timestamp is a parameter so
// that identical input always yields byte-identical output.
func ToXML(ds *dataset.Dataset, q query.Query, generatedAt time.Time) (string, error) {
	scope := scopeSingleUnit
	if q.MultiUnit() {
		scope = scopeMultiUnit
	}

	doc := xmlDocument{
		Metadata: xmlMetadata{
			Scope:        scope,
			RootUnitID:   q.RootUnit.ID,
			RootUnitName: unitLabel(q.RootUnit.Name, q.RootUnit.ID),
			GeneratedAt:  generatedAt.UTC().Format(time.RFC3339),
		},
	}

	for _, v := range q.Variables {
		doc.Variables = append(doc.Variables, xmlVariable{
			ID:          v.ID,
			Name:        variableLabel(v.FullName(), v.ID),
			MeasureUnit: v.MeasureUnitName,
		})
	}

	if scope == scopeSingleUnit {
		if unit := firstUnit(ds); unit != nil {
			doc.Results.Records = unitRecords(unit)
		}
	} else {
		for _, unit := range ds.Units() {
			doc.Results.Units = append(doc.Results.Units, xmlUnit{
				ID:      unit.ID,
				Name:    unitLabel(unit.Name, unit.ID),
				Records: unitRecords(unit),
			})
		}
	}

	out, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal xml: %w", err)
	}
	return xml.Header + string(out) + "\n", nil
}

func unitRecords(unit *dataset.UnitData) []xmlRecord {
	records := make([]xmlRecord, 0, len(unit.Records))
	for _, r := range unit.Records {
		records = append(records, xmlRecord{
			VariableID:  r.VariableID,
			Year:        r.Year,
			AttributeID: r.AttributeID,
			Value:       formatValue(r.Value),
		})
	}
	return records
}

// unitLabel keeps export completing on malformed input: a unit with no
// display name renders as its id.
func unitLabel(name, id string) string {
	if name == "" {
		return id
	}
	return name
}
