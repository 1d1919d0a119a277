package export

import (
	"encoding/xml"
	"strings"
	"testing"
	"time"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/pkarczewski/bdl-client/pkg/dataset"
	"github.com/pkarczewski/bdl-client/pkg/query"
)

var exportStamp = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestToXML_SingleUnitScope(t *testing.T) {
	ds, q := singleUnitFixture()

	got, err := ToXML(ds, q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}

	if !strings.HasPrefix(got, xml.Header) {
		t.Error("missing XML declaration")
	}
	for _, want := range []string{
		"<scope>single-unit</scope>",
		"<rootUnitId>GMI1</rootUnitId>",
		"<rootUnitName>Gmina A</rootUnitName>",
		"<generatedAt>2026-03-01T12:00:00Z</generatedAt>",
		`<variable id="1">`,
		"<name>Ludność</name>",
		`<record variableId="1" year="2022">10.5</record>`,
		`<record variableId="2" year="2023">7</record>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "<unit ") {
		t.Error("single-unit scope must not nest units")
	}
}

func TestToXML_MultiUnitScope(t *testing.T) {
	ds, q := multiUnitFixture()

	got, err := ToXML(ds, q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}

	for _, want := range []string{
		"<scope>multi-unit</scope>",
		"<rootUnitId>WOJ1</rootUnitId>",
		`<unit id="GMI1" name="Gmina A">`,
		`<unit id="GMI2" name="Gmina B">`,
		`<record variableId="2" year="2022">100</record>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	// GMI1 precedes GMI2, matching dataset order.
	if strings.Index(got, `id="GMI1"`) > strings.Index(got, `id="GMI2"`) {
		t.Error("unit order must follow dataset order")
	}
}

func TestToXML_EscapesMarkup(t *testing.T) {
	q := query.Query{
		Variables: []bdl.Variable{{ID: 1, N1: `Wskaźnik <x> & "y"`}},
		RootUnit:  bdl.Unit{ID: "GMI1", Name: "Gmina <A> & 'B'", Level: bdl.LevelCommune},
		Years:     []int{2022},
	}
	ds := dataset.New()
	ds.Add("GMI1", "Gmina <A> & 'B'", dataset.ValueRecord{VariableID: 1, Year: 2022, Value: 1})

	got, err := ToXML(ds, q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}

	if strings.Contains(got, "<x>") || strings.Contains(got, "Gmina <A>") {
		t.Errorf("raw markup leaked into output:\n%s", got)
	}

	var doc struct {
		Metadata struct {
			RootUnitName string `xml:"rootUnitName"`
		} `xml:"metadata"`
		Variables []struct {
			Name string `xml:"name"`
		} `xml:"variables>variable"`
	}
	if err := xml.Unmarshal([]byte(got), &doc); err != nil {
		t.Fatalf("output is not well-formed XML: %v", err)
	}
	if doc.Metadata.RootUnitName != "Gmina <A> & 'B'" {
		t.Errorf("round-tripped name = %q", doc.Metadata.RootUnitName)
	}
	if doc.Variables[0].Name != `Wskaźnik <x> & "y"` {
		t.Errorf("round-tripped variable name = %q", doc.Variables[0].Name)
	}
}

func TestToXML_Deterministic(t *testing.T) {
	ds, q := multiUnitFixture()

	first, err := ToXML(ds, q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}
	second, err := ToXML(ds, q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}
	if first != second {
		t.Error("identical input and timestamp must yield byte-identical output")
	}
}

func TestToXML_EmptyDataset(t *testing.T) {
	_, q := multiUnitFixture()

	got, err := ToXML(dataset.New(), q, exportStamp)
	if err != nil {
		t.Fatalf("ToXML() failed: %v", err)
	}
	if !strings.Contains(got, "<results></results>") {
		t.Errorf("empty dataset must render empty results element:\n%s", got)
	}
}
