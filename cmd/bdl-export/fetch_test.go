package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkarczewski/bdl-client/pkg/bdl"
	"github.com/pkarczewski/bdl-client/pkg/export"
	"github.com/pkarczewski/bdl-client/pkg/query"
)

func TestDefaultOrientation(t *testing.T) {
	multi := query.Query{
		RootUnit:    bdl.Unit{ID: "WOJ1", Level: bdl.LevelVoivodeship},
		TargetLevel: bdl.LevelCommune,
	}
	if got := defaultOrientation(multi); got != export.OrientationUnitRows {
		t.Errorf("defaultOrientation(multi) = %q, want units", got)
	}

	single := query.Query{
		RootUnit: bdl.Unit{ID: "GMI1", Level: bdl.LevelCommune},
	}
	if got := defaultOrientation(single); got != export.OrientationYearRows {
		t.Errorf("defaultOrientation(single) = %q, want years", got)
	}
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")

	if err := writeOutput(path, "a,b\n1,2\n"); err != nil {
		t.Fatalf("writeOutput() failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() failed: %v", err)
	}
	if string(data) != "a,b\n1,2\n" {
		t.Errorf("file content = %q", data)
	}
}
