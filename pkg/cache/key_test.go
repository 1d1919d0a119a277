package cache

import (
	"net/url"
	"testing"
)

func TestKey_String(t *testing.T) {
	tests := []struct {
		name string
		key  Key
		want string
	}{
		{
			name: "endpoint only",
			key:  Key{Endpoint: "/subjects"},
			want: "bdl:subjects",
		},
		{
			name: "params sorted",
			key: Key{
				Endpoint: "/units/search",
				Params: url.Values{
					"name":  {"warszawa"},
					"level": {"6"},
				},
			},
			want: "bdl:units/search:level=6:name=warszawa",
		},
		{
			name: "repeatable params joined in value order",
			key: Key{
				Endpoint: "/data/by-unit/U1",
				Params: url.Values{
					"year":   {"2022", "2023"},
					"var-id": {"60270"},
				},
			},
			want: "bdl:data/by-unit/U1:var-id=60270:year=2022,2023",
		},
		{
			name: "empty endpoint",
			key:  Key{},
			want: "bdl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.key.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestKey_String_Deterministic(t *testing.T) {
	key := Key{
		Endpoint: "/variables/search",
		Params: url.Values{
			"subject-id": {"P2914"},
			"name":       {"ludność"},
			"level":      {"6"},
		},
	}

	first := key.String()
	for i := 0; i < 10; i++ {
		if got := key.String(); got != first {
			t.Fatalf("String() not deterministic: %q vs %q", got, first)
		}
	}
}
