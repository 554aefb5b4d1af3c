package layering

import (
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestMergeLayersFromFixture(t *testing.T) {
	fx := loadLayeringFixture(t, "layering_merge.json")

	for _, tc := range fx.Cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			layers := make([]layeringProfile, len(tc.Layers))
			for i := range tc.Layers {
				layers[i] = tc.Layers[i].Snapshot
			}

			got := MergeLayers[layeringProfile](layers...)
			if !reflect.DeepEqual(tc.Expect, got) {
				t.Errorf("merged snapshot mismatch:\nwant: %#v\n got: %#v", tc.Expect, got)
			}
		})
	}
}

func TestMergeLayersZeroInput(t *testing.T) {
	type sample struct {
		Value int
	}
	var zero sample
	if got := MergeLayers[sample](); got != zero {
		t.Fatalf("expected MergeLayers() to return zero value, got %+v", got)
	}
}

func TestMergeLayersDoesNotAliasInputs(t *testing.T) {
	weak := layeringProfile{Fields: map[string]layeringField{"chipset": {Key: "ro.board.platform"}}}
	strong := layeringProfile{Name: "user"}

	merged := MergeLayers(strong, weak)
	merged.Fields["chipset"] = layeringField{Key: "mutated"}

	if weak.Fields["chipset"].Key != "ro.board.platform" {
		t.Fatalf("mutating merged map leaked into input layer: %#v", weak.Fields)
	}
}

func TestCloneCopiesPointers(t *testing.T) {
	def := "Unknown"
	field := layeringField{Key: "ro.rising.maintainer", Default: &def}
	clone := Clone(field)
	*clone.Default = "changed"
	if def != "Unknown" {
		t.Fatalf("expected clone to detach pointer, original now %q", def)
	}
}

type layeringFixture struct {
	Description string                `json:"description"`
	Cases       []layeringFixtureCase `json:"cases"`
}

type layeringFixtureCase struct {
	Name   string                 `json:"name"`
	Layers []layeringFixtureLayer `json:"layers"`
	Expect layeringProfile        `json:"expect"`
}

type layeringFixtureLayer struct {
	Scope    string          `json:"scope"`
	Snapshot layeringProfile `json:"snapshot"`
}

type layeringProfile struct {
	Name     string                   `json:"name,omitempty"`
	Order    []string                 `json:"order,omitempty"`
	Fields   map[string]layeringField `json:"fields,omitempty"`
	Labels   layeringLabels           `json:"labels,omitempty"`
	Capacity int32                    `json:"capacity,omitempty"`
}

type layeringField struct {
	Key     string  `json:"key,omitempty"`
	Expr    string  `json:"expr,omitempty"`
	Default *string `json:"default,omitempty"`
}

type layeringLabels struct {
	Unknown  string `json:"unknown,omitempty"`
	Official string `json:"official,omitempty"`
}

func loadLayeringFixture(t *testing.T, name string) layeringFixture {
	t.Helper()
	path := filepath.Join("testdata", name)
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read layering fixture %q: %v", name, err)
	}
	var fx layeringFixture
	if err := json.Unmarshal(raw, &fx); err != nil {
		t.Fatalf("failed to unmarshal layering fixture %q: %v", name, err)
	}
	return fx
}
