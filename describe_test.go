package devinfo

import (
	"reflect"
	"testing"
)

func TestDescribePaths(t *testing.T) {
	value := map[string]any{
		"name":  "pixel",
		"empty": map[string]any{},
		"nested": map[string]any{
			"count": 3,
			"flag":  true,
			"tags":  []string{"a"},
		},
		"none": nil,
	}
	got, err := DescribePaths(value)
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	want := []PathDescriptor{
		{Path: "empty", Type: "map"},
		{Path: "name", Type: "string"},
		{Path: "nested.count", Type: "number"},
		{Path: "nested.flag", Type: "bool"},
		{Path: "nested.tags", Type: "[]string"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("unexpected paths\nwant %+v\ngot  %+v", want, got)
	}

	empty, err := DescribePaths(nil)
	if err != nil || len(empty) != 0 || empty == nil {
		t.Fatalf("expected empty non-nil slice, got %#v %v", empty, err)
	}
	if _, err := DescribePaths(func() {}); err == nil {
		t.Fatalf("expected encode error")
	}
}

func TestLayeredPathsMatchTrace(t *testing.T) {
	layered, err := LayerProfiles()
	if err != nil {
		t.Fatalf("layer: %v", err)
	}
	paths, err := layered.Paths()
	if err != nil {
		t.Fatalf("paths: %v", err)
	}
	var found bool
	for _, p := range paths {
		if p.Path != "fields.chipset.fallback" {
			continue
		}
		found = true
		value, trace, err := layered.ResolveWithTrace(p.Path)
		if err != nil || value != "ro.board.platform" || len(trace.Layers) != 1 {
			t.Fatalf("unexpected trace %v %+v %v", value, trace, err)
		}
	}
	if !found {
		t.Fatalf("expected chipset fallback path in %+v", paths)
	}
	var nilLayered *Layered[Profile]
	if _, err := nilLayered.Paths(); err != ErrEmptyStack {
		t.Fatalf("expected ErrEmptyStack, got %v", err)
	}
}
