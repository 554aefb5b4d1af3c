package props

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParseBuildProp(t *testing.T) {
	f, err := os.Open(filepath.Join("testdata", "build.prop"))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	values, err := Parse(f)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	cases := map[string]string{
		"ro.board.platform":       "sm8550",
		"ro.product.model":        "Pixel 8",
		"ro.rising.version":       "4.1",
		"ro.rising.maintainer":    "",
		"ro.rising.build.version": "4.1-20240501",
	}
	for key, want := range cases {
		if got := values[key]; got != want {
			t.Fatalf("%s: expected %q, got %q", key, want, got)
		}
	}
	if _, ok := values["import /vendor/build.prop"]; ok {
		t.Fatalf("expected import directive to be skipped")
	}
	if len(values) != 6 {
		t.Fatalf("expected 6 properties, got %d: %v", len(values), values)
	}
}

func TestFileStoreReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.prop")
	if err := os.WriteFile(path, []byte("ro.rising.releasetype=community\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	store, err := OpenFileStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if got := store.Get("ro.rising.releasetype", "x"); got != "community" {
		t.Fatalf("expected community, got %q", got)
	}

	if err := os.WriteFile(path, []byte("ro.rising.releasetype=official\nro.extra=1\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}
	if got := store.Get("ro.rising.releasetype", "x"); got != "official" {
		t.Fatalf("expected reload to see official, got %q", got)
	}
}

func TestFileStoreMissingFile(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "absent.prop"))
	_, err := store.Lookup("ro.board.platform")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if got := store.Get("ro.board.platform", "fallback"); got != "fallback" {
		t.Fatalf("expected default on read failure, got %q", got)
	}
	if _, err := OpenFileStore(store.Path()); err == nil {
		t.Fatalf("expected OpenFileStore to fail for missing file")
	}
}

func TestMapStore(t *testing.T) {
	src := map[string]string{"a": "1"}
	store := NewMapStore(src)
	src["a"] = "changed"
	if got := store.Get("a", ""); got != "1" {
		t.Fatalf("expected store to copy input, got %q", got)
	}
	store.Set("b", "2")
	store.Delete("a")
	if got := store.Get("a", "def"); got != "def" {
		t.Fatalf("expected default after delete, got %q", got)
	}
	snap := store.Snapshot()
	snap["b"] = "mutated"
	if got := store.Get("b", ""); got != "2" {
		t.Fatalf("expected snapshot to be detached, got %q", got)
	}
}

func TestChainStoreFirstNonEmptyWins(t *testing.T) {
	overrides := NewMapStore(map[string]string{"ro.rising.chipset": "", "ro.product.model": "Custom"})
	base := NewMapStore(map[string]string{"ro.rising.chipset": "Snapdragon 8 Gen 2", "ro.product.model": "Pixel"})
	chain := Chain(overrides, nil, base)

	if got := chain.Get("ro.rising.chipset", ""); got != "Snapdragon 8 Gen 2" {
		t.Fatalf("expected empty override to fall through, got %q", got)
	}
	if got := chain.Get("ro.product.model", ""); got != "Custom" {
		t.Fatalf("expected override, got %q", got)
	}
	if got := chain.Get("missing", "def"); got != "def" {
		t.Fatalf("expected default, got %q", got)
	}
}

func TestChainStoreReportsErrorsOnlyWhenAbsent(t *testing.T) {
	broken := NewFileStore(filepath.Join(t.TempDir(), "absent.prop"))
	chain := Chain(broken, NewMapStore(map[string]string{"k": "v"}))

	value, err := chain.Lookup("k")
	if err != nil || value != "v" {
		t.Fatalf("expected v with no error, got %q %v", value, err)
	}
	_, err = chain.Lookup("other")
	if err == nil || !strings.Contains(err.Error(), "absent.prop") {
		t.Fatalf("expected read error for absent key, got %v", err)
	}
}
