package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) string {
	t.Helper()
	outputFormat = "text"
	propFiles = nil
	userProfile, vendorProfile, deviceProfile = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("devinfo %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestNormalizeCommands(t *testing.T) {
	cases := []struct {
		args []string
		want string
	}{
		{[]string{"normalize", "storage", "18253611008"}, "32\n"},
		{[]string{"normalize", "ram", "3328599654"}, "4 GB\n"},
		{[]string{"normalize", "battery", "1000", "--fallback", "5000"}, "5000 mAh\n"},
		{[]string{"normalize", "screen", "1080", "2268", "132"}, "1080 x 2400\n"},
		{[]string{"normalize", "storage-size", "1099511627776"}, "1 TB\n"},
	}
	for _, tc := range cases {
		if got := run(t, tc.args...); got != tc.want {
			t.Fatalf("%v: want %q, got %q", tc.args, tc.want, got)
		}
	}
}

func TestResolveCommandFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build.prop")
	if err := os.WriteFile(path, []byte("ro.board.platform=sm8550\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := run(t, "resolve", "ro.rising.chipset", "--fallback", "ro.board.platform", "--props", path)
	if got != "sm8550\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestProgressCommandJSON(t *testing.T) {
	outputFormat = "json"
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"progress", "1000", "100", "5000", "-o", "json"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("progress: %v", err)
	}
	var result struct {
		Visible struct {
			Right int `json:"right"`
		} `json:"visible"`
		Span int `json:"span"`
	}
	if err := json.Unmarshal(out.Bytes(), &result); err != nil {
		t.Fatalf("decode %q: %v", out.String(), err)
	}
	if result.Visible.Right != 550 || result.Span != 450 {
		t.Fatalf("unexpected result %+v", result)
	}
}

func TestProfileTraceCommand(t *testing.T) {
	dir := t.TempDir()
	device := filepath.Join(dir, "device.yaml")
	doc := "fields:\n  chipset:\n    key: ro.soc.model\n"
	if err := os.WriteFile(device, []byte(doc), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	got := run(t, "profile", "trace", "fields.chipset.key", "--device-profile", device)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected two layers and a result, got %q", got)
	}
	if !strings.HasPrefix(lines[0], "device") || !strings.Contains(lines[0], "found=true") {
		t.Fatalf("expected device layer first, got %q", lines[0])
	}
	if lines[2] != "=> ro.soc.model" {
		t.Fatalf("unexpected result line %q", lines[2])
	}
}

func TestProfilePathsCommand(t *testing.T) {
	got := run(t, "profile", "paths")
	if !strings.Contains(got, "fields.chipset.fallback\tstring\n") || !strings.Contains(got, "order\t[]string\n") {
		t.Fatalf("unexpected paths %q", got)
	}
}
