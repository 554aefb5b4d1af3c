package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	devinfo "github.com/goliatone/go-devinfo"
	"gopkg.in/yaml.v3"
)

func writeValue(w io.Writer, value any, text func(io.Writer) error) error {
	switch strings.ToLower(outputFormat) {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(value)
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(value); err != nil {
			return err
		}
		return enc.Close()
	case "text", "":
		return text(w)
	default:
		return fmt.Errorf("unknown output format %q", outputFormat)
	}
}

func writeReport(w io.Writer, r devinfo.Report) error {
	return writeValue(w, r, func(w io.Writer) error {
		rows := [][2]string{
			{"Device", r.DeviceName},
			{"Chipset", r.Chipset},
			{"Version", r.VersionLine},
			{"Build", r.BuildVersion},
			{"Release", r.ReleaseType + " (" + r.BuildStatus + ")"},
			{"Maintainer", r.Maintainer},
			{"Storage", r.StorageSummary},
			{"Disk", r.StorageSize},
			{"Battery", r.BatteryLabel},
			{"Screen", r.Screen},
		}
		for _, row := range rows {
			if _, err := fmt.Fprintf(w, "%-11s %s\n", row[0]+":", row[1]); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeFields(w io.Writer, fields map[string]string) error {
	return writeValue(w, fields, func(w io.Writer) error {
		names := make([]string, 0, len(fields))
		for name := range fields {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%s=%s\n", name, fields[name]); err != nil {
				return err
			}
		}
		return nil
	})
}
