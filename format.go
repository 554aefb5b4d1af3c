package devinfo

import (
	"strings"
	"unicode/utf8"
)

// ReleaseOfficial is the release type that marks an official build.
const ReleaseOfficial = "official"

// MaintainerPlaceholder is substituted with the maintainer name in
// Strings.MaintainerTemplate.
const MaintainerPlaceholder = "{maintainer}"

// Strings holds the canned display strings. Empty fields fall back to
// DefaultStrings when merged.
type Strings struct {
	Unknown            string `yaml:"unknown,omitempty" json:"unknown,omitempty"`
	NoMaintainer       string `yaml:"no_maintainer,omitempty" json:"no_maintainer,omitempty"`
	MaintainerTemplate string `yaml:"maintainer_template,omitempty" json:"maintainer_template,omitempty"`
	Official           string `yaml:"official,omitempty" json:"official,omitempty"`
	Community          string `yaml:"community,omitempty" json:"community,omitempty"`
	Separator          string `yaml:"separator,omitempty" json:"separator,omitempty"`
}

// DefaultStrings returns the built-in English strings.
func DefaultStrings() Strings {
	return Strings{
		Unknown:            "Unknown",
		NoMaintainer:       "No maintainer",
		MaintainerTemplate: "Maintained by " + MaintainerPlaceholder,
		Official:           "Official build",
		Community:          "Community build",
		Separator:          " | ",
	}
}

func (s Strings) withDefaults() Strings {
	def := DefaultStrings()
	if s.Unknown == "" {
		s.Unknown = def.Unknown
	}
	if s.NoMaintainer == "" {
		s.NoMaintainer = def.NoMaintainer
	}
	if s.MaintainerTemplate == "" {
		s.MaintainerTemplate = def.MaintainerTemplate
	}
	if s.Official == "" {
		s.Official = def.Official
	}
	if s.Community == "" {
		s.Community = def.Community
	}
	if s.Separator == "" {
		s.Separator = def.Separator
	}
	return s
}

// MaintainerLine renders raw into the maintainer template, or returns the
// "no maintainer" string when raw is "unknown" in any letter case.
func (s Strings) MaintainerLine(raw string) string {
	if strings.EqualFold(raw, "unknown") {
		return s.NoMaintainer
	}
	return strings.ReplaceAll(s.MaintainerTemplate, MaintainerPlaceholder, raw)
}

// BuildStatusLine returns the official string only for the exact,
// lower-case release type "official".
func (s Strings) BuildStatusLine(releaseType string) string {
	if releaseType == ReleaseOfficial {
		return s.Official
	}
	return s.Community
}

// VersionLine joins parts with the configured separator.
func (s Strings) VersionLine(parts ...string) string {
	return strings.Join(parts, s.Separator)
}

// CapitalizeFirst upper-cases the first code point of s and lower-cases the
// rest. s must not be empty.
func CapitalizeFirst(s string) (string, error) {
	if s == "" {
		return "", &PreconditionError{Op: "capitalize", Err: ErrEmptyInput}
	}
	_, size := utf8.DecodeRuneInString(s)
	return strings.ToUpper(s[:size]) + strings.ToLower(s[size:]), nil
}

// StorageSummary renders the combined ROM and RAM line, e.g.
// "256GB ROM + 12 GB RAM".
func StorageSummary(storage, ram string) string {
	return storage + "GB ROM + " + ram + " RAM"
}
