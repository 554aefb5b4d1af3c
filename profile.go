package devinfo

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// FieldSpec declares how one display field is produced: either from
// property keys with a default, or from a rule over earlier fields.
type FieldSpec struct {
	Key      string `yaml:"key,omitempty" json:"key,omitempty"`
	Fallback string `yaml:"fallback,omitempty" json:"fallback,omitempty"`
	// Default applies when both keys are absent. Nil means the unknown
	// sentinel; a pointer to "" means an explicit empty default.
	Default *string `yaml:"default,omitempty" json:"default,omitempty"`
	Expr    string  `yaml:"expr,omitempty" json:"expr,omitempty"`
	Engine  string  `yaml:"engine,omitempty" json:"engine,omitempty"`
}

// Source converts the key form of spec into a resolver Source.
func (f FieldSpec) Source() Source {
	return Source{
		Key:      PropertyKey(f.Key),
		Fallback: PropertyKey(f.Fallback),
		Default:  f.Default,
	}
}

// IsRule reports whether the field is computed by an expression.
func (f FieldSpec) IsRule() bool {
	return f.Expr != ""
}

// Profile declares the display fields for one device family. Profiles are
// layered with Stack; zero values in a stronger layer defer to weaker ones.
type Profile struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty"`
	// Order lists field names in evaluation order. Fields not listed are
	// evaluated afterwards in name order.
	Order   []string             `yaml:"order,omitempty" json:"order,omitempty"`
	Fields  map[string]FieldSpec `yaml:"fields,omitempty" json:"fields,omitempty"`
	Strings Strings              `yaml:"strings,omitempty" json:"strings,omitempty"`
	// BatteryCapacity is the hardware-profile average in mAh used when the
	// measured capacity is implausible.
	BatteryCapacity int32 `yaml:"battery_capacity,omitempty" json:"battery_capacity,omitempty"`
}

// Well-known field names read by the reporter.
const (
	FieldChipset      = "chipset"
	FieldDeviceName   = "device_name"
	FieldBuildVersion = "build_version"
	FieldVersionLine  = "version_line"
	FieldReleaseType  = "release_type"
	FieldMaintainer   = "maintainer"
)

var fieldNamePattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

var reservedFieldNames = map[string]struct{}{
	"now": {}, "args": {}, "metadata": {}, "call": {},
}

func stringPtr(s string) *string {
	return &s
}

// DefaultProfile returns the built-in profile for a RisingOS style build.
func DefaultProfile() Profile {
	empty := stringPtr("")
	return Profile{
		Name: "default",
		Order: []string{
			FieldChipset,
			"device", "manufacturer", "model", FieldDeviceName,
			FieldBuildVersion,
			"version", "version_code", "package_type", FieldVersionLine,
			FieldReleaseType, FieldMaintainer,
		},
		Fields: map[string]FieldSpec{
			FieldChipset:      {Key: "ro.rising.chipset", Fallback: "ro.board.platform"},
			"device":          {Key: "ro.rising.device", Default: empty},
			"manufacturer":    {Key: "ro.product.manufacturer", Default: empty},
			"model":           {Key: "ro.product.model", Default: empty},
			FieldDeviceName:   {Expr: `device != "" ? device : trim(manufacturer + " " + model)`},
			FieldBuildVersion: {Key: "ro.rising.build.version"},
			"version":         {Key: "ro.rising.version"},
			"version_code":    {Key: "ro.rising.code"},
			"package_type":    {Key: "ro.rising.packagetype"},
			FieldVersionLine:  {Expr: `version + " | " + version_code + " | " + package_type`},
			FieldReleaseType:  {Key: "ro.rising.releasetype"},
			FieldMaintainer:   {Key: "ro.rising.maintainer"},
		},
		Strings: DefaultStrings(),
	}
}

// Validate checks field names, that each field has exactly one form and
// that Order only names declared fields.
func (p Profile) Validate() error {
	errs := p.fieldErrors()
	seen := map[string]struct{}{}
	for _, name := range p.Order {
		if _, ok := p.Fields[name]; !ok {
			errs = append(errs, fmt.Errorf("%w: order references undeclared field %q", ErrInvalidField, name))
		}
		if _, dup := seen[name]; dup {
			errs = append(errs, fmt.Errorf("%w: order lists %q twice", ErrInvalidField, name))
		}
		seen[name] = struct{}{}
	}
	return errors.Join(errs...)
}

// fieldErrors checks each field in isolation. Partial layers are checked
// with it; the order is only checked once layers are merged.
func (p Profile) fieldErrors() []error {
	var errs []error
	names := make([]string, 0, len(p.Fields))
	for name := range p.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		spec := p.Fields[name]
		if !fieldNamePattern.MatchString(name) {
			errs = append(errs, fmt.Errorf("%w: %q is not a valid field name", ErrInvalidField, name))
			continue
		}
		if _, reserved := reservedFieldNames[name]; reserved {
			errs = append(errs, fmt.Errorf("%w: %q is reserved", ErrInvalidField, name))
			continue
		}
		switch {
		case spec.IsRule() && (spec.Key != "" || spec.Fallback != "" || spec.Default != nil):
			errs = append(errs, fmt.Errorf("%w: %q declares both expr and keys", ErrInvalidField, name))
		case !spec.IsRule() && spec.Key == "" && spec.Fallback == "" && spec.Default == nil:
			errs = append(errs, fmt.Errorf("%w: %q declares neither expr nor keys", ErrInvalidField, name))
		case spec.Engine != "" && !spec.IsRule():
			errs = append(errs, fmt.Errorf("%w: %q sets engine without expr", ErrInvalidField, name))
		}
	}
	return errs
}

// FieldOrder returns every declared field in evaluation order.
func (p Profile) FieldOrder() []string {
	out := make([]string, 0, len(p.Fields))
	seen := make(map[string]struct{}, len(p.Fields))
	for _, name := range p.Order {
		if _, ok := p.Fields[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	rest := make([]string, 0, len(p.Fields)-len(out))
	for name := range p.Fields {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
