package devinfo

import (
	"errors"
	"fmt"
	"os"

	"github.com/goliatone/go-devinfo/internal/hydrate"
	"gopkg.in/yaml.v3"
)

var profileDecoder = hydrate.NewDecoder[Profile](
	hydrate.WithPreHook[Profile](hydrate.NormalizeKeys),
	hydrate.WithDisallowUnknownFields[Profile](),
	hydrate.WithPostHook[Profile](func(_ hydrate.Context, p *Profile) error {
		return errors.Join(p.fieldErrors()...)
	}),
)

// DecodeProfile parses a YAML (or JSON) profile document. The result may be
// partial; it is validated as a whole once layered.
func DecodeProfile(source string, data []byte) (Profile, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Profile{}, fmt.Errorf("devinfo: parse profile %s: %w", source, err)
	}
	if doc == nil {
		return Profile{}, nil
	}
	return profileDecoder.Decode(hydrate.Context{Source: source}, doc)
}

// LoadProfile reads and decodes the profile at path.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("devinfo: read profile: %w", err)
	}
	return DecodeProfile(path, data)
}

// LoadOptionalProfile behaves like LoadProfile but reports ok=false instead
// of failing when path does not exist.
func LoadOptionalProfile(path string) (Profile, bool, error) {
	profile, err := LoadProfile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Profile{}, false, nil
		}
		return Profile{}, false, err
	}
	return profile, true, nil
}

// ProfilePaths names the optional profile files layered over the defaults.
// Empty paths and missing files are skipped.
type ProfilePaths struct {
	Vendor string
	Device string
	User   string
}

// LoadLayeredProfile loads paths and merges them over DefaultProfile.
func LoadLayeredProfile(paths ProfilePaths) (*Layered[Profile], error) {
	entries := []struct {
		scope Scope
		path  string
	}{
		{VendorScope(), paths.Vendor},
		{DeviceScope(), paths.Device},
		{UserScope(), paths.User},
	}
	var layers []Layer[Profile]
	for _, entry := range entries {
		if entry.path == "" {
			continue
		}
		profile, ok, err := LoadOptionalProfile(entry.path)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		layers = append(layers, NewLayer(entry.scope, profile, entry.path))
	}
	return LayerProfiles(layers...)
}
