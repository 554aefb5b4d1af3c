package devinfo

// Recommended priorities for profile layering. Higher numbers win.
const (
	ScopePriorityDefaults = 100
	ScopePriorityVendor   = 200
	ScopePriorityDevice   = 300
	ScopePriorityUser     = 400
)

// DefaultsScope is the weakest profile scope, holding built-in values.
func DefaultsScope() Scope {
	return NewScope("defaults", ScopePriorityDefaults, WithScopeLabel("Built-in Defaults"))
}

// VendorScope holds the profile shipped with a ROM.
func VendorScope() Scope {
	return NewScope("vendor", ScopePriorityVendor, WithScopeLabel("Vendor"))
}

// DeviceScope holds per-device overrides.
func DeviceScope() Scope {
	return NewScope("device", ScopePriorityDevice, WithScopeLabel("Device"))
}

// UserScope is the strongest profile scope.
func UserScope() Scope {
	return NewScope("user", ScopePriorityUser, WithScopeLabel("User"))
}

// LayerProfiles merges overrides over DefaultProfile. Overrides with an
// empty scope name are skipped.
func LayerProfiles(overrides ...Layer[Profile]) (*Layered[Profile], error) {
	layers := []Layer[Profile]{NewLayer(DefaultsScope(), DefaultProfile(), "builtin")}
	for _, layer := range overrides {
		if layer.Scope.Name == "" {
			continue
		}
		layers = append(layers, layer)
	}
	stack, err := NewStack(layers...)
	if err != nil {
		return nil, err
	}
	merged, err := stack.Merge()
	if err != nil {
		return nil, err
	}
	if err := merged.Value.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}
