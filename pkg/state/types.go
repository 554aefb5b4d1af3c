package state

import (
	"context"
	"errors"
	"fmt"
	"time"

	devinfo "github.com/goliatone/go-devinfo"
)

// ErrETagMismatch reports a save based on a stale snapshot.
var ErrETagMismatch = errors.New("state: etag mismatch")

// Ref identifies one persisted override for one device.
type Ref struct {
	Device string
	Scope  devinfo.Scope
}

// Meta is storage-owned metadata used for provenance and concurrency control.
type Meta struct {
	SnapshotID string            `json:"snapshot_id,omitempty"`
	ETag       string            `json:"etag,omitempty"`
	UpdatedAt  time.Time         `json:"updated_at,omitempty"`
	Extra      map[string]string `json:"extra,omitempty"`
}

// Store loads and saves one snapshot for a single Ref.
type Store[T any] interface {
	Load(ctx context.Context, ref Ref) (snapshot T, meta Meta, ok bool, err error)
	Save(ctx context.Context, ref Ref, snapshot T, meta Meta) (Meta, error)
}

// Mutator edits a profile override in place.
type Mutator func(*devinfo.Profile) error

// Identifier returns the canonical storage key for r.
func (r Ref) Identifier() (string, error) {
	if r.Device == "" {
		return "", fmt.Errorf("state: device is required")
	}
	switch r.Scope.Name {
	case "vendor":
		id, err := metadataID(r.Scope, "vendor_id")
		if err != nil {
			return "", err
		}
		return "vendor/" + id, nil
	case "device":
		return "device/" + r.Device, nil
	case "user":
		id, err := metadataID(r.Scope, "user_id")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("user/%s/%s", id, r.Device), nil
	case "defaults":
		return "", fmt.Errorf("state: scope %q is built in and not stored", r.Scope.Name)
	default:
		return "", fmt.Errorf("state: unsupported scope name %q", r.Scope.Name)
	}
}

func metadataID(scope devinfo.Scope, key string) (string, error) {
	id, _ := scope.Metadata[key].(string)
	if id == "" {
		return "", fmt.Errorf("state: missing metadata key %q for scope %q", key, scope.Name)
	}
	return id, nil
}

// Resolver layers stored overrides over the built-in profile.
type Resolver struct {
	Store Store[devinfo.Profile]
}

// Resolve loads the override for device in every scope and merges the ones
// present over the defaults. Missing overrides are skipped.
func (r Resolver) Resolve(ctx context.Context, device string, scopes ...devinfo.Scope) (*devinfo.Layered[devinfo.Profile], error) {
	if r.Store == nil {
		return nil, fmt.Errorf("state: store is required")
	}
	layers := make([]devinfo.Layer[devinfo.Profile], 0, len(scopes))
	for _, scope := range scopes {
		ref := Ref{Device: device, Scope: scope}
		snapshot, meta, ok, err := r.Store.Load(ctx, ref)
		if err != nil {
			return nil, fmt.Errorf("state: load %q for scope %q: %w", device, scope.Name, err)
		}
		if !ok {
			continue
		}
		layers = append(layers, devinfo.NewLayer(scope, snapshot, origin(ref, meta)))
	}
	layered, err := devinfo.LayerProfiles(layers...)
	if err != nil {
		return nil, fmt.Errorf("state: layer %q: %w", device, err)
	}
	return layered, nil
}

// Mutate loads one override, applies fn, checks that the result still
// layers into a valid profile, then saves it. A non-empty meta.ETag must
// match the stored one.
func (r Resolver) Mutate(ctx context.Context, ref Ref, meta Meta, fn Mutator) (*devinfo.Layered[devinfo.Profile], Meta, error) {
	if r.Store == nil {
		return nil, Meta{}, fmt.Errorf("state: store is required")
	}
	if ref.Scope.Name == "" {
		return nil, Meta{}, fmt.Errorf("state: scope name is required")
	}
	if fn == nil {
		return nil, Meta{}, fmt.Errorf("state: mutator is required")
	}

	snapshot, loadedMeta, ok, err := r.Store.Load(ctx, ref)
	if err != nil {
		return nil, Meta{}, fmt.Errorf("state: load %q for scope %q: %w", ref.Device, ref.Scope.Name, err)
	}
	if !ok {
		snapshot = devinfo.Profile{}
		loadedMeta = Meta{}
	}
	if meta.ETag != "" && loadedMeta.ETag != "" && meta.ETag != loadedMeta.ETag {
		return nil, loadedMeta, fmt.Errorf("%w: expected %q, got %q", ErrETagMismatch, meta.ETag, loadedMeta.ETag)
	}

	if err := fn(&snapshot); err != nil {
		return nil, loadedMeta, err
	}
	saveMeta := mergeMeta(loadedMeta, meta)
	layered, err := devinfo.LayerProfiles(devinfo.NewLayer(ref.Scope, snapshot, origin(ref, saveMeta)))
	if err != nil {
		return nil, loadedMeta, err
	}

	savedMeta, err := r.Store.Save(ctx, ref, snapshot, saveMeta)
	if err != nil {
		return nil, loadedMeta, fmt.Errorf("state: save %q for scope %q: %w", ref.Device, ref.Scope.Name, err)
	}
	return layered, savedMeta, nil
}

func origin(ref Ref, meta Meta) string {
	if meta.SnapshotID != "" {
		return meta.SnapshotID
	}
	if id, err := ref.Identifier(); err == nil {
		return "state:" + id
	}
	return "state"
}

func mergeMeta(base, override Meta) Meta {
	out := base
	if override.SnapshotID != "" {
		out.SnapshotID = override.SnapshotID
	}
	if override.ETag != "" {
		out.ETag = override.ETag
	}
	if !override.UpdatedAt.IsZero() {
		out.UpdatedAt = override.UpdatedAt
	}
	if override.Extra != nil {
		out.Extra = override.Extra
	}
	return out
}
