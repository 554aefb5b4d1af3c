// Package state persists per-scope profile overrides and layers them over
// the built-in profile.
//
// A Store only loads and saves one Profile snapshot for one Ref. Resolver
// loads the snapshots for a device across scopes and hands them to
// devinfo.LayerProfiles, so merge rules and validation stay in one place.
//
//	Store -> Resolver -> devinfo.LayerProfiles(...) -> *devinfo.Layered[Profile]
//
// Meta.SnapshotID becomes the layer origin, which shows up in
// Layered.ResolveWithTrace and in profile layered activity events.
//
// Keys from Ref.Identifier:
//
//	vendor/<vendor_id>
//	device/<device>
//	user/<user_id>/<device>
package state
