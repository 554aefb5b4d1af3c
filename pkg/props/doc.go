// Package props provides property stores for device information: an
// in-memory map, a build.prop style file and an ordered chain of stores.
//
// Every store satisfies devinfo.PropertyStore. Stores that can fail to read
// also satisfy devinfo.FallibleStore; the resolver treats their errors as an
// absent value.
package props
