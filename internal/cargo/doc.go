// Package cargo implements cargo containers and their loading policies.
//
// A Container is a tagged variant: the Kind field selects which of the
// kind-specific fields are meaningful and which branch of Load and Unload
// runs. There is no per-kind type and no virtual dispatch.
//
// Loading policies:
//
//	liquid        limit = maxLoad × 0.5 when hazardous, maxLoad × 0.9 otherwise
//	gas           limit = maxLoad; unloading keeps 5% of the load as residue
//	refrigerated  limit = maxLoad; the container must not be colder than
//	              its product requires
//
// Loads are absolute and all-or-nothing: a rejected Load leaves the current
// load untouched. Gas and hazardous liquid containers report rejected loads
// to a hazard.Notifier before returning the error.
//
// Serial numbers are issued by a Generator ("KON-<tag>-<n>") whose counter is
// shared by every kind, so serials never collide across kinds.
package cargo
