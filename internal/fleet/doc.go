// Package fleet is the addressing space every cargo operation acts within:
// a registry of vessels keyed by case-insensitive name, a pool of free
// containers keyed by serial, and the serial generator and hazard notifier
// shared by all containers the fleet creates.
//
// Fleet operations compose the vessel and container primitives so that a
// failure never leaves state half-changed:
//   - LoadOnto checks the container's policy, then the vessel, before
//     loading, so a refused container keeps its previous load and stays in
//     the pool
//   - Replace restores the old container aboard when the new one is refused
//   - Transfer adds to the destination before removing from the source, so
//     the container is aboard at least one vessel at every step
//
// A Fleet is single-actor state. It holds no locks.
package fleet
