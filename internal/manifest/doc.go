// Package manifest reads seed manifests that describe a fleet to build
// before a session starts: vessels, containers, their loads and which
// vessel each container boards.
//
// Manifests are YAML (.yaml, .yml) or JSON with comments (.json, .jsonc).
// JSONC input is stripped with github.com/tidwall/jsonc before being parsed
// by encoding/json, and YAML is parsed with gopkg.in/yaml.v3.
//
// Key responsibilities:
//   - Load and parse a manifest file in either format
//   - Validate it as a whole, reporting every problem with its field path
//   - Apply a valid manifest to a fleet
//   - Snapshot a fleet back into a manifest for export
package manifest
