package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/cargofleet/internal/cargo"
	"github.com/shinji-kodama/cargofleet/internal/model"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// Format is the encoding of a manifest file.
type Format string

const (
	// FormatYAML is YAML 1.2 as read by gopkg.in/yaml.v3.
	FormatYAML Format = "yaml"

	// FormatJSONC is JSON that may contain comments and trailing commas.
	FormatJSONC Format = "jsonc"
)

// FormatFor picks the format from a file extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSONC, nil
	default:
		return "", model.NewCLIError(model.ExitInvalidInput,
			fmt.Sprintf("unsupported manifest extension %q (want .yaml, .yml, .json or .jsonc)", filepath.Ext(path)))
	}
}

// Manifest describes a fleet to seed.
type Manifest struct {
	Vessels    []vessel.Spec `json:"vessels" yaml:"vessels"`
	Containers []Container   `json:"containers" yaml:"containers"`
}

// Container describes one container to create. Kind-specific fields must
// only be set for their kind.
type Container struct {
	// Kind is a kind name or tag accepted by model.ParseKind.
	Kind string `json:"kind" yaml:"kind"`

	TareWeight float64 `json:"tareWeight" yaml:"tareWeight"`
	MaxLoad    float64 `json:"maxLoad" yaml:"maxLoad"`

	// Hazardous applies to liquid containers.
	Hazardous bool `json:"hazardous,omitempty" yaml:"hazardous,omitempty"`

	// Pressure applies to gas containers.
	Pressure float64 `json:"pressure,omitempty" yaml:"pressure,omitempty"`

	// Refrigerated is required for refrigerated containers.
	Refrigerated *cargo.RefrigeratedSpec `json:"refrigerated,omitempty" yaml:"refrigerated,omitempty"`

	// Load is the cargo weight in kg put into the container after creation.
	Load float64 `json:"load,omitempty" yaml:"load,omitempty"`

	// Vessel, when set, names the vessel the container boards. Otherwise it
	// stays in the free pool.
	Vessel string `json:"vessel,omitempty" yaml:"vessel,omitempty"`
}

// Params converts the entry into constructor parameters. The kind must
// already have been validated.
func (c Container) Params() (cargo.Params, error) {
	kind, err := model.ParseKind(c.Kind)
	if err != nil {
		return cargo.Params{}, err
	}
	p := cargo.Params{
		Kind:       kind,
		TareWeight: c.TareWeight,
		MaxLoad:    c.MaxLoad,
		Hazardous:  c.Hazardous,
		Pressure:   c.Pressure,
	}
	if c.Refrigerated != nil {
		p.Refrigerated = *c.Refrigerated
	}
	return p, nil
}

// Load reads a manifest file, choosing the format from its extension.
//
// Returns a CLIError with ExitNotFound if the file does not exist.
func Load(path string) (*Manifest, error) {
	format, err := FormatFor(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, model.WrapCLIError(
				model.ExitNotFound,
				fmt.Sprintf("manifest not found: %s", path),
				err,
			)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	m, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest at %s: %w", path, err)
	}
	return m, nil
}

// Parse decodes manifest data. Unknown fields are rejected so that a
// misspelt key does not silently drop cargo.
func Parse(data []byte, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil {
			// An empty document decodes to an empty manifest.
			if errors.Is(err, io.EOF) {
				return &m, nil
			}
			return nil, model.WrapCLIError(model.ExitInvalidInput, "invalid YAML manifest", err)
		}
	case FormatJSONC:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, model.WrapCLIError(model.ExitInvalidInput, "invalid JSON manifest", err)
		}
	default:
		return nil, model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("unknown manifest format %q", format))
	}
	return &m, nil
}

// Encode renders the manifest in the given format. JSON output is indented
// and carries no comments.
func Encode(m *Manifest, format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return buf.Bytes(), nil
	case FormatJSONC:
		out, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode manifest: %w", err)
		}
		return append(out, '\n'), nil
	default:
		return nil, model.NewCLIError(model.ExitInvalidInput, fmt.Sprintf("unknown manifest format %q", format))
	}
}
