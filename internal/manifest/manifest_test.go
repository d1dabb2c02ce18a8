package manifest

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cargofleet/internal/fleet"
	"github.com/shinji-kodama/cargofleet/internal/model"
	"github.com/shinji-kodama/cargofleet/internal/vessel"
)

// --- Load / Parse tests ---

// TestLoad_YAML verifies the YAML fixture decodes every field, including
// the nested refrigerated block and the tag form of a kind.
func TestLoad_YAML(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "fleet.yaml"))
	require.NoError(t, err)

	require.Len(t, m.Vessels, 2)
	assert.Equal(t, "Aurora", m.Vessels[0].Name)
	assert.Equal(t, 14.5, m.Vessels[1].MaxSpeed)
	assert.Equal(t, 2, m.Vessels[1].MaxContainerCount)

	require.Len(t, m.Containers, 4)
	assert.Equal(t, "gas", m.Containers[1].Kind)
	assert.Equal(t, 3.5, m.Containers[1].Pressure)
	require.NotNil(t, m.Containers[2].Refrigerated)
	assert.Equal(t, "Bananas", m.Containers[2].Refrigerated.ProductType)
	assert.Equal(t, 13.3, m.Containers[2].Refrigerated.RequiredTemperature)
	assert.Empty(t, m.Containers[2].Vessel)
	assert.True(t, m.Containers[3].Hazardous)
}

// TestLoad_JSONC verifies comments and trailing commas are accepted.
func TestLoad_JSONC(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "fleet.jsonc"))
	require.NoError(t, err)

	require.Len(t, m.Vessels, 1)
	require.Len(t, m.Containers, 2)
	assert.Equal(t, 9000.0, m.Containers[0].Load)
	assert.Equal(t, "Aurora", m.Containers[0].Vessel)
}

// TestLoad_Errors covers missing files, bad extensions and unknown keys.
func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) string {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		return path
	}

	tests := []struct {
		name     string
		path     string
		wantCode model.ExitCode
	}{
		{"missing file", filepath.Join(dir, "absent.yaml"), model.ExitNotFound},
		{"unsupported extension", write("fleet.toml", "vessels = []"), model.ExitInvalidInput},
		{"unknown yaml key", write("typo.yaml", "vessel:\n  - name: A\n"), model.ExitInvalidInput},
		{"unknown json key", write("typo.json", `{"containers": [{"kind": "gas", "tare": 1}]}`), model.ExitInvalidInput},
		{"malformed json", write("bad.json", `{"vessels": [`), model.ExitInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)

			var cliErr *model.CLIError
			require.True(t, errors.As(err, &cliErr), "expected CLIError, got %T", err)
			assert.Equal(t, tt.wantCode, cliErr.Code)
		})
	}
}

// TestParse_EmptyYAML verifies an empty document is an empty manifest.
func TestParse_EmptyYAML(t *testing.T) {
	m, err := Parse(nil, FormatYAML)
	require.NoError(t, err)
	assert.Empty(t, m.Vessels)
	assert.Empty(t, m.Containers)
}

// TestFormatFor verifies extension matching is case-insensitive.
func TestFormatFor(t *testing.T) {
	for path, want := range map[string]Format{
		"a.yaml": FormatYAML, "a.YML": FormatYAML, "a.json": FormatJSONC, "a.jsonc": FormatJSONC,
	} {
		got, err := FormatFor(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFor("manifest")
	assert.Error(t, err)
}

// --- Validate tests ---

// TestValidate_Fixture verifies the shipped fixtures are valid.
func TestValidate_Fixture(t *testing.T) {
	for _, name := range []string{"fleet.yaml", "fleet.jsonc"} {
		m, err := Load(filepath.Join("testdata", name))
		require.NoError(t, err)
		assert.Empty(t, Validate(m), name)
	}
}

// TestValidate_Problems checks that each kind of problem is reported
// against the right field.
func TestValidate_Problems(t *testing.T) {
	aurora := func() *Manifest {
		m := &Manifest{}
		m.Vessels = append(m.Vessels, vesselSpec("Aurora", 2, 10))
		return m
	}

	tests := []struct {
		name      string
		build     func() *Manifest
		wantField string
	}{
		{"vessel without name", func() *Manifest {
			m := aurora()
			m.Vessels = append(m.Vessels, vesselSpec(" ", 1, 1))
			return m
		}, "vessels[1]"},
		{"duplicate vessel ignoring case", func() *Manifest {
			m := aurora()
			m.Vessels = append(m.Vessels, vesselSpec("AURORA", 1, 1))
			return m
		}, "vessels[1].name"},
		{"unknown kind", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "bulk", TareWeight: 1, MaxLoad: 1}}
			return m
		}, "containers[0].kind"},
		{"zero max load", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "gas", TareWeight: 1}}
			return m
		}, "containers[0]"},
		{"hazardous gas", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "gas", TareWeight: 1, MaxLoad: 10, Hazardous: true}}
			return m
		}, "containers[0].hazardous"},
		{"pressure on liquid", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "liquid", TareWeight: 1, MaxLoad: 10, Pressure: 2}}
			return m
		}, "containers[0].pressure"},
		{"refrigerated without block", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "refrigerated", TareWeight: 1, MaxLoad: 10}}
			return m
		}, "containers[0].refrigerated"},
		{"hazardous liquid over half", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "liquid", TareWeight: 1, MaxLoad: 10000, Hazardous: true, Load: 5001}}
			return m
		}, "containers[0].load"},
		{"negative load", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "gas", TareWeight: 1, MaxLoad: 10, Load: -1}}
			return m
		}, "containers[0].load"},
		{"unknown vessel", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "gas", TareWeight: 1, MaxLoad: 10, Vessel: "Borealis"}}
			return m
		}, "containers[0].vessel"},
		{"vessel over count", func() *Manifest {
			m := aurora()
			for i := 0; i < 3; i++ {
				m.Containers = append(m.Containers, Container{Kind: "gas", TareWeight: 1, MaxLoad: 10, Vessel: "Aurora"})
			}
			return m
		}, "vessels"},
		{"vessel over weight", func() *Manifest {
			m := aurora()
			m.Containers = []Container{{Kind: "gas", TareWeight: 6000, MaxLoad: 5000, Load: 5000, Vessel: "Aurora"}}
			return m
		}, "vessels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(tt.build())
			require.NotEmpty(t, errs)
			fields := make([]string, len(errs))
			for i, e := range errs {
				fields[i] = e.Field
			}
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

// TestValidate_TemperatureOnlyMattersWhenLoaded verifies that an empty
// free refrigerated container may sit below its product's temperature,
// while a loaded or boarding one may not.
func TestValidate_TemperatureOnlyMattersWhenLoaded(t *testing.T) {
	cold := refrigeratedEntry(10, 5)
	assert.Empty(t, Validate(&Manifest{Containers: []Container{cold}}))

	loaded := cold
	loaded.Load = 100
	errs := Validate(&Manifest{Containers: []Container{loaded}})
	require.Len(t, errs, 1)
	assert.Equal(t, "containers[0].refrigerated.containerTemperature", errs[0].Field)

	boarding := cold
	boarding.Vessel = "Aurora"
	errs = Validate(&Manifest{
		Vessels:    []vessel.Spec{vesselSpec("Aurora", 2, 40)},
		Containers: []Container{boarding},
	})
	require.Len(t, errs, 1)
	assert.Equal(t, "containers[0].refrigerated.containerTemperature", errs[0].Field)
}

// TestApply_ColdReeferBoardingLeavesFleetUntouched verifies that a cold
// refrigerated container boarding at zero load is caught before any vessel
// is added.
func TestApply_ColdReeferBoardingLeavesFleetUntouched(t *testing.T) {
	cold := refrigeratedEntry(10, 5)
	cold.Vessel = "Aurora"
	m := &Manifest{
		Vessels:    []vessel.Spec{vesselSpec("Aurora", 2, 40)},
		Containers: []Container{cold},
	}

	f := fleet.New()
	_, err := Apply(f, m)
	var verrs ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Empty(t, f.Vessels())
	assert.Empty(t, f.FreeContainers())
}

// TestValidationErrors verifies the aggregate error and its mapping.
func TestValidationErrors(t *testing.T) {
	err := error(ValidationErrors{
		{Field: "vessels[0]", Message: "bad"},
		{Field: "containers[1].load", Message: "worse"},
	})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Equal(t, model.ExitInvalidInput, model.ExitCodeFor(err))
	assert.Contains(t, err.Error(), "2 problem(s)")
	assert.Contains(t, err.Error(), "containers[1].load: worse")
}

// --- Apply / Snapshot tests ---

// TestApply_Fixture verifies the YAML fixture builds the expected fleet.
func TestApply_Fixture(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "fleet.yaml"))
	require.NoError(t, err)

	f := fleet.New()
	res, err := Apply(f, m)
	require.NoError(t, err)

	assert.Equal(t, []string{"Aurora", "Borealis"}, res.Vessels)
	assert.Equal(t, []string{"KON-L-1", "KON-G-2", "KON-C-3", "KON-L-4"}, res.Containers)
	assert.Equal(t, 3, res.Aboard)

	aurora, ok := f.Vessel("Aurora")
	require.True(t, ok)
	assert.Equal(t, 2, aurora.Len())
	assert.Equal(t, 15500.0, aurora.TotalWeight())

	free := f.FreeContainers()
	require.Len(t, free, 1)
	assert.Equal(t, "KON-C-3", free[0].Serial())
	assert.Equal(t, 500.0, free[0].CurrentLoad())
}

// TestApply_InvalidLeavesFleetUntouched verifies validation runs before any
// change.
func TestApply_InvalidLeavesFleetUntouched(t *testing.T) {
	m := &Manifest{
		Containers: []Container{
			{Kind: "gas", TareWeight: 1, MaxLoad: 10},
			{Kind: "gas", TareWeight: 1, MaxLoad: 10, Vessel: "Nowhere"},
		},
	}
	f := fleet.New()
	_, err := Apply(f, m)

	var verrs ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Len(t, verrs, 1)
	assert.Empty(t, f.FreeContainers())
	assert.Equal(t, uint64(0), f.Generator().Issued())
}

// TestApply_ExistingVessel verifies a manifest cannot redeclare a vessel
// already in the fleet.
func TestApply_ExistingVessel(t *testing.T) {
	f := fleet.New()
	_, err := f.AddVessel(vesselSpec("Aurora", 1, 1))
	require.NoError(t, err)

	_, err = Apply(f, &Manifest{Vessels: []vessel.Spec{vesselSpec("aurora", 1, 1)}})
	assert.ErrorIs(t, err, model.ErrInvalidArgument)
	assert.Len(t, f.Vessels(), 1)
}

// TestSnapshot_RoundTrip verifies that a snapshot rebuilds the same layout.
func TestSnapshot_RoundTrip(t *testing.T) {
	m, err := Load(filepath.Join("testdata", "fleet.yaml"))
	require.NoError(t, err)
	orig := fleet.New()
	_, err = Apply(orig, m)
	require.NoError(t, err)

	for _, format := range []Format{FormatYAML, FormatJSONC} {
		t.Run(string(format), func(t *testing.T) {
			data, err := Encode(Snapshot(orig), format)
			require.NoError(t, err)
			decoded, err := Parse(data, format)
			require.NoError(t, err)

			rebuilt := fleet.New()
			_, err = Apply(rebuilt, decoded)
			require.NoError(t, err)

			require.Len(t, rebuilt.Vessels(), len(orig.Vessels()))
			for i, v := range orig.Vessels() {
				got := rebuilt.Vessels()[i]
				assert.Equal(t, v.Spec(), got.Spec())
				assert.Equal(t, v.Len(), got.Len())
				assert.Equal(t, v.TotalWeight(), got.TotalWeight())
			}
			require.Len(t, rebuilt.FreeContainers(), 1)
			r, ok := rebuilt.FreeContainers()[0].Refrigerated()
			require.True(t, ok)
			assert.Equal(t, "Bananas", r.ProductType)
		})
	}
}
