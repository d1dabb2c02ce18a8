package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shinji-kodama/cargofleet/internal/model"
)

// testSession wires a session to in-memory streams.
type testSession struct {
	*Session
	in     *strings.Reader
	out    *bytes.Buffer
	errOut *bytes.Buffer
}

// newTestSession returns a session that ignores the host's CARGOFLEET_*
// environment.
func newTestSession(t *testing.T, stdin string) *testSession {
	t.Helper()
	for _, k := range []string{
		"CARGOFLEET_LOG_LEVEL", "CARGOFLEET_LOG_FORMAT",
		"CARGOFLEET_HAZARD_LOG", "CARGOFLEET_HAZARD_HISTORY", "CARGOFLEET_MANIFEST",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
	ts := &testSession{in: strings.NewReader(stdin), out: &bytes.Buffer{}, errOut: &bytes.Buffer{}}
	ts.Session = NewSession(ts.in, ts.out, ts.errOut)
	return ts
}

// exec runs one top-level invocation and returns its exit code. Output
// buffers are reset first.
func (ts *testSession) exec(args ...string) int {
	ts.out.Reset()
	ts.errOut.Reset()
	root := ts.RootCommand()
	root.SetArgs(args)
	return run(root)
}

// mustExec runs an invocation that is expected to succeed.
func (ts *testSession) mustExec(t *testing.T, args ...string) string {
	t.Helper()
	code := ts.exec(args...)
	require.Equal(t, 0, code, "cargofleet %s: stderr=%s", strings.Join(args, " "), ts.errOut.String())
	return ts.out.String()
}

// seed builds the fleet used by most tests:
//
//	Aurora   (2 containers, 20 t): KON-L-1 with 8,000 kg
//	Borealis (1 container, 10 t):  empty
//	free:    KON-G-2 (gas, 5,000 kg max, 3 atm)
func seed(t *testing.T, ts *testSession) {
	t.Helper()
	ts.mustExec(t, "vessel", "add", "Aurora", "--max-speed", "20", "--max-containers", "2", "--max-weight", "20")
	ts.mustExec(t, "vessel", "add", "Borealis", "--max-containers", "1", "--max-weight", "10")
	ts.mustExec(t, "container", "create", "liquid", "--tare", "1000", "--max-load", "10000")
	ts.mustExec(t, "container", "create", "gas", "--tare", "500", "--max-load", "5000", "--pressure", "3")
	ts.mustExec(t, "load", "KON-L-1", "Aurora", "8000")
}

func TestVesselAdd(t *testing.T) {
	ts := newTestSession(t, "")
	out := ts.mustExec(t, "vessel", "add", "Aurora", "--max-containers", "3", "--max-weight", "40")
	assert.Equal(t, "Vessel added: Aurora\n", out)

	out = ts.mustExec(t, "--json", "vessel", "show", "aurora")
	var view struct {
		Name              string  `json:"name"`
		MaxContainerCount int     `json:"maxContainerCount"`
		WeightLimitKg     float64 `json:"weightLimitKg"`
		ContainerCount    int     `json:"containerCount"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "Aurora", view.Name)
	assert.Equal(t, 3, view.MaxContainerCount)
	assert.Equal(t, 40000.0, view.WeightLimitKg)
	assert.Equal(t, 0, view.ContainerCount)
}

func TestContainerCreate(t *testing.T) {
	ts := newTestSession(t, "")

	assert.Equal(t, "Container created: KON-L-1\n",
		ts.mustExec(t, "container", "create", "liquid", "--tare", "1000", "--max-load", "10000", "--hazardous"))
	assert.Equal(t, "Container created: KON-G-2\n",
		ts.mustExec(t, "container", "create", "G", "--max-load", "5000", "--pressure", "2.5"))

	out := ts.mustExec(t, "--json", "container", "create", "refrigerated", "--tare", "2000", "--max-load", "20000",
		"--product", "Bananas", "--required-temp", "13.3", "--temp", "14")
	var view struct {
		Serial       string `json:"serial"`
		Kind         string `json:"kind"`
		Refrigerated struct {
			ProductType string `json:"productType"`
		} `json:"refrigerated"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, "KON-C-3", view.Serial)
	assert.Equal(t, "refrigerated", view.Kind)
	assert.Equal(t, "Bananas", view.Refrigerated.ProductType)
}

func TestContainerCreate_Rejections(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown kind", []string{"container", "create", "bulk", "--max-load", "10"}},
		{"pressure on liquid", []string{"container", "create", "liquid", "--max-load", "10", "--pressure", "2"}},
		{"hazardous gas", []string{"container", "create", "gas", "--max-load", "10", "--hazardous"}},
		{"reefer without product", []string{"container", "create", "refrigerated", "--max-load", "10"}},
		{"zero max load", []string{"container", "create", "gas", "--max-load", "0"}},
		{"negative tare", []string{"container", "create", "gas", "--max-load", "10", "--tare", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t, "")
			assert.Equal(t, int(model.ExitInvalidInput), ts.exec(tt.args...))
			assert.Contains(t, ts.errOut.String(), "Error:")

			ts.mustExec(t, "container", "create", "gas", "--max-load", "10")
			assert.Contains(t, ts.out.String(), "KON-G-1", "a rejected container consumes no serial")
		})
	}
}

// TestExitCodes verifies each failure maps to its documented exit code and
// leaves the fleet as it was.
func TestExitCodes(t *testing.T) {
	fillBorealis := [][]string{
		{"container", "create", "gas", "--max-load", "10"},
		{"load", "KON-G-3", "Borealis", "0"},
	}

	tests := []struct {
		name  string
		setup [][]string
		args  []string
		want  model.ExitCode
	}{
		{"overfill", nil, []string{"load", "KON-G-2", "Aurora", "6000"}, model.ExitOverfill},
		{"vessel count", fillBorealis, []string{"load", "KON-G-2", "Borealis", "0"}, model.ExitVesselLimit},
		{"vessel weight", [][]string{{"container", "create", "liquid", "--tare", "5000", "--max-load", "20000"}},
			[]string{"load", "KON-L-3", "Aurora", "9000"}, model.ExitVesselLimit},
		{"unknown vessel", nil, []string{"load", "KON-G-2", "Nowhere", "1"}, model.ExitNotFound},
		{"unknown container", nil, []string{"container", "show", "KON-X-9"}, model.ExitNotFound},
		{"duplicate vessel", nil, []string{"vessel", "add", "AURORA", "--max-containers", "1", "--max-weight", "1"}, model.ExitInvalidInput},
		{"bad weight", nil, []string{"load", "KON-G-2", "Aurora", "lots"}, model.ExitInvalidInput},
		{"transfer refused", fillBorealis, []string{"transfer", "KON-L-1", "Aurora", "Borealis"}, model.ExitTransferFailed},
		{"unload unknown", nil, []string{"unload", "Aurora", "KON-G-2"}, model.ExitNotFound},
		{"missing flag", nil, []string{"vessel", "add", "Cygnus"}, model.ExitGeneralError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestSession(t, "")
			seed(t, ts)
			for _, step := range tt.setup {
				ts.mustExec(t, step...)
			}

			assert.Equal(t, int(tt.want), ts.exec(tt.args...), ts.errOut.String())

			aurora, ok := ts.Fleet().Vessel("Aurora")
			require.True(t, ok)
			assert.Equal(t, 1, aurora.Len())
			assert.Equal(t, 9000.0, aurora.TotalWeight())
		})
	}
}

// TestTransfer_FullDestination verifies that a refused transfer keeps the
// container aboard the source and explains why on stderr.
func TestTransfer_FullDestination(t *testing.T) {
	ts := newTestSession(t, "")
	seed(t, ts)
	ts.mustExec(t, "load", "KON-G-2", "Borealis", "1000")

	assert.Equal(t, int(model.ExitTransferFailed), ts.exec("transfer", "KON-L-1", "Aurora", "Borealis"))
	assert.Contains(t, ts.errOut.String(), "container transfer failed")
	assert.Contains(t, ts.errOut.String(), "reached its limit")

	out := ts.mustExec(t, "container", "show", "KON-L-1")
	assert.Contains(t, out, "Location: aboard Aurora")
}

func TestLoadUnloadReplaceTransfer(t *testing.T) {
	ts := newTestSession(t, "")
	seed(t, ts)

	out := ts.mustExec(t, "unload", "Aurora", "KON-L-1")
	assert.Equal(t, "Container KON-L-1 on vessel Aurora has been unloaded.\n", out)

	out = ts.mustExec(t, "replace", "Aurora", "KON-L-1", "KON-G-2", "4000")
	assert.Equal(t, "Container KON-L-1 on vessel Aurora replaced with KON-G-2.\n", out)

	out = ts.mustExec(t, "unload", "aurora", "kon-g-2")
	assert.Contains(t, out, "residue remains")

	out = ts.mustExec(t, "--json", "transfer", "KON-G-2", "Aurora", "Borealis")
	var res struct {
		Action    string `json:"action"`
		From      string `json:"from"`
		To        string `json:"to"`
		Container struct {
			CurrentLoad float64 `json:"currentLoad"`
		} `json:"container"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "transfer", res.Action)
	assert.Equal(t, "Aurora", res.From)
	assert.Equal(t, "Borealis", res.To)
	assert.Equal(t, 200.0, res.Container.CurrentLoad)

	out = ts.mustExec(t, "container", "list", "--free")
	assert.Contains(t, out, "KON-L-1")
	assert.NotContains(t, out, "KON-G-2")
}

// TestReplace_Rollback verifies a refused replacement through the CLI.
func TestReplace_Rollback(t *testing.T) {
	ts := newTestSession(t, "")
	seed(t, ts)
	ts.mustExec(t, "container", "create", "liquid", "--tare", "5000", "--max-load", "20000")

	assert.Equal(t, int(model.ExitVesselLimit), ts.exec("replace", "Aurora", "KON-L-1", "KON-L-3", "16000"))

	out := ts.mustExec(t, "--json", "container", "show", "KON-L-3")
	var view struct {
		CurrentLoad float64 `json:"currentLoad"`
		Vessel      string  `json:"vessel"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.Equal(t, 16000.0, view.CurrentLoad)
	assert.Empty(t, view.Vessel)

	out = ts.mustExec(t, "container", "show", "KON-L-1")
	assert.Contains(t, out, "Location: aboard Aurora")
}

func TestStatus(t *testing.T) {
	ts := newTestSession(t, "")
	out := ts.mustExec(t, "status")
	assert.Equal(t, "==== Vessel List ====\n  No vessels available.\n\n==== Free Container List ====\n  No free containers available.\n", out)

	seed(t, ts)
	out = ts.mustExec(t, "status")
	assert.Contains(t, out, "Aurora (Speed:")
	assert.Contains(t, out, "   - KON-L-1 | Load:")
	assert.Contains(t, out, "Borealis (Speed:")
	assert.Contains(t, out, "  No containers.")
	assert.Contains(t, out, " - KON-G-2 | Load:")

	out = ts.mustExec(t, "--json", "status")
	var status struct {
		Vessels []struct {
			Name string `json:"name"`
		} `json:"vessels"`
		Free []struct {
			Serial string `json:"serial"`
		} `json:"freeContainers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.Len(t, status.Vessels, 2)
	require.Len(t, status.Free, 1)
	assert.Equal(t, "KON-G-2", status.Free[0].Serial)
}

func TestVesselListAndRemove(t *testing.T) {
	ts := newTestSession(t, "")
	assert.Equal(t, "No vessels found.\n", ts.mustExec(t, "vessel", "list"))

	seed(t, ts)
	out := ts.mustExec(t, "vessel", "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "Aurora"))
	assert.Contains(t, lines[1], "1/2")

	out = ts.mustExec(t, "--json", "vessel", "remove", "aurora")
	var res struct {
		Removed    string   `json:"removed"`
		Containers []string `json:"containers"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "Aurora", res.Removed)
	assert.Equal(t, []string{"KON-L-1"}, res.Containers)

	assert.Equal(t, int(model.ExitNotFound), ts.exec("container", "show", "KON-L-1"))
	assert.Equal(t, int(model.ExitNotFound), ts.exec("vessel", "remove", "Aurora"))
}

// TestHazards verifies hazard events are shown inline and kept for the
// hazards command.
func TestHazards(t *testing.T) {
	ts := newTestSession(t, "")
	seed(t, ts)
	assert.Equal(t, "No hazard events recorded.\n", ts.mustExec(t, "hazards"))

	assert.Equal(t, int(model.ExitOverfill), ts.exec("load", "KON-G-2", "Aurora", "5001"))
	assert.Contains(t, ts.errOut.String(), "[HAZARD] overfill attempt for gas container KON-G-2")

	out := ts.mustExec(t, "--json", "hazards", "--clear")
	var res struct {
		Events []struct {
			Serial string  `json:"serial"`
			Weight float64 `json:"weight"`
			Limit  float64 `json:"limit"`
		} `json:"events"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Len(t, res.Events, 1)
	assert.Equal(t, "KON-G-2", res.Events[0].Serial)
	assert.Equal(t, 5001.0, res.Events[0].Weight)
	assert.Equal(t, 5000.0, res.Events[0].Limit)

	assert.Equal(t, "No hazard events recorded.\n", ts.mustExec(t, "hazards"))
	assert.Contains(t, ts.mustExec(t, "--json", "hazards"), `"events": []`)
}

// TestNonHazardousOverfillIsSilent verifies ordinary liquids fail without
// a hazard event.
func TestNonHazardousOverfillIsSilent(t *testing.T) {
	ts := newTestSession(t, "")
	ts.mustExec(t, "vessel", "add", "Aurora", "--max-containers", "2", "--max-weight", "50")
	ts.mustExec(t, "container", "create", "liquid", "--tare", "1000", "--max-load", "10000")

	assert.Equal(t, int(model.ExitOverfill), ts.exec("load", "KON-L-1", "Aurora", "9500"))
	assert.NotContains(t, ts.errOut.String(), "[HAZARD]")
	assert.Equal(t, "No hazard events recorded.\n", ts.mustExec(t, "hazards"))
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, false, model.WrapCLIError(model.ExitNotFound, "manifest not found: x.yaml", os.ErrNotExist))
	assert.Equal(t, "Error: manifest not found: x.yaml: file does not exist\n", buf.String())

	buf.Reset()
	printError(&buf, true, model.NewCLIError(model.ExitInvalidInput, "bad input"))
	var obj struct {
		Error struct {
			Message string `json:"message"`
			Code    int    `json:"code"`
			Detail  string `json:"detail"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Equal(t, "bad input", obj.Error.Message)
	assert.Equal(t, int(model.ExitInvalidInput), obj.Error.Code)
	assert.Empty(t, obj.Error.Detail)
}

func TestVerboseLog(t *testing.T) {
	ts := newTestSession(t, "")
	ts.mustExec(t, "-v", "status")
	assert.Contains(t, ts.errOut.String(), "[verbose] Started fleet")
}
