package sim

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/netplan-sim/resilience-sim/sim/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetPlan_Fixtures(t *testing.T) {
	two := mustParsePlan(t, testutil.TwoNodePlanYAML)
	assert.Equal(t, 2, two.NumNodes())
	assert.Equal(t, 2, two.NumLinks())
	assert.Equal(t, 1, two.NumDemands())
	assert.Equal(t, 1, two.NumSRGs())
	assert.Equal(t, "A->B", two.Demands[0].Name)
	assert.Equal(t, 10.0, two.SRGs[0].MTTRHours)

	ring := mustParsePlan(t, testutil.RingPlanYAML)
	assert.Equal(t, 8, ring.NumLinks())
	assert.Equal(t, []int{0}, ring.Routes[0].BackupSegments)
	require.NotNil(t, ring.Attributes.Revertive)
	assert.True(t, *ring.Attributes.Revertive)
}

func TestParseNetPlan_Rejects(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown field", "nodes: [{name: a}, {name: b}]\nlinks: [{origin: 0, destination: 1, capacty: 3}]\ndemands: []\n", "parsing net plan"},
		{"negative capacity", "nodes: [{name: a}, {name: b}]\nlinks: [{origin: 0, destination: 1, capacity: -3}]\ndemands: []\n", "validating net plan"},
		{"unnamed node", "nodes: [{name: a}, {}]\nlinks: []\ndemands: []\n", "validating net plan"},
		{"no nodes", "nodes: []\nlinks: []\ndemands: []\n", "validating net plan"},
		{"dangling link", "nodes: [{name: a}, {name: b}]\nlinks: [{origin: 0, destination: 4, capacity: 3}]\ndemands: []\n", "out of range"},
		{"self loop", "nodes: [{name: a}]\nlinks: [{origin: 0, destination: 0, capacity: 3}]\ndemands: []\n", "self-loop"},
		{"srg member", "nodes: [{name: a}]\nlinks: []\ndemands: []\nsrgs: [{nodes: [3]}]\n", "srg 0"},
		{"empty route path", "nodes: [{name: a}, {name: b}]\nlinks: []\ndemands: [{ingress: 0, egress: 1, offered_traffic: 1}]\nroutes: [{demand: 0, carried_traffic: 1, path: []}]\n", "validating net plan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseNetPlan([]byte(tt.src))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadNetPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testutil.RingPlanYAML), 0o644))

	plan, err := LoadNetPlan(path)
	require.NoError(t, err)
	assert.Equal(t, 4, plan.NumNodes())

	_, err = LoadNetPlan(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "reading net plan"))
}

func TestWriteNetPlan_RoundTrips(t *testing.T) {
	plan := mustParsePlan(t, testutil.RingPlanYAML)

	var buf bytes.Buffer
	require.NoError(t, WriteNetPlan(&buf, plan))
	back, err := ParseNetPlan(buf.Bytes())
	require.NoError(t, err)

	if diff := cmp.Diff(plan, back); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
