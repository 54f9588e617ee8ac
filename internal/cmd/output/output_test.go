package output

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/modelsync/internal/documents"
	"github.com/agentstation/modelsync/pkg/errors"
	"github.com/agentstation/modelsync/pkg/fieldpath"
	"github.com/agentstation/modelsync/pkg/models"
	"github.com/agentstation/modelsync/pkg/reconcile"
)

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"yaml", "JSON", "table", ""} {
		_, err := ParseFormat(s)
		assert.NoError(t, err, s)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)

	assert.Equal(t, FormatJSON, DetectFormat("json"))
}

func TestFormatters(t *testing.T) {
	team := &models.Team{ID: "t1", Name: "ops", Members: []models.Member{{UserID: "u1"}}}

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatYAML).Format(&buf, team))
	assert.Contains(t, buf.String(), "name: ops")
	assert.Contains(t, buf.String(), "user_id: u1")

	buf.Reset()
	require.NoError(t, NewFormatter(FormatJSON).Format(&buf, team))
	assert.Contains(t, buf.String(), `"name": "ops"`)

	buf.Reset()
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, team))
	out := buf.String()
	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "ops")
	assert.Contains(t, out, `[{"user_id":"u1"}]`)
	assert.NotContains(t, out, "Description", "empty fields are skipped")
}

func TestViolationData(t *testing.T) {
	fe := errors.NewDuplicateIdentity(fieldpath.New("members").Index(1), "u1", 0)
	data := ViolationData(fe)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "members[1]", data.Rows[0][0])
	assert.Equal(t, "duplicate", data.Rows[0][1])

	var buf bytes.Buffer
	require.NoError(t, NewFormatter(FormatTable).Format(&buf, data))
	assert.Contains(t, buf.String(), "members[1]")
}

func TestPlanData(t *testing.T) {
	plans := []documents.ListPlan{{
		Field: "checklist",
		Plan: &reconcile.Plan{
			Steps: []reconcile.Step{
				{Action: reconcile.ActionKept, Key: "1", SourceIndex: 0, TargetIndex: 0},
				{Action: reconcile.ActionAdded, SourceIndex: 1, TargetIndex: -1},
			},
			Removed: []reconcile.Step{{Action: reconcile.ActionRemoved, Key: "2", SourceIndex: -1, TargetIndex: 1}},
		},
	}}

	data := PlanData(plans)
	assert.Equal(t, [][]string{
		{"checklist", "kept", "1", "0", "0"},
		{"checklist", "added", "", "1", "-"},
		{"checklist", "removed", "2", "-", "1"},
	}, data.Rows)
	assert.Len(t, plans[0].Plan.Steps, 2, "plan steps are not modified")
}
