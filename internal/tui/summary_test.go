package tui

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/domain"
	dsferrors "github.com/mrz1836/dsf/internal/errors"
	"github.com/mrz1836/dsf/internal/settings"
)

func sampleDocument(t *testing.T) *settings.Document {
	t.Helper()
	doc, err := settings.Decode([]byte(`{
  "EnvironmentVariables": [
    {"SchemaName": "cr8a3_ApiBaseUrl", "Value": "https://api.contoso.com"},
    {"SchemaName": "cr8a3_Region", "Value": ""}
  ],
  "ConnectionReferences": [
    {"LogicalName": "cr8a3_sql", "ConnectionId": "sql1", "ConnectorId": "/providers/Microsoft.PowerApps/apis/shared_sql"},
    {"LogicalName": "cr8a3_teams", "ConnectionId": "None found", "ConnectorId": "/providers/Microsoft.PowerApps/apis/shared_teams"},
    {"ConnectionId": ""}
  ],
  "Notes": "kept"
}`))
	require.NoError(t, err)
	return doc
}

func TestSummaryMarkdown_Golden(t *testing.T) {
	g := goldie.New(t, goldie.WithFixtureDir("testdata/golden"), goldie.WithNameSuffix(".golden"))
	g.Assert(t, "summary", []byte(SummaryMarkdown("Sol_deploymentSettings.json", sampleDocument(t))))
}

func TestSummaryMarkdown_EmptyWorkflows(t *testing.T) {
	doc := &settings.Document{WorkflowOwnership: settings.Present[domain.WorkflowOwnership]()}

	md := SummaryMarkdown("s", doc)
	assert.Contains(t, md, "## Workflow Ownership\n\n_None._")
	assert.Contains(t, md, "## Environment Variables\n\n_Not present in the bundle._")
}

func TestSummaryMarkdown_EscapesPipes(t *testing.T) {
	doc := &settings.Document{EnvironmentVariables: settings.Present(
		domain.EnvironmentVariable{SchemaName: "a", Value: "x|y"},
	)}

	assert.Contains(t, SummaryMarkdown("s", doc), `| a | x\|y |`)
}

func TestRenderMarkdown_Plain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	out, err := RenderMarkdown(SummaryMarkdown("Sol", sampleDocument(t)), 120)
	require.NoError(t, err)
	assert.Contains(t, out, "cr8a3_Region")
	assert.Contains(t, out, "Connection References")
}

func TestOwnerPrompt_NonInteractive(t *testing.T) {
	p := &OwnerPrompt{interactive: func() bool { return false }}

	email, apply, err := p.PromptOwner(context.Background(), 2, nil)
	require.ErrorIs(t, err, dsferrors.ErrInteractiveRequired)
	assert.Empty(t, email)
	assert.False(t, apply)
}

func TestPlural(t *testing.T) {
	assert.Equal(t, "1 workflow", plural(1, "workflow"))
	assert.Equal(t, "0 workflows", plural(0, "workflow"))
	assert.Equal(t, "3 workflows", plural(3, "workflow"))
}

func TestTheme(t *testing.T) {
	assert.NotNil(t, Theme())
}
