package settings_test

import (
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrz1836/dsf/internal/domain"
	"github.com/mrz1836/dsf/internal/settings"
)

func golden(t *testing.T) *goldie.Goldie {
	t.Helper()
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func fullDocument() *settings.Document {
	return &settings.Document{
		EnvironmentVariables: settings.Present(
			domain.EnvironmentVariable{SchemaName: "cr8a3_ApiBaseUrl", Value: "https://example.com/?a=1&b=<2>"},
			domain.EnvironmentVariable{SchemaName: "cr8a3_Region", Value: ""},
		),
		ConnectionReferences: settings.Present(
			domain.ConnectionReference{
				LogicalName:  domain.StringPtr("cr8a3_sql"),
				ConnectionID: "",
				ConnectorID:  domain.StringPtr("/providers/Microsoft.PowerApps/apis/shared_sql"),
			},
			domain.ConnectionReference{ConnectionID: "None found"},
		),
		WorkflowOwnership: settings.Present(
			domain.WorkflowOwnership{
				ComponentType:       29,
				ComponentUniqueName: "550e8400-e29b-41d4-a716-446655440000",
			},
			domain.WorkflowOwnership{
				ComponentType:       29,
				ComponentUniqueName: "6fa459ea-ee8a-3ca4-894e-db77e160355e",
				OwnerEmail:          domain.StringPtr("owner@contoso.com"),
			},
		),
	}
}

func TestEncode_Golden(t *testing.T) {
	tests := []struct {
		name string
		doc  *settings.Document
	}{
		{"full", fullDocument()},
		{"empty_sections", &settings.Document{
			ConnectionReferences: settings.Present[domain.ConnectionReference](),
			WorkflowOwnership:    settings.Present[domain.WorkflowOwnership](),
		}},
		{"no_sections", &settings.Document{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			data, err := settings.Encode(tc.doc)
			require.NoError(t, err)
			golden(t).Assert(t, tc.name, data)
		})
	}
}

func TestEncode_NoHTMLEscaping(t *testing.T) {
	data, err := settings.Encode(fullDocument())
	require.NoError(t, err)

	assert.Contains(t, string(data), `"https://example.com/?a=1&b=<2>"`)
	assert.NotContains(t, string(data), `\u0026`)
	assert.NotContains(t, string(data), `\u003c`)
	assert.Equal(t, byte('\n'), data[len(data)-1], "trailing newline")
}

func TestEncode_NilItemsWrittenAsEmptyList(t *testing.T) {
	doc := &settings.Document{
		EnvironmentVariables: settings.Section[domain.EnvironmentVariable]{Present: true},
	}
	data, err := settings.Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"EnvironmentVariables\": []\n}\n", string(data))
}

func TestRoundTrip_ByteIdentical(t *testing.T) {
	for _, doc := range []*settings.Document{fullDocument(), {}} {
		first, err := settings.Encode(doc)
		require.NoError(t, err)

		decoded, err := settings.Decode(first)
		require.NoError(t, err)

		second, err := settings.Encode(decoded)
		require.NoError(t, err)
		assert.Equal(t, string(first), string(second))
	}
}

func TestDecode_AbsentAndNullSections(t *testing.T) {
	doc, err := settings.Decode([]byte(`{"EnvironmentVariables": null, "ConnectionReferences": []}`))
	require.NoError(t, err)

	assert.False(t, doc.EnvironmentVariables.Present)
	assert.True(t, doc.ConnectionReferences.Present)
	assert.Empty(t, doc.ConnectionReferences.Items)
	assert.False(t, doc.WorkflowOwnership.Present)
}

func TestDecode_OptionalSlotFields(t *testing.T) {
	doc, err := settings.Decode([]byte(`{"ConnectionReferences": [
		{"ConnectionId": "", "ConnectorId": null},
		{"LogicalName": "ref", "ConnectionId": "abc", "ConnectorId": "/apis/shared_x"}
	]}`))
	require.NoError(t, err)
	require.Len(t, doc.ConnectionReferences.Items, 2)

	first := doc.ConnectionReferences.Items[0]
	assert.Nil(t, first.LogicalName)
	assert.Nil(t, first.ConnectorID)
	assert.Empty(t, first.Connector())

	second := doc.ConnectionReferences.Items[1]
	assert.Equal(t, "ref", second.Key())
	assert.Equal(t, "/apis/shared_x", second.Connector())

	data, err := settings.Encode(doc)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "LogicalName\": null")
	assert.NotContains(t, string(data), "ConnectorId\": null")
}

func TestDecode_PreservesUnknownTopLevelKeys(t *testing.T) {
	doc, err := settings.Decode([]byte(`{"zeta": {"b": 1}, "EnvironmentVariables": [], "alpha": "x"}`))
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, doc.ExtraKeys())

	data, err := settings.Encode(doc)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"EnvironmentVariables\": [],\n  \"alpha\": \"x\",\n  \"zeta\": {\n    \"b\": 1\n  }\n}\n", string(data))
}

func TestDecode_Errors(t *testing.T) {
	for _, in := range []string{``, `[]`, `{"EnvironmentVariables": {}}`, `{"ConnectionReferences": [{"ConnectionId": 5}]}`} {
		_, err := settings.Decode([]byte(in))
		assert.Error(t, err, "input %q", in)
	}
}

func TestSchemaNames(t *testing.T) {
	doc := &settings.Document{
		EnvironmentVariables: settings.Present(
			domain.EnvironmentVariable{SchemaName: "b"},
			domain.EnvironmentVariable{SchemaName: "a"},
			domain.EnvironmentVariable{SchemaName: "b"},
		),
	}
	assert.Equal(t, []string{"b", "a"}, doc.SchemaNames())
	assert.Empty(t, (&settings.Document{}).SchemaNames())
}
