package accounting

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountingServiceLifecycle(t *testing.T) {
	t.Setenv("PORT", "0")
	svc := NewAccountingService(map[string]interface{}{
		"port":                 3000,
		"static_dir":           t.TempDir(),
		"template_dir":         t.TempDir(),
		"require_confirmation": "true",
	}).(*AccountingService)

	assert.Equal(t, "accounting", svc.Name())
	assert.Equal(t, 0, svc.port, "PORT overrides the configured port")
	assert.True(t, svc.handlers.Generator.Policy.Enabled)
	assert.Empty(t, svc.Addr())

	require.NoError(t, svc.Start())
	assert.Error(t, svc.Start())

	_, port, err := net.SplitHostPort(svc.Addr())
	require.NoError(t, err)
	resp, err := http.Get("http://127.0.0.1:" + port + "/api/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"])

	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}
