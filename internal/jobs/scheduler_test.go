package jobs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AcctEventSQL/internal/config"
	"AcctEventSQL/internal/templates"
)

func TestTemplateConfigDefaults(t *testing.T) {
	cfg := NewTemplateConfig(nil)
	assert.Equal(t, config.DefaultTemplateDir, cfg.Dir)
	assert.Equal(t, config.DefaultTemplateSchedule, cfg.Schedule)
}

func TestTemplateServiceLifecycle(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tpl")
	svc := NewTemplateService(map[string]interface{}{
		"dir":              dir,
		"refresh_schedule": "@every 1h",
		"timezone":         "Not/AZone",
	}).(*TemplateService)

	assert.Equal(t, "templates", svc.Name())
	require.NoError(t, svc.Start())
	assert.Equal(t, 1, svc.runs)

	_, err := os.Stat(filepath.Join(dir, templates.CSVName))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, templates.XLSXName))
	assert.NoError(t, err)

	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}

func TestTemplateServiceRejectsBadSchedule(t *testing.T) {
	svc := NewTemplateService(map[string]interface{}{
		"dir":              t.TempDir(),
		"refresh_schedule": "not a schedule",
	})
	assert.Error(t, svc.Start())
}
