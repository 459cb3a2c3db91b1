package appmanager

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AcctEventSQL/internal/logger"
	"AcctEventSQL/internal/serviceiface"
)

// stubService runs optional hooks; nil hooks are no-ops.
type stubService struct {
	ServiceName string
	OnStart     func() error
	OnStop      func() error
}

func (s *stubService) Name() string { return s.ServiceName }

func (s *stubService) Start() error {
	if s.OnStart == nil {
		return nil
	}
	return s.OnStart()
}

func (s *stubService) Stop() error {
	if s.OnStop == nil {
		return nil
	}
	return s.OnStop()
}

func TestParseServiceSequenceSortsByStartOrder(t *testing.T) {
	cfgs, err := ParseServiceSequence([]byte(`
services:
  - name: accounting
    start_order: 3
    config:
      port: 3000
  - name: logger
    start_order: 1
  - name: templates
    start_order: 2
    config:
      dir: ./templates
`))
	require.NoError(t, err)
	require.Len(t, cfgs, 3)
	assert.Equal(t, []string{"logger", "templates", "accounting"}, []string{cfgs[0].Name, cfgs[1].Name, cfgs[2].Name})
	assert.Equal(t, 3000, cfgs[2].Config["port"])
}

func TestLoadServiceSequenceMissingFile(t *testing.T) {
	_, err := LoadServiceSequence(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.True(t, os.IsNotExist(err))
}

func TestAutoRegisterServices(t *testing.T) {
	defer logger.SetGlobalLogger(nil)
	am := NewAppManager()
	unknown := am.AutoRegisterServices([]ServiceConfig{
		{Name: "logger", Config: map[string]interface{}{"folder_path": t.TempDir()}},
		{Name: "templates"},
		{Name: "accounting"},
		{Name: "fx"},
	})
	assert.Equal(t, []string{"fx"}, unknown)
	assert.NotNil(t, am.GetServiceByName("accounting"))
	assert.Nil(t, am.GetServiceByName("fx"))
	assert.NotNil(t, logger.GlobalLogger)
}

func TestStartAllRollsBackOnFailure(t *testing.T) {
	var order []string
	track := func(name string, startErr error) serviceiface.Service {
		return &stubService{
			ServiceName: name,
			OnStart: func() error {
				order = append(order, "start "+name)
				return startErr
			},
			OnStop: func() error {
				order = append(order, "stop "+name)
				return nil
			},
		}
	}

	am := NewAppManager()
	am.RegisterService(track("a", nil))
	am.RegisterService(track("b", nil))
	am.RegisterService(track("c", errors.New("port in use")))
	am.RegisterService(track("d", nil))

	err := am.StartAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start service c")
	assert.Equal(t, []string{"start a", "start b", "start c", "stop b", "stop a"}, order)

	order = nil
	require.NoError(t, am.StopAll(), "nothing left to stop")
	assert.Empty(t, order)
}

func TestStopAllReportsEveryFailure(t *testing.T) {
	am := NewAppManager()
	am.RegisterService(&stubService{ServiceName: "a", OnStop: func() error { return errors.New("a") }})
	am.RegisterService(&stubService{ServiceName: "b", OnStop: func() error { return errors.New("b") }})
	require.NoError(t, am.StartAll())

	err := am.StopAll()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stop service a")
	assert.Contains(t, err.Error(), "failed to stop service b")
}
