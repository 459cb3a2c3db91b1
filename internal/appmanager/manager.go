package appmanager

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"AcctEventSQL/api/accounting"
	"AcctEventSQL/internal/jobs"
	"AcctEventSQL/internal/logger"
	"AcctEventSQL/internal/serviceiface"
)

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		return logger.NewLoggerService(cfg)
	},
	"templates": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewTemplateService(cfg)
	},
	"accounting": func(cfg map[string]interface{}) serviceiface.Service {
		return accounting.NewAccountingService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	started  int
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

// StartAll starts services in registration order. On failure the services
// already started are stopped again before the error is returned.
func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()

	for _, service := range am.services {
		logger.L().WithField("service", service.Name()).Info("Starting service")
		if err := service.Start(); err != nil {
			startErr := fmt.Errorf("failed to start service %s: %w", service.Name(), err)
			return errors.Join(startErr, am.stopLocked())
		}
		am.started++
	}
	return nil
}

// StopAll stops started services in reverse order, continuing past
// failures and reporting all of them.
func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	return am.stopLocked()
}

func (am *AppManager) stopLocked() error {
	var errs []error
	for i := am.started - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("failed to stop service %s: %w", svc.Name(), err))
		}
	}
	am.started = 0
	return errors.Join(errs...)
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseServiceSequence(data)
}

func ParseServiceSequence(data []byte) ([]ServiceConfig, error) {
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}

	// sort by start_order
	sort.SliceStable(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})

	return seq.Services, nil
}

// AutoRegisterServices builds every configured service with a known
// constructor and returns the names it did not recognise.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) []string {
	var unknown []string
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			unknown = append(unknown, svc.Name)
			continue
		}
		am.RegisterService(constructor(svc.Config))
	}

	for _, svc := range am.services {
		if l, ok := svc.(*logger.LoggerService); ok {
			logger.SetGlobalLogger(l)
			break
		}
	}
	return unknown
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}
