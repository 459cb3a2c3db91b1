package accounting

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"AcctEventSQL/api"
	"AcctEventSQL/internal/config"
	"AcctEventSQL/internal/logger"
	"AcctEventSQL/internal/serviceiface"
	"AcctEventSQL/internal/sqlgen"
)

type AccountingService struct {
	config    map[string]interface{}
	port      int
	staticDir string
	maxBodyMB int
	handlers  *Handlers

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// NewAccountingService reads its settings from cfg. The PORT environment
// variable, when set, overrides the configured port.
func NewAccountingService(cfg map[string]interface{}) serviceiface.Service {
	port := config.Int(cfg, "port", config.DefaultPort)
	if env := os.Getenv("PORT"); env != "" {
		if p, err := strconv.Atoi(env); err == nil {
			port = p
		}
	}
	policy := sqlgen.ConfirmPolicy{
		Enabled: config.Bool(cfg, "require_confirmation", false),
		Phrase:  config.String(cfg, "confirm_phrase", sqlgen.DefaultConfirmPhrase),
	}
	return &AccountingService{
		config:    cfg,
		port:      port,
		staticDir: config.String(cfg, "static_dir", config.DefaultStaticDir),
		maxBodyMB: config.Int(cfg, "max_body_mb", config.DefaultMaxBodyMB),
		handlers: &Handlers{
			Generator:   sqlgen.NewGenerator(policy),
			TemplateDir: config.String(cfg, "template_dir", config.DefaultTemplateDir),
		},
	}
}

func (s *AccountingService) Name() string {
	return "accounting"
}

// Handler returns the routed handler without starting a listener.
func (s *AccountingService) Handler() http.Handler {
	return NewRouter(s.handlers, s.staticDir, s.maxBodyMB)
}

func (s *AccountingService) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		return errors.New(s.Name() + " already started")
	}

	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return err
	}
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.server = srv
	s.listener = ln

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().WithError(err).Error("accounting server failed")
		}
	}()

	addr := ln.Addr().String()
	logger.Audit("Accounting service started on " + addr)
	api.LogInfo("Template XLSX: http://%s/api/template/xlsx", addr)
	api.LogInfo("Template CSV : http://%s/api/template/csv", addr)
	return nil
}

// Addr is the bound listen address, or "" before Start.
func (s *AccountingService) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *AccountingService) Stop() error {
	s.mu.Lock()
	srv := s.server
	s.server = nil
	s.listener = nil
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("accounting shutdown: %w", err)
	}
	logger.Audit("Accounting service stopped")
	return nil
}
