package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"AcctEventSQL/internal/config"
	"AcctEventSQL/internal/logger"
	"AcctEventSQL/internal/serviceiface"
	"AcctEventSQL/internal/templates"
)

// TemplateConfig controls where and when the upload templates are rebuilt.
type TemplateConfig struct {
	Dir      string
	Schedule string
	TimeZone string
}

func NewTemplateConfig(cfg map[string]interface{}) *TemplateConfig {
	return &TemplateConfig{
		Dir:      config.String(cfg, "dir", config.DefaultTemplateDir),
		Schedule: config.String(cfg, "refresh_schedule", config.DefaultTemplateSchedule),
		TimeZone: config.String(cfg, "timezone", config.DefaultTimeZone),
	}
}

// TemplateService writes the templates on start and keeps them fresh on a
// cron schedule, so a template deleted or edited on disk is restored.
type TemplateService struct {
	cfg  *TemplateConfig
	cron *cron.Cron
	mu   sync.Mutex
	runs int
}

func NewTemplateService(cfg map[string]interface{}) serviceiface.Service {
	return &TemplateService{cfg: NewTemplateConfig(cfg)}
}

func (s *TemplateService) Name() string {
	return "templates"
}

// Dir is the directory the templates are written to.
func (s *TemplateService) Dir() string {
	return s.cfg.Dir
}

func (s *TemplateService) Start() error {
	log := logger.L()
	if err := s.Refresh(context.Background()); err != nil {
		return fmt.Errorf("failed to write templates: %w", err)
	}

	loc, err := time.LoadLocation(s.cfg.TimeZone)
	if err != nil {
		loc = time.UTC
		logger.Audit(fmt.Sprintf("Invalid timezone %s, falling back to UTC: %v", s.cfg.TimeZone, err))
	}

	c := cron.New(cron.WithLocation(loc))
	_, err = c.AddFunc(s.cfg.Schedule, func() {
		if err := s.Refresh(context.Background()); err != nil {
			log.WithError(err).Error("template refresh failed")
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule template refresh: %w", err)
	}

	s.mu.Lock()
	s.cron = c
	s.mu.Unlock()
	c.Start()

	logger.Audit(fmt.Sprintf("Template scheduler started with schedule: %s (timezone: %s)", s.cfg.Schedule, loc))
	return nil
}

// Refresh rewrites both templates now.
func (s *TemplateService) Refresh(ctx context.Context) error {
	if err := templates.WriteAll(ctx, s.cfg.Dir); err != nil {
		return err
	}
	s.mu.Lock()
	s.runs++
	s.mu.Unlock()
	logger.L().WithField("dir", s.cfg.Dir).Debug("templates written")
	return nil
}

func (s *TemplateService) Stop() error {
	s.mu.Lock()
	c := s.cron
	s.cron = nil
	s.mu.Unlock()
	if c == nil {
		return nil
	}
	ctx := c.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(30 * time.Second):
		return fmt.Errorf("template refresh still running after 30s")
	}
	logger.Audit("Template scheduler stopped")
	return nil
}
