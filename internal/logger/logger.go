package logger

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"AcctEventSQL/internal/config"
)

type LoggerService struct {
	Config        map[string]interface{}
	log           *logrus.Logger
	file          *os.File
	mu            sync.Mutex
	stopCh        chan struct{}
	wg            sync.WaitGroup
	currentLog    string
	maxFileBytes  int64
	retentionDays int
	folderPath    string
	echo          bool
}

func NewLoggerService(cfg map[string]interface{}) *LoggerService {
	l := logrus.New()
	l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	if level, err := logrus.ParseLevel(config.String(cfg, "level", config.DefaultLogLevel)); err == nil {
		l.SetLevel(level)
	}

	return &LoggerService{
		Config:        cfg,
		log:           l,
		stopCh:        make(chan struct{}),
		maxFileBytes:  int64(config.Int(cfg, "max_file_mb", config.DefaultMaxLogFileMB)) * 1024 * 1024,
		retentionDays: config.Int(cfg, "retention_days", 0),
		folderPath:    config.String(cfg, "folder_path", config.DefaultLogFolder),
		echo:          config.Bool(cfg, "console", true),
	}
}

func (l *LoggerService) Name() string {
	return "logger"
}

// Logger exposes the underlying logrus logger.
func (l *LoggerService) Logger() *logrus.Logger {
	return l.log
}

func (l *LoggerService) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(l.folderPath, 0755); err != nil {
		return err
	}
	if err := l.openLocked(l.nextLogFileName()); err != nil {
		return err
	}
	l.log.WithField("file", l.currentLog).Info("[LoggerService] Started")

	// background goroutine for rotation and retention
	l.wg.Add(1)
	go l.backgroundWorker()

	return nil
}

func (l *LoggerService) Stop() error {
	select {
	case <-l.stopCh:
		return nil
	default:
		close(l.stopCh)
	}
	l.wg.Wait()
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		l.log.Info("[LoggerService] Stopping")
		l.log.SetOutput(os.Stderr)
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *LoggerService) openLocked(name string) error {
	file, err := os.OpenFile(name, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	l.file = file
	l.currentLog = name
	if l.echo {
		l.log.SetOutput(io.MultiWriter(os.Stdout, file))
	} else {
		l.log.SetOutput(file)
	}
	return nil
}

func (l *LoggerService) nextLogFileName() string {
	timestamp := time.Now().Format("20060102_150405.000")
	return filepath.Join(l.folderPath, fmt.Sprintf("app_%s.log", timestamp))
}

func (l *LoggerService) rotateIfNeeded() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file == nil || l.maxFileBytes <= 0 {
		return nil
	}
	info, err := l.file.Stat()
	if err != nil {
		return err
	}
	if info.Size() < l.maxFileBytes {
		return nil
	}
	l.file.Close()
	if err := l.openLocked(l.nextLogFileName()); err != nil {
		l.log.SetOutput(os.Stderr)
		l.file = nil
		return err
	}
	l.log.WithField("file", l.currentLog).Info("[LoggerService] Rotated log file")
	return nil
}

func (l *LoggerService) backgroundWorker() {
	defer l.wg.Done()
	ticker := time.NewTicker(10 * time.Second)
	retentionTicker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	defer retentionTicker.Stop()

	for {
		select {
		case <-l.stopCh:
			return
		case <-ticker.C:
			if err := l.rotateIfNeeded(); err != nil {
				l.log.WithError(err).Error("[LoggerService] rotation failed")
			}
		case <-retentionTicker.C:
			l.zipAndCleanOldLogs(time.Now())
		}
	}
}

// zipAndCleanOldLogs moves every .log file older than the retention window
// into a dated zip archive.
func (l *LoggerService) zipAndCleanOldLogs(now time.Time) {
	if l.retentionDays <= 0 {
		return
	}
	cutoff := now.AddDate(0, 0, -l.retentionDays)
	files, err := os.ReadDir(l.folderPath)
	if err != nil {
		return
	}

	var old []string
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".log" {
			continue
		}
		full := filepath.Join(l.folderPath, f.Name())
		if full == l.currentLog {
			continue
		}
		info, err := os.Stat(full)
		if err != nil || info.ModTime().After(cutoff) {
			continue
		}
		old = append(old, full)
	}
	if len(old) == 0 {
		return
	}

	zipName := filepath.Join(l.folderPath, fmt.Sprintf("logs_%s.zip", now.Format("20060102_150405")))
	zipFile, err := os.Create(zipName)
	if err != nil {
		return
	}
	defer zipFile.Close()
	zipWriter := zip.NewWriter(zipFile)
	defer zipWriter.Close()

	for _, full := range old {
		w, err := zipWriter.Create(filepath.Base(full))
		if err != nil {
			continue
		}
		src, err := os.Open(full)
		if err != nil {
			continue
		}
		_, err = io.Copy(w, src)
		src.Close()
		if err == nil {
			os.Remove(full)
		}
	}
}

func (l *LoggerService) LogAudit(msg string) {
	l.log.WithField("audit", true).Info(msg)
}

var GlobalLogger *LoggerService

func SetGlobalLogger(l *LoggerService) {
	GlobalLogger = l
}

// L returns the process logger: the registered service's logger, or the
// logrus standard logger before one is registered.
func L() *logrus.Logger {
	if GlobalLogger != nil {
		return GlobalLogger.log
	}
	return logrus.StandardLogger()
}

// Audit records msg through the registered service, if any.
func Audit(msg string) {
	if GlobalLogger != nil {
		GlobalLogger.LogAudit(msg)
		return
	}
	logrus.WithField("audit", true).Info(msg)
}
