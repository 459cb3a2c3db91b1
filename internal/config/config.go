// Package config holds service defaults and helpers for the loosely typed
// config maps decoded from services.yaml.
package config

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DefaultServicesFile = "services.yaml"
	DefaultTimeZone     = "Asia/Bangkok"

	DefaultPort        = 3000
	DefaultStaticDir   = "public"
	DefaultTemplateDir = "templates"
	DefaultMaxBodyMB   = 20

	// templates are rebuilt at 00:05 every day
	DefaultTemplateSchedule = "5 0 * * *"

	DefaultLogFolder    = "./logs"
	DefaultLogLevel     = "info"
	DefaultMaxLogFileMB = 10
)

// Int reads key from cfg, accepting the numeric shapes yaml.v3 and JSON
// produce as well as numeric strings.
func Int(cfg map[string]interface{}, key string, def int) int {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case int:
		return t
	case int64:
		return int(t)
	case uint64:
		return int(t)
	case float64:
		return int(t)
	case string:
		var parsed int
		if _, err := fmt.Sscanf(strings.TrimSpace(t), "%d", &parsed); err == nil {
			return parsed
		}
	}
	return def
}

func String(cfg map[string]interface{}, key, def string) string {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func Bool(cfg map[string]interface{}, key string, def bool) bool {
	v, ok := cfg[key]
	if !ok || v == nil {
		return def
	}
	switch t := v.(type) {
	case bool:
		return t
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(t)); err == nil {
			return b
		}
	case int:
		return t != 0
	}
	return def
}
