// Package logger wraps logrus with structured fields and a payload
// sanitizer. Everything routed through it is scrubbed of card numbers,
// passwords and tokens before hitting the log stream.
package logger

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

type Fields map[string]any

var log = newLogger()

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})
	l.SetOutput(os.Stdout)
	level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)
	return l
}

var sensitiveKeys = map[string]struct{}{
	"pan":           {},
	"cardnumber":    {},
	"card_number":   {},
	"password":      {},
	"passwordhash":  {},
	"token":         {},
	"authorization": {},
}

func Info(message string, fields Fields) {
	log.WithFields(logrus.Fields(sanitizeFields(fields))).Info(message)
}

func Warn(message string, fields Fields) {
	log.WithFields(logrus.Fields(sanitizeFields(fields))).Warn(message)
}

func Error(message string, err error, fields Fields) {
	base := Fields{}
	for k, v := range fields {
		base[k] = v
	}
	if err != nil {
		base["error"] = err.Error()
	}
	log.WithFields(logrus.Fields(sanitizeFields(base))).Error(message)
}

func Fatal(message string, err error) {
	if err != nil {
		log.WithField("error", err.Error()).Fatal(message)
		return
	}
	log.Fatal(message)
}

// SanitizePayload renders any value through JSON and masks sensitive
// keys so request/response bodies can be logged safely.
func SanitizePayload(payload any) any {
	raw, err := json.Marshal(payload)
	if err != nil {
		return "<unavailable>"
	}
	var data any
	if err := json.Unmarshal(raw, &data); err != nil {
		return "<unavailable>"
	}
	return sanitizeValue(data)
}

func sanitizeFields(fields Fields) Fields {
	if fields == nil {
		return Fields{}
	}
	out := make(Fields, len(fields))
	for k, v := range fields {
		if isSensitiveKey(k) {
			out[k] = "******"
			continue
		}
		out[k] = sanitizeValue(v)
	}
	return out
}

func sanitizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, inner := range typed {
			if isSensitiveKey(key) {
				out[key] = "******"
				continue
			}
			out[key] = sanitizeValue(inner)
		}
		return out
	case []any:
		out := make([]any, 0, len(typed))
		for _, item := range typed {
			out = append(out, sanitizeValue(item))
		}
		return out
	default:
		return value
	}
}

func isSensitiveKey(key string) bool {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(key), "-", ""))
	_, ok := sensitiveKeys[normalized]
	return ok
}
