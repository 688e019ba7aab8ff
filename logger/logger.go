// Package logger настраивает структурированный логгер очистки данных.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

var (
	// Logger глобальный структурированный логгер
	Logger *slog.Logger
)

func init() {
	Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
}

// ParseLevel преобразует строковый уровень (DEBUG, INFO, WARN, ERROR) в slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Init переинициализирует глобальный логгер.
// format: "json" для JSON, иначе текстовый формат.
func Init(level, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	Logger = slog.New(handler)
}

// LogStageStart логирует начало этапа pipeline
func LogStageStart(stage string, rows, columns int) {
	Logger.Info("Stage started",
		"stage", stage,
		"rows", rows,
		"columns", columns,
	)
}

// LogStageComplete логирует завершение этапа pipeline
func LogStageComplete(stage string, rows, columns int, duration time.Duration) {
	Logger.Info("Stage completed",
		"stage", stage,
		"rows", rows,
		"columns", columns,
		"duration_ms", duration.Milliseconds(),
	)
}

// LogStageError логирует ошибку этапа
func LogStageError(stage string, err error) {
	Logger.Error("Stage failed",
		"stage", stage,
		"error", err,
	)
}

// LogColumnType логирует определенный тип колонки
func LogColumnType(column, semanticType, reason string) {
	Logger.Info("Column type inferred",
		"column", column,
		"type", semanticType,
		"reason", reason,
	)
}

// LogWarn логирует предупреждение
func LogWarn(msg string, attrs ...any) {
	Logger.Warn(msg, attrs...)
}

// LogInfo логирует информационное сообщение
func LogInfo(msg string, attrs ...any) {
	Logger.Info(msg, attrs...)
}

// LogDebug логирует отладочное сообщение
func LogDebug(msg string, attrs ...any) {
	Logger.Debug(msg, attrs...)
}
