package util

import (
	"log/slog"
	"time"
)

// Trace 记录一段操作的耗时，用法: defer util.Trace("name")()
func Trace(name string) func() {
	start := time.Now()
	slog.Debug("start", "op", name)
	return func() {
		slog.Info("finish", "op", name, "elapsed", time.Since(start))
	}
}
