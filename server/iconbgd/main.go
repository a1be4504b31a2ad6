package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/iconbg/mask"
	"github.com/chaos-io/iconbg/server"
)

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	threshold := flag.Uint("threshold", uint(mask.DefaultThreshold), "default white threshold (0-255)")
	maxSize := flag.Int("max-size", 0, "downscale uploads so the longest side is at most this many pixels, 0 keeps the original size")
	maxUpload := flag.Int64("max-upload", server.DefaultMaxUploadBytes, "maximum upload size in bytes")
	flag.Parse()

	if *threshold > 255 {
		slog.Error("threshold must be between 0 and 255", "threshold", *threshold)
		os.Exit(2)
	}

	gin.SetMode(gin.ReleaseMode)
	s := server.New()
	s.Threshold = uint8(*threshold)
	s.MaxSize = *maxSize
	s.MaxUploadBytes = *maxUpload

	srv := &http.Server{
		Addr:              *addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("listening", "addr", *addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server stopped", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}
