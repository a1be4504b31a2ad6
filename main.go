package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/chaos-io/iconbg/config"
	"github.com/chaos-io/iconbg/mask"
	"github.com/chaos-io/iconbg/storage"
	"github.com/chaos-io/iconbg/util"
)

func main() {
	cfg, code, ok := parseArgs(os.Args[1:], os.Stderr)
	if !ok {
		os.Exit(code)
	}

	setupLogger(os.Stderr, cfg.Verbose)

	if err := run(context.Background(), cfg, os.Stdout); err != nil {
		slog.Error("failed to remove icon background", "err", err)
		os.Exit(1)
	}
}

// parseArgs ok 为 false 时进程以 code 退出，错误已经写到 stderr
func parseArgs(args []string, stderr io.Writer) (config.Config, int, bool) {
	cfg, err := config.Parse(args, stderr)
	switch {
	case err == nil:
		return cfg, 0, true
	case errors.Is(err, flag.ErrHelp):
		return config.Config{}, 0, false
	case errors.Is(err, config.ErrUsage):
		// usage 已经由 flag 打印
		return config.Config{}, 2, false
	default:
		_, _ = fmt.Fprintln(stderr, err)
		return config.Config{}, 2, false
	}
}

func setupLogger(w io.Writer, verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

// run 读取 -> 去白底 -> 编码 -> 写出；任何一步失败都不会写出结果
func run(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	defer util.Trace("remove background")()

	opts := storage.Options{Timeout: cfg.Timeout}

	src, srcName, err := storage.Open(cfg.Source, opts)
	if err != nil {
		return err
	}
	data, err := src.GetFile(ctx, srcName)
	if err != nil {
		return err
	}
	img, format, err := util.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%s: %w", cfg.Source, err)
	}
	slog.Debug("image loaded", "src", cfg.Source, "format", format, "size", img.Bounds().Size())

	p := mask.NewPreprocessor(
		mask.WithRemover(mask.NewFloodFillRemover(cfg.Threshold)),
		mask.WithMaxSize(cfg.MaxSize),
	)
	out, res, err := p.ImagePreprocess(ctx, img)
	if err != nil {
		return err
	}
	slog.Info("background classified",
		"background", res.Background,
		"total", res.Total(),
		"foreground", res.Foreground,
		"had_alpha", res.HadAlpha)

	buf := new(bytes.Buffer)
	if err := util.EncodeImage(buf, out, cfg.Dest); err != nil {
		return err
	}

	dst, dstName, err := storage.Open(cfg.Dest, opts)
	if err != nil {
		return err
	}
	if err := dst.PutFile(ctx, dstName, buf); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(stdout, "Done:", cfg.Dest)
	return nil
}
