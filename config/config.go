package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/chaos-io/iconbg/mask"
)

// DefaultSource 不指定路径时处理的图标，结果写回同一个文件
const DefaultSource = "src-tauri/app-icon-source.png"

var ErrUsage = errors.New("usage: iconbg [flags] [src [dst]]")

type Config struct {
	Source    string
	Dest      string
	Threshold uint8
	// MaxSize 最长边上限，0 表示不缩放
	MaxSize int
	// Timeout 远程存储（HTTP/S3）的超时
	Timeout time.Duration
	Verbose bool
}

func Default() Config {
	return Config{
		Source:    DefaultSource,
		Dest:      DefaultSource,
		Threshold: mask.DefaultThreshold,
		Timeout:   30 * time.Second,
	}
}

// Parse 解析命令行参数（不含程序名）
//
//	无参数      默认路径，原地覆盖
//	src         处理 src，原地覆盖
//	src dst     处理 src，写到 dst
func Parse(args []string, output io.Writer) (Config, error) {
	cfg := Default()

	fs := flag.NewFlagSet("iconbg", flag.ContinueOnError)
	fs.SetOutput(output)
	threshold := fs.Uint("threshold", uint(cfg.Threshold), "minimum value of R, G and B for a pixel to count as white background (0-255)")
	fs.IntVar(&cfg.MaxSize, "max-size", cfg.MaxSize, "downscale so the longest side is at most this many pixels, 0 keeps the original size")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "timeout for remote (http/s3) sources and destinations")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "enable debug logging")
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), ErrUsage.Error())
		_, _ = fmt.Fprintln(fs.Output(), "")
		_, _ = fmt.Fprintln(fs.Output(), "Removes the white background connected to the four corners of an icon by making it transparent.")
		_, _ = fmt.Fprintf(fs.Output(), "Without arguments %s is processed in place.\n", DefaultSource)
		_, _ = fmt.Fprintln(fs.Output(), "src and dst may be local paths, s3://host/bucket/key or s3+http://host/bucket/key; src may also be an http(s) URL.")
		_, _ = fmt.Fprintln(fs.Output(), "")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if *threshold > 255 {
		return Config{}, fmt.Errorf("threshold must be between 0 and 255, got %d", *threshold)
	}
	cfg.Threshold = uint8(*threshold)
	if cfg.MaxSize < 0 {
		return Config{}, fmt.Errorf("max-size must not be negative, got %d", cfg.MaxSize)
	}

	switch fs.NArg() {
	case 0:
	case 1:
		cfg.Source = fs.Arg(0)
		cfg.Dest = cfg.Source
	case 2:
		cfg.Source = fs.Arg(0)
		cfg.Dest = fs.Arg(1)
	default:
		fs.Usage()
		return Config{}, ErrUsage
	}
	return cfg, nil
}
