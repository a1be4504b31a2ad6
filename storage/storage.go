package storage

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"time"

	nhttp "github.com/chaos-io/iconbg/util/http"
)

// ErrReadOnly 后端不支持写入
var ErrReadOnly = errors.New("storage backend is read-only")

type Backend interface {
	GetFile(ctx context.Context, filename string) ([]byte, error)
	PutFile(ctx context.Context, filename string, content *bytes.Buffer) error
	FileExists(ctx context.Context, filename string) bool
}

type Options struct {
	// Timeout 远程后端（HTTP/S3）的超时
	Timeout time.Duration
	// HTTPClient 为空时使用默认客户端
	HTTPClient nhttp.IClient
}

// Open 根据位置选择后端，返回后端和后端内的文件名
//
//	s3://host[:port]/bucket/key      S3 (https)
//	s3+http://host[:port]/bucket/key S3 (http)
//	http(s)://...                    只读下载
//	其他                              本地文件
func Open(location string, opts Options) (Backend, string, error) {
	switch {
	case strings.HasPrefix(location, "s3://"), strings.HasPrefix(location, "s3+http://"):
		return NewS3Backend(location, opts.Timeout)
	case strings.HasPrefix(location, "http://"), strings.HasPrefix(location, "https://"):
		cli := opts.HTTPClient
		if cli == nil {
			cli = nhttp.NewHTTPClientWithTimeout(opts.Timeout)
		}
		return &HTTPBackend{cli: cli}, location, nil
	default:
		return &FsBackend{}, location, nil
	}
}
