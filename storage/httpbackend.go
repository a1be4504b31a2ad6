package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	nhttp "github.com/chaos-io/iconbg/util/http"
)

// HTTPBackend 通过 URL 下载图片，不支持上传
type HTTPBackend struct {
	cli nhttp.IClient
}

func (b *HTTPBackend) GetFile(ctx context.Context, url string) ([]byte, error) {
	var data []byte
	err := b.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: url,
		Method:     http.MethodGet,
		Response:   &data,
	})
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", url, err)
	}
	return data, nil
}

func (b *HTTPBackend) PutFile(_ context.Context, url string, _ *bytes.Buffer) error {
	return fmt.Errorf("%w: %s", ErrReadOnly, url)
}

func (b *HTTPBackend) FileExists(ctx context.Context, url string) bool {
	err := b.cli.DoHTTPRequest(ctx, &nhttp.RequestParam{
		RequestURI: url,
		Method:     http.MethodHead,
	})
	return err == nil
}
