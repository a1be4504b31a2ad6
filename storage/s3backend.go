package storage

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type S3Backend struct {
	Client *minio.Client
	Bucket string
}

// NewS3Backend 解析 s3://host[:port]/bucket/key，返回后端和 key
//
// 凭证从环境变量读取：<host>_<bucket>_ACCESS_KEY_ID / <host>_<bucket>_SECRET_ACCESS_KEY，
// 没有设置时回退到 AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY
func NewS3Backend(location string, timeout time.Duration) (*S3Backend, string, error) {
	host, bucket, key, secure, err := parseS3Location(location)
	if err != nil {
		return nil, "", err
	}

	accessKey := envOr(host+"_"+bucket+"_ACCESS_KEY_ID", "AWS_ACCESS_KEY_ID")
	secretKey := envOr(host+"_"+bucket+"_SECRET_ACCESS_KEY", "AWS_SECRET_ACCESS_KEY")

	transport, err := minio.DefaultTransport(secure)
	if err != nil {
		return nil, "", err
	}
	if timeout > 0 {
		transport.ResponseHeaderTimeout = timeout
	}

	client, err := minio.New(host, &minio.Options{
		Creds:     credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure:    secure,
		Transport: transport,
	})
	if err != nil {
		return nil, "", err
	}

	return &S3Backend{Client: client, Bucket: bucket}, key, nil
}

func parseS3Location(location string) (host, bucket, key string, secure bool, err error) {
	u, err := url.Parse(location)
	if err != nil {
		return "", "", "", false, err
	}
	switch u.Scheme {
	case "s3":
		secure = true
	case "s3+http":
		secure = false
	default:
		return "", "", "", false, fmt.Errorf("invalid scheme: %s. valid schemes are: s3, s3+http", u.Scheme)
	}

	parts := strings.SplitN(strings.TrimPrefix(u.Path, "/"), "/", 2)
	if u.Host == "" || len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", "", false, fmt.Errorf("invalid s3 location %q, want s3://host/bucket/key", location)
	}
	return u.Host, parts[0], parts[1], secure, nil
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return os.Getenv(fallback)
}

func (s *S3Backend) GetFile(ctx context.Context, filename string) ([]byte, error) {
	r, err := s.Client.GetObject(ctx, s.Bucket, filename, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = r.Close()
	}()

	buf := new(bytes.Buffer)
	if _, err = buf.ReadFrom(r); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *S3Backend) PutFile(ctx context.Context, filename string, content *bytes.Buffer) error {
	opts := minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(path.Ext(filename)),
	}
	_, err := s.Client.PutObject(ctx, s.Bucket, filename, content, int64(content.Len()), opts)
	return err
}

func (s *S3Backend) FileExists(ctx context.Context, filename string) bool {
	_, err := s.Client.StatObject(ctx, s.Bucket, filename, minio.StatObjectOptions{})
	return err == nil
}
