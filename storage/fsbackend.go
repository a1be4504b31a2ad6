package storage

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

type FsBackend struct {
	BasePath string

	// writeFile 为空时使用 os.WriteFile
	writeFile func(name string, data []byte, perm os.FileMode) error
}

func (b *FsBackend) GetFile(_ context.Context, filename string) ([]byte, error) {
	return os.ReadFile(filepath.Join(b.BasePath, filename))
}

// PutFile 先写到同目录下的临时文件再 rename，失败时不会破坏已有文件
func (b *FsBackend) PutFile(_ context.Context, filename string, content *bytes.Buffer) error {
	dst := filepath.Join(b.BasePath, filename)
	tmp := filepath.Join(filepath.Dir(dst), "."+filepath.Base(dst)+"."+ksuid.New().String()+".tmp")

	writeFile := b.writeFile
	if writeFile == nil {
		writeFile = os.WriteFile
	}
	if err := writeFile(tmp, content.Bytes(), 0o644); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}

func (b *FsBackend) FileExists(_ context.Context, filename string) bool {
	_, err := os.Stat(filepath.Join(b.BasePath, filename))
	return err == nil
}
