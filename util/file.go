package util

import (
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedFormat 输出格式不能保存 alpha
var ErrUnsupportedFormat = errors.New("unsupported output format")

// DecodeImage 解码任意已注册格式（png/jpeg/gif/bmp/tiff/webp）
func DecodeImage(r io.Reader) (image.Image, string, error) {
	img, format, err := image.Decode(r)
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	return img, format, nil
}

// FormatFor 根据文件名后缀选择输出格式，没有后缀时用 png
func FormatFor(name string) (string, error) {
	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case "", ".png":
		return "png", nil
	case ".tif", ".tiff":
		return "tiff", nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// EncodeImage 按 name 的后缀编码图片，只支持带 alpha 的格式
func EncodeImage(w io.Writer, img image.Image, name string) error {
	format, err := FormatFor(name)
	if err != nil {
		return err
	}

	switch format {
	case "tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("%s encode: %w", format, err)
	}
	return nil
}

// OpenImage 打开本地图片
func OpenImage(path string) (image.Image, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = file.Close()
	}()

	img, _, err := DecodeImage(file)
	return img, err
}
