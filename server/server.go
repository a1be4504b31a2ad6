package server

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chaos-io/iconbg/mask"
	"github.com/chaos-io/iconbg/util"
)

// DefaultMaxUploadBytes 上传图片大小上限
const DefaultMaxUploadBytes int64 = 16 << 20

type Server struct {
	Threshold      uint8
	MaxSize        int
	MaxUploadBytes int64
}

func New() *Server {
	return &Server{
		Threshold:      mask.DefaultThreshold,
		MaxUploadBytes: DefaultMaxUploadBytes,
	}
}

func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/v1/remove", s.handleRemove)
	return r
}

// handleRemove 上传字段 image，可选 query threshold，返回去掉白底的 png
func (s *Server) handleRemove(c *gin.Context) {
	threshold := s.Threshold
	if v := c.Query("threshold"); v != "" {
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "threshold must be an integer between 0 and 255"})
			return
		}
		threshold = uint8(n)
	}

	if c.Request.ContentLength > s.MaxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.MaxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "image too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing image field"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	defer func() {
		_ = f.Close()
	}()

	img, _, err := util.DecodeImage(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := mask.NewPreprocessor(
		mask.WithRemover(mask.NewFloodFillRemover(threshold)),
		mask.WithMaxSize(s.MaxSize),
	)
	out, res, err := p.ImagePreprocess(c.Request.Context(), img)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	buf := new(bytes.Buffer)
	if err := util.EncodeImage(buf, out, "out.png"); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("X-Background-Pixels", strconv.Itoa(res.Background))
	c.Header("X-Total-Pixels", strconv.Itoa(res.Total()))
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"elapsed", time.Since(start))
	}
}
