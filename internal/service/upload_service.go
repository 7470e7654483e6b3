package service

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"watchify/config"
	"watchify/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// UploadService stores product images on local disk. Stored names are
// always server-generated so client filenames never reach the
// filesystem.
type UploadService struct {
	dir     string
	maxSize int64
	prefix  string
	logger  *zap.Logger
}

func NewUploadService(cfg config.UploadConfig) *UploadService {
	return &UploadService{
		dir:     cfg.Dir,
		maxSize: cfg.MaxFileSize,
		prefix:  cfg.PublicPrefix,
		logger:  util.GetLogger(),
	}
}

// SaveProductImage validates and stores an uploaded image, returning
// the public path to persist on the product. Content type is sniffed
// from the bytes, not taken from the request header.
func (s *UploadService) SaveProductImage(header *multipart.FileHeader) (string, error) {
	if header == nil {
		return "", invalidRequest("No file uploaded", "image", "Image file is required")
	}
	if header.Size > s.maxSize {
		return "", invalidRequest(
			"File too large",
			"image",
			fmt.Sprintf("Maximum file size is %d bytes", s.maxSize))
	}

	file, err := header.Open()
	if err != nil {
		return "", internal("failed to open upload", err)
	}
	defer file.Close()

	sniff := make([]byte, 512)
	n, err := file.Read(sniff)
	if err != nil && err != io.EOF {
		return "", internal("failed to read upload", err)
	}
	contentType := http.DetectContentType(sniff[:n])
	ext, ok := allowedImageTypes[contentType]
	if !ok {
		return "", invalidRequest(
			"Invalid file type",
			"image",
			"Only JPEG, PNG, GIF and WebP images are allowed")
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", internal("failed to rewind upload", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", internal("failed to create upload directory", err)
	}

	name := "product_" + uuid.New().String() + ext
	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", internal("failed to create file", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", internal("failed to write file", err)
	}

	util.UploadsTotal.Inc()
	s.logger.Info("Image uploaded", zap.String("file", name), zap.String("content_type", contentType))
	return s.prefix + "/" + name, nil
}

// DeleteProductImage removes a previously stored image given its
// public path. Paths outside the upload directory are rejected.
func (s *UploadService) DeleteProductImage(publicPath string) error {
	name := filepath.Base(publicPath)
	if name == "." || name == ".." || name == "/" || !strings.HasPrefix(name, "product_") {
		return invalidRequest("Invalid image path", "image", "Invalid image path")
	}

	target := filepath.Join(s.dir, name)
	if err := os.Remove(target); err != nil {
		if os.IsNotExist(err) {
			return notFound("Image")
		}
		return internal("failed to delete file", err)
	}
	return nil
}
