package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
)

const (
	previewStorageDir        = "previews"
	defaultPreviewTTLSeconds = 1800
)

// UploadService 商品图片上传服务
type UploadService struct {
	cfg      config.UploadConfig
	storage  ObjectStorage
	guard    RoleGuard
	now      func() time.Time
	mu       sync.Mutex
	previews map[string]*previewEntry
}

// NewUploadService 创建上传服务
func NewUploadService(cfg config.UploadConfig, storage ObjectStorage, guard RoleGuard) *UploadService {
	return &UploadService{
		cfg:      cfg,
		storage:  storage,
		guard:    guard,
		now:      time.Now,
		previews: make(map[string]*previewEntry),
	}
}

// validatedFile 校验通过的上传文件
type validatedFile struct {
	ext     string
	content []byte
}

// SaveImages 保存商品图片，非图片文件被跳过；返回访问 URL 列表
func (s *UploadService) SaveImages(ctx context.Context, actor *authz.Actor, files []*multipart.FileHeader) ([]string, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, ErrUploadNoFiles
	}

	dir := s.productDir()
	urls := make([]string, 0, len(files))
	for _, file := range files {
		validated, err := s.validateImage(file)
		if err != nil {
			logger.Warnw("upload_file_skipped",
				"filename", file.Filename,
				"size", file.Size,
				"reason", err.Error(),
			)
			continue
		}
		url, err := s.storage.Save(ctx, dir, uuid.New().String()+validated.ext, bytes.NewReader(validated.content))
		if err != nil {
			if len(urls) > 0 {
				if cleanupErr := s.storage.Delete(ctx, urls); cleanupErr != nil {
					logger.Warnw("upload_partial_cleanup_failed", "urls", urls, "error", cleanupErr)
				}
			}
			return nil, wrapCause(ErrStorageFailed, err)
		}
		urls = append(urls, url)
	}
	if len(urls) == 0 {
		return nil, ErrUploadNoValidImages
	}
	logger.Infow("upload_images_saved", "actor_id", actor.UserID, "count", len(urls))
	return urls, nil
}

func (s *UploadService) productDir() string {
	now := s.now()
	return path.Join(constants.UploadSceneProduct, now.Format("2006"), now.Format("01"))
}

// validateImage 校验大小、扩展名、嗅探 MIME 与尺寸
func (s *UploadService) validateImage(file *multipart.FileHeader) (*validatedFile, error) {
	if file == nil {
		return nil, ErrUploadInvalidFile
	}
	if s.cfg.MaxSize > 0 && file.Size > s.cfg.MaxSize {
		return nil, fmt.Errorf("file exceeds size limit (max %d MB)", s.cfg.MaxSize/1024/1024)
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if len(s.cfg.AllowedExtensions) > 0 {
		if ext == "" || !isAllowedExtension(ext, s.cfg.AllowedExtensions) {
			return nil, fmt.Errorf("file extension not allowed: %s", ext)
		}
	}

	src, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}

	contentType := http.DetectContentType(content)
	if !strings.HasPrefix(contentType, "image/") {
		return nil, fmt.Errorf("not an image: %s", contentType)
	}
	if len(s.cfg.AllowedTypes) > 0 {
		allowed := false
		for _, t := range s.cfg.AllowedTypes {
			if strings.EqualFold(contentType, t) {
				allowed = true
				break
			}
		}
		if !allowed {
			return nil, fmt.Errorf("file type not allowed: %s", contentType)
		}
	}

	width, height, err := decodeImageDimensions(bytes.NewReader(content), contentType)
	if err != nil {
		return nil, err
	}
	if s.cfg.MaxWidth > 0 && width > s.cfg.MaxWidth {
		return nil, fmt.Errorf("image width exceeds limit (max %d)", s.cfg.MaxWidth)
	}
	if s.cfg.MaxHeight > 0 && height > s.cfg.MaxHeight {
		return nil, fmt.Errorf("image height exceeds limit (max %d)", s.cfg.MaxHeight)
	}
	return &validatedFile{ext: ext, content: content}, nil
}

func isAllowedExtension(ext string, allowed []string) bool {
	for _, allowedExt := range allowed {
		normalized := strings.ToLower(strings.TrimSpace(allowedExt))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if strings.EqualFold(ext, normalized) {
			return true
		}
	}
	return false
}

func decodeImageDimensions(src io.ReadSeeker, contentType string) (int, int, error) {
	if strings.EqualFold(contentType, "image/webp") {
		width, height, err := decodeWebPDimensions(src)
		if err != nil {
			return 0, 0, fmt.Errorf("decode webp image: %w", err)
		}
		return width, height, nil
	}

	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}
	cfg, _, err := image.DecodeConfig(src)
	if err != nil {
		return 0, 0, fmt.Errorf("decode image: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func decodeWebPDimensions(src io.ReadSeeker) (int, int, error) {
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return 0, 0, err
	}

	header := make([]byte, 12)
	if _, err := io.ReadFull(src, header); err != nil {
		return 0, 0, err
	}
	if string(header[0:4]) != "RIFF" || string(header[8:12]) != "WEBP" {
		return 0, 0, fmt.Errorf("invalid webp header")
	}

	for {
		chunkHeader := make([]byte, 8)
		if _, err := io.ReadFull(src, chunkHeader); err != nil {
			return 0, 0, err
		}
		chunkType := string(chunkHeader[0:4])
		chunkSize := int(binary.LittleEndian.Uint32(chunkHeader[4:8]))
		if chunkSize < 0 {
			return 0, 0, fmt.Errorf("invalid webp chunk")
		}

		data := make([]byte, chunkSize)
		if _, err := io.ReadFull(src, data); err != nil {
			return 0, 0, err
		}

		switch chunkType {
		case "VP8X":
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8X chunk too short")
			}
			width := 1 + int(data[4]) + int(data[5])<<8 + int(data[6])<<16
			height := 1 + int(data[7]) + int(data[8])<<8 + int(data[9])<<16
			return width, height, nil
		case "VP8 ":
			if len(data) < 10 {
				return 0, 0, fmt.Errorf("VP8 chunk too short")
			}
			width := int(binary.LittleEndian.Uint16(data[6:8]) & 0x3FFF)
			height := int(binary.LittleEndian.Uint16(data[8:10]) & 0x3FFF)
			return width, height, nil
		case "VP8L":
			if len(data) < 5 {
				return 0, 0, fmt.Errorf("VP8L chunk too short")
			}
			if data[0] != 0x2f {
				return 0, 0, fmt.Errorf("invalid VP8L signature")
			}
			bits := binary.LittleEndian.Uint32(data[1:5])
			width := int(bits&0x3FFF) + 1
			height := int((bits>>14)&0x3FFF) + 1
			return width, height, nil
		}

		if chunkSize%2 == 1 {
			if _, err := src.Seek(1, io.SeekCurrent); err != nil {
				return 0, 0, err
			}
		}
	}
}
