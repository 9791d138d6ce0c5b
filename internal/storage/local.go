// Package storage 提供本地文件系统对象存储。
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
)

const (
	defaultRoot         = "./uploads"
	defaultPublicPrefix = "/uploads"
)

// ErrOutsidePrefix URL 不属于本存储
var ErrOutsidePrefix = errors.New("url outside storage prefix")

// Local 本地目录存储，文件通过 PublicPrefix 对外访问
type Local struct {
	root         string
	publicPrefix string
}

// NewLocal 创建本地存储
func NewLocal(cfg config.StorageConfig) *Local {
	root := strings.TrimSpace(cfg.Root)
	if root == "" {
		root = defaultRoot
	}
	prefix := "/" + strings.Trim(strings.TrimSpace(cfg.PublicPrefix), "/")
	if prefix == "/" {
		prefix = defaultPublicPrefix
	}
	return &Local{root: filepath.Clean(root), publicPrefix: prefix}
}

// Root 存储根目录
func (l *Local) Root() string {
	return l.root
}

// PublicPrefix 对外访问前缀
func (l *Local) PublicPrefix() string {
	return l.publicPrefix
}

// Save 写入文件并返回访问 URL
func (l *Local) Save(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	rel, err := cleanRelative(path.Join(dir, name))
	if err != nil {
		return "", err
	}
	target := filepath.Join(l.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create storage dir: %w", err)
	}

	dst, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create storage file: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		_ = dst.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write storage file: %w", err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(target)
		return "", fmt.Errorf("close storage file: %w", err)
	}
	return l.publicPrefix + "/" + rel, nil
}

// Open 按 URL 打开文件
func (l *Local) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	p, err := l.PathFromURL(url)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Delete 删除一组 URL 对应的文件；不存在或不属于本存储的 URL 被跳过
func (l *Local) Delete(ctx context.Context, urls []string) error {
	var errs []error
	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		p, err := l.PathFromURL(url)
		if err != nil {
			if errors.Is(err, ErrOutsidePrefix) {
				logger.Debugw("storage_delete_skipped", "url", url)
				continue
			}
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("%s: %w", url, err))
		}
	}
	return errors.Join(errs...)
}

// PathFromURL 将访问 URL 解析为本地路径
func (l *Local) PathFromURL(url string) (string, error) {
	value := strings.TrimSpace(url)
	if i := strings.IndexAny(value, "?#"); i >= 0 {
		value = value[:i]
	}
	// 兼容带域名的完整 URL
	if i := strings.Index(value, "://"); i >= 0 {
		rest := value[i+3:]
		slash := strings.Index(rest, "/")
		if slash < 0 {
			return "", ErrOutsidePrefix
		}
		value = rest[slash:]
	}
	if !strings.HasPrefix(value, l.publicPrefix+"/") {
		return "", ErrOutsidePrefix
	}
	rel, err := cleanRelative(strings.TrimPrefix(value, l.publicPrefix+"/"))
	if err != nil {
		return "", err
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

func cleanRelative(raw string) (string, error) {
	cleaned := path.Clean("/" + strings.TrimSpace(raw))
	rel := strings.TrimPrefix(cleaned, "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("invalid storage path: %q", raw)
	}
	return rel, nil
}
