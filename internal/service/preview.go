package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"

	"github.com/google/uuid"
)

// PreviewHandle 图片预览句柄：暂存文件，提交后转为正式文件，取消时删除
type PreviewHandle struct {
	ID         string    `json:"id"`
	PreviewURL string    `json:"preview_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

type previewEntry struct {
	handle PreviewHandle
	ext    string
}

// AcquirePreview 暂存图片并返回预览句柄；同时释放已过期的句柄
func (s *UploadService) AcquirePreview(ctx context.Context, actor *authz.Actor, file *multipart.FileHeader) (*PreviewHandle, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return nil, err
	}
	s.releaseExpired(ctx)

	validated, err := s.validateImage(file)
	if err != nil {
		return nil, wrapCause(ErrUploadInvalidFile, err)
	}

	id := uuid.New().String()
	url, err := s.storage.Save(ctx, previewStorageDir, id+validated.ext, bytes.NewReader(validated.content))
	if err != nil {
		return nil, wrapCause(ErrStorageFailed, err)
	}

	entry := &previewEntry{
		handle: PreviewHandle{
			ID:         id,
			PreviewURL: url,
			ExpiresAt:  s.now().Add(s.previewTTL()),
		},
		ext: validated.ext,
	}
	s.mu.Lock()
	s.previews[id] = entry
	s.mu.Unlock()

	logger.Debugw("upload_preview_acquired", "preview_id", id, "actor_id", actor.UserID)
	handle := entry.handle
	return &handle, nil
}

// CommitPreview 将暂存文件转存到正式目录并释放句柄
func (s *UploadService) CommitPreview(ctx context.Context, actor *authz.Actor, id string) (string, error) {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return "", err
	}
	entry := s.takePreview(id)
	if entry == nil {
		return "", ErrPreviewNotFound
	}
	defer s.releaseEntry(ctx, entry)

	if !s.now().Before(entry.handle.ExpiresAt) {
		return "", ErrPreviewNotFound
	}

	src, err := s.storage.Open(ctx, entry.handle.PreviewURL)
	if err != nil {
		return "", wrapCause(ErrStorageFailed, err)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return "", wrapCause(ErrStorageFailed, err)
	}

	url, err := s.storage.Save(ctx, s.productDir(), uuid.New().String()+entry.ext, bytes.NewReader(content))
	if err != nil {
		return "", wrapCause(ErrStorageFailed, err)
	}
	logger.Infow("upload_preview_committed", "preview_id", entry.handle.ID, "url", url, "actor_id", actor.UserID)
	return url, nil
}

// ReleasePreview 取消预览并删除暂存文件，可重复调用
func (s *UploadService) ReleasePreview(ctx context.Context, actor *authz.Actor, id string) error {
	if err := s.guard.Require(actor, constants.RoleAdmin); err != nil {
		return err
	}
	if entry := s.takePreview(id); entry != nil {
		s.releaseEntry(ctx, entry)
	}
	return nil
}

func (s *UploadService) takePreview(id string) *previewEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.previews[id]
	if !ok {
		return nil
	}
	delete(s.previews, id)
	return entry
}

func (s *UploadService) releaseExpired(ctx context.Context) {
	now := s.now()
	var expired []*previewEntry
	s.mu.Lock()
	for id, entry := range s.previews {
		if !now.Before(entry.handle.ExpiresAt) {
			expired = append(expired, entry)
			delete(s.previews, id)
		}
	}
	s.mu.Unlock()

	for _, entry := range expired {
		s.releaseEntry(ctx, entry)
	}
}

func (s *UploadService) releaseEntry(ctx context.Context, entry *previewEntry) {
	if err := s.storage.Delete(ctx, []string{entry.handle.PreviewURL}); err != nil {
		logger.Warnw("upload_preview_release_failed",
			"preview_id", entry.handle.ID,
			"error", err,
		)
		return
	}
	logger.Debugw("upload_preview_released", "preview_id", entry.handle.ID)
}

func (s *UploadService) previewTTL() time.Duration {
	seconds := s.cfg.PreviewTTLSeconds
	if seconds <= 0 {
		seconds = defaultPreviewTTLSeconds
	}
	return time.Duration(seconds) * time.Second
}
