package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
)

func newTestUploadService(storage *memoryStorage) *UploadService {
	svc := NewUploadService(config.UploadConfig{
		MaxSize:           1 << 20,
		AllowedTypes:      []string{"image/png", "image/jpeg"},
		AllowedExtensions: []string{".png", "jpg"},
		MaxWidth:          64,
		MaxHeight:         64,
		PreviewTTLSeconds: 60,
	}, storage, testGuard)
	svc.now = func() time.Time { return time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC) }
	return svc
}

func TestSaveImagesSkipsInvalidFiles(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestUploadService(storage)
	files := multipartFiles(t,
		testUpload{name: "a.png", content: pngBytes(t, 8, 8)},
		testUpload{name: "notes.txt", content: []byte("hello")},
		testUpload{name: "fake.png", content: []byte("not really a png")},
		testUpload{name: "huge.png", content: pngBytes(t, 128, 8)},
	)

	urls, err := svc.SaveImages(context.Background(), adminActor(), files)
	if err != nil {
		t.Fatalf("save images failed: %v", err)
	}
	if len(urls) != 1 {
		t.Fatalf("only the valid image should be saved, got %v", urls)
	}
	if !strings.HasPrefix(urls[0], "/uploads/product/2026/10/") || !strings.HasSuffix(urls[0], ".png") {
		t.Fatalf("unexpected url: %s", urls[0])
	}
	if !storage.has(urls[0]) {
		t.Fatalf("file should be stored")
	}
}

func TestSaveImagesErrors(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestUploadService(storage)
	ctx := context.Background()

	if _, err := svc.SaveImages(ctx, adminActor(), nil); !errors.Is(err, ErrUploadNoFiles) {
		t.Fatalf("want ErrUploadNoFiles got %v", err)
	}
	files := multipartFiles(t, testUpload{name: "notes.txt", content: []byte("hello")})
	if _, err := svc.SaveImages(ctx, adminActor(), files); !errors.Is(err, ErrUploadNoValidImages) {
		t.Fatalf("want ErrUploadNoValidImages got %v", err)
	}

	user := &authz.Actor{UserID: 3, Role: constants.RoleUser}
	if _, err := svc.SaveImages(ctx, user, files); !errors.Is(err, authz.ErrForbidden) {
		t.Fatalf("want ErrForbidden got %v", err)
	}

	storage.saveErr = errStorageDown
	files = multipartFiles(t, testUpload{name: "a.png", content: pngBytes(t, 4, 4)})
	if _, err := svc.SaveImages(ctx, adminActor(), files); !errors.Is(err, ErrStorageFailed) || !errors.Is(err, errStorageDown) {
		t.Fatalf("want wrapped storage failure got %v", err)
	}
}

func TestPreviewCommitMovesFileAndReleasesHandle(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestUploadService(storage)
	ctx := context.Background()
	file := multipartFiles(t, testUpload{name: "a.png", content: pngBytes(t, 8, 8)})[0]

	handle, err := svc.AcquirePreview(ctx, adminActor(), file)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if !strings.HasPrefix(handle.PreviewURL, "/uploads/previews/") || !storage.has(handle.PreviewURL) {
		t.Fatalf("preview should be staged: %+v", handle)
	}

	url, err := svc.CommitPreview(ctx, adminActor(), handle.ID)
	if err != nil {
		t.Fatalf("commit failed: %v", err)
	}
	if !strings.HasPrefix(url, "/uploads/product/") || !storage.has(url) {
		t.Fatalf("committed file missing: %s", url)
	}
	if storage.has(handle.PreviewURL) {
		t.Fatalf("staged file should be deleted after commit")
	}
	if _, err := svc.CommitPreview(ctx, adminActor(), handle.ID); !errors.Is(err, ErrPreviewNotFound) {
		t.Fatalf("committing twice should be not found, got %v", err)
	}
	if err := svc.ReleasePreview(ctx, adminActor(), handle.ID); err != nil {
		t.Fatalf("release after commit should be a no-op: %v", err)
	}
}

func TestPreviewReleaseIsIdempotent(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestUploadService(storage)
	ctx := context.Background()
	file := multipartFiles(t, testUpload{name: "a.png", content: pngBytes(t, 8, 8)})[0]

	handle, err := svc.AcquirePreview(ctx, adminActor(), file)
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := svc.ReleasePreview(ctx, adminActor(), handle.ID); err != nil {
			t.Fatalf("release #%d failed: %v", i+1, err)
		}
	}
	if storage.count() != 0 {
		t.Fatalf("staged file should be deleted on release")
	}
	if _, err := svc.CommitPreview(ctx, adminActor(), handle.ID); !errors.Is(err, ErrPreviewNotFound) {
		t.Fatalf("released handle cannot be committed, got %v", err)
	}
}

func TestPreviewExpiredHandlesAreSwept(t *testing.T) {
	storage := newMemoryStorage()
	svc := newTestUploadService(storage)
	ctx := context.Background()
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	first, err := svc.AcquirePreview(ctx, adminActor(), multipartFiles(t, testUpload{name: "a.png", content: pngBytes(t, 8, 8)})[0])
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}

	now = now.Add(2 * time.Minute)
	second, err := svc.AcquirePreview(ctx, adminActor(), multipartFiles(t, testUpload{name: "b.png", content: pngBytes(t, 8, 8)})[0])
	if err != nil {
		t.Fatalf("acquire failed: %v", err)
	}
	if storage.has(first.PreviewURL) {
		t.Fatalf("expired preview should be released on acquire")
	}
	if !storage.has(second.PreviewURL) {
		t.Fatalf("fresh preview must be kept")
	}
	if _, err := svc.CommitPreview(ctx, adminActor(), first.ID); !errors.Is(err, ErrPreviewNotFound) {
		t.Fatalf("expired handle cannot be committed, got %v", err)
	}
}

func TestPreviewRejectsInvalidFile(t *testing.T) {
	svc := newTestUploadService(newMemoryStorage())
	file := multipartFiles(t, testUpload{name: "notes.txt", content: []byte("hello")})[0]
	_, err := svc.AcquirePreview(context.Background(), adminActor(), file)
	if !errors.Is(err, ErrUploadInvalidFile) || KindOf(err) != KindValidation {
		t.Fatalf("want ErrUploadInvalidFile got %v", err)
	}
}
