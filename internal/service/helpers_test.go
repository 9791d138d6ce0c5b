package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"io/fs"
	"mime/multipart"
	"strings"
	"sync"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/queue"

	"github.com/glebarez/sqlite"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// testGuard 不带 casbin 的角色校验（仅精确匹配）
var testGuard RoleGuard = (*authz.Service)(nil)

func setupServiceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:service_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := models.MigrateAll(db); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	models.DB = db
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createServiceTestUser(t *testing.T, db *gorm.DB, email, role string) (*models.User, *authz.Actor) {
	t.Helper()
	user := &models.User{Email: email, Name: "Tester", PasswordHash: "hash", Role: role}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user, &authz.Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func createServiceTestProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int, colors ...string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:         stock,
		Category:      "General",
		Images:        models.StringArray{"/uploads/product/" + strings.ToLower(name) + ".png"},
		ColorVariants: models.StringArray(colors),
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

func money(value string) models.Money {
	m, err := models.ParseMoney(value)
	if err != nil {
		panic(err)
	}
	return m
}

func adminActor() *authz.Actor {
	return &authz.Actor{UserID: 9001, Email: "admin@example.com", Role: constants.RoleAdmin}
}

// memoryStorage 内存对象存储
type memoryStorage struct {
	mu        sync.Mutex
	files     map[string][]byte
	saveErr   error
	deleteErr error
	deleted   []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{files: make(map[string][]byte)}
}

func (m *memoryStorage) Save(ctx context.Context, dir, name string, r io.Reader) (string, error) {
	if m.saveErr != nil {
		return "", m.saveErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/uploads/" + dir + "/" + name
	m.mu.Lock()
	m.files[url] = data
	m.mu.Unlock()
	return url, nil
}

func (m *memoryStorage) Open(ctx context.Context, url string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[url]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memoryStorage) Delete(ctx context.Context, urls []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, urls...)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	for _, url := range urls {
		delete(m.files, url)
	}
	return nil
}

func (m *memoryStorage) has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[url]
	return ok
}

func (m *memoryStorage) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// recordingDispatcher 记录投递的清理任务
type recordingDispatcher struct {
	enabled  bool
	err      error
	payloads []queue.ProductImageCleanupPayload
}

func (d *recordingDispatcher) Enabled() bool {
	return d.enabled
}

func (d *recordingDispatcher) EnqueueProductImageCleanup(payload queue.ProductImageCleanupPayload, opts ...asynq.Option) error {
	if d.err != nil {
		return d.err
	}
	d.payloads = append(d.payloads, payload)
	return nil
}

var errStorageDown = errors.New("storage down")

func pngBytes(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png failed: %v", err)
	}
	return buf.Bytes()
}

type testUpload struct {
	name    string
	content []byte
}

func multipartFiles(t *testing.T, uploads ...testUpload) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	for _, upload := range uploads {
		part, err := writer.CreateFormFile("files", upload.name)
		if err != nil {
			t.Fatalf("create form file failed: %v", err)
		}
		if _, err := part.Write(upload.content); err != nil {
			t.Fatalf("write form file failed: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer failed: %v", err)
	}
	form, err := multipart.NewReader(&body, writer.Boundary()).ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("read multipart form failed: %v", err)
	}
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["files"]
}
