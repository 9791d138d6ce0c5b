package public

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	handlershared "github.com/Umair-Web/BTOBPortal/internal/http/handlers/shared"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/pdf"
	"github.com/Umair-Web/BTOBPortal/internal/provider"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type stubRenderer struct {
	err error
}

func (r stubRenderer) RenderQuotation(ctx context.Context, doc pdf.QuotationDocument) ([]byte, error) {
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.4 " + doc.Number), nil
}

var testGuard service.RoleGuard = (*authz.Service)(nil)

type handlerEnv struct {
	db      *gorm.DB
	handler *Handler
}

func setupHandlerTest(t *testing.T) *handlerEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:public_%s?mode=memory&cache=shared", name)
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

	cfg := &config.Config{
		JWT:      config.JWTConfig{SecretKey: "handler-secret", ExpireHours: 1},
		Security: config.SecurityConfig{PasswordMinLength: 6, BcryptCost: bcrypt.MinCost},
	}
	guard := testGuard

	c := &provider.Container{
		Config:        cfg,
		UserRepo:      repository.NewUserRepository(db),
		ProductRepo:   repository.NewProductRepository(db),
		OrderRepo:     repository.NewOrderRepository(db),
		QuotationRepo: repository.NewQuotationRepository(db),
		CartRepo:      repository.NewCartRepository(db),
	}
	c.UserAuthService = service.NewUserAuthService(cfg, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, guard, nil)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, guard)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.OrderService, guard)
	c.DeliveryService = service.NewDeliveryService(c.OrderRepo, guard)
	c.QuotationService = service.NewQuotationService(c.QuotationRepo, stubRenderer{}, guard, config.QuotationConfig{})
	return &handlerEnv{db: db, handler: New(c)}
}

// engine 注册路由；actor 为 nil 时模拟未登录
func (e *handlerEnv) engine(actor *authz.Actor) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if actor != nil {
			c.Set(handlershared.ActorContextKey, actor)
		}
		c.Next()
	})
	h := e.handler
	r.POST("/auth/signup", h.Signup)
	r.POST("/auth/login", h.Login)
	r.GET("/me", h.GetCurrentUser)
	r.GET("/products", h.GetProducts)
	r.GET("/products/:id", h.GetProduct)
	r.GET("/categories", h.GetCategories)
	r.GET("/cart", h.GetCart)
	r.POST("/cart/items", h.AddCartItem)
	r.PUT("/cart/items", h.UpdateCartItem)
	r.DELETE("/cart/items", h.DeleteCartItem)
	r.DELETE("/cart", h.ClearCart)
	r.POST("/cart/checkout", h.Checkout)
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders", h.ListOrders)
	r.GET("/orders/:id", h.GetOrder)
	r.PUT("/orders/items/:id", h.UpdateOrderItemDelivery)
	r.GET("/delivery/orders", h.ListDeliveryOrders)
	r.POST("/quotations", h.GenerateQuotation)
	r.POST("/quotations/records", h.RecordQuotation)
	r.GET("/quotations", h.ListQuotations)
	return r
}

func (e *handlerEnv) createUser(t *testing.T, email, role string) *authz.Actor {
	t.Helper()
	user := &models.User{Email: email, Name: "Tester", PasswordHash: "hash", Role: role}
	if err := e.db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return &authz.Actor{UserID: user.ID, Email: user.Email, Role: user.Role}
}

func (e *handlerEnv) createProduct(t *testing.T, name string, price int64, stock int, colors ...string) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:          name,
		Price:         models.NewMoneyFromDecimal(decimal.NewFromInt(price)),
		Stock:         stock,
		Category:      "Furniture",
		ColorVariants: models.StringArray(colors),
	}
	if err := e.db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	return product
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp envelope
	if strings.HasPrefix(w.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response failed: %v (%s)", err, w.Body.String())
		}
	}
	return w, resp
}

func expectStatus(t *testing.T, w *httptest.ResponseRecorder, resp envelope, code int, msg string) {
	t.Helper()
	if w.Code != code {
		t.Fatalf("http status want %d got %d (%s)", code, w.Code, w.Body.String())
	}
	if code >= 400 && resp.StatusCode != code {
		t.Fatalf("status_code want %d got %d", code, resp.StatusCode)
	}
	if msg != "" && resp.Msg != msg {
		t.Fatalf("msg want %q got %q", msg, resp.Msg)
	}
}
