package provider

import (
	"errors"
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/cache"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/pdf"
	"github.com/Umair-Web/BTOBPortal/internal/queue"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
	"github.com/Umair-Web/BTOBPortal/internal/service"
	"github.com/Umair-Web/BTOBPortal/internal/storage"

	"gorm.io/gorm"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client
	Storage     *storage.Local

	// Repositories
	UserRepo      repository.UserRepository
	ProductRepo   repository.ProductRepository
	OrderRepo     repository.OrderRepository
	QuotationRepo repository.QuotationRepository
	CartRepo      repository.CartRepository

	// Services
	AuthzService     *authz.Service
	UserAuthService  *service.UserAuthService
	ProductService   *service.ProductService
	UploadService    *service.UploadService
	CartService      *service.CartService
	OrderService     *service.OrderService
	DeliveryService  *service.DeliveryService
	QuotationService *service.QuotationService
	ImageCleaner     *service.ImageCleaner
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
		Storage:     storage.NewLocal(cfg.Storage),
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.UserRepo = repository.NewUserRepository(db)
	c.ProductRepo = repository.NewProductRepository(db)
	c.OrderRepo = repository.NewOrderRepository(db)
	c.QuotationRepo = repository.NewQuotationRepository(db)
	c.CartRepo = newCartRepository(c.Config.Cart, db)
}

// newCartRepository 按配置选择购物车存储；redis 不可用时回退到数据库
func newCartRepository(cfg config.CartConfig, db *gorm.DB) repository.CartRepository {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	if driver == constants.CartDriverRedis {
		if cache.Enabled() {
			ttl := time.Duration(cfg.TTLSeconds) * time.Second
			return repository.NewRedisCartRepository(cache.Client(), cache.Prefix(), ttl)
		}
		logger.Warnw("provider_cart_redis_unavailable", "fallback", constants.CartDriverDatabase)
	}
	return repository.NewCartRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	var dispatcher service.CleanupDispatcher
	if c.QueueClient != nil {
		dispatcher = c.QueueClient
	}
	c.ImageCleaner = service.NewImageCleaner(c.Storage, dispatcher)

	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.ProductService = service.NewProductService(c.ProductRepo, c.AuthzService, c.ImageCleaner)
	c.UploadService = service.NewUploadService(c.Config.Upload, c.Storage, c.AuthzService)
	c.OrderService = service.NewOrderService(c.OrderRepo, c.ProductRepo, c.AuthzService)
	c.CartService = service.NewCartService(c.CartRepo, c.ProductRepo, c.OrderService, c.AuthzService)
	c.DeliveryService = service.NewDeliveryService(c.OrderRepo, c.AuthzService)
	c.QuotationService = service.NewQuotationService(c.QuotationRepo, pdf.NewRenderer(c.Config.Quotation), c.AuthzService, c.Config.Quotation)
}

// Close 释放队列客户端与 Redis 连接
func (c *Container) Close() error {
	var errs []error
	if c.QueueClient != nil {
		if err := c.QueueClient.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := cache.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
