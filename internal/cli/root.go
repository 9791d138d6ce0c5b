// Package cli 实现 b2bctl 运维命令行。
package cli

import (
	"fmt"
	"os"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// Toolkit 命令行所需的依赖
type Toolkit struct {
	DB       *gorm.DB
	Users    *service.UserAuthService
	Products repository.ProductRepository
	Authz    *authz.Service
	Audit    *service.AuthzAuditService
}

// Opener 按需构建依赖，只在命令真正执行时连接数据库
type Opener func() (*Toolkit, error)

// NewRootCommand 创建根命令
func NewRootCommand(open Opener) *cobra.Command {
	root := &cobra.Command{
		Use:   "b2bctl",
		Short: "B2B Portal administration tool",
		Long: `b2bctl manages accounts, role policies and sample data for the
B2B Portal API. It reads the same config.yml and .env as the server.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().String("operator", defaultOperator(), "name recorded in the audit log")
	root.AddCommand(
		newCreateUserCommand(open),
		newSetRoleCommand(open),
		newSeedCommand(open),
		newRolesCommand(open),
		newAuditCommand(open),
	)
	return root
}

// Execute 以默认配置运行命令行
func Execute() {
	if err := NewRootCommand(OpenFromConfig).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// OpenFromConfig 加载配置、连接并迁移数据库
func OpenFromConfig() (*Toolkit, error) {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}
	if err := models.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return NewToolkit(cfg, models.DB)
}

// NewToolkit 基于已打开的连接组装依赖
func NewToolkit(cfg *config.Config, db *gorm.DB) (*Toolkit, error) {
	authzService, err := authz.NewService(db)
	if err != nil {
		return nil, err
	}
	if err := authzService.BootstrapBuiltinRoles(); err != nil {
		return nil, fmt.Errorf("failed to bootstrap roles: %w", err)
	}
	return &Toolkit{
		DB:       db,
		Users:    service.NewUserAuthService(cfg, repository.NewUserRepository(db)),
		Products: repository.NewProductRepository(db),
		Authz:    authzService,
		Audit:    service.NewAuthzAuditService(repository.NewAuthzAuditLogRepository(db)),
	}, nil
}

func defaultOperator() string {
	if name := os.Getenv("USER"); name != "" {
		return "cli:" + name
	}
	return "cli"
}
