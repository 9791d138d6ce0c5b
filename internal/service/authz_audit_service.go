package service

import (
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"
)

// 审计动作
const (
	AuditActionGrantPolicy  = "grant_policy"
	AuditActionRevokePolicy = "revoke_policy"
	AuditActionDeleteRole   = "delete_role"
	AuditActionSetUserRole  = "set_user_role"
)

// AuthzAuditRecordInput 权限审计记录输入
type AuthzAuditRecordInput struct {
	Operator    string
	TargetEmail string
	Action      string
	Role        string
	Object      string
	Method      string
	Detail      models.JSON
}

// AuthzAuditService 权限审计服务
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
	now  func() time.Time
}

// NewAuthzAuditService 创建权限审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo, now: time.Now}
}

// Record 记录权限审计日志；未指定动作时忽略
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if strings.TrimSpace(input.Action) == "" {
		return nil
	}
	operator := strings.TrimSpace(input.Operator)
	if operator == "" {
		operator = "unknown"
	}

	item := &models.AuthzAuditLog{
		Operator:    operator,
		TargetEmail: strings.ToLower(strings.TrimSpace(input.TargetEmail)),
		Action:      strings.TrimSpace(input.Action),
		Role:        strings.TrimSpace(input.Role),
		Object:      strings.TrimSpace(input.Object),
		Method:      strings.ToUpper(strings.TrimSpace(input.Method)),
		DetailJSON:  input.Detail,
		CreatedAt:   s.now(),
	}
	return s.repo.Create(item)
}

// List 查询权限审计日志
func (s *AuthzAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	return s.repo.List(filter)
}
