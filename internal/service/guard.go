package service

import (
	"github.com/Umair-Web/BTOBPortal/internal/authz"
)

// RoleGuard 统一角色校验能力
type RoleGuard interface {
	Require(actor *authz.Actor, roles ...string) error
}
