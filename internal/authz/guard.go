package authz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnauthenticated 未登录
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrForbidden 角色不满足
	ErrForbidden = errors.New("forbidden")
)

// Actor 当前请求主体（来自已校验的 JWT 与用户记录）
type Actor struct {
	UserID uint
	Email  string
	Role   string
}

// Authenticated 是否已登录
func (a *Actor) Authenticated() bool {
	return a != nil && a.UserID != 0
}

// Is 角色精确匹配
func (a *Actor) Is(role string) bool {
	return a != nil && strings.EqualFold(strings.TrimSpace(a.Role), strings.TrimSpace(role))
}

// Require 统一角色校验：未登录返回 ErrUnauthenticated；
// 未指定角色时任意登录用户通过；否则要求角色相等或通过 casbin 分组继承
func (s *Service) Require(actor *Actor, roles ...string) error {
	if !actor.Authenticated() {
		return ErrUnauthenticated
	}
	if len(roles) == 0 {
		return nil
	}
	for _, role := range roles {
		if actor.Is(role) {
			return nil
		}
	}
	if s == nil || s.enforcer == nil {
		return ErrForbidden
	}

	inherited, err := s.InheritedRoles(strings.ToLower(actor.Role))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrForbidden, err)
	}
	for _, role := range roles {
		required, err := RoleSubject(role)
		if err != nil {
			continue
		}
		for _, item := range inherited {
			if item == required {
				return nil
			}
		}
	}
	return ErrForbidden
}
