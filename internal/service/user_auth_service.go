package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/authz"
	"github.com/Umair-Web/BTOBPortal/internal/cache"
	"github.com/Umair-Web/BTOBPortal/internal/config"
	"github.com/Umair-Web/BTOBPortal/internal/constants"
	"github.com/Umair-Web/BTOBPortal/internal/logger"
	"github.com/Umair-Web/BTOBPortal/internal/models"
	"github.com/Umair-Web/BTOBPortal/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg      *config.Config
	userRepo repository.UserRepository
}

// NewUserAuthService 创建用户认证服务
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository) *UserAuthService {
	return &UserAuthService{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// SignupInput 注册输入
type SignupInput struct {
	Email    string
	Password string
	Role     string
	Name     string
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	expiresAt := time.Now().Add(time.Duration(resolveUserJWTExpireHours(s.cfg.JWT)) * time.Hour)
	claims := UserJWTClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.JWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if claims, ok := token.Claims.(*UserJWTClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}

// Signup 注册用户
func (s *UserAuthService) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	normalized, err := normalizeEmail(input.Email)
	if err != nil {
		return nil, err
	}
	role, err := normalizeUserRole(input.Role)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordMinLength, input.Password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), resolveBcryptCost(s.cfg.Security))
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = resolveNameFromEmail(normalized)
	}
	user := &models.User{
		Email:        normalized,
		Name:         name,
		PasswordHash: string(hashed),
		Role:         role,
	}
	if err := s.userRepo.Create(user); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	logger.Infow("user_signed_up", "user_id", user.ID, "role", user.Role)
	return user, nil
}

// Login 用户登录
func (s *UserAuthService) Login(ctx context.Context, email, password string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if user == nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	return user, token, expiresAt, nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// Me 当前登录用户
func (s *UserAuthService) Me(ctx context.Context, actor *authz.Actor) (*models.User, error) {
	if !actor.Authenticated() {
		return nil, authz.ErrUnauthenticated
	}
	return s.GetUserByID(actor.UserID)
}

// ResolveActor 根据已校验的 token 声明构建请求主体；
// 角色以用户记录（或其缓存快照）为准，token 中的角色仅作参考
func (s *UserAuthService) ResolveActor(ctx context.Context, claims *UserJWTClaims) (*authz.Actor, error) {
	if claims == nil || claims.UserID == 0 {
		return nil, authz.ErrUnauthenticated
	}
	state, hit, err := cache.GetUserAuthState(ctx, claims.UserID)
	if err != nil {
		logger.Debugw("user_auth_state_cache_read_failed", "user_id", claims.UserID, "error", err)
	}
	if hit && state != nil {
		return &authz.Actor{UserID: state.UserID, Email: state.Email, Role: state.Role}, nil
	}

	user, err := s.userRepo.GetByID(claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, authz.ErrUnauthenticated
	}
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))
	return &authz.Actor{UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// SetRole 修改用户角色并使鉴权快照失效
func (s *UserAuthService) SetRole(ctx context.Context, email, role string) (*models.User, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	resolved, err := normalizeUserRole(role)
	if err != nil {
		return nil, err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	previous := user.Role
	user.Role = resolved
	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if err := cache.DelUserAuthState(ctx, user.ID); err != nil {
		logger.Warnw("user_auth_state_invalidate_failed", "user_id", user.ID, "error", err)
	}
	logger.Infow("user_role_changed", "user_id", user.ID, "from", previous, "to", resolved)
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func normalizeUserRole(raw string) (string, error) {
	switch role := strings.ToUpper(strings.TrimSpace(raw)); role {
	case constants.RoleAdmin, constants.RoleDelivery, constants.RoleUser:
		return role, nil
	default:
		return "", ErrInvalidRole
	}
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveBcryptCost(cfg config.SecurityConfig) int {
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return bcrypt.DefaultCost
	}
	return cfg.BcryptCost
}

func resolveNameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return parts[0]
	}
	return email
}
