package public

import (
	"time"

	"github.com/Umair-Web/BTOBPortal/internal/http/response"
	"github.com/Umair-Web/BTOBPortal/internal/service"

	"github.com/gin-gonic/gin"
)

const msgBadRequest = "invalid request body"

// SignupRequest 注册请求
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Name     string `json:"name"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup 用户注册
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}

	user, err := h.UserAuthService.Signup(c.Request.Context(), service.SignupInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Name:     req.Name,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, gin.H{"user": user})
}

// Login 用户登录
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, msgBadRequest, err)
		return
	}

	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondWithMappedError(c, err, loginErrorRules)
		return
	}
	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt.Format(time.RFC3339),
	})
}

// GetCurrentUser 获取当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	actor, ok := getActor(c)
	if !ok {
		return
	}
	user, err := h.UserAuthService.Me(c.Request.Context(), actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}
