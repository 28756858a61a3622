package api

import (
	"net/http"

	"budgeting/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler 注册与登录
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// CredentialsRequest 注册/登录请求
type CredentialsRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required,max=72"`
}

// RegisterResponse 注册成功响应
type RegisterResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// LoginResponse 登录成功响应
type LoginResponse struct {
	AccessToken string `json:"access_token"`
}

// Register 用户注册
// @Summary 用户注册
// @Description 使用用户名和密码注册新账户，用户名已存在时返回 400
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "用户名和密码"
// @Success 201 {object} RegisterResponse "注册成功"
// @Failure 400 {object} ErrorResponse "参数错误或用户名已存在"
// @Failure 429 {object} ErrorResponse "请求过于频繁"
// @Router /register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	user, err := h.auth.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "注册失败")
		return
	}
	c.JSON(http.StatusCreated, RegisterResponse{ID: user.ID, Username: user.Username})
}

// Login 用户登录
// @Summary 用户登录
// @Description 校验用户名密码并返回访问令牌
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body CredentialsRequest true "用户名和密码"
// @Success 200 {object} LoginResponse "登录成功"
// @Failure 400 {object} ErrorResponse "参数错误"
// @Failure 401 {object} ErrorResponse "用户名或密码错误"
// @Failure 429 {object} ErrorResponse "请求过于频繁"
// @Router /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "参数错误: "+err.Error())
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, err, "登录失败")
		return
	}
	c.JSON(http.StatusOK, LoginResponse{AccessToken: token})
}
