package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budgeting/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer 签发访问令牌，subject 为用户 ID
type TokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

// AuthService 注册、登录与调用者身份解析
type AuthService struct {
	users  UserRepository
	tokens TokenIssuer
	// 用户不存在时也做一次哈希比较，避免通过响应时间探测用户名
	dummyHash []byte
}

// NewAuthService 创建认证服务
func NewAuthService(users UserRepository, tokens TokenIssuer) *AuthService {
	dummy, _ := bcrypt.GenerateFromPassword([]byte("dummy-password"), bcrypt.DefaultCost)
	return &AuthService{users: users, tokens: tokens, dummyHash: dummy}
}

// Register 注册新用户，用户名已存在返回 models.ErrAlreadyExists
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, models.ErrNameRequired
	}

	if _, err := s.users.FindByUsername(ctx, username); err == nil {
		return nil, models.ErrAlreadyExists
	} else if !errors.Is(err, models.ErrUserNotFound) {
		return nil, fmt.Errorf("查询用户失败: %w", err)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %w", err)
	}

	user := &models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hashed),
	}
	// 并发注册同名用户时由唯一索引兜底
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	log.Info().Str("user_id", user.ID).Str("username", username).Msg("用户注册成功")
	return user, nil
}

// Login 校验用户名密码并签发令牌
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			return "", models.ErrInvalidCredentials
		}
		return "", fmt.Errorf("查询用户失败: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", models.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return "", fmt.Errorf("生成 token 失败: %w", err)
	}
	return token, nil
}

// ResolveUser 加载调用者的用户记录
func (s *AuthService) ResolveUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}
