package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"budgeting/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const contextUserIDKey = "userID"

// ErrInvalidToken token 缺失、过期或签名不符
var ErrInvalidToken = errors.New("invalid token")

// JWTManager 负责签发与校验 HS256 访问令牌
type JWTManager struct {
	secret []byte
	expire time.Duration
}

// NewJWTManager 创建令牌管理器
func NewJWTManager(cfg *config.JWTConfig) *JWTManager {
	expire := cfg.ExpireTime
	if expire <= 0 {
		expire = 24 * time.Hour
	}
	return &JWTManager{secret: []byte(cfg.Secret), expire: expire}
}

// GenerateToken 签发令牌，sub 为用户 ID
func (m *JWTManager) GenerateToken(userID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

// ParseToken 校验令牌并返回其中的用户 ID
func (m *JWTManager) ParseToken(tokenString string) (string, error) {
	if tokenString == "" {
		return "", ErrInvalidToken
	}
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrInvalidKeyType
		}
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// JWTAuth 认证中间件，要求 Authorization: Bearer <token>
func (m *JWTManager) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "未提供认证令牌")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			abortUnauthorized(c, "认证令牌格式错误")
			return
		}

		userID, err := m.ParseToken(strings.TrimSpace(parts[1]))
		if err != nil {
			abortUnauthorized(c, "认证令牌无效或已过期")
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msg})
}

// GetCurrentUserID 获取当前请求的用户 ID，未认证时为空字符串
func GetCurrentUserID(c *gin.Context) string {
	if v, ok := c.Get(contextUserIDKey); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}
