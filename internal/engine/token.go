package engine

import (
	"errors"
	"strings"

	"github.com/xiebiao/libconsole/internal/domain/user"
	apperrors "github.com/xiebiao/libconsole/pkg/errors"
	"github.com/xiebiao/libconsole/pkg/jwt"
)

// 令牌模式
const (
	TokenModeSimple = "simple"
	TokenModeJWT    = "jwt"
)

// TokenIssuer 签发与解析访问令牌
type TokenIssuer interface {
	Issue(u *user.User) (string, error)
	// Resolve 返回令牌对应的用户ID；无效令牌返回401错误
	Resolve(token string) (string, error)
}

const simpleTokenPrefix = "mock-token-"

// SimpleTokens mock-token-{id}形式的令牌
type SimpleTokens struct{}

// Issue 实现TokenIssuer
func (SimpleTokens) Issue(u *user.User) (string, error) {
	return simpleTokenPrefix + u.ID, nil
}

// Resolve 实现TokenIssuer
func (SimpleTokens) Resolve(token string) (string, error) {
	id, ok := strings.CutPrefix(token, simpleTokenPrefix)
	if !ok || id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// JWTTokens HS256签名的令牌
type JWTTokens struct {
	manager *jwt.Manager
}

// NewJWTTokens 创建JWT令牌签发器
func NewJWTTokens(manager *jwt.Manager) *JWTTokens {
	return &JWTTokens{manager: manager}
}

// Issue 实现TokenIssuer
func (t *JWTTokens) Issue(u *user.User) (string, error) {
	return t.manager.GenerateToken(u.ID, u.Username)
}

// Resolve 实现TokenIssuer
func (t *JWTTokens) Resolve(token string) (string, error) {
	claims, err := t.manager.ParseToken(token)
	if err != nil {
		if errors.Is(err, apperrors.ErrTokenExpired) {
			return "", apperrors.ErrTokenExpired
		}
		return "", apperrors.ErrUnauthorized
	}
	return claims.UserID, nil
}
