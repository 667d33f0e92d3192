package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/xiebiao/libconsole/pkg/errors"
)

// Manager JWT管理器
// 设计说明：
// 1. 控制台只有一个访问令牌，没有刷新令牌
// 2. expire为0时不写入任何时间字段，同一用户签发的令牌完全相同，
//    进程重启后旧令牌依然可以解析
// 3. expire大于0时令牌会过期，过期令牌解析为401
type Manager struct {
	secret string        // JWT签名密钥
	expire time.Duration // 有效期，0表示永不过期
	issuer string
	now    func() time.Time
}

// NewManager 创建JWT管理器
func NewManager(secret string, expire time.Duration) *Manager {
	return &Manager{
		secret: secret,
		expire: expire,
		issuer: "libconsole",
		now:    time.Now,
	}
}

// Claims 自定义JWT Claims
// 学习要点：
// 1. 嵌入jwt.RegisteredClaims获取标准字段（exp、iat、nbf、sub等）
// 2. UserID与Subject相同，单独保留一份方便读取
type Claims struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// GenerateToken 为用户签发访问令牌
func (m *Manager) GenerateToken(userID, username string) (string, error) {
	claims := Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  m.issuer,
			Subject: userID,
		},
	}
	if m.expire > 0 {
		now := m.now()
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(m.expire))
		claims.IssuedAt = jwt.NewNumericDate(now)
		claims.NotBefore = jwt.NewNumericDate(now)
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(m.secret))
	if err != nil {
		return "", apperrors.Wrap(err, "生成Token失败")
	}
	return signed, nil
}

// ParseToken 解析并验证Token
// 学习要点：
// 1. 验证签名（防止伪造）
// 2. 验证过期时间（exp），过期返回ErrTokenExpired
// 3. 其他任何失败统一返回ErrInvalidToken
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("非法的签名算法: %v", token.Header["alg"])
		}
		return []byte(m.secret), nil
	}, jwt.WithTimeFunc(m.now), jwt.WithIssuer(m.issuer))

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, apperrors.ErrTokenExpired
		}
		return nil, apperrors.ErrInvalidToken
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid && claims.UserID != "" {
		return claims, nil
	}
	return nil, apperrors.ErrInvalidToken
}
