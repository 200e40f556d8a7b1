// Package jwtmw は運用者向けAPIのためのJWT発行と検証ミドルウェアを提供します。
package jwtmw

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// EnvKeyJWTSecret は署名鍵を読み込む環境変数名です。
	EnvKeyJWTSecret = "JWT_SECRET"
	// ScopeSummaries は要約APIの呼び出しを許可するスコープです。
	ScopeSummaries = "summaries"
	// DefaultExpiration は発行するトークンの既定の有効期間です。
	DefaultExpiration = 24 * time.Hour
)

// ErrEmptyOperator は運用者名が空の場合のエラーです。
var ErrEmptyOperator = errors.New("operator must not be empty")

// OperatorClaims は運用者トークンのクレームです。sub に運用者名を入れます。
type OperatorClaims struct {
	Scope string `json:"scope"`
	jwt.RegisteredClaims
}

// Generator はHS256で署名した運用者トークンを発行します。
type Generator struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

// NewGenerator は新しい Generator を生成します。expiration が0以下の場合は DefaultExpiration を使います。
func NewGenerator(secret string, expiration time.Duration) *Generator {
	if expiration <= 0 {
		expiration = DefaultExpiration
	}
	return &Generator{secret: []byte(secret), expiration: expiration, now: time.Now}
}

// GenerateToken は operator を subject とする署名済みトークンを返します。
func (g *Generator) GenerateToken(operator string) (string, error) {
	if operator == "" {
		return "", ErrEmptyOperator
	}
	if len(g.secret) == 0 {
		return "", fmt.Errorf("failed to sign token: %s is not set", EnvKeyJWTSecret)
	}

	now := g.now()
	claims := OperatorClaims{
		Scope: ScopeSummaries,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(g.expiration)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
