package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken はAuthorizationヘッダーが無いか空であることを表す。
	ErrMissingToken = errors.New("トークンがありません")
	// ErrInvalidToken はトークンの形式・署名・アルゴリズムのいずれかが不正であることを表す。
	ErrInvalidToken = errors.New("トークンが無効です")
	// ErrExpiredToken はトークンの有効期限が切れていることを表す。
	ErrExpiredToken = errors.New("トークンの有効期限が切れています")
)

// unauthorizedMessage は401レスポンスの本文。失敗の理由は区別しない。
const unauthorizedMessage = "Unauthorized"

// claimsKey はGinコンテキストにクレームを保存するキー。
const claimsKey = "claims"

// Claims は検証済みトークンから取り出したクレーム。
type Claims struct {
	// Subject はユーザー識別子（sub）。
	Subject string
	// Tenant はテナント識別子（company）。
	Tenant string
	// Expiry はトークンの有効期限（exp）。
	Expiry time.Time
}

// tokenClaims はJWTペイロードのJSON表現。
type tokenClaims struct {
	jwt.RegisteredClaims
	Company string `json:"company,omitempty"`
}

// BearerToken はAuthorizationヘッダーの値から "Bearer " 以降のトークンを取り出す。
func BearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return "", fmt.Errorf("%w: Bearer接頭辞がありません", ErrInvalidToken)
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// Verify はHS256で署名されたトークンを検証し、クレームを返す。
// expは必須で、now がexp以降であれば期限切れとする。猶予時間は設けない。
func Verify(token string, secret []byte, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrMissingToken
	}

	tc := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, tc,
		func(_ *jwt.Token) (any, error) {
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, ErrExpiredToken
	case err != nil:
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	case !parsed.Valid:
		return Claims{}, ErrInvalidToken
	}

	return Claims{
		Subject: tc.Subject,
		Tenant:  tc.Company,
		Expiry:  tc.ExpiresAt.Time,
	}, nil
}

// IssueToken はクレームからHS256で署名したトークンを生成する。
// 開発用のトークン発行コマンドとテストで使用する。
func IssueToken(secret []byte, claims Claims) (string, error) {
	tc := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   claims.Subject,
			ExpiresAt: jwt.NewNumericDate(claims.Expiry),
		},
		Company: claims.Tenant,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("JWTトークンの署名に失敗: %w", err)
	}
	return signed, nil
}

// JWTAuth はAuthorizationヘッダーのトークンを検証するInterceptorを返す。
// 検証に失敗した場合は内側のハンドラを呼ばずに401を返す。
// 成功した場合はクレームをコンテキストに設定する。
func JWTAuth(secret []byte, now func() time.Time) Interceptor {
	return InterceptorFunc(func(next gin.HandlerFunc) gin.HandlerFunc {
		return func(c *gin.Context) {
			token, err := BearerToken(c.GetHeader("Authorization"))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage})
				return
			}

			claims, err := Verify(token, secret, now())
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": unauthorizedMessage})
				return
			}

			c.Set(claimsKey, claims)
			next(c)
		}
	})
}

// GetClaims はGinコンテキストから検証済みのクレームを取得する。
// JWTAuthを通過していないリクエストではfalseを返す。
func GetClaims(c *gin.Context) (Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return Claims{}, false
	}
	claims, ok := v.(Claims)
	return claims, ok
}
