package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/listny/listny-backend/api/controller"
	"github.com/listny/listny-backend/domain"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

const identityKey = "identity"

// sessionClaims 本地开发令牌的声明
type sessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier 校验会话令牌并返回用户身份
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (catalog_models.Identity, error)
}

// AuthConfig 配置了 Clerk.SecretKey 时按身份服务 JWKS 校验；只配置 HMACSecret 时按 HS256 校验（本地开发）
type AuthConfig struct {
	Clerk      ClerkConfig
	HMACSecret string
	Issuer     string
}

func NewTokenVerifier(cfg AuthConfig) (TokenVerifier, error) {
	switch {
	case cfg.Clerk.SecretKey != "":
		return NewClerkVerifier(cfg.Clerk, cfg.Issuer), nil
	case cfg.HMACSecret != "":
		return newHMACVerifier(cfg.HMACSecret, cfg.Issuer), nil
	default:
		return nil, errors.New("either a clerk secret key or an hmac secret is required")
	}
}

// hmacVerifier 本地开发用的共享密钥校验
type hmacVerifier struct {
	secret []byte
	issuer string
}

func newHMACVerifier(secret, issuer string) *hmacVerifier {
	return &hmacVerifier{secret: []byte(secret), issuer: issuer}
}

func (v *hmacVerifier) Verify(_ context.Context, tokenString string) (catalog_models.Identity, error) {
	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return catalog_models.Identity{}, err
	}
	if !token.Valid {
		return catalog_models.Identity{}, errors.New("invalid token")
	}
	if v.issuer != "" && !claims.VerifyIssuer(v.issuer, true) {
		return catalog_models.Identity{}, errors.New("unexpected token issuer")
	}
	if claims.Subject == "" {
		return catalog_models.Identity{}, errors.New("token has no subject")
	}
	return catalog_models.Identity{UserID: claims.Subject, Email: claims.Email}, nil
}

// ClerkAuth 要求 Authorization: Bearer <token>
func ClerkAuth(verifier TokenVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(tokenString) == "" {
			controller.ErrorResponse(c, http.StatusUnauthorized, string(domain.KindUnauthorized),
				"Unauthorized - You must be logged in to Listny")
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), strings.TrimSpace(tokenString))
		if err != nil {
			logger.Warn("会话令牌无效", "request_id", GetRequestID(c), "ip", c.ClientIP(), "error", err.Error())
			controller.ErrorResponse(c, http.StatusUnauthorized, string(domain.KindUnauthorized),
				"Unauthorized - Invalid session")
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom 读取 ClerkAuth 写入的身份
func IdentityFrom(c *gin.Context) (catalog_models.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return catalog_models.Identity{}, false
	}
	identity, ok := v.(catalog_models.Identity)
	return identity, ok
}

// RequireAdmin 邮箱在管理员名单内才放行。令牌未携带邮箱时向身份服务查询
func RequireAdmin(adminEmails []string, lookup EmailLookup, logger *slog.Logger) gin.HandlerFunc {
	admins := make(map[string]struct{}, len(adminEmails))
	for _, e := range adminEmails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			admins[e] = struct{}{}
		}
	}

	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			controller.ErrorResponse(c, http.StatusUnauthorized, string(domain.KindUnauthorized),
				"Unauthorized - No user found")
			return
		}

		email := identity.Email
		if email == "" && lookup != nil {
			var err error
			email, err = lookup.PrimaryEmail(c.Request.Context(), identity.UserID)
			if err != nil {
				logger.Error("查询用户邮箱失败", "user_id", identity.UserID, "error", err.Error())
				controller.ErrorResponse(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
				return
			}
		}
		if email == "" {
			controller.ErrorResponse(c, http.StatusBadRequest, string(domain.KindValidation),
				"Bad Request - No email found for user")
			return
		}

		if _, ok := admins[strings.ToLower(email)]; !ok {
			logger.Warn("非管理员访问管理接口", "user_id", identity.UserID, "path", c.Request.URL.Path)
			controller.ErrorResponse(c, http.StatusForbidden, string(domain.KindForbidden),
				"Forbidden - Admins only")
			return
		}
		c.Next()
	}
}
