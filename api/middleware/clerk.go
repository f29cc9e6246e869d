package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	clerkjwt "github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"
	"github.com/listny/listny-backend/domain/domain_catalog/catalog_models"
)

const jwkCacheTTL = time.Hour

// ClerkConfig 身份服务后台 API 配置，APIURL 为空时使用 SDK 默认地址
type ClerkConfig struct {
	SecretKey string
	APIURL    string
	Timeout   time.Duration
}

func (c ClerkConfig) clientConfig() *clerk.ClientConfig {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	cfg := &clerk.ClientConfig{}
	cfg.Key = clerk.String(c.SecretKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	if c.APIURL != "" {
		cfg.URL = clerk.String(strings.TrimSuffix(c.APIURL, "/"))
	}
	return cfg
}

// EmailLookup 按用户ID查询主邮箱
type EmailLookup interface {
	PrimaryEmail(ctx context.Context, userID string) (string, error)
}

// ClerkUsers 通过 SDK 的用户接口实现 EmailLookup
type ClerkUsers struct {
	client *user.Client
}

func NewClerkUsers(cfg ClerkConfig) *ClerkUsers {
	return &ClerkUsers{client: user.NewClient(cfg.clientConfig())}
}

// PrimaryEmail 用户不存在或没有主邮箱时返回空串
func (u *ClerkUsers) PrimaryEmail(ctx context.Context, userID string) (string, error) {
	usr, err := u.client.Get(ctx, userID)
	if err != nil {
		var apiErr *clerk.APIErrorResponse
		if errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound {
			return "", nil
		}
		return "", fmt.Errorf("clerk user lookup failed: %w", err)
	}
	if usr.PrimaryEmailAddressID == nil {
		return "", nil
	}
	for _, e := range usr.EmailAddresses {
		if e != nil && e.ID == *usr.PrimaryEmailAddressID {
			return e.EmailAddress, nil
		}
	}
	return "", nil
}

// emailClaim 会话令牌模板里的自定义 email 声明
type emailClaim struct {
	Email string `json:"email"`
}

type cachedJWK struct {
	key     *clerk.JSONWebKey
	fetched time.Time
}

// ClerkVerifier 用身份服务 JWKS 校验 RS256 会话令牌，公钥按 kid 缓存
type ClerkVerifier struct {
	jwks   *jwks.Client
	issuer string
	now    func() time.Time

	mu   sync.Mutex
	keys map[string]cachedJWK
}

func NewClerkVerifier(cfg ClerkConfig, issuer string) *ClerkVerifier {
	return &ClerkVerifier{
		jwks:   jwks.NewClient(cfg.clientConfig()),
		issuer: issuer,
		now:    time.Now,
		keys:   make(map[string]cachedJWK),
	}
}

func (v *ClerkVerifier) Verify(ctx context.Context, token string) (catalog_models.Identity, error) {
	decoded, err := clerkjwt.Decode(ctx, &clerkjwt.DecodeParams{Token: token})
	if err != nil {
		return catalog_models.Identity{}, err
	}
	key, err := v.jwk(ctx, decoded.KeyID)
	if err != nil {
		return catalog_models.Identity{}, err
	}

	claims, err := clerkjwt.Verify(ctx, &clerkjwt.VerifyParams{
		Token: token,
		JWK:   key,
		CustomClaimsConstructor: func(context.Context) any {
			return &emailClaim{}
		},
	})
	if err != nil {
		return catalog_models.Identity{}, err
	}
	if v.issuer != "" && claims.Issuer != v.issuer {
		return catalog_models.Identity{}, errors.New("unexpected token issuer")
	}
	if claims.Subject == "" {
		return catalog_models.Identity{}, errors.New("token has no subject")
	}

	identity := catalog_models.Identity{UserID: claims.Subject}
	if custom, ok := claims.Custom.(*emailClaim); ok {
		identity.Email = custom.Email
	}
	return identity, nil
}

func (v *ClerkVerifier) jwk(ctx context.Context, kid string) (*clerk.JSONWebKey, error) {
	v.mu.Lock()
	cached, ok := v.keys[kid]
	v.mu.Unlock()
	if ok && v.now().Sub(cached.fetched) < jwkCacheTTL {
		return cached.key, nil
	}

	key, err := clerkjwt.GetJSONWebKey(ctx, &clerkjwt.GetJSONWebKeyParams{
		KeyID:      kid,
		JWKSClient: v.jwks,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch signing key %q: %w", kid, err)
	}

	v.mu.Lock()
	v.keys[kid] = cachedJWK{key: key, fetched: v.now()}
	v.mu.Unlock()
	return key, nil
}
