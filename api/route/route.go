package route

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/listny/listny-backend/api/middleware"
	"github.com/listny/listny-backend/api/route/route_catalog"
	"github.com/listny/listny-backend/bootstrap"
)

// Setup 注册全部路由
func Setup(app *bootstrap.Application, engine *gin.Engine) error {
	env := app.Env
	timeout := env.Timeout()
	db := app.Database()

	clerkCfg := middleware.ClerkConfig{
		SecretKey: env.ClerkSecretKey,
		APIURL:    env.ClerkAPIURL,
		Timeout:   timeout,
	}
	verifier, err := middleware.NewTokenVerifier(middleware.AuthConfig{
		Clerk:      clerkCfg,
		HMACSecret: env.ClerkJWTSecret,
		Issuer:     env.ClerkIssuer,
	})
	if err != nil {
		return fmt.Errorf("failed to configure auth: %w", err)
	}

	var lookup middleware.EmailLookup
	if env.ClerkSecretKey != "" {
		lookup = middleware.NewClerkUsers(clerkCfg)
	}

	guards := route_catalog.Guards{
		Auth:  middleware.ClerkAuth(verifier, app.Logger),
		Admin: middleware.RequireAdmin(env.AdminEmailList(), lookup, app.Logger),
		Limit: middleware.NewRateLimiter(env.RateLimitPerSecond, env.RateLimitBurst).Limit(),
	}

	engine.Use(
		middleware.RequestID(),
		middleware.Recovery(app.Logger),
		middleware.AccessLog(app.Logger),
	)
	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := engine.Group("/api")
	route_catalog.NewSongRouter(timeout, db, app.Cache, guards, app.Logger, api)
	route_catalog.NewAlbumRouter(timeout, db, app.Cache, app.Logger, api)
	route_catalog.NewAdminRouter(timeout, db, app.Cache, app.Media, env.MaxUploadBytes(), guards, app.Logger, api)
	route_catalog.NewAuthRouter(timeout, db, guards, app.Logger, api)
	return nil
}
