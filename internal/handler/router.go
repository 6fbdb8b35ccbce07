package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"innercloset/gatekeeper/internal/config"
	"innercloset/gatekeeper/internal/handler/middleware"
	jwtpkg "innercloset/gatekeeper/pkg/jwt"
)

// RouterDeps bundles what SetupRouter mounts. RateLimit guards the verify
// and redeem endpoints. A nil SessionVerifier leaves every request anonymous;
// other nil handlers and middleware are skipped. AccessHandler is required.
type RouterDeps struct {
	Logger          *zap.Logger
	SessionVerifier *jwtpkg.SessionVerifier
	RateLimit       gin.HandlerFunc
	MetricsGatherer prometheus.Gatherer
	AccessHandler   *AccessHandler
	CatalogHandler  *CatalogHandler
	AdminHandler    *AdminHandler
}

func SetupRouter(cfg *config.Config, deps RouterDeps) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	if len(cfg.CORS.AllowedOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORS))
	}
	if deps.SessionVerifier != nil {
		r.Use(middleware.Session(deps.SessionVerifier))
	}

	// Health check
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	if deps.MetricsGatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api/v1")

	access := api.Group("/access")
	{
		codes := access.Group("")
		if deps.RateLimit != nil {
			codes.Use(deps.RateLimit)
		}
		codes.POST("/verify", deps.AccessHandler.Verify)
		codes.POST("/redeem", deps.AccessHandler.Redeem)

		access.GET("/curators/:curator_id", deps.AccessHandler.Status)
	}

	if deps.CatalogHandler != nil {
		api.GET("/curators/:curator_id/products", deps.CatalogHandler.ListProducts)
	}

	// Admin routes (session + admin check)
	if deps.AdminHandler != nil {
		admin := api.Group("/admin")
		admin.Use(middleware.RequireSession())
		admin.Use(middleware.AdminAuth(cfg.Admin.UserIDs, deps.Logger))
		{
			admin.POST("/invite-codes", deps.AdminHandler.CreateInviteCode)
			admin.GET("/invite-codes", deps.AdminHandler.ListInviteCodes)
			admin.POST("/invite-codes/:id/deactivate", deps.AdminHandler.DeactivateInviteCode)
			admin.DELETE("/grants/:id", deps.AdminHandler.RevokeGrant)
		}
	}

	return r
}
