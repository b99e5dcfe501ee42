package handler

import (
	"digibank/internal/repository"
	"digibank/internal/service"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and routes. Everything under /api/v1 except
// auth requires a valid bearer token.
func SetupRouter(h *Handler, authService *service.AuthService, auditRepo *repository.AuditRepository) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(RecoveryMiddleware())
	r.Use(LoggerMiddleware())
	r.Use(CORSMiddleware())

	api := r.Group("/api/v1")
	api.Use(AuditMiddleware(auditRepo))
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
		}

		authed := api.Group("")
		authed.Use(JWTAuthMiddleware(authService))
		{
			accounts := authed.Group("/accounts")
			{
				accounts.POST("", h.CreateAccount)
				accounts.GET("/me", h.GetMyAccount)
				accounts.PATCH("/:id/status", h.UpdateAccountStatus)
				accounts.POST("/:id/deposit", h.Deposit)
				accounts.POST("/:id/withdraw", h.Withdraw)
				accounts.GET("/:id/transactions", h.GetHistory)
			}

			transactions := authed.Group("/transactions")
			{
				transactions.POST("/transfer/internal", h.TransferInternal)
				transactions.POST("/transfer/external", h.TransferExternal)
			}

			authed.GET("/banks", h.ListBanks)
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
