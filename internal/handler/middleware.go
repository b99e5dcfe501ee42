package handler

import (
	"bytes"
	"io"
	"log"
	"strings"
	"time"

	"digibank/internal/model"
	"digibank/internal/repository"
	"digibank/internal/service"
	"digibank/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxUserID   = "userID"
	ctxUserRole = "userRole"
)

// LoggerMiddleware logs one line per request.
func LoggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		if query != "" {
			path = path + "?" + query
		}

		log.Printf("[HTTP] %d | %13v | %15s | %-7s %s",
			status,
			latency,
			c.ClientIP(),
			c.Request.Method,
			path,
		)
	}
}

// RecoveryMiddleware turns panics into a 500 instead of killing the process.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("[PANIC] %v", err)
				c.AbortWithStatusJSON(500, gin.H{
					"code":    500,
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}

// CORSMiddleware allows cross-origin API access.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// JWTAuthMiddleware validates the bearer token and stores the caller
// identity for the handlers.
func JWTAuthMiddleware(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.Unauthorized(c, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := auth.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ctxUserID, claims.Subject)
		c.Set(ctxUserRole, claims.Role)
		c.Next()
	}
}

// AuditMiddleware appends one audit row per API call after the handler ran.
// Auth request bodies carry credentials and are not stored.
func AuditMiddleware(auditRepo *repository.AuditRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload string
		if c.Request.Body != nil && !strings.HasPrefix(c.FullPath(), "/api/v1/auth") {
			body, err := io.ReadAll(c.Request.Body)
			if err == nil {
				payload = string(body)
				c.Request.Body = io.NopCloser(bytes.NewReader(body))
			}
		}

		c.Next()

		entry := &model.AuditLog{
			ID:       uuid.NewString(),
			Endpoint: c.Request.URL.Path,
			Method:   c.Request.Method,
			Payload:  payload,
		}
		if userID := c.GetString(ctxUserID); userID != "" {
			entry.UserID = &userID
		}
		if err := auditRepo.Create(c.Request.Context(), entry); err != nil {
			log.Printf("[Audit] failed to store audit log: %v", err)
		}
	}
}
