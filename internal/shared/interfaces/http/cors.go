package http

import (
	"net/http"
	"strings"

	"github.com/finvolv/lendingplatform/internal/shared/application"
	"github.com/finvolv/lendingplatform/pkg/logger"
	"github.com/gin-gonic/gin"
)

const (
	allowedMethods = "GET, POST, PUT, DELETE, PATCH, OPTIONS"
	allowedHeaders = "Content-Type, Authorization, X-API-Key"
)

// DynamicCors validates the Origin header against the database-backed allow
// list on every request, so new origins take effect without a restart.
// Requests without an Origin header pass through untouched.
func DynamicCors(corsService *application.CorsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}

		if !corsService.IsOriginAllowed(c.Request.Context(), origin) {
			logger.Warn(c.Request.Context(), "blocked request from unauthorized origin", "origin", origin)
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "CORS Error",
				"message": "Origin not allowed",
				"origin":  origin,
			})
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Allow-Methods", allowedMethods)
		c.Header("Access-Control-Allow-Headers", allowedHeaders)
		c.Header("Vary", "Origin")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CorsAdminHandler manages the allow list over HTTP.
type CorsAdminHandler struct {
	corsService *application.CorsService
}

// NewCorsAdminHandler creates the admin handler.
func NewCorsAdminHandler(corsService *application.CorsService) *CorsAdminHandler {
	return &CorsAdminHandler{corsService: corsService}
}

// RegisterRoutes registers the allow-list admin routes.
func (h *CorsAdminHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/cors")
	{
		api.GET("/rules", h.ListRules)
		api.POST("/rules", h.CreateRule)
		api.DELETE("/rules/:id", h.DeactivateRule)
	}
}

// CreateRuleRequest registers one origin for one service.
type CreateRuleRequest struct {
	Service string `json:"service" binding:"required"`
	Origin  string `json:"origin" binding:"required"`
}

// CreateRule adds an active allow-list rule.
func (h *CorsAdminHandler) CreateRule(c *gin.Context) {
	var req CreateRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	config, err := h.corsService.RegisterOrigin(c.Request.Context(), req.Service, req.Origin)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to register cors origin", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, config)
}

// ListRules returns rules for the service given in the query, or all rules.
func (h *CorsAdminHandler) ListRules(c *gin.Context) {
	service := strings.TrimSpace(c.Query("service"))

	rules, err := h.corsService.ListRules(c.Request.Context(), service)
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list cors rules", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, rules)
}

// DeactivateRule turns a rule off. Takes effect on the next lookup.
func (h *CorsAdminHandler) DeactivateRule(c *gin.Context) {
	id, err := uuidParam(c, "id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rule id"})
		return
	}

	if err := h.corsService.DeactivateRule(c.Request.Context(), id); err != nil {
		logger.Error(c.Request.Context(), "failed to deactivate cors rule", "rule_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
