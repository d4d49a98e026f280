package middleware

import (
	"net/http"
	"strings"

	"tap2serve_backend/internal/models"
	"tap2serve_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Context keys populated by the middleware chain.
const (
	CtxUserID       = "userID"
	CtxUserName     = "userName"
	CtxUserRole     = "userRole"
	CtxRestaurantID = "restaurantID"
	CtxBranchID     = "branchID"
)

// AuthMiddleware creates a Gin middleware for JWT authentication.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// SSE clients cannot set headers, so the token may arrive as a
			// query parameter instead.
			if token := c.Query("token"); token != "" {
				authHeader = "Bearer " + token
			}
		}
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format. Use Bearer <token>"})
			c.Abort()
			return
		}

		tokenString := parts[1]
		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			c.Abort()
			return
		}

		// Set user information in the context for downstream handlers
		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserName, claims.Name)
		c.Set(CtxUserRole, claims.Role)
		if claims.RestaurantID != nil {
			c.Set(CtxRestaurantID, *claims.RestaurantID)
		}
		if claims.BranchID != nil {
			c.Set(CtxBranchID, *claims.BranchID)
		}

		c.Next()
	}
}

// TenantMiddleware requires the caller to be scoped to a restaurant. Platform
// admins carry no restaurant in their token and are rejected here: admin
// surfaces have their own routes.
func TenantMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, exists := c.Get(CtxRestaurantID); !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "Token is not scoped to a restaurant"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RoleAuthMiddleware creates a Gin middleware for role-based authorization.
// It checks if the user role (from JWT claims) is one of the allowed roles.
// Platform admins pass every role check.
func RoleAuthMiddleware(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(CtxUserRole)
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{"error": "User role not found in token claims. Ensure AuthMiddleware runs first."})
			c.Abort()
			return
		}

		roleStr, ok := userRole.(string)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "User role in token is not a string"})
			c.Abort()
			return
		}

		if strings.EqualFold(roleStr, models.RoleAdmin) {
			c.Next()
			return
		}

		allowed := false
		for _, r := range allowedRoles {
			if strings.EqualFold(roleStr, r) {
				allowed = true
				break
			}
		}

		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource. Required roles: " + strings.Join(allowedRoles, ", ")})
			c.Abort()
			return
		}

		c.Next()
	}
}

// RestaurantID returns the tenant scope set by AuthMiddleware.
func RestaurantID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(CtxRestaurantID)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// UserID returns the authenticated user's id, if any.
func UserID(c *gin.Context) *int64 {
	v, exists := c.Get(CtxUserID)
	if !exists {
		return nil
	}
	if id, ok := v.(int64); ok {
		return &id
	}
	return nil
}
