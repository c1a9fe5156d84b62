package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoleConfig holds configuration for role middleware
type RoleConfig struct {
	// Logger for middleware logging
	Logger *zap.Logger
	// OnDenied is called when access is denied (optional)
	OnDenied func(c *gin.Context, requiredRoles []string)
}

// RequireRole creates middleware that requires one of the given roles.
// The role comes from the validated JWT claims, so JWTAuthMiddleware must
// run earlier in the chain.
func RequireRole(roles ...string) gin.HandlerFunc {
	return RequireRoleWithConfig(RoleConfig{}, roles...)
}

// RequireRoleWithConfig creates role middleware with custom config
func RequireRoleWithConfig(cfg RoleConfig, roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, roles, "No authentication claims found")
			return
		}

		allowed := false
		for _, role := range roles {
			if claims.Role == role {
				allowed = true
				break
			}
		}
		if !allowed {
			handleRoleDenied(c, cfg, roles, "User lacks required role")
			return
		}

		if cfg.Logger != nil {
			cfg.Logger.Debug("Role check passed",
				zap.String("user_id", claims.UserID),
				zap.String("role", claims.Role),
				zap.Strings("required_any", roles),
			)
		}

		c.Next()
	}
}

// RequireAdmin creates middleware that only admits the admin role
func RequireAdmin() gin.HandlerFunc {
	return RequireRole("admin")
}

// RequireBranchScope creates middleware that confines sellers to their own
// branch. Admins pass unconditionally. When the route carries the named
// parameter (e.g. "branchId"), a seller may only reach it with the branch
// pinned in their token.
func RequireBranchScope(paramName string) gin.HandlerFunc {
	return RequireBranchScopeWithConfig(paramName, RoleConfig{})
}

// RequireBranchScopeWithConfig creates branch scope middleware with custom config
func RequireBranchScopeWithConfig(paramName string, cfg RoleConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			handleRoleDenied(c, cfg, nil, "No authentication claims found")
			return
		}

		if claims.IsAdmin() {
			c.Next()
			return
		}

		requested := c.Param(paramName)
		if requested == "" {
			// No branch in the route, nothing to scope
			c.Next()
			return
		}

		if claims.BranchID == "" || claims.BranchID != requested {
			if cfg.Logger != nil {
				cfg.Logger.Warn("Branch scope denied",
					zap.String("user_id", claims.UserID),
					zap.String("token_branch", claims.BranchID),
					zap.String("requested_branch", requested),
					zap.String("path", c.Request.URL.Path),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "ERR_FORBIDDEN",
					"message": "Access denied: branch outside your scope",
				},
			})
			return
		}

		c.Next()
	}
}

// handleRoleDenied handles role denied scenarios
func handleRoleDenied(c *gin.Context, cfg RoleConfig, requiredRoles []string, reason string) {
	if cfg.OnDenied != nil {
		cfg.OnDenied(c, requiredRoles)
		return
	}

	if cfg.Logger != nil {
		claims := GetJWTClaims(c)
		userID := ""
		role := ""
		if claims != nil {
			userID = claims.UserID
			role = claims.Role
		}

		cfg.Logger.Warn("Role denied",
			zap.String("reason", reason),
			zap.String("user_id", userID),
			zap.String("role", role),
			zap.Strings("required_roles", requiredRoles),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
	}

	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "ERR_FORBIDDEN",
			"message": "Access denied: insufficient role",
		},
	})
}

// HasRole is a helper function to check the role in handlers
func HasRole(c *gin.Context, role string) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.Role == role
}

// IsAdmin reports whether the authenticated user holds the admin role
func IsAdmin(c *gin.Context) bool {
	claims := GetJWTClaims(c)
	if claims == nil {
		return false
	}
	return claims.IsAdmin()
}
