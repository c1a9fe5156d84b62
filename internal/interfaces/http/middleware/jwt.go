package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/outsiders/backend/internal/infrastructure/auth"
	"github.com/outsiders/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Keys under which validated token data lands in the gin context.
const (
	JWTClaimsKey   = "jwt_claims"
	JWTUserIDKey   = "jwt_user_id"
	JWTBranchIDKey = "jwt_branch_id"
	JWTUsernameKey = "jwt_username"
	JWTRoleKey     = "jwt_role"
	AuthHeaderKey  = "Authorization"
	BearerPrefix   = "Bearer "
)

// JWTMiddlewareConfig configures the authentication middleware.
type JWTMiddlewareConfig struct {
	// JWTService validates access tokens.
	JWTService *auth.JWTService
	// SkipPaths bypass authentication on exact match.
	SkipPaths []string
	// SkipPathPrefixes bypass authentication on prefix match.
	SkipPathPrefixes []string
	// OnError replaces the default 401 response when set.
	OnError func(c *gin.Context, err error)
	// Logger records auth successes and failures when set.
	Logger *zap.Logger
}

// DefaultJWTConfig leaves the public storefront open: probes, login, and
// the anonymous catalog and live-drop endpoints work without a token.
// Everything else (cart, checkout, POS, admin) authenticates.
func DefaultJWTConfig(jwtService *auth.JWTService) JWTMiddlewareConfig {
	return JWTMiddlewareConfig{
		JWTService: jwtService,
		SkipPaths: []string{
			"/health",
			"/healthz",
			"/ready",
			"/metrics",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/store/drops/live",
		},
		SkipPathPrefixes: []string{
			"/api/v1/store/products",
		},
	}
}

// JWTAuthMiddleware authenticates requests with the default config.
func JWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(DefaultJWTConfig(jwtService))
}

// JWTAuthMiddlewareWithConfig authenticates requests using cfg. Validated
// claims land in the gin context and the request context, so handlers and
// log lines both see who is acting and at which branch.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if pathSkipsAuth(c.Request.URL.Path, cfg) {
			c.Next()
			return
		}

		tokenString, errMessage := bearerToken(c)
		if errMessage != "" {
			handleAuthError(c, cfg, auth.ErrInvalidToken, errMessage)
			return
		}

		claims, err := cfg.JWTService.ValidateAccessToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		storeClaims(c, claims)
		attachIdentityToRequestContext(c, claims)

		if cfg.Logger != nil {
			cfg.Logger.Debug("JWT authentication successful",
				zap.String("user_id", claims.UserID),
				zap.String("branch_id", claims.BranchID),
				zap.String("username", claims.Username),
				zap.String("role", claims.Role),
			)
		}

		c.Next()
	}
}

func pathSkipsAuth(path string, cfg JWTMiddlewareConfig) bool {
	for _, skipPath := range cfg.SkipPaths {
		if path == skipPath {
			return true
		}
	}
	for _, prefix := range cfg.SkipPathPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// bearerToken pulls the raw token out of the Authorization header. A
// non-empty second return value describes why extraction failed.
func bearerToken(c *gin.Context) (string, string) {
	authHeader := c.GetHeader(AuthHeaderKey)
	switch {
	case authHeader == "":
		return "", "Missing authorization header"
	case !strings.HasPrefix(authHeader, BearerPrefix):
		return "", "Invalid authorization header format"
	}

	tokenString := strings.TrimPrefix(authHeader, BearerPrefix)
	if tokenString == "" {
		return "", "Missing token"
	}
	return tokenString, ""
}

func storeClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(JWTClaimsKey, claims)
	c.Set(JWTUserIDKey, claims.UserID)
	c.Set(JWTBranchIDKey, claims.BranchID)
	c.Set(JWTUsernameKey, claims.Username)
	c.Set(JWTRoleKey, claims.Role)
}

// attachIdentityToRequestContext mirrors user and branch into the request
// context, where the context logger picks them up.
func attachIdentityToRequestContext(c *gin.Context, claims *auth.Claims) {
	ctx := c.Request.Context()
	log := logger.FromContext(ctx)
	ctx, _ = logger.WithUserID(ctx, log, claims.UserID)
	if claims.BranchID != "" {
		ctx, _ = logger.WithBranchID(ctx, log, claims.BranchID)
	}
	c.Request = c.Request.WithContext(ctx)
}

type authErrorBody struct {
	code    string
	message string
}

// authErrorBodies distinguishes an expired token (the client should
// refresh) from everything else (the client should log in again).
var authErrorBodies = map[error]authErrorBody{
	auth.ErrExpiredToken:     {"TOKEN_EXPIRED", "Token has expired"},
	auth.ErrInvalidToken:     {"TOKEN_INVALID", "Invalid token"},
	auth.ErrInvalidTokenType: {"TOKEN_INVALID", "Invalid token type"},
	auth.ErrTokenNotYetValid: {"TOKEN_INVALID", "Token is not yet valid"},
}

func handleAuthError(c *gin.Context, cfg JWTMiddlewareConfig, err error, message string) {
	if cfg.OnError != nil {
		cfg.OnError(c, err)
		return
	}

	if cfg.Logger != nil {
		cfg.Logger.Warn("JWT authentication failed",
			zap.Error(err),
			zap.String("message", message),
			zap.String("path", c.Request.URL.Path),
		)
	}

	body, ok := authErrorBodies[err]
	if !ok {
		body = authErrorBody{"UNAUTHORIZED", "Authentication required"}
	}

	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    body.code,
			"message": body.message,
		},
	})
}

// GetJWTClaims returns the validated claims, or nil before authentication.
func GetJWTClaims(c *gin.Context) *auth.Claims {
	if claims, exists := c.Get(JWTClaimsKey); exists {
		if jwtClaims, ok := claims.(*auth.Claims); ok {
			return jwtClaims
		}
	}
	return nil
}

// MustGetJWTClaims returns the validated claims, panicking when called on
// a route that never went through the auth middleware.
func MustGetJWTClaims(c *gin.Context) *auth.Claims {
	claims := GetJWTClaims(c)
	if claims == nil {
		panic("jwt claims not found in context")
	}
	return claims
}

func contextString(c *gin.Context, key string) string {
	if value, exists := c.Get(key); exists {
		if s, ok := value.(string); ok {
			return s
		}
	}
	return ""
}

// GetJWTUserID returns the authenticated user's ID, or "".
func GetJWTUserID(c *gin.Context) string {
	return contextString(c, JWTUserIDKey)
}

// GetJWTBranchID returns the branch the token is pinned to. Empty for
// admin users that can act across branches.
func GetJWTBranchID(c *gin.Context) string {
	return contextString(c, JWTBranchIDKey)
}

// GetJWTUsername returns the authenticated username, or "".
func GetJWTUsername(c *gin.Context) string {
	return contextString(c, JWTUsernameKey)
}

// GetJWTRole returns the authenticated user's role, or "".
func GetJWTRole(c *gin.Context) string {
	return contextString(c, JWTRoleKey)
}

// OptionalJWTAuthMiddleware extracts claims when a valid token is present
// but never rejects the request. The storefront uses it so a logged-in
// shopper browsing public pages still gets a personalized cart.
func OptionalJWTAuthMiddleware(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, errMessage := bearerToken(c)
		if errMessage != "" {
			c.Next()
			return
		}

		claims, err := jwtService.ValidateAccessToken(tokenString)
		if err != nil {
			c.Next()
			return
		}

		storeClaims(c, claims)
		c.Next()
	}
}
