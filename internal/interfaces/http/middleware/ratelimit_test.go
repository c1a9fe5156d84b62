package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func hitRoute(router *gin.Engine, method, target string, header map[string]string, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	if remoteAddr != "" {
		req.RemoteAddr = remoteAddr
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows up to the limit", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("terminal-1"), "request %d", i+1)
		}
		assert.False(t, limiter.Allow("terminal-1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(2, time.Minute)

		assert.True(t, limiter.Allow("terminal-a"))
		assert.True(t, limiter.Allow("terminal-a"))
		assert.False(t, limiter.Allow("terminal-a"))

		assert.True(t, limiter.Allow("terminal-b"))
		assert.True(t, limiter.Allow("terminal-b"))
	})

	t.Run("window expiry resets the budget", func(t *testing.T) {
		limiter := NewRateLimiter(2, 50*time.Millisecond)

		assert.True(t, limiter.Allow("terminal-1"))
		assert.True(t, limiter.Allow("terminal-1"))
		assert.False(t, limiter.Allow("terminal-1"))

		time.Sleep(60 * time.Millisecond)
		assert.True(t, limiter.Allow("terminal-1"))
	})

	t.Run("remaining tracks consumption", func(t *testing.T) {
		limiter := NewRateLimiter(5, time.Minute)

		assert.Equal(t, 5, limiter.Remaining("terminal-1"))
		limiter.Allow("terminal-1")
		limiter.Allow("terminal-1")
		assert.Equal(t, 3, limiter.Remaining("terminal-1"))
	})

	t.Run("concurrent terminals never overshoot", func(t *testing.T) {
		limiter := NewRateLimiter(100, time.Minute)
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			allowed int
		)

		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared-terminal") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}

		wg.Wait()
		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newSalesRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(RateLimit(limiter))
		router.GET("/api/v1/pos/sales", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		return router
	}

	t.Run("passes requests under the limit", func(t *testing.T) {
		router := newSalesRouter(NewRateLimiter(3, time.Minute))
		for i := 0; i < 3; i++ {
			w := hitRoute(router, "GET", "/api/v1/pos/sales", nil, "")
			assert.Equal(t, http.StatusOK, w.Code)
		}
	})

	t.Run("blocks with 429 and RATE_LIMIT_EXCEEDED", func(t *testing.T) {
		router := newSalesRouter(NewRateLimiter(2, time.Minute))
		hitRoute(router, "GET", "/api/v1/pos/sales", nil, "")
		hitRoute(router, "GET", "/api/v1/pos/sales", nil, "")

		w := hitRoute(router, "GET", "/api/v1/pos/sales", nil, "")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	})

	t.Run("budget is scoped per sucursal", func(t *testing.T) {
		router := newSalesRouter(NewRateLimiter(1, time.Minute))
		central := map[string]string{"X-Branch-ID": "sucursal-central"}
		sur := map[string]string{"X-Branch-ID": "sucursal-sur"}

		assert.Equal(t, http.StatusOK, hitRoute(router, "GET", "/api/v1/pos/sales", central, "").Code)
		assert.Equal(t, http.StatusTooManyRequests, hitRoute(router, "GET", "/api/v1/pos/sales", central, "").Code)
		// the other branch still has its own budget
		assert.Equal(t, http.StatusOK, hitRoute(router, "GET", "/api/v1/pos/sales", sur, "").Code)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(1, time.Minute)
	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Terminal-ID")
	}))
	router.GET("/api/v1/pos/sales", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	terminal := map[string]string{"X-Terminal-ID": "caja-3"}
	assert.Equal(t, http.StatusOK, hitRoute(router, "GET", "/api/v1/pos/sales", terminal, "").Code)
	assert.Equal(t, http.StatusTooManyRequests, hitRoute(router, "GET", "/api/v1/pos/sales", terminal, "").Code)
}

func TestAuthRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newLoginRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.Use(AuthRateLimit(limiter))
		router.POST("/api/v1/auth/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		return router
	}
	login := func(router *gin.Engine, addr string) *httptest.ResponseRecorder {
		return hitRoute(router, "POST", "/api/v1/auth/login", nil, addr)
	}

	t.Run("allows attempts within the limit", func(t *testing.T) {
		router := newLoginRouter(NewRateLimiter(5, time.Minute))
		for i := 0; i < 5; i++ {
			assert.Equal(t, http.StatusOK, login(router, "192.168.1.100:12345").Code, "attempt %d", i+1)
		}
	})

	t.Run("blocks with the auth-specific error", func(t *testing.T) {
		router := newLoginRouter(NewRateLimiter(3, time.Minute))
		for i := 0; i < 3; i++ {
			login(router, "192.168.1.100:12345")
		}

		w := login(router, "192.168.1.100:12345")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), "AUTH_RATE_LIMIT_EXCEEDED")
		assert.Contains(t, w.Body.String(), "Too many authentication attempts")
	})

	t.Run("successful attempts carry rate limit headers", func(t *testing.T) {
		router := newLoginRouter(NewRateLimiter(5, time.Minute))

		w := login(router, "192.168.1.100:12345")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("blocked attempts carry Retry-After", func(t *testing.T) {
		router := newLoginRouter(NewRateLimiter(1, time.Minute))
		login(router, "192.168.1.100:12345")

		w := login(router, "192.168.1.100:12345")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "60", w.Header().Get("Retry-After"))
	})

	t.Run("budget is per source IP", func(t *testing.T) {
		router := newLoginRouter(NewRateLimiter(2, time.Minute))
		login(router, "192.168.1.1:12345")
		login(router, "192.168.1.1:12345")

		assert.Equal(t, http.StatusTooManyRequests, login(router, "192.168.1.1:12345").Code)
		assert.Equal(t, http.StatusOK, login(router, "192.168.1.2:12345").Code)
	})

	t.Run("auth budget is independent of the general limiter", func(t *testing.T) {
		authLimiter := NewRateLimiter(2, time.Minute)
		globalLimiter := NewRateLimiter(100, time.Minute)

		router := gin.New()
		authGroup := router.Group("/api/v1/auth")
		authGroup.Use(AuthRateLimit(authLimiter))
		authGroup.POST("/login", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
		router.Use(RateLimit(globalLimiter))
		router.GET("/api/v1/products", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"items": []string{}})
		})

		for i := 0; i < 2; i++ {
			assert.Equal(t, http.StatusOK, hitRoute(router, "POST", "/api/v1/auth/login", nil, "192.168.1.100:12345").Code)
		}
		assert.Equal(t, http.StatusTooManyRequests, hitRoute(router, "POST", "/api/v1/auth/login", nil, "192.168.1.100:12345").Code)

		// browsing the catalog from the same IP is not affected
		assert.Equal(t, http.StatusOK, hitRoute(router, "GET", "/api/v1/products", nil, "192.168.1.100:12345").Code)
	})
}
