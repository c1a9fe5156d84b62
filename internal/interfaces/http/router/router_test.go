package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithAPIVersion("v1"))

	store := NewDomainGroup("store", "/store")
	store.GET("/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.Register(store)
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/store/products", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDomainGroupSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	pos := NewDomainGroup("pos", "/pos")
	registers := pos.Group("registers", "/registers")
	registers.POST("/open", func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{"ok": true})
	})

	r.Register(pos)
	r.Setup()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pos/registers/open", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDomainGroupMiddleware(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	called := false
	admin := NewDomainGroup("admin", "/admin")
	admin.Use(func(c *gin.Context) {
		called = true
		c.Next()
	})
	admin.GET("/branches", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	r.Register(admin)
	r.Setup()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/branches", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
}

func TestDomainGroupAccessors(t *testing.T) {
	dg := NewDomainGroup("catalog", "/catalog")

	assert.Equal(t, "catalog", dg.Name())
	assert.Equal(t, "/catalog", dg.Prefix())
}
