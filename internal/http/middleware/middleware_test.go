package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(DeviceID(), Logger())
	r.GET("/whoami", func(c *gin.Context) {
		id, _ := GetDeviceID(c)
		c.String(http.StatusOK, id)
	})
	return r
}

func TestDeviceIDFromHeader(t *testing.T) {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set(DeviceIDHeader, "tablet-7")
	newRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "tablet-7", w.Body.String())
	assert.Equal(t, "tablet-7", w.Header().Get(DeviceIDHeader))
}

func TestDeviceIDGenerated(t *testing.T) {
	w := httptest.NewRecorder()
	newRouter().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	id := w.Body.String()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.Equal(t, id, w.Header().Get(DeviceIDHeader))
}

func TestGetDeviceIDWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, ok := GetDeviceID(c)
	assert.False(t, ok)
}
