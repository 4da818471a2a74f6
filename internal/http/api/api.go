package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// APIError is returned by handlers and rendered as {"error": Message}.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string { return e.Message }

func BadRequest(message string) *APIError {
	return &APIError{Code: http.StatusBadRequest, Message: message}
}

func InternalError(message string) *APIError {
	return &APIError{Code: http.StatusInternalServerError, Message: message}
}

type HandlerFunc func(ctx *gin.Context) (any, *APIError)

// ResolveEndpoint adapts a HandlerFunc to gin. A nil result with no error
// leaves the response to the handler, for upgrades and streams.
func ResolveEndpoint(h HandlerFunc) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		result, err := h(ctx)
		if err != nil {
			ctx.AbortWithStatusJSON(err.Code, gin.H{"error": err.Message})
			return
		}
		if result == nil {
			return
		}

		ctx.JSON(http.StatusOK, result)
	}
}

// Controller is the router group a Module attaches its endpoints to.
type Controller struct {
	Group *gin.RouterGroup
}

func (c *Controller) Handle(method, path string, h HandlerFunc) {
	c.Group.Handle(method, path, ResolveEndpoint(h))
}

func (c *Controller) GET(path string, h HandlerFunc) { c.Handle(http.MethodGet, path, h) }
func (c *Controller) POST(path string, h HandlerFunc) { c.Handle(http.MethodPost, path, h) }
func (c *Controller) PUT(path string, h HandlerFunc) { c.Handle(http.MethodPut, path, h) }
func (c *Controller) DELETE(path string, h HandlerFunc) { c.Handle(http.MethodDelete, path, h) }

// Raw registers a plain gin handler, for endpoints that own the connection.
func (c *Controller) Raw(method, path string, h gin.HandlerFunc) {
	c.Group.Handle(method, path, h)
}
