package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	DeviceIDHeader = "X-Device-ID"
	deviceIDKey    = "deviceID"
	maxDeviceIDLen = 128
)

// DeviceID identifies the caller by the X-Device-ID header. Callers without
// one, or with an unusable one, are assigned a fresh UUID which is echoed
// back so the client can keep it.
func DeviceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(DeviceIDHeader))
		if id == "" || len(id) > maxDeviceIDLen {
			id = uuid.NewString()
		}

		c.Set(deviceIDKey, id)
		c.Header(DeviceIDHeader, id)
		c.Next()
	}
}

// GetDeviceID retrieves the device ID set by DeviceID.
func GetDeviceID(c *gin.Context) (string, bool) {
	v, exists := c.Get(deviceIDKey)
	if !exists {
		return "", false
	}
	id, ok := v.(string)
	return id, ok && id != ""
}
