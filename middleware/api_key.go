package middleware

import (
	"net/http"

	"sharebox/registry"

	"github.com/gin-gonic/gin"
)

// APIKeyFrom pulls the key from the X-API-Key header with the form and
// query fields as fallbacks, matching what integrations send.
func APIKeyFrom(c *gin.Context) string {
	if key := c.GetHeader("X-API-Key"); key != "" {
		return key
	}
	if key := c.PostForm("api_key"); key != "" {
		return key
	}
	return c.Query("api_key")
}

// NewAPIKeyMiddleware gates /api/v1 endpoints. Missing or inactive keys
// fail with 401 regardless of payload validity.
func NewAPIKeyMiddleware(keys *registry.KeyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := APIKeyFrom(c)
		if key == "" || !keys.Verify(key) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid or missing API key",
				"requestID": c.MustGet("requestID").(string),
			})
			return
		}

		c.Set("apiKey", key)
		c.Next()
	}
}
