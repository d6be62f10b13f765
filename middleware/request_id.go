// Package middleware contains any custom middleware used in the app
package middleware

import (
	"sharebox/pkg/util"

	"github.com/gin-gonic/gin"
)

// NewRequestIDMiddleware tags each request with a short random ID that
// ends up in logs and error responses.
func NewRequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("requestID", util.RandStr(10))
		c.Next()
	}
}
