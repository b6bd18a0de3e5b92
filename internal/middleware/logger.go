package middleware

import (
	"fmt"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs every request and recovers from handler panics with a JSON 500.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("%v", recovered)
				log.Printf("panic method=%s path=%s err=%v\n%s",
					c.Request.Method, c.Request.URL.Path, err, debug.Stack())

				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "INTERNAL_SERVER_ERROR",
						"message": "Internal Server Error",
					},
				})
			}
		}()

		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError || len(c.Errors) > 0 {
			log.Printf("request_error method=%s path=%s status=%d duration=%s errors=%v",
				c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.Errors.Errors())
			return
		}

		log.Printf("request method=%s path=%s status=%d duration=%s",
			c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
