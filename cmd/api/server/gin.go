package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// SetupHTTP wraps the gin engine in an http.Server with sane timeouts.
func SetupHTTP(addr string, router *gin.Engine) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 2 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}
