package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"desktop-core-service/internal/adapter/gin/handler"
	"desktop-core-service/internal/adapter/gin/middleware"
	"desktop-core-service/internal/adapter/ratelimit"
)

// Handlers groups the route handlers mounted by SetupRouter.
type Handlers struct {
	User    *handler.UserHandler
	Compute *handler.ComputeHandler
}

// SetupRouter configures the gin engine. A nil limiter disables rate limiting.
func SetupRouter(h Handlers, limiter *ratelimit.Limiter, serviceName string, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": serviceName,
		})
	})

	v1 := router.Group("/v1", middleware.RateLimiter(limiter, log))
	{
		math := v1.Group("/math")
		{
			math.GET("/factorial/:n", h.Compute.Factorial)
			math.GET("/factorial/:n/big", h.Compute.FactorialBig)
			math.GET("/prime/:n", h.Compute.IsPrime)
			math.GET("/add", h.Compute.Add)
		}

		text := v1.Group("/text")
		{
			text.POST("/uppercase", h.Compute.Uppercase)
			text.GET("/greet", h.Compute.Greet)
		}

		v1.POST("/json/parse", h.Compute.ParseJSON)

		users := v1.Group("/users")
		{
			users.POST("", h.User.CreateUser)
			users.GET("", h.User.ListUsers)
			users.POST("/import", h.User.ImportUsers)
			users.GET("/export", h.User.ExportUsers)
			users.POST("/validate-email", h.User.CheckEmail)
			users.GET("/:id", h.User.GetUser)
			users.PUT("/:id", h.User.UpdateUser)
			users.DELETE("/:id", h.User.DeleteUser)
		}
	}

	return router
}
