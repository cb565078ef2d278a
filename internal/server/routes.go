package server

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	"github.com/dricdias/telegram-bot/internal/auth"
	"github.com/dricdias/telegram-bot/internal/controller"
	"github.com/dricdias/telegram-bot/internal/middleware"
	"github.com/dricdias/telegram-bot/internal/model"
)

// RegisterRoutes will register each http endpoint routes to bound Server instance
func (s *MyServer) RegisterRoutes() http.Handler {
	r := gin.Default()

	allowOriginsStr := os.Getenv("ALLOW_ORIGIN")
	allowOrigins := strings.Split(allowOriginsStr, ",")

	lAuth := auth.NewLocalAuthHandler(s.DB)
	dashboard := controller.NewDashboardController(s.DB, s.Service, s.Hub)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Use(middleware.SafeHeader())
	r.Use(middleware.EnvRateLimitMiddleware())

	r.GET("/", s.rootHandler)
	r.GET("/health", s.healthHandler)

	v1 := r.Group("/api/v1")
	{
		authRoute := v1.Group("/auth")
		{
			authRoute.POST("login", lAuth.LocalLoginHandler)
		}

		needAuth := v1.Group("")
		{
			needAuth.Use(middleware.RequireAuth(s.DB))

			needAuth.GET("/stats", dashboard.GetStats)
			needAuth.GET("/charts/:kind", dashboard.GetChart)
			needAuth.GET("/search", dashboard.SearchFiles)

			needAuth.GET("/categories", dashboard.GetCategories)
			needAuth.GET("/categories/:category/files", dashboard.GetCategoryFiles)

			needAuth.GET("/files/:id", dashboard.DownloadFile)
			needAuth.GET("/files/:id/thumbnail", dashboard.Thumbnail)

			needAuth.GET("/ws", dashboard.HandleWS)

			// Mutations are admin only.
			needAdmin := needAuth.Group("")
			{
				needAdmin.Use(middleware.CheckRole(model.RoleAdmin))
				needAdmin.POST("/categories", dashboard.CreateCategory)
				needAdmin.DELETE("/categories/:category", dashboard.DeleteCategory)
				needAdmin.POST("/categories/:category/files", middleware.SizeLimit(20<<20), dashboard.UploadFile)
				needAdmin.POST("/categories/:category/notes", dashboard.CreateNote)
				needAdmin.PATCH("/categories/:category/files/:file", dashboard.RenameFile)
				needAdmin.DELETE("/categories/:category/files/:file", dashboard.DeleteFile)
			}
		}
	}

	return r
}

// rootHandler answers the keep-alive probe the platform sends.
func (s *MyServer) rootHandler(c *gin.Context) {
	resp := make(map[string]string)
	resp["message"] = "Organizador de Arquivos Bot is running"

	c.JSON(http.StatusOK, resp)
}

func (s *MyServer) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, s.DB.Health())
}
