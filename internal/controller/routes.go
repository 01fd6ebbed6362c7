package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/internal/service"
	"aptigenius-backend/utilities"
)

// RegisterRoutes mounts every endpoint under /api. users backs the auth
// guard. authLimit guards the unauthenticated auth endpoints and may be nil.
func RegisterRoutes(
	r *gin.Engine,
	tokens *utilities.TokenManager,
	users repository.UserRepository,
	authLimit gin.HandlerFunc,
	settings model.TestSettings,
	authService service.AuthService,
	userService service.UserService,
	questionService service.QuestionService,
	resultService service.ResultService,
	reportService service.ReportService,
) {
	api := r.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	api.GET("/config", func(c *gin.Context) {
		c.JSON(http.StatusOK, settings)
	})

	requireAuth := utilities.AuthMiddleware(tokens, users)
	adminOnly := utilities.AdminOnly()

	// Auth routes.
	authCtrl := NewAuthController(authService)
	userCtrl := NewUserController(userService)
	authRoutes := api.Group("/auth")
	{
		public := authRoutes.Group("")
		if authLimit != nil {
			public.Use(authLimit)
		}
		public.POST("/signup", authCtrl.Signup)
		public.POST("/login", authCtrl.Login)
		public.POST("/refresh", authCtrl.Refresh)

		authRoutes.GET("/me", requireAuth, authCtrl.Me)
		authRoutes.GET("/users", requireAuth, adminOnly, userCtrl.GetAllUsers)
		authRoutes.DELETE("/users/:id", requireAuth, adminOnly, userCtrl.DeleteUser)
	}

	// Question routes.
	questionCtrl := NewQuestionController(questionService)
	questionRoutes := api.Group("/questions", requireAuth)
	{
		questionRoutes.GET("/random", questionCtrl.GetRandomQuestions)
		questionRoutes.GET("/all", adminOnly, questionCtrl.GetAllQuestions)
		questionRoutes.POST("", adminOnly, questionCtrl.CreateQuestion)
		questionRoutes.PUT("/:id", adminOnly, questionCtrl.UpdateQuestion)
		questionRoutes.DELETE("/:id", adminOnly, questionCtrl.DeleteQuestion)
	}

	// Result routes.
	resultCtrl := NewResultController(resultService, reportService)
	resultRoutes := api.Group("/results", requireAuth)
	{
		resultRoutes.POST("/submit", resultCtrl.SubmitResult)
		resultRoutes.GET("/my-results", resultCtrl.GetMyResults)
		resultRoutes.GET("/stats", resultCtrl.GetStats)
		resultRoutes.GET("/report", resultCtrl.DownloadReport)
		resultRoutes.GET("/all", adminOnly, resultCtrl.GetAllResults)
		resultRoutes.GET("/overview", adminOnly, resultCtrl.GetOverview)
		resultRoutes.GET("/:id", resultCtrl.GetResult)
	}
}
