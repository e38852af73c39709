package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/task-tracker/internal/middleware"
	"github.com/yukikurage/task-tracker/internal/models"
)

// Routes holds the handlers and auth collaborators mounted by Register.
type Routes struct {
	Auth      *AuthHandler
	Tasks     *TaskHandler
	Profiles  *ProfileHandler
	Dashboard *DashboardHandler

	Requesters middleware.RequesterResolver
	// Tokens may be nil to accept session authentication only.
	Tokens middleware.TokenParser
}

// Register mounts the API on r. Session middleware must already be in use.
func (rt Routes) Register(r *gin.Engine) {
	requireAuth := middleware.RequireAuth(rt.Tokens)
	loadRequester := middleware.LoadRequester(rt.Requesters, models.RoleDeveloper)
	taskID := middleware.RequireTaskID()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Task Tracker API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", rt.Auth.Signup)
			auth.POST("/login", rt.Auth.Login)
			auth.POST("/logout", rt.Auth.Logout)
			auth.POST("/token", rt.Auth.IssueToken)
			auth.GET("/me", requireAuth, rt.Auth.GetCurrentUser)
		}

		api.GET("/notices", Notices)
		api.GET("/dashboard", requireAuth, loadRequester, rt.Dashboard.GetDashboard)
		api.GET("/profile", requireAuth, rt.Profiles.GetProfile)
		api.PATCH("/profile", requireAuth, rt.Profiles.UpdateProfile)
		api.GET("/team", requireAuth, loadRequester, rt.Profiles.Team)

		// Task routes (protected)
		tasks := api.Group("/tasks")
		tasks.Use(requireAuth)
		{
			tasks.GET("", loadRequester, rt.Tasks.ListTasks)
			tasks.GET("/mine", loadRequester, rt.Tasks.MyTasks)
			// a user without a profile who creates a task is given a manager profile
			tasks.POST("", middleware.LoadRequester(rt.Requesters, models.RoleManager), rt.Tasks.CreateTask)
			tasks.POST("/generate", loadRequester, rt.Tasks.GenerateTasks)
			tasks.GET("/:id", taskID, loadRequester, rt.Tasks.GetTask)
			tasks.PUT("/:id", taskID, loadRequester, rt.Tasks.ReplaceTask)
			tasks.PATCH("/:id", taskID, loadRequester, rt.Tasks.UpdateTask)
			tasks.DELETE("/:id", taskID, loadRequester, rt.Tasks.DeleteTask)
			tasks.POST("/:id/complete", taskID, loadRequester, rt.Tasks.CompleteTask)
			tasks.POST("/:id/assign", taskID, loadRequester, rt.Tasks.AssignTask)
		}
	}
}
