package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/field-attendance-api/internal/middleware"
	"github.com/yukikurage/field-attendance-api/internal/services"
)

// Routes wires the API handlers onto a router
type Routes struct {
	Auth        *AuthHandler
	Assignments *AssignmentHandler
	Workers     *WorkerHandler
	AuthService *services.AuthService
	JWTSecret   string
}

// Register mounts every /api route on r. Session middleware must already be installed.
func (rt Routes) Register(r gin.IRouter) {
	requireAuth := middleware.RequireAuth(rt.JWTSecret)

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", rt.Auth.Signup)
			auth.POST("/login", rt.Auth.Login)
			auth.POST("/logout", rt.Auth.Logout)
			auth.GET("/me", requireAuth, rt.Auth.GetCurrentUser)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(requireAuth, middleware.RequireAdmin(rt.AuthService))
		{
			admin.POST("/assignments", rt.Assignments.CreateAssignment)
			admin.GET("/assignments", rt.Assignments.ListAssignments)
			admin.GET("/assignments/:id", rt.Assignments.GetAssignment)
			admin.PUT("/assignments/:id", rt.Assignments.UpdateAssignment)
			admin.DELETE("/assignments/:id", rt.Assignments.DeleteAssignment)
			admin.GET("/assignments/:id/attendance", rt.Assignments.ListAssignmentAttendance)
			admin.GET("/workers", rt.Assignments.ListWorkers)
		}

		// Worker routes
		worker := api.Group("/worker")
		worker.Use(requireAuth, middleware.RequireWorker(rt.AuthService))
		{
			worker.GET("/assignments", rt.Workers.ListAssignments)
			worker.GET("/assignments/:id", rt.Workers.GetAssignment)
			worker.POST("/attendance/start", rt.Workers.CheckIn)
			worker.POST("/attendance/end", rt.Workers.CheckOut)
			worker.GET("/attendance", rt.Workers.ListAttendance)
		}
	}
}
