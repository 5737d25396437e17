package handlers

import (
	"task-tracker/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RegisterRoutes wires the HTTP surface. Registration, login and refresh are
// public; everything else requires a resolved caller.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, jwtSecret string,
	users *UserHandler, tasks *TaskHandler, auth *AuthHandler) {

	r.POST("/api/users/", users.Register)
	r.POST("/auth/login/", auth.Login)
	r.POST("/auth/refresh/", auth.Refresh)

	// Registered outside the authentication group: the method ban on full
	// user replacement applies to every caller, anonymous included, so the
	// 405 must win over the middleware's 401.
	r.PUT("/api/users/:id/", users.ReplaceUser)

	authenticated := r.Group("/", middleware.Authentication(db, jwtSecret))
	{
		authenticated.POST("/auth/logout/", auth.Logout)

		authenticated.GET("/api/users/", users.ListUsers)
		authenticated.GET("/api/users/:id/", users.GetUser)
		authenticated.PATCH("/api/users/:id/", users.UpdateUser)
		authenticated.DELETE("/api/users/:id/", users.DeleteUser)
		authenticated.PATCH("/api/users/:id/change-password/", users.ChangePassword)

		authenticated.POST("/api/tasks/", tasks.CreateTask)
		authenticated.GET("/api/tasks/", tasks.ListTasks)
		authenticated.GET("/api/tasks/all/", tasks.ListAllTasks)
		authenticated.GET("/api/tasks/:id/", tasks.GetTask)
		authenticated.PATCH("/api/tasks/:id/", tasks.UpdateTask)
		authenticated.PUT("/api/tasks/:id/", tasks.ReplaceTask)
		authenticated.DELETE("/api/tasks/:id/", tasks.DeleteTask)
	}
}
