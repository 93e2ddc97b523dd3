package app

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/userservice/login"
	"github.com/kbukum/userservice/recovery"
	"github.com/kbukum/userservice/users"
)

const (
	authPath  = "/api/v1/auth"
	usersPath = "/api/v1/users"
)

type handlers struct {
	login    *login.Handler
	recovery *recovery.Handler
	users    *users.Handler
	owner    gin.HandlerFunc
	limit    gin.HandlerFunc
}

// registerRoutes mounts the API. Which routes need a token is decided by the
// route gate in front of the engine, not here.
func registerRoutes(r *gin.RouterGroup, h handlers) {
	a := r.Group(authPath, h.limit)
	a.POST("/login", h.login.Login)
	a.POST("/otp", h.recovery.RequestOtp)

	u := r.Group(usersPath)
	u.POST("", h.users.Register)
	u.GET("", h.users.List)
	u.GET("/:id", h.users.Get)
	u.PUT("/:id", h.owner, h.users.Update)
	u.DELETE("/:id", h.owner, h.users.Delete)
	u.PATCH("/:id/password", h.recovery.ResetPassword)
	u.PATCH("/:id/account_status", h.users.VerifyAccount)
}
