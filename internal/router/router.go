// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"socialnet/internal/config"
	"socialnet/internal/handler"
	"socialnet/internal/middleware"
	"socialnet/internal/model"
)

// Handlers bundles everything the router needs to register.
type Handlers struct {
	Auth    *handler.AuthHandler
	Profile *handler.ProfileHandler
	Follow  *handler.FollowHandler
	Post    *handler.PostHandler
}

// Register sets up all routes. The redis client may be nil, in which
// case the rate limiter is a no-op passthrough.
func Register(e *echo.Echo, h Handlers, jwtSecret string, rlCfg config.RateLimitConfig, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(rlCfg, rdb)

	// Unauthenticated auth operations. These sit behind the rate
	// limiter because they are the endpoints worth brute-forcing.
	g := e.Group("/v1/auth", limiter)
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/forgot-password", h.Auth.ForgotPassword)
	g.PUT("/reset-password", h.Auth.ResetPassword)

	// Everything under /v1 beyond the auth group requires a valid
	// access token.
	v1 := e.Group("/v1")
	v1.Use(middleware.JWTAuth(jwtSecret))

	v1.PUT("/auth/change-password", h.Auth.ChangePassword)
	v1.POST("/auth/logout", h.Auth.Logout)

	v1.GET("/me", h.Profile.Me)
	v1.PUT("/me", h.Profile.UpdateMe)
	v1.PUT("/me/picture", h.Profile.UploadPicture)
	v1.DELETE("/me", h.Profile.DeleteMe)
	v1.GET("/me/follow-requests", h.Follow.Requests)

	v1.GET("/users/:id", h.Profile.GetUser)
	v1.POST("/users/:id/follow", h.Follow.Follow)
	v1.DELETE("/users/:id/follow", h.Follow.Unfollow)
	v1.GET("/users/:id/followers", h.Follow.Followers)
	v1.GET("/users/:id/following", h.Follow.Following)
	v1.POST("/follow-requests/:id/accept", h.Follow.Accept)
	v1.DELETE("/follow-requests/:id", h.Follow.Cancel)

	v1.POST("/posts", h.Post.Create)
	v1.GET("/posts/:id", h.Post.Get)
	v1.PUT("/posts/:id", h.Post.Update)
	v1.DELETE("/posts/:id", h.Post.Delete)
	v1.GET("/users/:id/posts", h.Post.ListByUser)

	// Admin surface.
	admin := v1.Group("/admin", middleware.RequireRole(model.RoleAdmin))
	admin.GET("/users", h.Profile.ListUsers)
}
