// Package router wires handlers, middleware and URL paths together.
// Route groups map onto the three trust levels: public browse (cached,
// no auth), the auth endpoints (rate limited), and the protected API
// (JWT + role checks).
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/guitar-lab/internal/auth"
	"github.com/iliyamo/guitar-lab/internal/config"
	"github.com/iliyamo/guitar-lab/internal/handler"
	"github.com/iliyamo/guitar-lab/internal/middleware"
	"github.com/iliyamo/guitar-lab/internal/repository"
)

// Handlers collects every handler the router mounts.
type Handlers struct {
	Health      *handler.HealthHandler
	Auth        *handler.AuthHandler
	Techniques  *handler.TechniqueHandler
	Tunings     *handler.TuningHandler
	Lessons     *handler.LessonHandler
	Exercises   *handler.ExerciseHandler
	Guitarists  *handler.GuitaristHandler
	Enrollments *handler.EnrollmentHandler
	Users       *handler.UserAdminHandler
}

// Deps carries the middleware inputs the route groups need.
type Deps struct {
	TokenCfg  auth.TokenConfig
	CookieCfg auth.CookieConfig
	UserRepo  *repository.UserRepo
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// Register mounts every route on the Echo instance.
func Register(e *echo.Echo, h Handlers, d Deps) {
	e.GET("/healthz", h.Health.Health)

	registerPublic(e, h, d)
	registerAuth(e, h, d)
	registerProtected(e, h, d)
}

// registerPublic mounts the unauthenticated browse endpoints. They are
// read-only and safe to serve from the Redis response cache.
func registerPublic(e *echo.Echo, h Handlers, d Deps) {
	pub := e.Group("/v1/catalog", middleware.NewRedisCache(d.Cache, d.Redis))

	pub.GET("/techniques", h.Techniques.List)
	pub.GET("/techniques/:id", h.Techniques.Get)
	pub.GET("/tunings", h.Tunings.List)
	pub.GET("/tunings/:id", h.Tunings.Get)
	pub.GET("/lessons", h.Lessons.List)
	pub.GET("/lessons/:id", h.Lessons.Get)
	pub.GET("/lessons/:id/exercises", h.Lessons.ListExercises)
	pub.GET("/exercises", h.Exercises.List)
	pub.GET("/exercises/:id", h.Exercises.Get)
	pub.GET("/guitarists", h.Guitarists.List)
	pub.GET("/guitarists/:id", h.Guitarists.Get)
}

// registerAuth mounts the credential endpoints under the brute-force
// rate limiter. Refresh, logout and revoke authenticate through the
// refresh cookie itself, not a JWT, so they live here too.
func registerAuth(e *echo.Echo, h Handlers, d Deps) {
	g := e.Group("/v1/auth", middleware.NewTokenBucket(d.RateLimit, d.Redis))

	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)
	g.POST("/refresh", h.Auth.Refresh)
	g.POST("/logout", h.Auth.Logout)
	g.POST("/revoke-token", h.Auth.RevokeToken)
}

// registerProtected mounts everything that requires a valid access
// token. Role enforcement is attached per sub-group so the admin
// surface stays closed to guitarists.
func registerProtected(e *echo.Echo, h Handlers, d Deps) {
	api := e.Group("/v1", middleware.JWTAuth(d.TokenCfg, d.CookieCfg.AccessName))

	api.GET("/me", h.Auth.Me)

	// Guitarist-scoped: own profile and own lesson progress.
	my := api.Group("", middleware.RequireRole(d.UserRepo, middleware.RoleGuitarist, middleware.RoleAdmin))
	my.PUT("/me/profile", h.Guitarists.UpdateMe)
	my.GET("/me/lessons", h.Enrollments.ListMine)
	my.POST("/lessons/:id/enroll", h.Enrollments.Enroll)
	my.PUT("/lessons/:id/progress", h.Enrollments.UpdateProgress)
	my.DELETE("/lessons/:id/enroll", h.Enrollments.Unenroll)

	// Admin-scoped: catalog management and the user surface.
	admin := api.Group("/admin", middleware.RequireRole(d.UserRepo, middleware.RoleAdmin))
	admin.POST("/techniques", h.Techniques.Create)
	admin.PUT("/techniques/:id", h.Techniques.Update)
	admin.DELETE("/techniques/:id", h.Techniques.Delete)

	admin.POST("/tunings", h.Tunings.Create)
	admin.PUT("/tunings/:id", h.Tunings.Update)
	admin.DELETE("/tunings/:id", h.Tunings.Delete)

	admin.POST("/lessons", h.Lessons.Create)
	admin.PUT("/lessons/:id", h.Lessons.Update)
	admin.DELETE("/lessons/:id", h.Lessons.Delete)
	admin.POST("/lessons/:id/exercises", h.Lessons.AttachExercise)
	admin.DELETE("/lessons/:id/exercises/:exercise_id", h.Lessons.DetachExercise)

	admin.POST("/exercises", h.Exercises.Create)
	admin.PUT("/exercises/:id", h.Exercises.Update)
	admin.DELETE("/exercises/:id", h.Exercises.Delete)

	admin.GET("/users", h.Users.List)
	admin.PUT("/users/:id/active", h.Users.SetActive)
}
