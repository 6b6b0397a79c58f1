package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/getmentor/mentor-match-client/internal/handlers"
	"github.com/getmentor/mentor-match-client/internal/middleware"
	"github.com/getmentor/mentor-match-client/pkg/metrics"
)

// maxUploadBody leaves room for multipart framing around a 1 MiB avatar
const maxUploadBody = 2 << 20

type frontHandlers struct {
	health   *handlers.HealthHandler
	screens  *handlers.ScreenHandler
	auth     *handlers.AuthHandler
	profile  *handlers.ProfileHandler
	mentors  *handlers.MentorsHandler
	requests *handlers.RequestsHandler
	messages *handlers.MessagesHandler
	avatars  *handlers.AvatarHandler
}

// registerScreenRoutes serves one JSON document per screen. Every screen,
// and any unknown path, goes through the route guard first.
func registerScreenRoutes(router *gin.Engine, sessions middleware.SnapshotSource, h frontHandlers) {
	guard := middleware.RouteGuardMiddleware(sessions)

	router.GET("/", guard)
	router.GET("/login", guard, h.screens.Login)
	router.GET("/signup", guard, h.screens.Signup)
	router.GET("/profile", guard, h.screens.Profile)
	router.GET("/mentors", guard, h.screens.Mentors)
	router.GET("/requests", guard, h.screens.Requests)
	router.GET("/messages", guard, h.screens.Messages)
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
		}
	}, guard)
}

// registerAPIRoutes serves the actions behind the screens
func registerAPIRoutes(router *gin.Engine, sessions middleware.SnapshotSource, limiter gin.HandlerFunc, h frontHandlers) {
	api := router.Group("/api")
	api.Use(limiter, middleware.BodySizeLimitMiddleware(maxUploadBody))

	api.GET("/healthcheck", h.health.Healthcheck)
	api.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	api.GET("/state", h.screens.State)

	api.POST("/login", h.auth.Login)
	api.POST("/signup", h.auth.Signup)
	api.POST("/logout", h.auth.Logout)

	authed := api.Group("")
	authed.Use(middleware.RequireSessionMiddleware(sessions))

	authed.PUT("/profile", h.profile.Update)
	authed.POST("/profile/avatar", h.profile.UploadAvatar)

	authed.PUT("/mentors/filters", h.mentors.Filters)
	authed.PUT("/mentors/:id/draft", h.mentors.SetDraft)
	authed.POST("/mentors/:id/request", h.mentors.SendRequest)

	authed.POST("/requests/:id/accept", h.requests.Accept)
	authed.POST("/requests/:id/reject", h.requests.Reject)
	authed.POST("/requests/:id/cancel", h.requests.Cancel)

	authed.GET("/messages/:peer", h.messages.Open)
	authed.POST("/messages/:peer", h.messages.Send)

	router.GET("/avatars/:role/:id", middleware.RequireSessionMiddleware(sessions), h.avatars.Get)
}
