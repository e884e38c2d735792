package main

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"playlist-backend/internal/shared/middleware"
	"playlist-backend/internal/shared/response"
	"playlist-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(v1, c)
		setupUserRoutes(v1, c)
		setupSongRoutes(v1, c)
		setupPlaylistRoutes(v1, c)
	}

	return router
}

func setupAuthRoutes(v1 *gin.RouterGroup, c *container.Container) {
	auth := v1.Group("/auth")
	{
		auth.POST("/register", c.UserHandler.Register)
		auth.POST("/login", c.UserHandler.Login)
		auth.POST("/refresh", c.UserHandler.Refresh)
	}
}

func setupUserRoutes(v1 *gin.RouterGroup, c *container.Container) {
	users := v1.Group("/users")
	users.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		users.GET("/me", c.UserHandler.GetProfile)
		users.PUT("/me", c.UserHandler.UpdateProfile)
		users.DELETE("/me", c.UserHandler.Delete)
	}
}

func setupSongRoutes(v1 *gin.RouterGroup, c *container.Container) {
	songs := v1.Group("/songs")

	// seeding stays outside auth; the service refuses it in production
	songs.POST("/seed", c.SongHandler.Seed)

	songs.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		songs.GET("", c.SongHandler.List)
		songs.POST("", c.SongHandler.Create)
		songs.GET("/search", c.SongHandler.Search)
		songs.GET("/trending", c.SongHandler.Trending)
		songs.POST("/import", c.SongHandler.Import)
		songs.GET("/:id", c.SongHandler.Get)
		songs.PATCH("/:id", c.SongHandler.Update)
		songs.DELETE("/:id", c.SongHandler.Delete)
	}
}

func setupPlaylistRoutes(v1 *gin.RouterGroup, c *container.Container) {
	playlists := v1.Group("/playlists")
	playlists.Use(middleware.AuthMiddleware(c.JWTManager))
	{
		playlists.POST("", c.PlaylistHandler.Create)
		playlists.GET("", c.PlaylistHandler.List)
		playlists.GET("/:id", c.PlaylistHandler.Get)
		playlists.PATCH("/:id", c.PlaylistHandler.Update)
		playlists.DELETE("/:id", c.PlaylistHandler.Delete)
		playlists.POST("/:id/songs", c.PlaylistHandler.AddSong)
		playlists.DELETE("/:id/songs/:songId", c.PlaylistHandler.RemoveSong)
	}
}

func healthCheckHandler(c *container.Container) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		status := gin.H{
			"status":  "ok",
			"version": c.Config.App.Version,
		}

		if err := c.DB.HealthCheck(ctx.Request.Context()); err != nil {
			status["status"] = "degraded"
			status["database"] = err.Error()
			ctx.JSON(http.StatusServiceUnavailable, status)
			return
		}

		if err := c.Cache.Ping(ctx.Request.Context()); err != nil {
			status["cache"] = "unavailable"
		}

		response.Success(ctx, http.StatusOK, status)
	}
}
