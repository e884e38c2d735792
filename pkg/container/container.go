package container

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"playlist-backend/internal/config"
	infraCache "playlist-backend/internal/infrastructure/cache"
	"playlist-backend/internal/infrastructure/database"
	"playlist-backend/internal/infrastructure/spotify"
	"playlist-backend/pkg/cache"
	"playlist-backend/pkg/jwt"

	"playlist-backend/internal/domains/playlist"
	playlistHandler "playlist-backend/internal/domains/playlist/handler"
	playlistRepo "playlist-backend/internal/domains/playlist/repository"
	playlistService "playlist-backend/internal/domains/playlist/service"
	"playlist-backend/internal/domains/song"
	songHandler "playlist-backend/internal/domains/song/handler"
	songRepo "playlist-backend/internal/domains/song/repository"
	songService "playlist-backend/internal/domains/song/service"
	"playlist-backend/internal/domains/user"
	userHandler "playlist-backend/internal/domains/user/handler"
	userRepo "playlist-backend/internal/domains/user/repository"
	userService "playlist-backend/internal/domains/user/service"
)

// Container holds the application dependency graph.
// Everything in it is a singleton for the process lifetime.
type Container struct {
	// Infrastructure
	Config     *config.Config
	DB         *database.PostgresDB
	Cache      cache.Cache
	JWTManager *jwt.Manager
	Spotify    *spotify.Client

	// Repositories
	UserRepo     user.Repository
	SongRepo     song.Repository
	PlaylistRepo playlist.Repository

	// Services
	UserService     user.Service
	SongService     song.Service
	PlaylistService playlist.Service

	// Handlers
	UserHandler     *userHandler.UserHandler
	SongHandler     *songHandler.SongHandler
	PlaylistHandler *playlistHandler.PlaylistHandler
}

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer() (*Container, error) {
	c := &Container{}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.NewPostgresDB(&cfg.Database)
	if err := db.Connect(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	c.DB = db

	redisCache := infraCache.NewRedisCache(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Connect(ctx); err != nil {
		// cache is non-critical: trending just hits the database instead
		log.Warn().Err(err).Msg("redis connection failed (non-critical)")
	}
	c.Cache = redisCache

	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)

	c.Spotify = spotify.NewClient(cfg.Spotify)
	if !c.Spotify.Enabled() {
		log.Warn().Msg("spotify credentials not set, external search disabled")
	}

	// Repositories
	c.UserRepo = userRepo.NewPostgresRepository(db.Pool)
	c.SongRepo = songRepo.NewPostgresRepository(db.Pool)
	c.PlaylistRepo = playlistRepo.NewPostgresRepository(db.Pool)

	// Services
	c.UserService = userService.NewService(c.UserRepo, c.JWTManager)
	c.SongService = songService.NewService(c.SongRepo, c.Spotify, c.Cache, cfg.App.Environment)
	c.PlaylistService = playlistService.NewService(c.PlaylistRepo, c.SongService)

	// Handlers
	c.UserHandler = userHandler.NewUserHandler(c.UserService)
	c.SongHandler = songHandler.NewSongHandler(c.SongService)
	c.PlaylistHandler = playlistHandler.NewPlaylistHandler(c.PlaylistService)

	return c, nil
}

// Cleanup releases infrastructure connections on shutdown.
func (c *Container) Cleanup() {
	if c.DB != nil {
		c.DB.Close()
	}
	if rc, ok := c.Cache.(*infraCache.RedisCache); ok {
		if err := rc.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close redis client")
		}
	}
}
