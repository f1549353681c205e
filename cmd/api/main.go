package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"cliptube/internal/assets"
	"cliptube/internal/config"
	"cliptube/internal/database"
	"cliptube/internal/middleware"
	"cliptube/internal/modules/users"
	"cliptube/internal/pkg/token"
	"cliptube/internal/repository"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := repository.AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	userRepo := repository.NewUserRepository(db)
	tokens := token.NewManager(cfg.AccessTokenSecret, cfg.RefreshTokenSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	assetStore := assets.NewLocalStore(cfg.UploadDir, cfg.StaticBase)

	userService := users.NewService(userRepo, tokens, assetStore)
	userHandler := users.NewHandler(userService, users.CookieConfig{
		Secure:   cfg.CookieSecure,
		SameSite: cfg.SameSiteMode(),
		Path:     cfg.CookiePath,
	})

	r := gin.New()
	r.Use(gin.Recovery(), middleware.CORS(), middleware.ErrorLogger())

	r.Static(cfg.StaticBase, cfg.UploadDir)

	v1 := r.Group("/api/v1")
	{
		// public
		userHandler.RegisterPublicRoutes(v1)

		// protected
		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(tokens))
		{
			userHandler.RegisterProtectedRoutes(protected)
		}
	}

	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal(err)
	}
}
