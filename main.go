package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"tour-backoffice/config"
	"tour-backoffice/database"
	routes "tour-backoffice/internal/app/http"
	"tour-backoffice/internal/app/http/middleware"
	"tour-backoffice/internal/infra/tracing"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Setup(ctx, cfg.OTLPEndpoint, cfg.ServiceName)
	if err != nil {
		log.Fatal("❌ Failed to set up tracing:", err)
	}

	db := database.MustInit(cfg.DBURL)

	r := gin.Default()

	// ✅ Add CORS middleware BEFORE registering routes
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: cfg.CORSOrigin != "*",
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.NewRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst).Middleware())
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	routes.RegisterRoutes(r, routes.Deps{
		DB:        db,
		JWTSecret: []byte(cfg.JWTSecret),
		JWTTTL:    cfg.JWTTTL,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("🚀 Listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("❌ Server error:", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("❌ Server shutdown:", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Println("❌ Tracing shutdown:", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
