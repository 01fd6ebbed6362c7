package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"aptigenius-backend/internal/config"
	"aptigenius-backend/internal/controller"
	"aptigenius-backend/internal/db"
	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/repository"
	"aptigenius-backend/internal/service"
	"aptigenius-backend/pkg/middleware"
	"aptigenius-backend/utilities"
)

func main() {
	configPath := flag.String("config", "config.xml", "path to the XML or YAML config file")
	seed := flag.Bool("seed", false, "insert the built-in question bank if the table is empty, then exit")
	adminEmail := flag.String("admin-email", "", "create an administrator with this email, then exit")
	adminPassword := flag.String("admin-password", "", "password for -admin-email")
	adminName := flag.String("admin-name", "Admin", "first name for -admin-email")
	flag.Parse()

	printStartUpBanner()

	// Load configuration from file.
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.Context.TimeZone != "" {
		if loc, err := time.LoadLocation(cfg.Context.TimeZone); err == nil {
			time.Local = loc
		} else {
			log.Printf("unknown time zone %q, keeping %s", cfg.Context.TimeZone, time.Local)
		}
	}

	if err := utilities.SetupLogging(utilities.LogOptions{
		Dir:        cfg.Log.Dir,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Debug:      cfg.Log.Debug,
	}); err != nil {
		log.Fatalf("failed to set up logging: %v", err)
	}
	defer utilities.CloseLogging()

	// Initialize DB using the loaded config.
	gdb, err := db.Open(cfg.DB, utilities.NewGormLogger(cfg.Log.Debug))
	if err != nil {
		utilities.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer db.Close(gdb)
	if err := db.Migrate(gdb); err != nil {
		utilities.Error("failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Create repositories.
	userRepo := repository.NewUserRepository(gdb)
	questionRepo := repository.NewQuestionRepository(gdb)
	resultRepo := repository.NewResultRepository(gdb)

	events := utilities.NewEventBus()
	subscribeAuditLog(events)

	// Create services.
	tokens := utilities.NewTokenManager(
		cfg.Authentication.AccessSecret,
		cfg.Authentication.RefreshSecret,
		cfg.AccessTTL(),
		cfg.RefreshTTL(),
	)
	authService := service.NewAuthService(userRepo, tokens)
	userService := service.NewUserService(userRepo, events)
	questionService := service.NewQuestionService(questionRepo, cfg.Test.DefaultLimit, cfg.Test.MaxLimit)
	resultService := service.NewResultService(resultRepo, questionRepo, userRepo, events)
	reportService := service.NewReportService(userRepo, resultRepo)

	switch {
	case *adminEmail != "":
		user, err := authService.CreateAdmin(service.SignupInput{
			FirstName: *adminName,
			Email:     *adminEmail,
			Password:  *adminPassword,
		})
		if err != nil {
			utilities.Error("failed to create admin: %v", err)
			os.Exit(1)
		}
		utilities.Info("created admin %s (%s)", user.Email, user.ID)
		return
	case *seed:
		n, err := seedQuestions(gdb)
		if err != nil {
			utilities.Error("failed to seed questions: %v", err)
			os.Exit(1)
		}
		utilities.Info("seeded %d questions", n)
		return
	}

	if !cfg.Log.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.Use(cors.New(corsConfig()))
	if cfg.RequestDump {
		r.Use(middleware.RequestDumpMiddleware())
	}

	limiter := middleware.NewIPRateLimiter(cfg.Authentication.RateLimitPerMinute)
	controller.RegisterRoutes(r, tokens, userRepo, limiter.Middleware(), cfg.TestSettings(),
		authService,
		userService,
		questionService,
		resultService,
		reportService,
	)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		utilities.Info("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utilities.Error("server stopped: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	utilities.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utilities.Warn("graceful shutdown failed: %v", err)
	}
	events.Wait()
}

// corsConfig allows any origin. Tokens travel in the Authorization header,
// so credentialed (cookie) requests are not enabled.
func corsConfig() cors.Config {
	return cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
}

// subscribeAuditLog records submissions and account deletions in the info log.
func subscribeAuditLog(events *utilities.EventBus) {
	events.Subscribe(utilities.EventResultSubmitted, func(data interface{}) {
		if res, ok := data.(model.Result); ok {
			utilities.Info("result %s: user %s scored %.2f (%d/%d) %s %s",
				res.ID, res.UserID, res.Score, res.CorrectAnswers, res.TotalQuestions,
				res.Category, res.Difficulty)
		}
	})
	events.Subscribe(utilities.EventUserDeleted, func(data interface{}) {
		utilities.Info("user %v deleted, results retained", data)
	})
}

func printStartUpBanner() {
	myFigure := figure.NewFigure("APTIGENIUS", "", true)
	myFigure.Print()

	fmt.Println("======================================================")
	fmt.Printf("APTIGENIUS API (v%s)\n\n", "1.0.0")
}
