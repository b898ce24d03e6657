package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/guitar-lab/internal/auth"
	"github.com/iliyamo/guitar-lab/internal/config"
	"github.com/iliyamo/guitar-lab/internal/database"
	"github.com/iliyamo/guitar-lab/internal/handler"
	"github.com/iliyamo/guitar-lab/internal/queue"
	"github.com/iliyamo/guitar-lab/internal/repository"
	"github.com/iliyamo/guitar-lab/internal/router"
	queue_publisher "github.com/iliyamo/guitar-lab/internal/service"
)

func main() {
	// .env is a convenience for local development; in production the
	// variables come from the process environment.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable: rate limiting and response caching disabled")
	}

	// Repositories.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	techniques := repository.NewTechniqueRepo(db)
	tunings := repository.NewTuningRepo(db)
	lessons := repository.NewLessonRepo(db)
	exercises := repository.NewExerciseRepo(db)
	guitarists := repository.NewGuitaristRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	lessonExercises := repository.NewLessonExerciseRepo(db)

	// Token core.
	tokenCfg := auth.TokenConfig{
		Secret:         cfg.JWTSecret,
		Issuer:         cfg.JWTIssuer,
		Audience:       cfg.JWTAudience,
		AccessTTLMin:   cfg.AccessTTLMin,
		RefreshTTLDays: cfg.RefreshTTLDays,
		MaxLivePerUser: cfg.MaxLiveTokens,
	}
	tokenSvc := auth.NewTokenService(repository.NewDirectory(users), tokens, tokenCfg).
		WithNotifier(queue_publisher.ReuseNotifier{})

	cookies := auth.NewCookieIssuer(auth.CookieConfig{
		Path:     cfg.CookiePath,
		Domain:   cfg.CookieDomain,
		Secure:   cfg.CookieSecure,
		SameSite: auth.ParseSameSite(cfg.CookieSameSite),
	})

	// Reuse detections end up in logs/security.log via the broker.
	go func() {
		if err := queue.StartSecurityConsumer(); err != nil {
			log.Printf("security consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.Register(e,
		router.Handlers{
			Health:      handler.NewHealthHandler(db, rdb),
			Auth:        handler.NewAuthHandler(tokenSvc, cookies, users, cfg.BcryptCost),
			Techniques:  handler.NewTechniqueHandler(techniques),
			Tunings:     handler.NewTuningHandler(tunings),
			Lessons:     handler.NewLessonHandler(lessons, lessonExercises),
			Exercises:   handler.NewExerciseHandler(exercises),
			Guitarists:  handler.NewGuitaristHandler(guitarists),
			Enrollments: handler.NewEnrollmentHandler(enrollments),
			Users:       handler.NewUserAdminHandler(users),
		},
		router.Deps{
			TokenCfg:  tokenCfg,
			CookieCfg: cookies.Config(),
			UserRepo:  users,
			Redis:     rdb,
			RateLimit: config.LoadRateLimitConfig(),
			Cache:     config.LoadCacheConfig(),
		},
	)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
