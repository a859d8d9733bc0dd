package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"talenthub-api/config"
	"talenthub-api/controllers"
	"talenthub-api/middleware"
	"talenthub-api/routes"
	"talenthub-api/services"
	"talenthub-api/supabase"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Invalid configuration: ", err)
	}

	store, err := supabase.New(supabase.Config{
		URL:        cfg.SupabaseURL,
		AnonKey:    cfg.SupabaseAnonKey,
		ServiceKey: cfg.SupabaseServiceKey,
		Timeout:    cfg.SupabaseTimeout,
	})
	if err != nil {
		log.Fatal("Failed to configure store client: ", err)
	}

	gate := middleware.NewAdminGate(cfg.AdminPassword, store)
	notifier := services.NewNotifier(cfg)
	pipeline := services.NewSubmissionPipeline(store, cfg.ResumeBucket, notifier)
	issuer := services.NewResumeLinkIssuer(store, cfg.ResumeBucket)

	ctrl := routes.Controllers{
		Auth:       controllers.NewAuthController(cfg.AdminPassword),
		Apply:      controllers.NewApplyController(pipeline),
		Admin:      controllers.NewAdminController(store, issuer),
		Jobs:       controllers.NewJobController(store),
		Ideas:      controllers.NewIdeaController(store),
		Recruiters: controllers.NewRecruiterController(store),
		Prospects:  controllers.NewProspectController(store),
		Leads:      controllers.NewLeadController(store),
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(config.LogWriter))
	router.Use(gin.Recovery())

	// Security headers
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Next()
	})

	router.Use(middleware.CORSMiddleware())

	routes.SetupRoutes(router, gate, ctrl)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server: ", err)
	}
}
