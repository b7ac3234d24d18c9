package main

import (
	"context"
	"log"

	"academy-api/config"
	"academy-api/internal/academy"
	"academy-api/internal/auth"
	"academy-api/internal/block"
	"academy-api/internal/booking"
	"academy-api/internal/branch"
	"academy-api/internal/catalog"
	"academy-api/internal/coach"
	"academy-api/internal/events"
	"academy-api/internal/geo"
	"academy-api/internal/logs"
	"academy-api/internal/media"
	"academy-api/internal/page"
	"academy-api/internal/program"
	"academy-api/internal/report"
	"academy-api/internal/translate"
	"academy-api/internal/wishlist"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"google.golang.org/genai"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func models() []any {
	out := []any{&logs.SystemLog{}, &auth.User{}, &auth.Profile{}}
	for _, group := range [][]any{
		catalog.Models(),
		geo.Models(),
		academy.Models(),
		branch.Models(),
		program.Models(),
		coach.Models(),
		block.Models(),
		booking.Models(),
		wishlist.Models(),
		page.Models(),
	} {
		out = append(out, group...)
	}
	return out
}

func main() {
	cfg := config.LoadConfig()
	ctx := context.Background()

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	if err := db.AutoMigrate(models()...); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Disposition", "Last-Modified", "ETag"},
		AllowCredentials: true,
	}))

	var uploader media.Uploader
	gcs, err := media.NewGCSUploader(ctx, cfg)
	if err != nil {
		log.Printf("media: uploads disabled: %v", err)
	} else if gcs != nil {
		uploader = gcs
		defer gcs.Client.Close()
	}

	publisher, closePublisher := events.NewPublisher(cfg)
	defer closePublisher()

	logService := &logs.LogService{DB: db}
	logs.RegisterRoutes(r, logService)

	academyService := &academy.AcademyService{DB: db, Uploader: uploader}
	academy.RegisterRoutes(r, academyService, logService)

	authService := &auth.AuthService{DB: db, CFG: &cfg, Academies: academyService}
	auth.RegisterRoutes(r, authService, logService)

	catalogService := &catalog.CatalogService{DB: db}
	sportCache := &catalog.SportCache{Redis: config.NewRedisClient(cfg), TTL: cfg.SportsCacheTTL, Source: catalogService}
	catalog.RegisterRoutes(r, catalogService, sportCache, logService)

	geo.RegisterRoutes(r, &geo.GeoService{DB: db}, logService)
	branch.RegisterRoutes(r, &branch.BranchService{DB: db}, logService)
	program.RegisterRoutes(r, &program.ProgramService{DB: db}, logService)
	coach.RegisterRoutes(r, &coach.CoachService{DB: db, Uploader: uploader}, logService)

	blockService := &block.BlockService{DB: db}
	block.RegisterRoutes(r, blockService, logService)

	bookingService := &booking.BookingService{DB: db, Blocks: blockService, Events: publisher}
	booking.RegisterRoutes(r, bookingService, logService)

	wishlist.RegisterRoutes(r, &wishlist.WishlistService{DB: db})
	page.RegisterRoutes(r, &page.PageService{DB: db}, logService)
	report.RegisterRoutes(r, &report.ReportService{DB: db, Blocks: blockService}, logService)

	// Vertex AI with ADC; suggestions answer 503 when no project is set.
	suggester := &translate.Suggester{Model: cfg.GeminiModel}
	if cfg.GeminiProject != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend:  genai.BackendVertexAI,
			Project:  cfg.GeminiProject,
			Location: cfg.GeminiLocation,
		})
		if err != nil {
			log.Printf("translate: gemini client: %v", err)
		} else {
			suggester.Client = client
		}
	}
	translate.RegisterRoutes(r, suggester)

	log.Printf("Starting server on 0.0.0.0:%s ...", cfg.Port)
	log.Fatal(r.Run("0.0.0.0:" + cfg.Port))
}
