package app

import (
	"fmt"
	"log"

	"careintake/internal/config"
	"careintake/internal/handlers"
	"careintake/internal/pdf"
	"careintake/internal/repositories"
	"careintake/internal/routes"
	"careintake/internal/services"

	"github.com/gin-gonic/gin"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "careintake/docs"
)

func Run() {
	cfg := config.LoadConfig()

	// === Store ===
	verificationRepo := repositories.NewVerificationRepository()

	// === Services ===
	emailService := services.NewEmailService(
		cfg.Email.SMTPHost,
		cfg.Email.SMTPPort,
		cfg.Email.SMTPUser,
		cfg.Email.SMTPPassword,
		cfg.Email.SMTPSecure,
		cfg.Email.FromEmail,
	)

	verificationService := services.NewVerificationService(verificationRepo, emailService)

	// Telegram notifications are optional; nil when no token is configured
	notifier := services.NewTelegramService(cfg.Telegram.BotToken, cfg.Telegram.ChatID)

	applicationService := services.NewApplicationService(
		verificationRepo,
		emailService,
		cfg.Offices,
		cfg.Email.FallbackEmail,
		pdf.NewSummaryGenerator(),
		notifier,
	)

	// === Handlers ===
	verifyHandler := handlers.NewVerifyHandler(verificationService)
	applicationHandler := handlers.NewApplicationHandler(applicationService)

	// === Gin ===
	router := gin.Default()
	router.Use(corsMiddleware())
	router.MaxMultipartMemory = 8 << 20

	// Swagger
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	routes.SetupRoutes(router, verifyHandler, applicationHandler)

	// === Run ===
	listenAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("[intake] listening on %s", listenAddr)
	if err := router.Run(listenAddr); err != nil {
		log.Fatal("server failed: ", err)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
