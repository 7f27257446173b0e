package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/praveenc/chatnexus/config"
	"github.com/praveenc/chatnexus/controller"
	"github.com/praveenc/chatnexus/dao"
	"github.com/praveenc/chatnexus/logic"
	"github.com/praveenc/chatnexus/middleware"
	"github.com/praveenc/chatnexus/models"
	"github.com/praveenc/chatnexus/pkg"
)

func main() {
	// Initialize config
	cfg := config.Default()
	if len(os.Args) > 1 {
		loaded, err := config.LoadConfig(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load config from %s: %v", os.Args[1], err)
		}
		cfg = loaded
	}

	// Overlay the settings env file onto the process environment
	if err := godotenv.Load(cfg.Settings.EnvFile); err != nil {
		log.Printf("No settings file at %s, relying on ambient environment", cfg.Settings.EnvFile)
	}

	// Initialize database
	var dialector gorm.Dialector
	switch cfg.Database.Driver {
	case "postgres":
		dialector = postgres.Open(cfg.Database.DSN)
	default:
		dialector = sqlite.Open(cfg.Database.DSN)
	}
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	db.AutoMigrate(&models.Conversation{}, &models.Message{})

	// Initialize backend clients
	lmstudioClient := pkg.NewOpenAIClient(cfg.Providers.LMStudioBaseURL)
	ollamaClient := pkg.NewOllamaClient(cfg.Providers.OllamaBaseURL)

	bedrockClient, err := pkg.NewBedrockClient(context.Background(), os.Getenv("AWS_REGION"))
	if err != nil {
		// not fatal: the provider is reported unreachable instead
		log.Printf("Failed to initialize Bedrock client: %v", err)
		bedrockClient = nil
	}

	registry := logic.NewProviderRegistry(lmstudioClient, ollamaClient, bedrockClient)

	// Initialize DAOs
	convoDAO := dao.NewConversationDAO(db)
	messageDAO := dao.NewMessageDAO(db)

	// Initialize Logics
	convoLogic := logic.NewConversationLogic(convoDAO, messageDAO)
	chatLogic := logic.NewChatLogic(registry, convoLogic)
	modelLogic := logic.NewModelLogic(registry)
	settingsLogic := logic.NewSettingsLogic(cfg.Settings.EnvFile)

	// Initialize Controllers
	chatCtrl := controller.NewChatController(chatLogic)
	modelCtrl := controller.NewModelController(modelLogic, registry)
	healthCtrl := controller.NewHealthController(registry)
	convoCtrl := controller.NewConversationController(convoLogic)
	settingsCtrl := controller.NewSettingsController(settingsLogic)

	// Setup Gin router
	r := gin.Default()
	r.Use(middleware.CORS)

	r.GET("/models", modelCtrl.ListModels)
	r.GET("/bedrock/models", modelCtrl.ListBedrockModels)
	r.POST("/model-info", modelCtrl.ModelInfo)
	r.GET("/health", healthCtrl.Health)
	r.POST("/chat", chatCtrl.Chat)
	r.GET("/conversations", convoCtrl.ListConversations)
	r.POST("/conversations", convoCtrl.CreateConversation)
	r.GET("/conversations/:id", convoCtrl.GetMessages)
	r.DELETE("/conversations/:id", convoCtrl.DeleteConversation)
	r.GET("/settings", settingsCtrl.GetSettings)
	r.POST("/settings", settingsCtrl.SaveSettings)

	// Run server
	if err := r.Run(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
