/*
Copyright © 2025 tieubaoca
*/
package cmd

import (
	"context"
	"errors"
	"log"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/config"
	"github.com/tieubaoca/coredna-chatbot/handler"
	"github.com/tieubaoca/coredna-chatbot/knowledge"
	"github.com/tieubaoca/coredna-chatbot/logger"
	"github.com/tieubaoca/coredna-chatbot/service"
)

// startServerCmd represents the start command
var startServerCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the chat server",
	Long:  `Starts the HTTP and WebSocket server that answers questions about CoreDNA's marketing pages.`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.LoadConfig(configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}

		zapLogger := logger.New(cfg.Debug)
		defer zapLogger.Sync()

		// The base loads in the background; queries arriving before it
		// finishes see the empty base, never a partial one.
		store := knowledge.NewStore(cfg.KnowledgePath, zapLogger)
		go store.Load()
		if cfg.WatchKnowledge {
			go func() {
				if err := store.Watch(context.Background()); err != nil && !errors.Is(err, context.Canceled) {
					zapLogger.Warn("knowledge watcher stopped", zap.Error(err))
				}
			}()
		}

		// Initialize services
		searchService := service.NewSearchService(store)
		chatbotService := service.NewChatbotService(store, searchService, zapLogger)
		websocketService := service.NewWebSocketService(chatbotService, zapLogger)

		// Initialize handlers
		corsHandler := handler.NewCorsHandler()
		chatHandler := handler.NewChatHandler(chatbotService)
		knowledgeHandler := handler.NewKnowledgeHandler(store)

		// Setup Gin router
		if !cfg.Debug {
			gin.SetMode(gin.ReleaseMode)
		}
		router := gin.Default()
		router.Use(corsHandler.CorsMiddleware)

		api := router.Group("/api")
		{
			api.POST("/chat", chatHandler.HandleChat)
			api.GET("/health", knowledgeHandler.HandleHealth)
			api.GET("/topics", knowledgeHandler.HandleTopics)
			api.GET("/knowledge/:slug", knowledgeHandler.HandleKnowledge)
		}
		router.GET("/ws/chat", func(c *gin.Context) {
			websocketService.HandleChat(c.Writer, c.Request)
		})
		if cfg.PublicDir != "" {
			router.Static("/public", cfg.PublicDir)
			router.StaticFile("/", filepath.Join(cfg.PublicDir, "index.html"))
		}

		zapLogger.Info("starting server", zap.String("port", cfg.Port))
		if err := router.Run(":" + cfg.Port); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	},
}

func init() {
	rootCmd.AddCommand(startServerCmd)
	startServerCmd.Flags().StringP("config", "c", "config/config.yaml", "config file")
}
