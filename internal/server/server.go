package server

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jackryan100123/nyaya-sahayak/internal/api"
	"go.uber.org/zap"
)

// Server is the HTTP surface the browser UI talks to.
type Server struct {
	listenAddr string
	app        *fiber.App
	logger     *zap.Logger
}

func New(addr string, chatHandler *api.ChatHandler, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		ErrorHandler: api.ErrorHandler,
	})

	var (
		checkHandler = api.NewCheckHandler()
		check        = app.Group("/check")
		apiv1        = app.Group("/api/v1")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)

	apiv1.Post("/conversations", chatHandler.HandleCreateConversation)
	apiv1.Get("/conversations/:id", chatHandler.HandleGetConversation)
	apiv1.Post("/conversations/:id/messages", chatHandler.HandleSendMessage)
	apiv1.Delete("/conversations/:id/messages", chatHandler.HandleClearConversation)
	apiv1.Post("/conversations/:id/document", chatHandler.HandleUploadDocument)

	return &Server{
		listenAddr: addr,
		app:        app,
		logger:     logger,
	}
}

func (s *Server) Run() error {
	s.logger.Info("server listening", zap.String("addr", s.listenAddr))
	return s.app.Listen(s.listenAddr)
}

func (s *Server) Stop() error {
	s.logger.Info("server stopping")
	return s.app.Shutdown()
}
