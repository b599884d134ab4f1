package api

import (
	"github.com/codeotter0201/fullstack-lms-challenge/utils/logger"
	"github.com/codeotter0201/fullstack-lms-challenge/utils/response"
	"github.com/gofiber/fiber/v2"
)

type APIServer struct {
	app           *fiber.App
	listenAddress string
	log           *logger.Logger
}

func NewAPIServer(listenAddress string, log *logger.Logger) *APIServer {
	if log == nil {
		log = logger.Nop()
	}
	return &APIServer{
		app:           NewApp(),
		listenAddress: listenAddress,
		log:           log,
	}
}

// NewApp builds the fiber app with the shared error handler
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "lms-api",
		ErrorHandler: response.FromError,
	})
}

func (s *APIServer) GetEngine() *fiber.App {
	return s.app
}

func (s *APIServer) Run() error {
	s.log.Info("starting API server", "address", s.listenAddress)
	return s.app.Listen(s.listenAddress)
}

func (s *APIServer) Shutdown() error {
	return s.app.Shutdown()
}
