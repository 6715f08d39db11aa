// Package forward provides the server-side forwarding service: it
// accepts a serialized conversation from the chat surface, normalizes
// it, invokes the inference API, and returns the assistant's message
// or an error list.
package forward

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hferrera/vision-chat/convo"
	"github.com/hferrera/vision-chat/exchange"
	"github.com/hferrera/vision-chat/inference"
)

// Server is the forwarding service. The inference client is injected
// at construction; the server holds no other state between requests.
type Server struct {
	config Config
	client inference.Client
	logger *zap.Logger
	app    *fiber.App
}

// New creates a forwarding server around the given inference client.
func New(config Config, client inference.Client, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		client: client,
		logger: logger,
		app:    app,
	}

	app.Post("/chat", s.handleChat)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(map[string]string{"status": "ok"})
	})

	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting forwarding server", zap.String("listen", s.config.ListenAddr))
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// Test dispatches a request through the underlying app. Test helper.
func (s *Server) Test(req *http.Request) (*http.Response, error) {
	return s.app.Test(req)
}

// handleChat runs one exchange: decode, normalize, infer, reply.
// Failures are logged and returned as an error list; final handling
// belongs to the caller, never retried here.
func (s *Server) handleChat(c *fiber.Ctx) error {
	startTime := time.Now()
	requestID := uuid.NewString()

	var req exchange.Request
	if err := c.BodyParser(&req); err != nil {
		s.logger.Error("failed to parse request",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errorReply(c, fiber.StatusBadRequest, "invalid request body", "BadRequest")
	}

	conversation, err := convo.Decode(req.Conversation)
	if err != nil {
		s.logger.Error("failed to decode conversation",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errorReply(c, fiber.StatusBadRequest, "invalid conversation format", "FormatError")
	}

	normalized, err := convo.Normalize(conversation)
	if err != nil {
		s.logger.Error("failed to normalize conversation",
			zap.String("request_id", requestID),
			zap.Error(err),
		)
		return errorReply(c, fiber.StatusBadRequest, formatDetail(err), "FormatError")
	}

	reply, err := s.client.Converse(c.UserContext(), normalized)
	if err != nil {
		s.logger.Error("inference call failed",
			zap.String("request_id", requestID),
			zap.Int("message_count", len(normalized)),
			zap.Error(err),
		)
		return errorReply(c, fiber.StatusBadGateway, err.Error(), "RemoteError")
	}

	s.logger.Info("exchange complete",
		zap.String("request_id", requestID),
		zap.Int("message_count", len(normalized)),
		zap.Duration("latency", time.Since(startTime)),
	)

	return c.JSON(fiber.Map{"message": reply})
}

func errorReply(c *fiber.Ctx, status int, message, errorType string) error {
	return c.Status(status).JSON(fiber.Map{
		"errors": []exchange.ErrorDetail{{Message: message, ErrorType: errorType}},
	})
}

func formatDetail(err error) string {
	var fe *convo.FormatError
	if errors.As(err, &fe) {
		return fe.Error()
	}
	return err.Error()
}
