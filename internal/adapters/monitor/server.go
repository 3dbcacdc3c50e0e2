// Package monitor exposes the read-only monitoring surface and the
// start/stop control endpoints over HTTP. Every handler goes through the
// mediator; the server holds no session state of its own.
package monitor

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"github.com/andrescamacho/rotable-go/internal/application/mediator"
)

const defaultHistoryLimit = 20

// Server is the HTTP monitoring and control surface.
type Server struct {
	app  *fiber.App
	med  mediator.Mediator
	log  *logrus.Entry
	addr string
}

// NewServer builds the server and registers its routes.
func NewServer(med mediator.Mediator, addr string, log *logrus.Entry) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})
	s := &Server{app: app, med: med, log: log, addr: addr}

	app.Get("/status", s.handleStatus)
	app.Get("/inventory", s.handleInventory)
	app.Get("/history", s.handleHistory)
	app.Post("/simulation/start", s.handleStart)
	app.Post("/simulation/stop", s.handleStop)

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error {
		metricsHandler(c.Context())
		return nil
	})

	return s
}

// Listen serves until Shutdown is called.
func (s *Server) Listen() error {
	s.log.WithField("addr", s.addr).Info("monitoring server listening")
	return s.app.Listen(s.addr)
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleStatus(c *fiber.Ctx) error {
	resp, err := s.med.Send(c.UserContext(), mediator.GetStatusQuery{})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleInventory(c *fiber.Ctx) error {
	resp, err := s.med.Send(c.UserContext(), mediator.GetInventoryQuery{})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleHistory(c *fiber.Ctx) error {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "limit must be a positive integer"})
		}
		limit = n
	}
	resp, err := s.med.Send(c.UserContext(), mediator.GetHistoryQuery{Limit: limit})
	if err != nil {
		return s.fail(c, err)
	}
	return c.JSON(resp)
}

func (s *Server) handleStart(c *fiber.Ctx) error {
	if _, err := s.med.Send(c.UserContext(), mediator.StartSimulationCommand{}); err != nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "starting"})
}

func (s *Server) handleStop(c *fiber.Ctx) error {
	if _, err := s.med.Send(c.UserContext(), mediator.StopSimulationCommand{}); err != nil {
		return c.Status(http.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	return c.Status(http.StatusAccepted).JSON(fiber.Map{"status": "stopping"})
}

func (s *Server) fail(c *fiber.Ctx, err error) error {
	s.log.WithError(err).Error("monitor request failed")
	return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
