// Package web exposes the thin REST plumbing around the event store:
// browse/CRUD endpoints, the email-capture form target, and health.
package web

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appLog "sydevents/internal/log"
	"sydevents/internal/model"
	"sydevents/internal/store"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// HealthFunc reports backing-store connectivity.
type HealthFunc func(ctx context.Context) error

// Server is the HTTP API over the event and email stores.
type Server struct {
	app    *fiber.App
	events store.EventStore
	emails store.EmailStore
	health HealthFunc
}

// NewServer wires routes and middleware. health may be nil when no
// external store is attached (dry runs).
func NewServer(events store.EventStore, emails store.EmailStore, health HealthFunc) *Server {
	app := fiber.New(fiber.Config{
		AppName:               "sydevents",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	s := &Server{app: app, events: events, emails: emails, health: health}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.app.Get("/health", s.healthCheck)

	api := s.app.Group("/api")
	api.Get("/events", s.listEvents)
	api.Get("/events/:id", s.getEvent)
	api.Post("/events", s.createEvent)
	api.Put("/events/:id", s.updateEvent)
	api.Delete("/events/:id", s.deleteEvent)
	api.Post("/email-capture", s.captureEmail)
}

// App exposes the underlying fiber app for tests.
func (s *Server) App() *fiber.App { return s.app }

// Listen blocks serving on addr.
func (s *Server) Listen(addr string) error { return s.app.Listen(addr) }

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error { return s.app.Shutdown() }

func (s *Server) healthCheck(c *fiber.Ctx) error {
	resp := fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}
	if s.health != nil {
		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			resp["status"] = "unhealthy"
			resp["store"] = err.Error()
			return c.Status(fiber.StatusServiceUnavailable).JSON(resp)
		}
	}
	return c.JSON(resp)
}

func (s *Server) listEvents(c *fiber.Ctx) error {
	opts := store.ListOptions{
		UpcomingOnly: c.Query("upcoming") == "true",
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		limit, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || limit <= 0 {
			return badRequest(c, "limit must be a positive integer")
		}
		opts.Limit = limit
	}

	events, err := s.events.List(c.Context(), opts)
	if err != nil {
		appLog.Error("listing events failed", err)
		return serverError(c, "Error fetching events")
	}
	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(events),
		"data":    events,
	})
}

func (s *Server) getEvent(c *fiber.Ctx) error {
	ev, err := s.events.FindByID(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Event not found")
	}
	if err != nil {
		appLog.Error("fetching event failed", err, "id", c.Params("id"))
		return serverError(c, "Error fetching event")
	}
	return c.JSON(fiber.Map{"success": true, "data": ev})
}

func (s *Server) createEvent(c *fiber.Ctx) error {
	var ev model.Event
	if err := c.BodyParser(&ev); err != nil {
		return badRequest(c, "invalid event payload")
	}
	if strings.TrimSpace(ev.Title) == "" || ev.Date.IsZero() || strings.TrimSpace(ev.URL) == "" {
		return badRequest(c, "title, date, and url are required")
	}
	if ev.Source == "" {
		ev.Source = model.SourceManual
	}
	ev.IsActive = true

	created, err := s.events.Insert(c.Context(), ev)
	if errors.Is(err, store.ErrDuplicate) {
		return badRequest(c, "an event with this externalId already exists")
	}
	if err != nil {
		appLog.Error("creating event failed", err, "title", ev.Title)
		return serverError(c, "Error creating event")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": created})
}

func (s *Server) updateEvent(c *fiber.Ctx) error {
	var ev model.Event
	if err := c.BodyParser(&ev); err != nil {
		return badRequest(c, "invalid event payload")
	}

	updated, err := s.events.UpdateByID(c.Context(), c.Params("id"), ev)
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Event not found")
	}
	if err != nil {
		appLog.Error("updating event failed", err, "id", c.Params("id"))
		return serverError(c, "Error updating event")
	}
	return c.JSON(fiber.Map{"success": true, "data": updated})
}

func (s *Server) deleteEvent(c *fiber.Ctx) error {
	err := s.events.Delete(c.Context(), c.Params("id"))
	if errors.Is(err, store.ErrNotFound) {
		return notFound(c, "Event not found")
	}
	if err != nil {
		appLog.Error("deleting event failed", err, "id", c.Params("id"))
		return serverError(c, "Error deleting event")
	}
	return c.JSON(fiber.Map{"success": true, "message": "Event deleted successfully"})
}

type emailCaptureRequest struct {
	Email      string `json:"email"`
	EventID    string `json:"eventId"`
	EventTitle string `json:"eventTitle"`
	EventURL   string `json:"eventUrl"`
}

func (s *Server) captureEmail(c *fiber.Ctx) error {
	var req emailCaptureRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid payload")
	}
	if req.Email == "" || req.EventID == "" || req.EventTitle == "" || req.EventURL == "" {
		return badRequest(c, "email, eventId, eventTitle, and eventUrl are required")
	}
	if !emailPattern.MatchString(strings.TrimSpace(req.Email)) {
		return badRequest(c, "please enter a valid email")
	}

	capture, err := s.emails.InsertCapture(c.Context(), model.EmailCapture{
		Email:      req.Email,
		EventID:    req.EventID,
		EventTitle: req.EventTitle,
		EventURL:   req.EventURL,
		UserAgent:  c.Get(fiber.HeaderUserAgent),
		IPAddress:  c.IP(),
	})
	if errors.Is(err, store.ErrDuplicate) {
		return c.JSON(fiber.Map{
			"success": true,
			"message": "Email already registered for this event",
		})
	}
	if err != nil {
		appLog.Error("capturing email failed", err)
		return serverError(c, "Error capturing email")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Email captured successfully",
		"data": fiber.Map{
			"id":         capture.ID,
			"email":      capture.Email,
			"eventTitle": capture.EventTitle,
		},
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": msg})
}

func notFound(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": msg})
}

func serverError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": msg})
}
