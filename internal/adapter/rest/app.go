package rest

import (
	"io"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// Options configures the HTTP middleware
type Options struct {
	// RequestsPerMinute caps /v1 requests per client IP; 0 disables the limiter
	RequestsPerMinute int
	// AccessLog receives one line per request; nil disables access logging
	AccessLog io.Writer
	// Propagator extracts the caller's trace context; nil uses the otel global
	Propagator propagation.TextMapPropagator
}

// NewApp builds the fiber application with every route registered
func NewApp(h *Handler, opts Options) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "plusvalia-backend",
		DisableStartupMessage: true,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "internal error"
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
				message = e.Message
			}
			return c.Status(code).JSON(ErrorResponse{Error: message})
		},
	})

	app.Use(recover.New())

	propagator := opts.Propagator
	if propagator == nil {
		propagator = otel.GetTextMapPropagator()
	}
	app.Use(TraceContext(propagator))

	if opts.AccessLog != nil {
		app.Use(logger.New(logger.Config{
			Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
			Output: opts.AccessLog,
		}))
	}

	app.Get("/health", h.Health)

	v1 := app.Group("/v1")
	if opts.RequestsPerMinute > 0 {
		v1.Use(limiter.New(limiter.Config{
			Max:        opts.RequestsPerMinute,
			Expiration: 1 * time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(ErrorResponse{
					Error: "Too many requests. Please try again later.",
				})
			},
		}))
	}

	v1.Post("/calculations", h.Calculate)
	v1.Get("/municipalities", h.ListMunicipalities)
	v1.Get("/municipalities/:id", h.GetMunicipality)

	return app
}

// TraceContext extracts the propagated span context from the request headers
// into the request's user context, so handler spans join the caller's trace.
func TraceContext(propagator propagation.TextMapPropagator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		carrier := propagation.HeaderCarrier(http.Header(c.GetReqHeaders()))
		c.SetUserContext(propagator.Extract(c.UserContext(), carrier))
		return c.Next()
	}
}
