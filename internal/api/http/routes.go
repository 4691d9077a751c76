package httpapi

import (
	"bytes"
	"context"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/frost-dashboard/internal/frost"
	"github.com/i474232898/frost-dashboard/internal/store"
	"github.com/i474232898/frost-dashboard/internal/view"
)

var validate = validator.New()

// Dashboard bundles what the HTTP handlers need.
type Dashboard struct {
	Controller  *frost.Controller
	Diagnostics *store.DiagnosticsStore

	// ManualFeatures is sent when a manual prediction carries no payload.
	ManualFeatures frost.Features

	// HistoryURL is where the history navigation redirects to.
	HistoryURL string

	// RequestTimeout bounds each backend call made on behalf of a request.
	RequestTimeout time.Duration
}

// triggerResponse is the JSON answer of the trigger endpoints.
type triggerResponse struct {
	State   frost.UIState `json:"state"`
	Applied bool          `json:"applied"`
}

// RegisterRoutes wires the dashboard handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d Dashboard) {
	app.Get("/", func(c *fiber.Ctx) error {
		var buf bytes.Buffer
		err := view.RenderPage(&buf, view.PageData{
			State:       d.Controller.Display().State(),
			HistoryHref: "/historial",
		})
		if err != nil {
			log.Printf("ERROR: rendering dashboard: %v", err)
			return fiber.NewError(fiber.StatusInternalServerError, "failed to render dashboard")
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(buf.Bytes())
	})

	app.Get("/historial", func(c *fiber.Ctx) error {
		return c.Redirect(d.HistoryURL)
	})

	ui := app.Group("/ui")

	ui.Get("/estado", func(c *fiber.Ctx) error {
		return c.JSON(d.Controller.Display().State())
	})

	// Optional ?desde=<RFC3339> keeps only entries recorded since then.
	ui.Get("/diagnosticos", func(c *fiber.Ctx) error {
		entries := []store.Entry{}
		if d.Diagnostics == nil {
			return c.JSON(fiber.Map{"entries": entries})
		}

		if raw := c.Query("desde"); raw != "" {
			since, err := time.Parse(time.RFC3339, raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "desde must be an RFC3339 timestamp")
			}
			entries = d.Diagnostics.Since(since)
		} else {
			entries = d.Diagnostics.List()
		}
		return c.JSON(fiber.Map{"entries": entries})
	})

	ui.Post("/predecir", func(c *fiber.Ctx) error {
		features, err := parseFeatures(c, d.ManualFeatures)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := d.requestContext(c)
		defer cancel()

		st, applied := d.Controller.TriggerManual(ctx, features)
		return respond(c, st, applied)
	})

	ui.Post("/pronostico", func(c *fiber.Ctx) error {
		ctx, cancel := d.requestContext(c)
		defer cancel()

		st, applied := d.Controller.TriggerAutomatic(ctx)
		return respond(c, st, applied)
	})

	ui.Post("/actual", func(c *fiber.Ctx) error {
		ctx, cancel := d.requestContext(c)
		defer cancel()

		st, applied := d.Controller.LoadCurrent(ctx)
		return respond(c, st, applied)
	})
}

func (d Dashboard) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	timeout := d.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return context.WithTimeout(c.UserContext(), timeout)
}

// parseFeatures overlays an optional JSON body on the defaults and validates
// the result. Form posts from the page carry no features.
func parseFeatures(c *fiber.Ctx, defaults frost.Features) (frost.Features, error) {
	f := defaults
	if len(c.Body()) > 0 && strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&f); err != nil {
			return f, err
		}
	}
	if err := validate.Struct(f); err != nil {
		return f, err
	}
	return f, nil
}

// respond sends browsers back to the page and API clients the resulting state.
func respond(c *fiber.Ctx, st frost.UIState, applied bool) error {
	if strings.Contains(c.Get(fiber.HeaderAccept), fiber.MIMETextHTML) {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return c.JSON(triggerResponse{State: st, Applied: applied})
}
