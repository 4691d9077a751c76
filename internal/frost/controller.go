package frost

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

// HistoryPath is the backend page listing stored predictions.
const HistoryPath = "/registros_ui"

// Backend is the prediction server consumed by the dashboard.
type Backend interface {
	Predict(ctx context.Context, f Features) (PredictionRecord, error)
	AutomaticForecast(ctx context.Context) (ForecastResponse, error)
	CurrentPrediction(ctx context.Context) (PredictionRecord, error)
}

// Reporter receives non-blocking diagnostic details that are not shown in the
// status box.
type Reporter interface {
	Report(flow Flow, level, message string)
}

// Controller runs the three dashboard request flows against a Backend and
// publishes their states to a Display. Flows are independent: starting one
// never cancels or waits for another.
type Controller struct {
	backend  Backend
	display  *Display
	reporter Reporter
	now      func() time.Time
}

// NewController creates a Controller. reporter may be nil.
func NewController(backend Backend, display *Display, reporter Reporter) *Controller {
	return &Controller{
		backend:  backend,
		display:  display,
		reporter: reporter,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Display returns the display the controller writes to.
func (c *Controller) Display() *Display {
	return c.display
}

// TriggerManual requests a prediction for the given features.
func (c *Controller) TriggerManual(ctx context.Context, f Features) (UIState, bool) {
	seq := c.display.Begin(LoadingState(FlowManual, c.now()))
	log.Printf("INFO: manual prediction requested for %q (%s)", f.Ubicacion, f.Estacion)

	rec, err := c.backend.Predict(ctx, f)
	if err != nil {
		c.report(FlowManual, "error", fmt.Sprintf("manual prediction failed: %v", err))
		return c.commit(seq, FailureState(FlowManual, err, c.now()))
	}

	return c.commit(seq, RenderRecord(rec, FlowManual, c.now()))
}

// TriggerAutomatic requests the automatic forecast.
func (c *Controller) TriggerAutomatic(ctx context.Context) (UIState, bool) {
	seq := c.display.Begin(LoadingState(FlowAutomatic, c.now()))
	log.Printf("INFO: automatic forecast requested")

	resp, err := c.backend.AutomaticForecast(ctx)
	if err != nil {
		c.report(FlowAutomatic, "error", fmt.Sprintf("automatic forecast failed: %v", err))
		return c.commit(seq, FailureState(FlowAutomatic, err, c.now()))
	}

	switch {
	case resp.Batch != nil:
		for i, e := range resp.Batch.Errores {
			c.report(FlowAutomatic, "warn", fmt.Sprintf("forecast error %d: %s", i+1, string(e)))
		}
		return c.commit(seq, RenderBatch(*resp.Batch, c.now()))
	case resp.Single != nil:
		return c.commit(seq, RenderRecord(*resp.Single, FlowAutomatic, c.now()))
	default:
		err := fmt.Errorf("empty %s forecast response", resp.Contract)
		c.report(FlowAutomatic, "error", err.Error())
		return c.commit(seq, FailureState(FlowAutomatic, err, c.now()))
	}
}

// LoadCurrent restores the last stored prediction. Having none, for whatever
// reason, is not an error: the dashboard shows the idle placeholder.
func (c *Controller) LoadCurrent(ctx context.Context) (UIState, bool) {
	seq := c.display.Begin(LoadingState(FlowCurrent, c.now()))

	rec, err := c.backend.CurrentPrediction(ctx)
	if err != nil {
		c.reportCurrentError(err)
		return c.commit(seq, IdleState(c.now()))
	}

	return c.commit(seq, RenderRecord(rec, FlowCurrent, c.now()))
}

// Refresh reloads the stored prediction in the background. It shows no
// loading state and never replaces a result the user requested; failures
// other than "nothing stored" leave the display untouched.
func (c *Controller) Refresh(ctx context.Context) {
	mark := c.display.Mark()

	var st UIState
	rec, err := c.backend.CurrentPrediction(ctx)
	switch {
	case err == nil:
		st = RenderRecord(rec, FlowCurrent, c.now())
	case errors.Is(err, ErrNoCurrentPrediction):
		st = IdleState(c.now())
	default:
		c.reportCurrentError(err)
		return
	}

	if !c.display.Offer(mark, st) {
		log.Printf("DEBUG: refresh skipped, display is showing a requested result")
	}
}

func (c *Controller) reportCurrentError(err error) {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNoCurrentPrediction):
		log.Printf("INFO: no current prediction stored yet")
	case errors.As(err, &apiErr):
		c.report(FlowCurrent, "info", fmt.Sprintf("current prediction unavailable (status %d): %s", apiErr.Status, apiErr.Error()))
	default:
		c.report(FlowCurrent, "warn", fmt.Sprintf("current prediction request failed: %v", err))
	}
}

func (c *Controller) commit(seq uint64, st UIState) (UIState, bool) {
	applied := c.display.Commit(seq, st)
	if !applied {
		log.Printf("DEBUG: discarded stale %s result (request #%d)", st.Flow, seq)
	}
	return st, applied
}

func (c *Controller) report(flow Flow, level, msg string) {
	log.Printf("%s: [%s] %s", logPrefix(level), flow, msg)
	if c.reporter != nil {
		c.reporter.Report(flow, level, msg)
	}
}

func logPrefix(level string) string {
	switch level {
	case "error":
		return "ERROR"
	case "warn":
		return "WARN"
	default:
		return "INFO"
	}
}
