package frost

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Reconciliation is the result of collapsing a batch into a single display.
type Reconciliation struct {
	// Representative is nil when the batch has no predictions.
	Representative *PredictionRecord
	Rows           []Row
	Errors         []json.RawMessage
}

// Reconcile picks the representative prediction of a batch: the first
// "Probable" record, else the first record. Rows keep the batch order.
func Reconcile(batch ForecastBatch) Reconciliation {
	rec := Reconciliation{
		Rows:   make([]Row, 0, len(batch.Predicciones)),
		Errors: batch.Errores,
	}

	for i := range batch.Predicciones {
		p := batch.Predicciones[i]
		if rec.Representative == nil && p.Outcome() == OutcomeProbable {
			rec.Representative = &batch.Predicciones[i]
		}
		rec.Rows = append(rec.Rows, Row{
			Time:      formatRowTime(p.FechaPrediccion),
			Result:    orDefault(p.Resultado, missingCell),
			Intensity: orDefault(p.Intensidad, missingCell),
		})
	}

	if rec.Representative == nil && len(batch.Predicciones) > 0 {
		rec.Representative = &batch.Predicciones[0]
	}
	return rec
}

// ErrorWarning summarizes batch errors for the user. Empty when n is zero.
func ErrorWarning(n int) string {
	switch {
	case n <= 0:
		return ""
	case n == 1:
		return "Se produjo 1 error al generar el pronóstico"
	default:
		return fmt.Sprintf("Se produjeron %d errores al generar el pronóstico", n)
	}
}

// RenderBatch builds the state for an automatic multi-hour forecast.
// An empty batch is a successful, explicitly empty state.
func RenderBatch(batch ForecastBatch, now time.Time) UIState {
	r := Reconcile(batch)

	var st UIState
	if r.Representative == nil {
		st = UIState{
			Phase:      PhaseEmpty,
			Flow:       FlowAutomatic,
			Tone:       ToneNeutral,
			StatusText: "No se generaron predicciones",
			Location:   notAvailable,
			Station:    notAvailable,
			Date:       notAvailable,
			Intensity:  notAvailable,
			Duration:   notAvailable,
			UpdatedAt:  now,

			Probability: notAvailable,
			Temperature: notAvailable,
		}
	} else {
		st = RenderRecord(*r.Representative, FlowAutomatic, now)
		st.Rows = r.Rows
	}

	if summary := strings.TrimSpace(batch.Mensaje); summary != "" {
		st.Summary = summary
	}
	st.Warning = ErrorWarning(len(r.Errors))
	return st
}
