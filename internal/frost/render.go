package frost

import (
	"strings"
	"time"
)

// ToneFor maps an outcome to the status box tone. First match wins.
func ToneFor(o Outcome) Tone {
	switch o {
	case OutcomeProbable:
		return ToneAlert
	case OutcomeUnlikely:
		return ToneSuccess
	default:
		return ToneNeutral
	}
}

// StatusText is the primary status line for a record. A backend supplied
// mensaje_adicional wins over the derived label.
func StatusText(rec PredictionRecord) string {
	if strings.TrimSpace(rec.MensajeAdicional) != "" {
		return rec.MensajeAdicional
	}
	return resultLabel(rec.Resultado)
}

// RenderRecord builds the populated state for a single prediction.
func RenderRecord(rec PredictionRecord, flow Flow, now time.Time) UIState {
	return UIState{
		Phase:      PhasePopulated,
		Flow:       flow,
		Tone:       ToneFor(rec.Outcome()),
		StatusText: StatusText(rec),
		Summary:    strings.TrimSpace(rec.Mensaje),
		Location:   orDefault(rec.Ubicacion, notSpecified),
		Station:    orDefault(rec.Estacion, notSpecified),
		Date:       formatDate(rec.FechaPrediccion, flow),
		Intensity:  formatIntensity(rec.Intensidad, flow),
		Duration:   formatDuration(rec.DuracionHoras, flow),
		UpdatedAt:  now,

		Probability: formatProbability(rec.ProbabilidadHelada),
		Temperature: formatTemperature(rec.ForecastTemperature()),
	}
}

var loadingText = map[Flow]string{
	FlowManual:    "Calculando predicción...",
	FlowAutomatic: "Generando pronóstico automático...",
	FlowCurrent:   "Cargando última predicción...",
}

// LoadingState is shown while a request of the given flow is outstanding.
func LoadingState(flow Flow, now time.Time) UIState {
	return UIState{
		Phase:      PhaseLoading,
		Flow:       flow,
		Tone:       ToneLoading,
		StatusText: loadingText[flow],
		Location:   missingCell,
		Station:    missingCell,
		Date:       missingCell,
		Intensity:  missingCell,
		Duration:   missingCell,
		UpdatedAt:  now,

		Probability: missingCell,
		Temperature: missingCell,
	}
}

// FailureState is shown when the request itself failed.
func FailureState(flow Flow, err error, now time.Time) UIState {
	return UIState{
		Phase:      PhaseFailed,
		Flow:       flow,
		Tone:       ToneFailure,
		StatusText: "Error: " + FailureMessage(err),
		Location:   missingCell,
		Station:    missingCell,
		Date:       missingCell,
		Intensity:  "Error",
		Duration:   "Error",
		UpdatedAt:  now,

		Probability: missingCell,
		Temperature: missingCell,
	}
}

// IdleState is the neutral "ready, no prediction yet" placeholder.
func IdleState(now time.Time) UIState {
	return UIState{
		Phase:      PhaseIdle,
		Flow:       FlowCurrent,
		Tone:       ToneIdle,
		StatusText: "Listo para predicción",
		Location:   notAvailable,
		Station:    notAvailable,
		Date:       notAvailable,
		Intensity:  notAvailable,
		Duration:   notAvailable,
		UpdatedAt:  now,

		Probability: notAvailable,
		Temperature: notAvailable,
	}
}
