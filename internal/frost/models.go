package frost

import (
	"encoding/json"
	"strings"
)

// Outcome is the normalized frost probability label of a prediction.
type Outcome string

const (
	OutcomeUndetermined Outcome = "undetermined"
	OutcomeProbable     Outcome = "probable"
	OutcomeUnlikely     Outcome = "unlikely"
)

// Wire values of the resultado field.
const (
	ResultadoProbable     = "Probable"
	ResultadoPocoProbable = "Poco Probable"
)

// ParseOutcome maps a wire resultado value to an Outcome.
// Unknown or empty values are undetermined.
func ParseOutcome(raw string) Outcome {
	switch raw {
	case ResultadoProbable:
		return OutcomeProbable
	case ResultadoPocoProbable:
		return OutcomeUnlikely
	default:
		return OutcomeUndetermined
	}
}

// PredictionRecord is a single frost prediction as returned by the backend.
// Field names on the wire must not change.
type PredictionRecord struct {
	ID               *int64   `json:"id,omitempty"`
	Resultado        string   `json:"resultado,omitempty"`
	FechaPrediccion  string   `json:"fecha_prediccion_para,omitempty"`
	Ubicacion        string   `json:"ubicacion,omitempty"`
	Estacion         string   `json:"estacion_meteorologica,omitempty"`
	Intensidad       string   `json:"intensidad,omitempty"`
	DuracionHoras    *float64 `json:"duracion_estimada_horas"`
	Mensaje          string   `json:"mensaje,omitempty"`
	MensajeAdicional string   `json:"mensaje_adicional,omitempty"`

	ProbabilidadHelada *float64 `json:"probabilidad_helada,omitempty"`

	// The prediction endpoints send temperatura_pronosticada, stored records
	// carry temperatura_minima_prevista.
	TemperaturaPronosticada   *float64 `json:"temperatura_pronosticada,omitempty"`
	TemperaturaMinimaPrevista *float64 `json:"temperatura_minima_prevista,omitempty"`
}

// Outcome returns the normalized outcome of the record.
func (r PredictionRecord) Outcome() Outcome {
	return ParseOutcome(r.Resultado)
}

// ForecastTemperature returns the predicted minimum temperature, if any.
func (r PredictionRecord) ForecastTemperature() *float64 {
	if r.TemperaturaPronosticada != nil {
		return r.TemperaturaPronosticada
	}
	return r.TemperaturaMinimaPrevista
}

// IsEmpty reports whether the record carries neither a result nor a target date.
func (r PredictionRecord) IsEmpty() bool {
	return strings.TrimSpace(r.Resultado) == "" && strings.TrimSpace(r.FechaPrediccion) == ""
}

// ForecastBatch is the multi-hour response of the automatic forecast endpoint.
// Errores entries are opaque and only reported to diagnostics.
type ForecastBatch struct {
	Mensaje      string             `json:"mensaje,omitempty"`
	Predicciones []PredictionRecord `json:"predicciones_exitosas"`
	Errores      []json.RawMessage  `json:"errores"`
}

// ForecastContract selects which automatic forecast response shape the backend speaks.
type ForecastContract string

const (
	// ContractSingle: the endpoint returns one PredictionRecord.
	ContractSingle ForecastContract = "v1"
	// ContractBatch: the endpoint returns a ForecastBatch.
	ContractBatch ForecastContract = "v2"
)

// ParseForecastContract validates a configured contract name.
func ParseForecastContract(s string) (ForecastContract, bool) {
	switch ForecastContract(strings.ToLower(strings.TrimSpace(s))) {
	case ContractSingle:
		return ContractSingle, true
	case ContractBatch:
		return ContractBatch, true
	default:
		return "", false
	}
}

// ForecastResponse is the decoded automatic forecast. Exactly one of Single or Batch
// is set, according to Contract.
type ForecastResponse struct {
	Contract ForecastContract
	Single   *PredictionRecord
	Batch    *ForecastBatch
}

// Features is the payload sent to the manual prediction endpoint.
type Features struct {
	Temperatura        float64 `json:"Temperatura" validate:"gte=-60,lte=60"`
	HumedadRelativa    float64 `json:"HumedadRelativa" validate:"gte=0,lte=100"`
	PresionAtmosferica float64 `json:"PresionAtmosferica" validate:"gte=300,lte=1100"`
	HumedadSuelo       float64 `json:"HumedadSuelo" validate:"gte=0,lte=100"`
	Ubicacion          string  `json:"ubicacion" validate:"required"`
	Estacion           string  `json:"estacion" validate:"required"`
}
