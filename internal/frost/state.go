package frost

import "time"

// Phase is the lifecycle position of the dashboard.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhasePopulated Phase = "populated"
	PhaseEmpty     Phase = "empty"
	PhaseIdle      Phase = "idle"
	PhaseFailed    Phase = "failed"
)

// Flow identifies which controller produced a state.
type Flow string

const (
	FlowManual    Flow = "manual"
	FlowAutomatic Flow = "automatic"
	FlowCurrent   Flow = "current"
)

// Tone is the visual status of the main status box.
// Loading, failure and idle are never produced from a prediction outcome.
type Tone string

const (
	ToneAlert   Tone = "alert"
	ToneSuccess Tone = "success"
	ToneNeutral Tone = "neutral"
	ToneLoading Tone = "loading"
	ToneFailure Tone = "failure"
	ToneIdle    Tone = "idle"
)

// CSSClass returns the status box colour class for the tone.
func (t Tone) CSSClass() string {
	switch t {
	case ToneAlert:
		return "bg-red-500"
	case ToneSuccess:
		return "bg-green-500"
	case ToneLoading:
		return "bg-blue-500"
	case ToneFailure:
		return "bg-gray-500"
	case ToneIdle:
		return "bg-gray-300"
	default:
		return "bg-yellow-500"
	}
}

// Row is one line of the hourly forecast table.
type Row struct {
	Time      string `json:"time"`
	Result    string `json:"result"`
	Intensity string `json:"intensity"`
}

// UIState is everything the dashboard displays. It is produced by the render
// functions in this package and never mutated after being published.
type UIState struct {
	Phase       Phase     `json:"phase"`
	Flow        Flow      `json:"flow,omitempty"`
	Tone        Tone      `json:"tone"`
	StatusText  string    `json:"statusText"`
	Summary     string    `json:"summary,omitempty"`
	Location    string    `json:"location"`
	Station     string    `json:"station"`
	Date        string    `json:"date"`
	Intensity   string    `json:"intensity"`
	Duration    string    `json:"duration"`
	Probability string    `json:"probability"`
	Temperature string    `json:"temperature"`
	Rows        []Row     `json:"rows,omitempty"`
	Warning     string    `json:"warning,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
