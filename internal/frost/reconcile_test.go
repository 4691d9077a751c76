package frost

import (
	"encoding/json"
	"testing"
)

func TestReconcilePicksFirstProbable(t *testing.T) {
	batch := ForecastBatch{Predicciones: []PredictionRecord{
		{Resultado: "Poco Probable", FechaPrediccion: "2026-10-19T01:00:00"},
		{Resultado: "Poco Probable", FechaPrediccion: "2026-10-19T02:00:00"},
		{Resultado: "Probable", FechaPrediccion: "2026-10-19T03:00:00", Intensidad: "Moderada"},
		{Resultado: "Probable", FechaPrediccion: "2026-10-19T04:00:00", Intensidad: "Fuerte"},
	}}

	r := Reconcile(batch)
	if r.Representative == nil {
		t.Fatal("expected a representative")
	}
	if r.Representative.FechaPrediccion != "2026-10-19T03:00:00" {
		t.Fatalf("expected the first Probable record, got %q", r.Representative.FechaPrediccion)
	}
	if len(r.Rows) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(r.Rows))
	}
	if r.Rows[0].Time != "19/10/2026 01:00" || r.Rows[3].Intensity != "Fuerte" {
		t.Fatalf("rows out of order: %+v", r.Rows)
	}
}

func TestReconcileFallsBackToFirstRecord(t *testing.T) {
	batch := ForecastBatch{Predicciones: []PredictionRecord{
		{Resultado: "Poco Probable", FechaPrediccion: "2026-10-19T01:00:00"},
		{Resultado: "No Determinado", FechaPrediccion: "2026-10-19T02:00:00"},
	}}

	r := Reconcile(batch)
	if r.Representative == nil || r.Representative.FechaPrediccion != "2026-10-19T01:00:00" {
		t.Fatalf("expected the first record, got %+v", r.Representative)
	}
}

func TestReconcileMissingCells(t *testing.T) {
	r := Reconcile(ForecastBatch{Predicciones: []PredictionRecord{
		{},
		{FechaPrediccion: "ayer"},
	}})

	if got := r.Rows[0]; got.Time != "-" || got.Result != "-" || got.Intensity != "-" {
		t.Fatalf("expected missing cells, got %+v", got)
	}
	if got := r.Rows[1].Time; got != "N/A" {
		t.Fatalf("expected N/A for an unparseable time, got %q", got)
	}
}

func TestRenderBatchEmptyIsNotFailure(t *testing.T) {
	st := RenderBatch(ForecastBatch{Mensaje: "Pronóstico generado"}, testNow)

	if st.Phase != PhaseEmpty {
		t.Fatalf("expected empty phase, got %s", st.Phase)
	}
	if st.Tone == ToneFailure {
		t.Fatal("an empty batch must not use the failure tone")
	}
	if st.StatusText != "No se generaron predicciones" {
		t.Fatalf("unexpected status text %q", st.StatusText)
	}
	if len(st.Rows) != 0 || st.Warning != "" {
		t.Fatalf("expected no rows and no warning, got %+v", st)
	}
}

func TestRenderBatchReportsErrors(t *testing.T) {
	batch := ForecastBatch{
		Predicciones: []PredictionRecord{
			{Resultado: "Poco Probable", FechaPrediccion: "2026-10-19T01:00:00"},
			{Resultado: "Probable", FechaPrediccion: "2026-10-19T02:00:00", DuracionHoras: ptr(1.5)},
		},
		Errores: []json.RawMessage{
			json.RawMessage(`{"hora":"03:00","error":"sin datos"}`),
			json.RawMessage(`"timeout"`),
		},
	}

	st := RenderBatch(batch, testNow)
	if st.Tone != ToneAlert {
		t.Fatalf("expected alert tone, got %s", st.Tone)
	}
	if st.Duration != "1.5 horas" {
		t.Fatalf("expected representative duration, got %q", st.Duration)
	}
	if len(st.Rows) != 2 {
		t.Fatalf("expected both rows, got %d", len(st.Rows))
	}
	if st.Warning != "Se produjeron 2 errores al generar el pronóstico" {
		t.Fatalf("unexpected warning %q", st.Warning)
	}
}

func TestErrorWarning(t *testing.T) {
	cases := map[int]string{
		0: "",
		1: "Se produjo 1 error al generar el pronóstico",
		5: "Se produjeron 5 errores al generar el pronóstico",
	}
	for n, want := range cases {
		if got := ErrorWarning(n); got != want {
			t.Errorf("ErrorWarning(%d): expected %q, got %q", n, want, got)
		}
	}
}
