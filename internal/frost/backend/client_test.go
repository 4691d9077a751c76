package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/i474232898/frost-dashboard/internal/frost"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return srv
}

func TestPredictSendsFeatures(t *testing.T) {
	var got map[string]any
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != PathPredict {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("missing X-Request-ID header")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"resultado":"Probable","duracion_estimada_horas":2.0,"ubicacion":"Patala"}`))
	})

	c := New(Options{BaseURL: srv.URL + "/"})
	rec, err := c.Predict(context.Background(), frost.Features{
		Temperatura:        -1.5,
		HumedadRelativa:    90,
		PresionAtmosferica: 1015,
		HumedadSuelo:       40,
		Ubicacion:          "Patala",
		Estacion:           "Pucará",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Outcome() != frost.OutcomeProbable || rec.DuracionHoras == nil || *rec.DuracionHoras != 2.0 {
		t.Fatalf("unexpected record %+v", rec)
	}

	for _, key := range []string{"Temperatura", "HumedadRelativa", "PresionAtmosferica", "HumedadSuelo", "ubicacion", "estacion"} {
		if _, ok := got[key]; !ok {
			t.Errorf("payload missing key %q: %v", key, got)
		}
	}
}

func TestPredictErrorMessage(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"body error", http.StatusBadRequest, `{"error":"Falta el campo Temperatura"}`, "Falta el campo Temperatura"},
		{"no body", http.StatusBadRequest, ``, "Error del servidor: 400"},
		{"server error", http.StatusInternalServerError, `{"error":"Modelo no cargado"}`, "Modelo no cargado"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := New(Options{BaseURL: srv.URL}).Predict(context.Background(), frost.Features{})
			var apiErr *frost.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *frost.APIError, got %v", err)
			}
			if apiErr.Status != tc.status || apiErr.Error() != tc.want {
				t.Fatalf("expected %d %q, got %d %q", tc.status, tc.want, apiErr.Status, apiErr.Error())
			}
		})
	}
}

func TestAutomaticForecastContracts(t *testing.T) {
	t.Run("batch", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != PathAutomatic {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`{
				"mensaje": "Pronóstico generado",
				"predicciones_exitosas": [
					{"resultado": "Poco Probable", "fecha_prediccion_para": "2026-10-19T01:00:00"},
					{"resultado": "Probable", "fecha_prediccion_para": "2026-10-19T02:00:00"}
				],
				"errores": [{"hora": "03:00"}, "timeout"]
			}`))
		})

		resp, err := New(Options{BaseURL: srv.URL, Contract: frost.ContractBatch}).AutomaticForecast(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Batch == nil || resp.Single != nil {
			t.Fatalf("expected a batch response, got %+v", resp)
		}
		if len(resp.Batch.Predicciones) != 2 || len(resp.Batch.Errores) != 2 {
			t.Fatalf("unexpected batch %+v", resp.Batch)
		}
	})

	t.Run("single", func(t *testing.T) {
		srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"resultado":"Probable","fecha_prediccion_para":"2026-10-19T02:00:00","duracion_estimada_horas":null}`))
		})

		resp, err := New(Options{BaseURL: srv.URL, Contract: frost.ContractSingle}).AutomaticForecast(context.Background())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resp.Single == nil || resp.Batch != nil {
			t.Fatalf("expected a single response, got %+v", resp)
		}
		if resp.Single.DuracionHoras != nil {
			t.Fatalf("expected null duration, got %v", *resp.Single.DuracionHoras)
		}
	})

	t.Run("default is batch", func(t *testing.T) {
		if got := New(Options{}).Contract(); got != frost.ContractBatch {
			t.Fatalf("expected %s, got %s", frost.ContractBatch, got)
		}
	})
}

func TestCurrentPredictionNotFound(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
	}{
		{"404", http.StatusNotFound, `{"error":"No hay predicciones"}`},
		{"error field", http.StatusOK, `{"error":"No hay predicciones almacenadas"}`},
		{"empty record", http.StatusOK, `{}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != PathCurrent {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := New(Options{BaseURL: srv.URL}).CurrentPrediction(context.Background())
			if !errors.Is(err, frost.ErrNoCurrentPrediction) {
				t.Fatalf("expected ErrNoCurrentPrediction, got %v", err)
			}
		})
	}
}

func TestCurrentPredictionOtherErrorField(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"Base de datos bloqueada"}`))
	})

	_, err := New(Options{BaseURL: srv.URL}).CurrentPrediction(context.Background())
	var apiErr *frost.APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Base de datos bloqueada" {
		t.Fatalf("expected APIError with body message, got %v", err)
	}
	if errors.Is(err, frost.ErrNoCurrentPrediction) {
		t.Fatal("unexpected not-found classification")
	}
}

func TestCurrentPredictionSuccess(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":7,"resultado":"Poco Probable","fecha_prediccion_para":"2026-10-18T22:00:00","estacion_meteorologica":"Pucará"}`))
	})

	rec, err := New(Options{BaseURL: srv.URL}).CurrentPrediction(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == nil || *rec.ID != 7 || rec.Estacion != "Pucará" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRetriesServerErrors(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 2 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"resultado":"Probable"}`))
	})

	c := New(Options{BaseURL: srv.URL, MaxRetries: 2})
	c.httpCfg.Backoff.InitialInterval = 1
	if _, err := c.Predict(context.Background(), frost.Features{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestNoRetriesByDefault(t *testing.T) {
	calls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := New(Options{BaseURL: srv.URL}).Predict(context.Background(), frost.Features{})
	if err == nil {
		t.Fatal("expected an error")
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestHistoryURL(t *testing.T) {
	c := New(Options{BaseURL: "http://localhost:5000/"})
	if got := c.HistoryURL(); got != "http://localhost:5000/registros_ui" {
		t.Fatalf("unexpected history URL %q", got)
	}
}

func TestRepeatedServerErrorsKeepBodyMessage(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Modelo de predicción no disponible"}`))
	})

	c := New(Options{BaseURL: srv.URL})
	for i := 1; i <= 7; i++ {
		_, err := c.Predict(context.Background(), frost.Features{})
		if got := frost.FailureMessage(err); got != "Modelo de predicción no disponible" {
			t.Fatalf("attempt %d: unexpected message %q", i, got)
		}
	}
}

func TestOpenBreakerReportsLastServerError(t *testing.T) {
	predictCalls := 0
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == PathCurrent {
			_, _ = w.Write([]byte(`{"resultado":"Probable","fecha_prediccion_para":"2026-10-19T03:00:00"}`))
			return
		}
		predictCalls++
		w.WriteHeader(http.StatusBadGateway)
	})

	c := New(Options{BaseURL: srv.URL})
	var err error
	for i := 0; i < 7; i++ {
		_, err = c.Predict(context.Background(), frost.Features{})
	}
	if predictCalls != 6 {
		t.Fatalf("expected the breaker to open after 6 failures, backend saw %d calls", predictCalls)
	}
	if !errors.Is(err, errCircuitOpen) {
		t.Fatalf("expected an open breaker error, got %v", err)
	}
	if got := frost.FailureMessage(err); got != "Error del servidor: 502" {
		t.Fatalf("unexpected message %q", got)
	}

	// Other endpoints keep working.
	if _, err := c.CurrentPrediction(context.Background()); err != nil {
		t.Fatalf("current prediction blocked by the predict breaker: %v", err)
	}
}
