package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/frost-dashboard/internal/common"
	"github.com/i474232898/frost-dashboard/internal/frost"
)

// Backend endpoint paths.
const (
	PathPredict   = "/predecir"
	PathAutomatic = "/pronostico_automatico"
	PathCurrent   = "/obtener_prediccion_actual"
)

// notFoundHints mark a 2xx body whose error means "nothing stored yet".
var notFoundHints = []string{"no hay", "no se encontr", "not found", "sin predicci"}

// Options configures a Client.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	Contract   frost.ForecastContract
	MaxRetries int
}

// Client implements frost.Backend over HTTP.
type Client struct {
	baseURL  string
	contract frost.ForecastContract
	httpCfg  HTTPClientConfig

	// One breaker per endpoint path.
	breakers map[string]*breaker
}

// New creates a backend client. A nil HTTPClient gets a 10 second timeout
// client; an empty Contract defaults to the batch contract.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	contract := opts.Contract
	if contract == "" {
		contract = frost.ContractBatch
	}

	breakers := make(map[string]*breaker)
	for _, path := range []string{PathPredict, PathAutomatic, PathCurrent} {
		breakers[path] = newBreaker("frost-backend" + path)
	}

	return &Client{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		contract: contract,
		httpCfg: HTTPClientConfig{
			Client: httpClient,
			Backoff: BackoffConfig{
				MaxRetries:      opts.MaxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		breakers: breakers,
	}
}

// Contract returns the automatic forecast contract the client decodes.
func (c *Client) Contract() frost.ForecastContract {
	return c.contract
}

// HistoryURL is the absolute URL of the backend's history page.
func (c *Client) HistoryURL() string {
	return c.baseURL + frost.HistoryPath
}

// Predict posts the features to the manual prediction endpoint.
func (c *Client) Predict(ctx context.Context, f frost.Features) (frost.PredictionRecord, error) {
	body, err := json.Marshal(f)
	if err != nil {
		return frost.PredictionRecord{}, err
	}

	resp, err := c.do(ctx, http.MethodPost, PathPredict, body)
	if err != nil {
		return frost.PredictionRecord{}, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return frost.PredictionRecord{}, decodeAPIError(resp)
	}

	var rec frost.PredictionRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return frost.PredictionRecord{}, fmt.Errorf("decode prediction: %w", err)
	}
	return rec, nil
}

// AutomaticForecast requests the automatic forecast and decodes it according
// to the configured contract.
func (c *Client) AutomaticForecast(ctx context.Context) (frost.ForecastResponse, error) {
	out := frost.ForecastResponse{Contract: c.contract}

	resp, err := c.do(ctx, http.MethodGet, PathAutomatic, nil)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return out, decodeAPIError(resp)
	}

	switch c.contract {
	case frost.ContractSingle:
		var rec frost.PredictionRecord
		if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
			return out, fmt.Errorf("decode %s forecast: %w", c.contract, err)
		}
		out.Single = &rec
	default:
		var batch frost.ForecastBatch
		if err := json.NewDecoder(resp.Body).Decode(&batch); err != nil {
			return out, fmt.Errorf("decode %s forecast: %w", c.contract, err)
		}
		out.Batch = &batch
	}
	return out, nil
}

// CurrentPrediction fetches the last stored prediction. A 404, or a success
// body that signals absence, yields frost.ErrNoCurrentPrediction.
func (c *Client) CurrentPrediction(ctx context.Context) (frost.PredictionRecord, error) {
	resp, err := c.do(ctx, http.MethodGet, PathCurrent, nil)
	if err != nil {
		return frost.PredictionRecord{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return frost.PredictionRecord{}, fmt.Errorf("%w: %w", frost.ErrNoCurrentPrediction, decodeAPIError(resp))
	}
	if !isSuccess(resp.StatusCode) {
		return frost.PredictionRecord{}, decodeAPIError(resp)
	}

	var envelope struct {
		frost.PredictionRecord
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return frost.PredictionRecord{}, fmt.Errorf("decode current prediction: %w", err)
	}

	if envelope.Error != "" {
		if common.HasAny(strings.ToLower(envelope.Error), notFoundHints...) {
			return frost.PredictionRecord{}, fmt.Errorf("%w: %s", frost.ErrNoCurrentPrediction, envelope.Error)
		}
		return frost.PredictionRecord{}, &frost.APIError{Status: resp.StatusCode, Message: envelope.Error}
	}
	if envelope.PredictionRecord.IsEmpty() {
		return frost.PredictionRecord{}, frost.ErrNoCurrentPrediction
	}
	return envelope.PredictionRecord, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	requestID := uuid.NewString()
	u := c.baseURL + path

	buildRequest := func() (*http.Request, error) {
		var req *http.Request
		var err error
		if body != nil {
			req, err = http.NewRequest(method, u, bytes.NewReader(body))
		} else {
			req, err = http.NewRequest(method, u, nil)
		}
		if err != nil {
			return nil, err
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("X-Request-ID", requestID)
		return req, nil
	}

	log.Printf("DEBUG: %s %s (request %s)", method, u, requestID)
	resp, err := doRequestWithResilience(ctx, c.httpCfg, c.breakers[path], buildRequest)
	if err != nil {
		log.Printf("ERROR: %s %s failed (request %s): %v", method, u, requestID, err)
		return nil, err
	}
	return resp, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
