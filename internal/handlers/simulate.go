package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	perrors "github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"

	"github.com/dpup/routesim/server/internal/lib/export"
	"github.com/dpup/routesim/server/internal/lib/simulation"
	"github.com/dpup/routesim/server/internal/services"
)

// Client facing messages. These match what the existing mobile client expects.
const (
	msgRequiredParams = "Parâmetros origin, destination, e speedKmh são obrigatórios."
	msgInvalidSpeed   = "O parâmetro speedKmh deve ser um número positivo."
	msgInvalidBody    = "Corpo da requisição inválido."
	msgInvalidFormat  = "Formato de saída não suportado."
	msgInvalidStart   = "Parâmetro startTime inválido, use RFC 3339."
	msgMethod         = "Método não permitido, use POST."
	msgNoRoute        = "Nenhuma rota encontrada."
	msgInternal       = "Ocorreu um erro ao processar a rota."
)

const maxBodyBytes = 1 << 20

// Simulator runs a route simulation
type Simulator interface {
	Simulate(ctx context.Context, req services.SimulateRequest) (*simulation.Result, error)
}

// SimulateHandler serves POST /simulate-route
type SimulateHandler struct {
	simulator Simulator
}

// NewSimulateHandler creates a new SimulateHandler
func NewSimulateHandler(simulator Simulator) *SimulateHandler {
	return &SimulateHandler{simulator: simulator}
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *SimulateHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	ctx := logging.EnsureLogger(r.Context())
	ctx = logging.With(ctx, logging.FromContext(ctx).With("request_id", requestID))
	w.Header().Set("X-Request-Id", requestID)

	defer func() {
		if rec := recover(); rec != nil {
			stack, _ := perrors.ParseStack(debug.Stack())
			logging.Errorw(ctx, "Simulate route: recovered from panic",
				"error", rec, "error.stack_trace", stack.MinimalStack(3, 5))
			writeError(ctx, w, http.StatusInternalServerError, msgInternal)
		}
	}()

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(ctx, w, http.StatusMethodNotAllowed, msgMethod)
		return
	}

	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(ctx, w, http.StatusBadRequest, msgInvalidFormat)
		return
	}

	start := time.Unix(0, 0).UTC()
	if s := r.URL.Query().Get("startTime"); s != "" {
		start, err = time.Parse(time.RFC3339, s)
		if err != nil {
			writeError(ctx, w, http.StatusBadRequest, msgInvalidStart)
			return
		}
	}

	var req services.SimulateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		logging.Infow(ctx, "Simulate route: invalid request body", "error", err)
		writeError(ctx, w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	result, err := h.simulator.Simulate(ctx, req)
	if err != nil {
		status, msg := classifyError(err)
		if status >= http.StatusInternalServerError {
			logging.Errorw(ctx, "Simulate route failed", "error", err)
		}
		writeError(ctx, w, status, msg)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	switch format {
	case export.FormatGeoJSON:
		err = json.NewEncoder(w).Encode(export.GeoJSON(result))
	case export.FormatKML:
		err = export.WriteKML(w, result, start)
	default:
		err = json.NewEncoder(w).Encode(result)
	}
	if err != nil {
		logging.Errorw(ctx, "Simulate route: failed to write response", "error", err)
	}
}

// classifyError maps a simulation failure to a status code and a client safe message
func classifyError(err error) (int, string) {
	var validationErr *services.ValidationError
	switch {
	case errors.As(err, &validationErr):
		if validationErr.Field == "speedKmh" && validationErr.Reason != services.ReasonRequired {
			return http.StatusBadRequest, msgInvalidSpeed
		}
		return http.StatusBadRequest, msgRequiredParams
	case errors.Is(err, services.ErrNoRouteFound):
		return http.StatusNotFound, msgNoRoute
	default:
		return http.StatusInternalServerError, msgInternal
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: msg}); err != nil {
		logging.Errorw(ctx, "Failed to write error response", "error", err)
	}
}
