package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/freedom-forecast/internal/config"
	"github.com/iwvelando/freedom-forecast/internal/forecast"
	"github.com/iwvelando/freedom-forecast/internal/optimizer"
	"github.com/iwvelando/freedom-forecast/pkg/constants"
	"github.com/iwvelando/freedom-forecast/pkg/format"
	"github.com/iwvelando/freedom-forecast/pkg/output"
	"github.com/iwvelando/freedom-forecast/pkg/portfolio"
	"github.com/iwvelando/freedom-forecast/pkg/projection"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
	metricsPath   string
	now           func() time.Time
	metrics       *metrics
}

// Option customizes the handler built by NewHandler.
type Option func(*handler)

// WithMetricsPath serves the Prometheus metrics at path instead of the default.
func WithMetricsPath(path string) Option {
	return func(h *handler) {
		if strings.HasPrefix(path, "/") {
			h.metricsPath = path
		}
	}
}

// WithClock replaces the clock used to default the start year.
func WithClock(now func() time.Time) Option {
	return func(h *handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler constructs the HTTP handler that serves the projection API.
// The handler keeps no portfolio state: every request carries the full input
// snapshot and receives the derived result.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string, opts ...Option) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		metricsPath:   constants.DefaultMetricsPath,
		now:           time.Now,
		metrics:       newMetrics(),
	}
	for _, opt := range opts {
		opt(h)
	}

	mux := http.NewServeMux()

	// Engine endpoints
	mux.HandleFunc("/api/projection", h.metrics.instrument("projection", h.handleProjection))
	mux.HandleFunc("/api/portfolio/allocation", h.metrics.instrument("portfolio_allocation", h.handleAllocation))
	mux.HandleFunc("/api/portfolio/remove", h.metrics.instrument("portfolio_remove", h.handleRemove))
	mux.HandleFunc("/api/portfolio/upsert", h.metrics.instrument("portfolio_upsert", h.handleUpsert))
	mux.HandleFunc("/api/portfolio/recommended", h.metrics.instrument("portfolio_recommended", h.handleRecommended))

	// Forecast API endpoint (file upload)
	mux.HandleFunc("/api/forecast", h.metrics.instrument("forecast", h.handleForecast))

	// Config serialization endpoint for downloads
	mux.HandleFunc("/api/config/export", h.metrics.instrument("config_export", h.handleConfigExport))

	// Version endpoint for UI metadata
	mux.HandleFunc("/api/version", h.metrics.instrument("version", h.handleVersion))

	mux.Handle(h.metricsPath, h.metrics.handler())

	return mux
}

type projectionRequest struct {
	CurrentAsset        *float64          `json:"currentAsset"`
	TargetExpense       *float64          `json:"targetExpense"`
	MonthlyContribution *float64          `json:"monthlyContribution"`
	StartYear           int               `json:"startYear"`
	HorizonYears        int               `json:"horizonYears"`
	SelectedPeriod      string            `json:"selectedPeriod"`
	Portfolio           []portfolio.Entry `json:"portfolio"`
}

type projectionResponse struct {
	Portfolio       portfolio.State       `json:"portfolio"`
	AllocationTotal decimal.Decimal       `json:"allocationTotal"`
	Metrics         portfolio.Metrics     `json:"metrics"`
	Projection      projection.Projection `json:"projection"`
	PeriodLabels    []string              `json:"periodLabels"`
	Duration        string                `json:"duration"`
}

type portfolioResponse struct {
	Portfolio       portfolio.State   `json:"portfolio"`
	AllocationTotal decimal.Decimal   `json:"allocationTotal"`
	Metrics         portfolio.Metrics `json:"metrics"`
}

type allocationRequest struct {
	Portfolio     []portfolio.Entry `json:"portfolio"`
	Index         *int              `json:"index"`
	Ticker        string            `json:"ticker"`
	AllocationPct float64           `json:"allocationPct"`
}

type removeRequest struct {
	Portfolio []portfolio.Entry `json:"portfolio"`
	Index     *int              `json:"index"`
	Ticker    string            `json:"ticker"`
}

type upsertRequest struct {
	Portfolio []portfolio.Entry `json:"portfolio"`
	Entry     portfolio.Entry   `json:"entry"`
}

type recommendedResponse struct {
	CurrentAsset        float64           `json:"currentAsset"`
	TargetExpense       float64           `json:"targetExpense"`
	MonthlyContribution float64           `json:"monthlyContribution"`
	Portfolio           portfolio.State   `json:"portfolio"`
	Metrics             portfolio.Metrics `json:"metrics"`
}

type forecastResponse struct {
	Scenarios  []forecast.Forecast    `json:"scenarios"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

func (h *handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleProjection"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	var req projectionRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	state := portfolioOrRecommended(req.Portfolio)
	metrics := state.Metrics()
	inputs := projection.NewInputs(
		valueOr(req.CurrentAsset, constants.RecommendedCurrentAsset),
		valueOr(req.TargetExpense, constants.RecommendedTargetExpense),
		valueOr(req.MonthlyContribution, constants.RecommendedMonthlyContribution),
		metrics,
	)
	startYear := req.StartYear
	if startYear <= 0 {
		startYear = h.now().Year()
	}

	start := time.Now()
	result := projection.Project(inputs, projection.Options{
		StartYear:      startYear,
		Horizon:        req.HorizonYears,
		SelectedPeriod: req.SelectedPeriod,
	})
	elapsed := time.Since(start)
	h.metrics.observeProjection(result, elapsed)

	h.logger.Debug("projection computed",
		zap.String("op", op),
		zap.Int("startYear", startYear),
		zap.String("countdown", result.Summary.Countdown),
		zap.Int("samples", result.Series.Len()),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, projectionResponse{
		Portfolio:       state,
		AllocationTotal: state.AllocationTotal(),
		Metrics:         metrics,
		Projection:      result,
		PeriodLabels:    periodLabels(result.Series),
		Duration:        elapsed.String(),
	})
}

func (h *handler) handleAllocation(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAllocation"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	var req allocationRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	state := portfolio.NewState(req.Portfolio)
	index, err := resolveIndex(state, req.Index, req.Ticker)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writePortfolio(w, portfolio.ApplyAllocationChange(state, index, req.AllocationPct))
}

func (h *handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRemove"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	var req removeRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	state := portfolio.NewState(req.Portfolio)
	index, err := resolveIndex(state, req.Index, req.Ticker)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writePortfolio(w, portfolio.ApplyRemoval(state, index))
}

func (h *handler) handleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpsert"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	var req upsertRequest
	if !h.decodeJSON(w, r, &req, op) {
		return
	}

	next, err := portfolio.Upsert(portfolio.NewState(req.Portfolio), req.Entry)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	h.writePortfolio(w, next)
}

func (h *handler) handleRecommended(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRecommended"
	if r.Method != http.MethodGet {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	state := portfolio.Recommended()
	h.writeJSON(w, http.StatusOK, recommendedResponse{
		CurrentAsset:        constants.RecommendedCurrentAsset,
		TargetExpense:       constants.RecommendedTargetExpense,
		MonthlyContribution: constants.RecommendedMonthlyContribution,
		Portfolio:           state,
		Metrics:             state.Metrics(),
	})
}

func (h *handler) handleForecast(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleForecast"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	start := time.Now()
	if h.maxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	}
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, "missing configuration file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.logger.Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to read configuration: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	var optimizationResult *optimizer.Result
	if optimize, _ := strconv.ParseBool(strings.TrimSpace(r.FormValue("optimize"))); optimize {
		runner, err := optimizer.NewRunner(h.logger, cfg, h.now())
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to initialize optimizer: %v", err), op)
			return
		}
		optimizationResult, err = runner.Run()
		if err != nil {
			h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("optimizer execution failed: %v", err), op)
			return
		}
	}

	results, err := forecast.GetForecastWithFixedTime(h.logger, *cfg, h.now())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to compute forecast: %v", err), op)
		return
	}
	if optimizationResult != nil && !optimizationResult.Empty() {
		optimizationResult.Apply(results)
	}

	elapsed := time.Since(start)
	for _, result := range results {
		h.metrics.observeProjection(result.Projection, elapsed/time.Duration(len(results)))
	}

	response := forecastResponse{
		Scenarios:  results,
		CSV:        output.CsvString(results),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}
	if response.Scenarios == nil {
		response.Scenarios = []forecast.Forecast{}
	}

	h.logger.Info("forecast computed",
		zap.String("op", op),
		zap.Int("scenarios", len(results)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, response)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleVersion"
	if r.Method != http.MethodGet {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		h.respondErrorWithOp(w, http.StatusMethodNotAllowed, http.StatusText(http.StatusMethodNotAllowed), op)
		return
	}

	var payload map[string]interface{}
	if !h.decodeJSON(w, r, &payload, op) {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

// marshalOrderedConfigYAML writes the well-known sections first, in the order
// a config file lists them, and every other key after them alphabetically.
func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"common", "scenarios", "logging", "output"} {
		if value, ok := payload[key]; ok {
			items = append(items, orderedItem{key: key, value: value})
			seen[key] = struct{}{}
		}
	}

	remainingKeys := make([]string, 0, len(payload))
	for key := range payload {
		if _, already := seen[key]; already {
			continue
		}
		remainingKeys = append(remainingKeys, key)
	}
	sort.Strings(remainingKeys)
	for _, key := range remainingKeys {
		items = append(items, orderedItem{key: key, value: payload[key]})
	}

	return yaml.Marshal(orderedConfig{items: items})
}

type orderedConfig struct {
	items []orderedItem
}

type orderedItem struct {
	key   string
	value interface{}
}

func (o orderedConfig) MarshalYAML() (interface{}, error) {
	mapNode := &yaml.Node{
		Kind: yaml.MappingNode,
		Tag:  "!!map",
	}

	for _, item := range o.items {
		keyNode := &yaml.Node{
			Kind:  yaml.ScalarNode,
			Tag:   "!!str",
			Value: item.key,
		}
		valueNode := &yaml.Node{}
		if err := valueNode.Encode(item.value); err != nil {
			return nil, err
		}
		mapNode.Content = append(mapNode.Content, keyNode, valueNode)
	}

	return mapNode, nil
}

func decodeYAMLToMap(data []byte) (map[string]interface{}, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return make(map[string]interface{}), nil
	}

	var result map[string]interface{}
	if err := yaml.Unmarshal(trimmed, &result); err != nil {
		return nil, err
	}
	if result == nil {
		result = make(map[string]interface{})
	}
	return result, nil
}

// decodeJSON reads a JSON request body into dst. An empty body leaves dst
// untouched. It answers the request itself and returns false on failure.
func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}, op string) bool {
	body := http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	err := json.NewDecoder(body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}

	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request exceeds limit of %d bytes", h.maxUploadSize), op)
		return false
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
	return false
}

func (h *handler) writePortfolio(w http.ResponseWriter, state portfolio.State) {
	h.writeJSON(w, http.StatusOK, portfolioResponse{
		Portfolio:       state,
		AllocationTotal: state.AllocationTotal(),
		Metrics:         state.Metrics(),
	})
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before touching the response so an encoding
// failure can still be answered with a 500.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		h.logger.Error("failed to encode JSON response",
			zap.String("op", "server.writeJSON"),
			zap.Int("status", status),
			zap.Error(err),
		)
		buf.Reset()
		buf.WriteString(`{"error":"failed to encode response"}` + "\n")
		status = http.StatusInternalServerError
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// resolveIndex addresses an entry by ticker when one is given, otherwise by index.
func resolveIndex(state portfolio.State, index *int, ticker string) (int, error) {
	if strings.TrimSpace(ticker) != "" {
		if i := state.IndexOf(ticker); i >= 0 {
			return i, nil
		}
		return -1, fmt.Errorf("%w: ticker %s", portfolio.ErrIndexOutOfRange, ticker)
	}
	if index == nil || *index < 0 || *index >= state.Len() {
		return -1, portfolio.ErrIndexOutOfRange
	}
	return *index, nil
}

func portfolioOrRecommended(entries []portfolio.Entry) portfolio.State {
	if len(entries) == 0 {
		return portfolio.Recommended()
	}
	return portfolio.NewState(entries)
}

func valueOr(value *float64, fallback float64) float64 {
	if value == nil {
		return fallback
	}
	return *value
}

func periodLabels(series projection.Series) []string {
	halfYear := series.HalfYearMode()
	labels := make([]string, 0, series.Len())
	for _, sample := range series.Samples {
		labels = append(labels, format.PeriodLabel(sample.Period, halfYear))
	}
	return labels
}
