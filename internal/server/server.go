package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iwvelando/finance-analysis/internal/analysis"
	"github.com/iwvelando/finance-analysis/internal/config"
	"github.com/iwvelando/finance-analysis/pkg/constants"
	"github.com/iwvelando/finance-analysis/pkg/finance"
	"github.com/iwvelando/finance-analysis/pkg/investment"
	"github.com/iwvelando/finance-analysis/pkg/output"
	"github.com/iwvelando/finance-analysis/pkg/regression"
	"github.com/iwvelando/finance-analysis/pkg/seasonal"
	"github.com/iwvelando/finance-analysis/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// RequestIDHeader carries the identifier assigned to every request.
const RequestIDHeader = "X-Request-ID"

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ctxKey int

const loggerKey ctxKey = iota

type handler struct {
	logger        *zap.Logger
	maxUploadSize int64
	version       string
}

// NewHandler constructs the HTTP handler that serves the analysis API.
func NewHandler(logger *zap.Logger, maxUploadSize int64, version string) http.Handler {
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

	h := &handler{logger: logger, maxUploadSize: maxUploadSize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Full analysis of an uploaded YAML dataset
	mux.HandleFunc("/api/analysis", h.handleAnalysis)

	// Full analysis of an editor-built dataset
	mux.HandleFunc("/api/editor/analysis", h.handleAnalysisEditor)

	// Config serialization endpoint for editor downloads
	mux.HandleFunc("/api/editor/export", h.handleConfigExport)

	// Single project evaluation
	mux.HandleFunc("/api/investment", h.handleInvestment)

	// Trend fit and projection of a single line item
	mux.HandleFunc("/api/regression", h.handleRegression)

	// Seasonal distribution of an annual total
	mux.HandleFunc("/api/seasonal/distribute", h.handleSeasonalDistribute)

	// Workbook download of a full analysis
	mux.HandleFunc("/api/export/xlsx", h.handleXlsxExport)

	// Version endpoint for client metadata
	mux.HandleFunc("/api/version", h.handleVersion)

	return h.withRequestID(mux)
}

// withRequestID tags each request with an ID, echoed in the response header
// and attached to every log line of the request. A well-formed incoming ID
// is reused.
func (h *handler) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)

		logger := h.logger.With(zap.String("requestId", id))
		ctx := context.WithValue(r.Context(), loggerKey, logger)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) loggerFor(r *http.Request) *zap.Logger {
	if logger, ok := r.Context().Value(loggerKey).(*zap.Logger); ok {
		return logger
	}
	return h.logger
}

type analysisResponse struct {
	Report     analysis.Report        `json:"report"`
	CSV        string                 `json:"csv"`
	Warnings   []string               `json:"warnings,omitempty"`
	Duration   string                 `json:"duration"`
	Config     map[string]interface{} `json:"config,omitempty"`
	ConfigYAML string                 `json:"configYaml,omitempty"`
}

type investmentRequest struct {
	Name              string    `json:"name"`
	InitialInvestment float64   `json:"initialInvestment"`
	CashFlows         []float64 `json:"cashFlows"`
	DiscountRate      float64   `json:"discountRate"`
}

type regressionRequest struct {
	Historical   []finance.YearlyRecord `json:"historical"`
	Field        string                 `json:"field"`
	PeriodsAhead int                    `json:"periodsAhead"`
}

type regressionResponse struct {
	Field  finance.Field      `json:"field"`
	Fit    regression.Result  `json:"fit"`
	Points []regression.Point `json:"points"`
}

type seasonalRequest struct {
	Monthly     []finance.MonthlyRecord `json:"monthly"`
	AnnualTotal float64                 `json:"annualTotal"`
	Year        int                     `json:"year"`
}

type seasonalResponse struct {
	Index        seasonal.IndexResult  `json:"index"`
	Distribution seasonal.Distribution `json:"distribution"`
}

func (h *handler) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysis"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("upload exceeds limit of %d bytes", h.maxUploadSize), op)
			return
		}
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse upload: %v", err), op)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "missing dataset file", op)
		return
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			h.loggerFor(r).Warn("failed to close uploaded file",
				zap.String("op", op),
				zap.Error(closeErr),
			)
		}
	}()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to read dataset: %v", err), op)
		return
	}

	configBytes := buf.Bytes()
	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("error reading config data, %v", err), op)
		return
	}

	h.runAnalysis(w, r, configBytes, configMap, start, op)
}

func (h *handler) handleAnalysisEditor(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleAnalysisEditor"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	start := time.Now()
	configBytes, configMap, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}

	h.runAnalysis(w, r, configBytes, configMap, start, op)
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var payload map[string]interface{}
	if err := h.decodeJSON(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	yamlBytes, err := marshalOrderedConfigYAML(payload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"configYaml": string(yamlBytes),
	})
}

func (h *handler) handleInvestment(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleInvestment"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req investmentRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode project: %v", err), op)
		return
	}

	project := finance.InvestmentProject{
		Name:              req.Name,
		InitialInvestment: req.InitialInvestment,
		CashFlows:         req.CashFlows,
		DiscountRate:      req.DiscountRate,
	}
	if result := validation.ValidateProject(project); !result.Valid {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, result.Message, op)
		return
	}

	eval := investment.Evaluate(project)
	h.loggerFor(r).Info("investment evaluated",
		zap.String("op", op),
		zap.String("project", project.Name),
		zap.String("decision", string(eval.Decision)),
	)
	h.writeJSON(w, r, http.StatusOK, eval)
}

func (h *handler) handleRegression(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleRegression"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req regressionRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	field, err := finance.ParseField(req.Field)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	periods := req.PeriodsAhead
	if periods == 0 {
		periods = constants.DefaultYearsAhead
	}
	if periods < 1 || periods > constants.MaxYearsAhead {
		h.respondErrorWithOp(w, r, http.StatusBadRequest,
			fmt.Sprintf("periodsAhead must be between 1 and %d", constants.MaxYearsAhead), op)
		return
	}

	if result := validation.ValidateHistoricalDataset(req.Historical); !result.Valid {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, result.Message, op)
		return
	}

	points, fit := regression.ProjectWithFit(req.Historical, field, periods)
	h.loggerFor(r).Info("trend projected",
		zap.String("op", op),
		zap.String("field", string(field)),
		zap.Int("periods", periods),
		zap.Float64("rSquared", fit.RSquared),
	)
	h.writeJSON(w, r, http.StatusOK, regressionResponse{Field: field, Fit: fit, Points: points})
}

func (h *handler) handleSeasonalDistribute(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSeasonalDistribute"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	var req seasonalRequest
	if err := h.decodeJSON(w, r, &req); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode request: %v", err), op)
		return
	}

	if result := validation.ValidateMonthlyDataset(req.Monthly); !result.Valid {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, result.Message, op)
		return
	}
	if req.AnnualTotal <= 0 {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, "annual total must be a positive number", op)
		return
	}

	index, dist := seasonal.DistributeGoal(req.Monthly, req.AnnualTotal, req.Year)
	h.loggerFor(r).Info("seasonal distribution computed",
		zap.String("op", op),
		zap.Int("year", req.Year),
		zap.String("seasonality", string(index.Interpretation.Level)),
	)
	h.writeJSON(w, r, http.StatusOK, seasonalResponse{Index: index, Distribution: dist})
}

func (h *handler) handleXlsxExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleXlsxExport"
	if r.Method != http.MethodPost {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	configBytes, _, ok := h.decodeEditorConfig(w, r, op)
	if !ok {
		return
	}

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	report := analysis.GetAnalysis(h.loggerFor(r), *cfg)

	var buf bytes.Buffer
	if err := output.XlsxWrite(&buf, report); err != nil {
		h.respondErrorWithOp(w, r, http.StatusInternalServerError, fmt.Sprintf("failed to build workbook: %v", err), op)
		return
	}

	filename := filepath.Base(cfg.Output.File)
	if !strings.HasSuffix(strings.ToLower(filename), ".xlsx") {
		filename = constants.DefaultXLSXFile
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		h.loggerFor(r).Error("failed to write workbook", zap.String("op", op), zap.Error(err))
		return
	}

	h.loggerFor(r).Info("workbook exported",
		zap.String("op", op),
		zap.String("file", filename),
		zap.Int("projects", len(report.Projects)),
	)
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// decodeEditorConfig reads a JSON configuration, either bare or wrapped in
// a "config" key, and re-encodes it as YAML for the configuration loader.
func (h *handler) decodeEditorConfig(w http.ResponseWriter, r *http.Request, op string) ([]byte, map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := h.decodeJSON(w, r, &payload); err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to decode configuration: %v", err), op)
		return nil, nil, false
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}

	configPayload := payload
	if rawConfig, ok := payload["config"]; ok {
		cfgMap, ok := rawConfig.(map[string]interface{})
		if !ok {
			h.respondErrorWithOp(w, r, http.StatusBadRequest, "invalid config payload: expected object", op)
			return nil, nil, false
		}
		configPayload = cfgMap
	}

	configBytes, err := yaml.Marshal(configPayload)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to encode configuration: %v", err), op)
		return nil, nil, false
	}

	configMap, err := decodeYAMLToMap(configBytes)
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, fmt.Sprintf("failed to parse configuration: %v", err), op)
		return nil, nil, false
	}
	return configBytes, configMap, true
}

func (h *handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	return json.NewDecoder(r.Body).Decode(dst)
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "company", "projection", "historical", "monthly", "salesGoals", "projects"} {
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

func (h *handler) runAnalysis(w http.ResponseWriter, r *http.Request, configBytes []byte, configMap map[string]interface{}, start time.Time, op string) {
	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(configBytes))
	if err != nil {
		h.respondErrorWithOp(w, r, http.StatusBadRequest, err.Error(), op)
		return
	}

	warnings := cfg.ValidateConfiguration()
	report := analysis.GetAnalysis(h.loggerFor(r), *cfg)
	elapsed := time.Since(start)

	if configMap == nil {
		configMap = make(map[string]interface{})
	}

	response := analysisResponse{
		Report:     report,
		CSV:        output.CsvString(report),
		Warnings:   warnings,
		Duration:   elapsed.String(),
		Config:     configMap,
		ConfigYAML: string(configBytes),
	}

	projected := 0
	if report.Projection != nil {
		projected = len(report.Projection.Records)
	}
	h.loggerFor(r).Info("analysis computed",
		zap.String("op", op),
		zap.Bool("historicalValid", report.Historical.Valid),
		zap.Int("projectedYears", projected),
		zap.Int("projects", len(report.Projects)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, r, http.StatusOK, response)
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

func (h *handler) respondErrorWithOp(w http.ResponseWriter, r *http.Request, status int, msg string, op string) {
	h.loggerFor(r).Error("analysis request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, r, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFor(r).Error("failed to write JSON response", zap.Error(err))
	}
}
