package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/iwvelando/solar-viability/internal/analysis"
	"github.com/iwvelando/solar-viability/internal/config"
	"github.com/iwvelando/solar-viability/internal/store"
	"github.com/iwvelando/solar-viability/pkg/constants"
	"github.com/iwvelando/solar-viability/pkg/export"
	"github.com/iwvelando/solar-viability/pkg/irradiance"
	"github.com/iwvelando/solar-viability/pkg/output"
	"github.com/iwvelando/solar-viability/pkg/validation"
	"github.com/iwvelando/solar-viability/pkg/viability"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

type handler struct {
	logger        *zap.Logger
	store         store.Store
	engine        *analysis.Engine
	maxUploadSize int64
	version       string
	now           func() time.Time
}

// Options configures NewHandler.
type Options struct {
	MaxUploadSize  int64
	Version        string
	AllowedOrigins []string
	// SystemCostPerKWp feeds the technical simulation; <= 0 selects the default.
	SystemCostPerKWp float64
}

// NewHandler constructs the HTTP handler that serves the viability API.
func NewHandler(logger *zap.Logger, st store.Store, opts Options) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if st == nil {
		st = store.NewMemory()
	}

	maxUploadSize := opts.MaxUploadSize
	if maxUploadSize <= 0 {
		maxUploadSize = constants.DefaultMaxUploadSizeBytes
	}

	trimmedVersion := strings.TrimSpace(opts.Version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:        logger,
		store:         st,
		engine:        analysis.NewEngine(logger, opts.SystemCostPerKWp),
		maxUploadSize: maxUploadSize,
		version:       trimmedVersion,
		now:           time.Now,
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Route("/api", func(r chi.Router) {
		r.Route("/viability", func(r chi.Router) {
			r.Post("/", h.handleViability)
			r.Post("/upload", h.handleUpload)
			r.Post("/export", h.handleExport)
		})

		r.Route("/analyses", func(r chi.Router) {
			r.Get("/", h.handleListAnalyses)
			r.Post("/", h.handleCreateAnalysis)
			r.Get("/{id}", h.handleGetAnalysis)
			r.Delete("/{id}", h.handleDeleteAnalysis)
		})

		r.Get("/regions", h.handleRegions)
		r.Post("/config/export", h.handleConfigExport)
		r.Get("/version", h.handleVersion)
	})

	return r
}

func (h *handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("request served",
			zap.String("op", "server.request"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.String("requestId", middleware.GetReqID(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

type viabilityResponse struct {
	Report   analysis.Report `json:"report"`
	Warnings []string        `json:"warnings,omitempty"`
}

type uploadResponse struct {
	Reports  []analysis.Report `json:"reports"`
	CSV      string            `json:"csv"`
	Warnings []string          `json:"warnings,omitempty"`
	Duration string            `json:"duration"`
}

func (h *handler) handleViability(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleViability"

	project, ok := h.decodeProject(w, r, op)
	if !ok {
		return
	}

	report, ok := h.runProject(w, project, op)
	if !ok {
		return
	}

	h.writeJSON(w, http.StatusOK, viabilityResponse{
		Report:   report,
		Warnings: validation.ProjectWarnings(report.Name, report.Project),
	})
}

func (h *handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleUpload"

	start := time.Now()
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
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

	cfg, err := config.LoadConfigurationFromReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}
	warnings := cfg.ValidateConfiguration()

	results, err := analysis.GetAnalyses(h.logger, *cfg)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), fmt.Sprintf("failed to compute viability: %v", err), op)
		return
	}
	if results == nil {
		results = []analysis.Report{}
	}

	elapsed := time.Since(start)
	h.logger.Info("viability computed",
		zap.String("op", op),
		zap.Int("projects", len(results)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, uploadResponse{
		Reports:  results,
		CSV:      output.CsvString(results),
		Warnings: warnings,
		Duration: elapsed.String(),
	})
}

func (h *handler) handleExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleExport"

	project, ok := h.decodeProject(w, r, op)
	if !ok {
		return
	}

	report, ok := h.runProject(w, project, op)
	if !ok {
		return
	}

	doc := export.Build(report.Name, report.Metrics, h.now())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(report.Name)))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := export.Write(w, doc); err != nil {
		h.logger.Error("failed to write export", zap.String("op", op), zap.Error(err))
	}
}

func (h *handler) handleCreateAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCreateAnalysis"

	project, ok := h.decodeProject(w, r, op)
	if !ok {
		return
	}

	report, ok := h.runProject(w, project, op)
	if !ok {
		return
	}

	rec := store.NewRecord(report.Name, report.Project, report.Metrics, h.now())
	if err := h.store.Save(r.Context(), rec); err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save analysis: %v", err), op)
		return
	}

	h.logger.Info("analysis saved",
		zap.String("op", op),
		zap.String("id", rec.ID.String()),
		zap.String("name", rec.Name),
	)
	h.writeJSON(w, http.StatusCreated, rec)
}

func (h *handler) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleListAnalyses"

	summaries, err := h.store.List(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list analyses: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, summaries)
}

func (h *handler) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetAnalysis"

	id, ok := h.parseID(w, r, op)
	if !ok {
		return
	}

	rec, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), op)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

func (h *handler) handleDeleteAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteAnalysis"

	id, ok := h.parseID(w, r, op)
	if !ok {
		return
	}

	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleRegions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, irradiance.Regions())
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

func (h *handler) handleConfigExport(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleConfigExport"

	var payload map[string]interface{}
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.respondDecodeError(w, err, "configuration", op)
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

func (h *handler) decodeProject(w http.ResponseWriter, r *http.Request, op string) (viability.ProjectData, bool) {
	var project viability.ProjectData
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&project); err != nil {
		h.respondDecodeError(w, err, "project", op)
		return viability.ProjectData{}, false
	}
	return project, true
}

func (h *handler) respondDecodeError(w http.ResponseWriter, err error, what, op string) {
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("%s body exceeds limit of %d bytes", what, h.maxUploadSize), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode %s: %v", what, err), op)
}

func (h *handler) runProject(w http.ResponseWriter, project viability.ProjectData, op string) (analysis.Report, bool) {
	report, err := h.engine.Run(project.Client.Name, project)
	if err != nil {
		h.respondErrorWithOp(w, statusForError(err), err.Error(), op)
		return analysis.Report{}, false
	}
	return report, true
}

func (h *handler) parseID(w http.ResponseWriter, r *http.Request, op string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("invalid analysis id %q", raw), op)
		return uuid.Nil, false
	}
	return id, true
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, viability.ErrInvalidProject):
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

func marshalOrderedConfigYAML(payload map[string]interface{}) ([]byte, error) {
	items := make([]orderedItem, 0, len(payload))
	seen := make(map[string]struct{})

	for _, key := range []string{"logging", "output", "defaults", "projects"} {
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

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	fields := []zap.Field{
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	}
	if status < http.StatusInternalServerError {
		h.logger.Warn("viability request rejected", fields...)
	} else {
		h.logger.Error("viability request failed", fields...)
	}

	h.writeJSON(w, status, map[string]string{"error": msg})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
