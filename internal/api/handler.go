// Package api serves the session planner over HTTP JSON.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/trainhub/internal/agenda"
	"github.com/alexanderramin/trainhub/internal/catalog"
	"github.com/alexanderramin/trainhub/internal/domain"
	"github.com/alexanderramin/trainhub/internal/export"
	"github.com/alexanderramin/trainhub/internal/intelligence"
	"github.com/alexanderramin/trainhub/internal/llm"
	"github.com/alexanderramin/trainhub/internal/repository"
	"github.com/alexanderramin/trainhub/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Download names offered for exported documents.
const (
	planTextFilename = "session-plan.txt"
	calendarFilename = "training-session.ics"
	quizFilename     = "generated-quiz.txt"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	plans   service.PlanService
	quizzes service.QuizService
	advice  service.AdviceService
	catalog *catalog.Catalog
	logger  *zap.Logger
	// loc interprets calendar start dates given without an offset.
	loc *time.Location
}

// NewHandler creates a new API handler. A nil loc means time.Local.
func NewHandler(
	plans service.PlanService,
	quizzes service.QuizService,
	advice service.AdviceService,
	cat *catalog.Catalog,
	loc *time.Location,
	logger *zap.Logger,
) *Handler {
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		plans:   plans,
		quizzes: quizzes,
		advice:  advice,
		catalog: cat,
		logger:  logger.Named("api"),
		loc:     loc,
	}
}

// Router builds the chi router with all routes.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:     []string{"*"},
		AllowedMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:     []string{"Accept", "Content-Type"},
		ExposedHeaders:     []string{"Content-Disposition"},
		AllowCredentials:   false,
		OptionsPassthrough: false,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.healthCheck)

		r.Get("/activities", h.listActivities)
		r.Get("/activities/{id}", h.getActivity)

		r.Get("/tools", h.listTools)
		r.Get("/tools/{id}", h.getTool)
		r.Post("/tools/{id}/advice", h.askTool)

		r.Post("/plans", h.generatePlan)
		r.Get("/plans", h.listPlans)
		r.Route("/plans/{id}", func(r chi.Router) {
			r.Get("/", h.getPlan)
			r.Delete("/", h.deletePlan)
			r.Put("/", h.savePlan)
			r.Post("/regenerate", h.regeneratePlan)
			r.Post("/items", h.addItem)
			r.Delete("/items/{index}", h.removeItem)
			r.Put("/items/{index}/duration", h.setDuration)
			r.Post("/move", h.moveItem)
			r.Put("/title", h.renamePlan)
			r.Get("/export.txt", h.exportText)
			r.Get("/export.ics", h.exportCalendar)
		})

		r.Post("/quizzes", h.generateQuiz)
	})

	return r
}

func (h *Handler) healthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"activities": len(h.catalog.Activities()),
		"tools":      len(h.catalog.Tools()),
	})
}

// --- catalog ---

func (h *Handler) listActivities(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	activities := h.catalog.SearchActivities(catalog.ActivityFilter{
		Query:     q.Get("q"),
		Category:  domain.ActivityCategory(q.Get("category")),
		GroupSize: domain.GroupSize(q.Get("group")),
	})
	if activities == nil {
		activities = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

func (h *Handler) getActivity(w http.ResponseWriter, r *http.Request) {
	a, err := h.catalog.GetActivity(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (h *Handler) listTools(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	tools := h.catalog.SearchTools(q.Get("q"), domain.ToolCategory(q.Get("category")))
	if tools == nil {
		tools = []domain.Tool{}
	}
	writeJSON(w, http.StatusOK, tools)
}

type toolDetail struct {
	domain.Tool
	RelatedActivities []domain.Activity `json:"related_activities"`
}

func (h *Handler) getTool(w http.ResponseWriter, r *http.Request) {
	t, err := h.catalog.GetTool(chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	related := h.catalog.RelatedActivities(t.Name)
	if related == nil {
		related = []domain.Activity{}
	}
	writeJSON(w, http.StatusOK, toolDetail{Tool: *t, RelatedActivities: related})
}

type adviceRequest struct {
	Question string                  `json:"question"`
	History  []intelligence.ChatTurn `json:"history"`
}

type adviceResponse struct {
	Answer  string                  `json:"answer"`
	History []intelligence.ChatTurn `json:"history"`
}

func (h *Handler) askTool(w http.ResponseWriter, r *http.Request) {
	var req adviceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("question is required"))
		return
	}
	answer, history, err := h.advice.Ask(r.Context(), chi.URLParam(r, "id"), req.Question, req.History)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adviceResponse{Answer: answer, History: history})
}

// --- plans ---

type generateResponse struct {
	Plan               *domain.SessionPlan `json:"plan"`
	UnknownActivityIDs []string            `json:"unknown_activity_ids"`
}

func newGenerateResponse(res *service.GenerateResult) generateResponse {
	unknown := res.UnknownActivityIDs
	if unknown == nil {
		unknown = []string{}
	}
	return generateResponse{Plan: res.Plan, UnknownActivityIDs: unknown}
}

func (h *Handler) generatePlan(w http.ResponseWriter, r *http.Request) {
	var brief domain.PlanBrief
	if !decodeBody(w, r, &brief) {
		return
	}
	res, err := h.plans.Generate(r.Context(), brief)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newGenerateResponse(res))
}

func (h *Handler) regeneratePlan(w http.ResponseWriter, r *http.Request) {
	res, err := h.plans.Regenerate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newGenerateResponse(res))
}

type planListItem struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	TotalDuration int    `json:"total_duration"`
	ItemCount     int    `json:"item_count"`
	UpdatedAt     string `json:"updated_at"`
}

func (h *Handler) listPlans(w http.ResponseWriter, r *http.Request) {
	summaries, err := h.plans.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]planListItem, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, planListItem(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) getPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := h.plans.Get(r.Context(), chi.URLParam(r, "id"))
	h.writePlan(w, plan, err)
}

func (h *Handler) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := h.plans.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type savePlanRequest struct {
	Title  string              `json:"title"`
	Agenda []domain.AgendaItem `json:"agenda"`
}

func (h *Handler) savePlan(w http.ResponseWriter, r *http.Request) {
	var req savePlanRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := h.plans.Save(r.Context(), &domain.SessionPlan{
		ID:     chi.URLParam(r, "id"),
		Title:  req.Title,
		Agenda: req.Agenda,
	})
	h.writePlan(w, plan, err)
}

type addItemRequest struct {
	ActivityID string `json:"activity_id"`
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.ActivityID == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("activity_id is required"))
		return
	}
	plan, err := h.plans.AddActivity(r.Context(), chi.URLParam(r, "id"), req.ActivityID)
	h.writePlan(w, plan, err)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	plan, err := h.plans.RemoveActivity(r.Context(), chi.URLParam(r, "id"), index)
	h.writePlan(w, plan, err)
}

type moveRequest struct {
	From *int `json:"from"`
	To   *int `json:"to"`
}

func (h *Handler) moveItem(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.From == nil || req.To == nil {
		writeJSON(w, http.StatusBadRequest, errorBody("from and to are required"))
		return
	}
	plan, err := h.plans.MoveActivity(r.Context(), chi.URLParam(r, "id"), *req.From, *req.To)
	h.writePlan(w, plan, err)
}

// durationRequest accepts a number or the raw text of a number field.
type durationRequest struct {
	Duration json.RawMessage `json:"duration"`
}

func (h *Handler) setDuration(w http.ResponseWriter, r *http.Request) {
	index, ok := indexParam(w, r)
	if !ok {
		return
	}
	var req durationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	raw := string(req.Duration)
	var text string
	if err := json.Unmarshal(req.Duration, &text); err == nil {
		raw = text
	}
	plan, err := h.plans.SetDuration(r.Context(), chi.URLParam(r, "id"), index, raw)
	h.writePlan(w, plan, err)
}

type renameRequest struct {
	Title string `json:"title"`
}

func (h *Handler) renamePlan(w http.ResponseWriter, r *http.Request) {
	var req renameRequest
	if !decodeBody(w, r, &req) {
		return
	}
	plan, err := h.plans.Rename(r.Context(), chi.URLParam(r, "id"), req.Title)
	h.writePlan(w, plan, err)
}

func (h *Handler) exportText(w http.ResponseWriter, r *http.Request) {
	text, err := h.plans.ExportText(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeDownload(w, "text/plain; charset=utf-8", planTextFilename, text)
}

func (h *Handler) exportCalendar(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	start, err := export.ParseSessionStart(q.Get("date"), q.Get("time"), h.loc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	ics, err := h.plans.ExportCalendar(r.Context(), chi.URLParam(r, "id"), start)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeDownload(w, "text/calendar; charset=utf-8", calendarFilename, ics)
}

// --- quizzes ---

type quizResponse struct {
	Questions []domain.QuizQuestion `json:"questions"`
}

func (h *Handler) generateQuiz(w http.ResponseWriter, r *http.Request) {
	var req domain.QuizRequest
	if !decodeBody(w, r, &req) {
		return
	}
	questions, err := h.quizzes.Generate(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if r.URL.Query().Get("format") == "text" {
		writeDownload(w, "text/plain; charset=utf-8", quizFilename, export.QuizText(export.DefaultQuizHeading, questions))
		return
	}
	writeJSON(w, http.StatusOK, quizResponse{Questions: questions})
}

// --- helpers ---

func (h *Handler) writePlan(w http.ResponseWriter, plan *domain.SessionPlan, err error) {
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Warn("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, errorBody(err.Error()))
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, catalog.ErrActivityNotFound),
		errors.Is(err, catalog.ErrToolNotFound):
		return http.StatusNotFound
	case errors.Is(err, repository.ErrAmbiguousID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidBrief),
		errors.Is(err, intelligence.ErrInvalidQuiz),
		errors.Is(err, agenda.ErrInvalidIndex),
		errors.Is(err, export.ErrInvalidStart),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrNoBrief):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrGeneratorUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, intelligence.ErrPlanGeneration),
		errors.Is(err, intelligence.ErrQuizGeneration),
		errors.Is(err, intelligence.ErrToolAdvice),
		errors.Is(err, llm.ErrTimeout),
		errors.Is(err, llm.ErrOllamaUnavailable),
		errors.Is(err, llm.ErrRetryExhausted):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func indexParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("index must be an integer"))
		return 0, false
	}
	return index, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body: "+err.Error()))
		return false
	}
	return true
}

func errorBody(msg string) map[string]string {
	return map[string]string{"error": msg}
}

func writeDownload(w http.ResponseWriter, contentType, filename, body string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
