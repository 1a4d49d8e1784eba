package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"infoseek-tracker/internal/domain"
	"infoseek-tracker/internal/domain/model"
	"infoseek-tracker/internal/infra/logging"
	"infoseek-tracker/internal/usecase"
)

type sessionRequest struct {
	APIKey string `json:"api_key"`
}

type searchRequest struct {
	Text string `json:"text"`
}

type resultResponse struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
	PDFURL    string `json:"pdf_url,omitempty"`
}

type jobResponse struct {
	ID           string           `json:"id"`
	Keyword      string           `json:"keyword"`
	ArticleCount int              `json:"article_count"`
	Status       string           `json:"status"`
	CreatedAt    time.Time        `json:"created_at"`
	ErrorMessage string           `json:"error_message,omitempty"`
	Results      []resultResponse `json:"results,omitempty"`
}

type historyResponse struct {
	Items     []jobResponse `json:"items"`
	Page      int           `json:"page"`
	PageCount int           `json:"page_count"`
	Total     int           `json:"total"`
}

type viewResponse struct {
	Current   *jobResponse    `json:"current,omitempty"`
	Active    []jobResponse   `json:"active"`
	History   historyResponse `json:"history"`
	LastError string          `json:"last_error,omitempty"`
}

func (s *Server) toJobResponse(j *model.Job) jobResponse {
	resp := jobResponse{
		ID:           j.ID,
		Keyword:      j.Keyword,
		ArticleCount: j.ArticleCount,
		Status:       string(j.Status),
		CreatedAt:    j.CreatedAt,
		ErrorMessage: j.ErrorMessage,
	}
	if j.Status == model.JobStatusFailed && resp.ErrorMessage == "" {
		resp.ErrorMessage = s.tr.T("job.failed_generic")
	}
	for _, res := range j.Results {
		resp.Results = append(resp.Results, resultResponse{
			ID:        res.ID,
			Title:     res.Title,
			SourceURL: res.SourceURL,
			PDFURL:    s.media.Resolve(res.PDFPath),
		})
	}
	return resp
}

func (s *Server) toViewResponse(snap usecase.ViewSnapshot) viewResponse {
	resp := viewResponse{
		Active:    make([]jobResponse, 0, len(snap.Active)),
		History:   s.toHistoryResponse(snap),
		LastError: snap.LastError,
	}
	if snap.Current != nil {
		cur := s.toJobResponse(snap.Current)
		resp.Current = &cur
	}
	for _, j := range snap.Active {
		resp.Active = append(resp.Active, s.toJobResponse(j))
	}
	return resp
}

func (s *Server) toHistoryResponse(snap usecase.ViewSnapshot) historyResponse {
	resp := historyResponse{
		Items:     make([]jobResponse, 0, len(snap.HistoryPage)),
		Page:      snap.Page,
		PageCount: snap.PageCount,
		Total:     snap.HistoryLen,
	}
	for _, j := range snap.HistoryPage {
		resp.Items = append(resp.Items, s.toJobResponse(j))
	}
	return resp
}

// sessionHandler exchanges the configured API key for a session token.
func (s *Server) sessionHandler(w http.ResponseWriter, r *http.Request) {
	if s.apiKey == "" {
		s.log.Error().Msg("API key is not configured")
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.APIKey != s.apiKey {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	token, err := s.auth.Mint(w)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to sign session token")
		http.Error(w, "Failed to create session", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

// searchHandler submits freeform input as a new search job.
func (s *Server) searchHandler(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	job, err := s.tracker.Submit(r.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyKeyword):
			http.Error(w, s.tr.T("error.empty_keyword"), http.StatusBadRequest)
		case errors.Is(err, domain.ErrSubmitFailed):
			logging.With(r.Context(), s.log).Error().Err(err).Msg("submission rejected by backend")
			http.Error(w, s.tr.T("error.submit_failed"), http.StatusBadGateway)
		default:
			logging.With(r.Context(), s.log).Error().Err(err).Msg("submission failed")
			http.Error(w, "Failed to submit search", http.StatusInternalServerError)
		}
		return
	}
	writeJSON(w, http.StatusAccepted, s.toJobResponse(job))
}

func (s *Server) viewHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toViewResponse(s.tracker.Snapshot()))
}

// historyHandler serves the current history page; ?page=N jumps first.
func (s *Server) historyHandler(w http.ResponseWriter, r *http.Request) {
	snap := s.tracker.Snapshot()
	if raw := r.URL.Query().Get("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "Invalid page number", http.StatusBadRequest)
			return
		}
		snap = s.tracker.SetPage(n)
	}
	writeJSON(w, http.StatusOK, s.toHistoryResponse(snap))
}

func (s *Server) historyNextHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toHistoryResponse(s.tracker.NextPage()))
}

func (s *Server) historyPrevHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.toHistoryResponse(s.tracker.PrevPage()))
}

func (s *Server) cancelHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}
	if err := s.tracker.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			http.Error(w, s.tr.T("error.job_not_found"), http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to cancel job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": s.tr.T("job.cancelled")})
}

func (s *Server) dismissHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		http.Error(w, "Job ID is required", http.StatusBadRequest)
		return
	}
	if err := s.tracker.Dismiss(r.Context(), id); err != nil {
		s.log.Error().Str("job_id", id).Err(err).Msg("dismissal failed")
		http.Error(w, "Failed to dismiss job", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": s.tr.T("job.dismissed")})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
