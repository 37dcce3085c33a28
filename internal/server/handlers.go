package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/jonathan/jobfiltr/internal/companies"
	"github.com/jonathan/jobfiltr/internal/db"
	"github.com/jonathan/jobfiltr/internal/engine"
	"github.com/jonathan/jobfiltr/internal/filters"
	"github.com/jonathan/jobfiltr/internal/schemas"
	"github.com/jonathan/jobfiltr/internal/types"
)

// AnalyzeResult is one posting's decision in a POST /analyze response.
type AnalyzeResult struct {
	engine.Outcome
	Error string `json:"error,omitempty"`
}

// AnalyzeResponse is the body of a POST /analyze response.
type AnalyzeResponse struct {
	Results []AnalyzeResult   `json:"results"`
	Stats   types.FilterStats `json:"stats"`
}

// ListResponse describes one configured list.
type ListResponse struct {
	List      types.KeywordList `json:"list"`
	Values    []string          `json:"values"`
	Count     int               `json:"count"`
	Limit     int               `json:"limit"`
	IsPro     bool              `json:"is_pro"`
	MatchMode types.MatchMode   `json:"match_mode,omitempty"`
}

type listValueRequest struct {
	Value string `json:"value"`
}

type matchModeRequest struct {
	MatchMode types.MatchMode `json:"match_mode"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readBatch reads and validates a posting batch from the request body.
func (s *Server) readBatch(w http.ResponseWriter, r *http.Request) (*types.PostingBatch, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, &ErrValidation{Field: "body", Message: err.Error()}
	}
	return schemas.ParsePostingBatch(data)
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	batch, err := s.readBatch(w, r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	outcomes, err := s.engine.Process(r.Context(), batch.Postings)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	resp := AnalyzeResponse{Results: make([]AnalyzeResult, len(outcomes)), Stats: s.engine.Stats()}
	for i, o := range outcomes {
		resp.Results[i] = AnalyzeResult{Outcome: o, Error: o.ErrText()}
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	batch, err := s.readBatch(w, r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	scores, err := s.scorer.ScoreBatch(r.Context(), batch.Postings, s.workers)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{"scores": scores})
}

func (s *Server) handleGetScore(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	score, err := s.scorer.Cached(r.Context(), id)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	if score == nil {
		s.errorFor(w, &ErrNotFound{Resource: "score", ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, score)
}

func (s *Server) handleStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.Stats())
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.engine.Refresh(r.Context()); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"status":   "refreshed",
		"settings": s.engine.Settings(),
	})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.engine.Settings())
}

// pathList resolves the {list} path segment.
func pathList(r *http.Request) (types.KeywordList, error) {
	list := types.KeywordList(r.PathValue("list"))
	if !list.Valid() {
		return "", &ErrNotFound{Resource: "list", ID: string(list)}
	}
	return list, nil
}

func (s *Server) listResponse(list types.KeywordList) ListResponse {
	switch list {
	case types.ListIncludeKeywords:
		cfg := s.engine.IncludeKeywords().Config()
		limit := 0
		if cfg.IsPro {
			limit = filters.Unlimited
		}
		return ListResponse{List: list, Values: cfg.Keywords, Count: len(cfg.Keywords), Limit: limit, IsPro: cfg.IsPro, MatchMode: cfg.MatchMode}
	case types.ListExcludeKeywords:
		cfg := s.engine.ExcludeKeywords().Config()
		return ListResponse{List: list, Values: cfg.Values, Count: len(cfg.Values), Limit: cfg.Limit, IsPro: cfg.IsPro}
	default:
		cfg := s.engine.ExcludeCompanies().Config()
		return ListResponse{List: list, Values: cfg.Values, Count: len(cfg.Values), Limit: cfg.Limit, IsPro: cfg.IsPro}
	}
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := pathList(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.listResponse(list))
}

func (s *Server) handleAddToList(w http.ResponseWriter, r *http.Request) {
	list, err := pathList(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	var req listValueRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorFor(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}

	ctx := r.Context()
	switch list {
	case types.ListIncludeKeywords:
		err = s.engine.IncludeKeywords().AddKeyword(ctx, req.Value)
	case types.ListExcludeKeywords:
		err = s.engine.ExcludeKeywords().AddKeyword(ctx, req.Value)
	case types.ListExcludeCompanies:
		err = s.engine.ExcludeCompanies().AddCompany(ctx, req.Value)
	}
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.listResponse(list))
}

// handleRemoveFromList takes the value from the "value" query parameter.
func (s *Server) handleRemoveFromList(w http.ResponseWriter, r *http.Request) {
	list, err := pathList(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	value := r.URL.Query().Get("value")
	if strings.TrimSpace(value) == "" {
		s.errorFor(w, &ErrValidation{Field: "value", Message: "query parameter is required"})
		return
	}

	ctx := r.Context()
	switch list {
	case types.ListIncludeKeywords:
		err = s.engine.IncludeKeywords().RemoveKeyword(ctx, value)
	case types.ListExcludeKeywords:
		err = s.engine.ExcludeKeywords().RemoveKeyword(ctx, value)
	case types.ListExcludeCompanies:
		err = s.engine.ExcludeCompanies().RemoveCompany(ctx, value)
	}
	if err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.listResponse(list))
}

func (s *Server) handleSetMatchMode(w http.ResponseWriter, r *http.Request) {
	var req matchModeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.errorFor(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := s.engine.IncludeKeywords().SetMatchMode(r.Context(), req.MatchMode); err != nil {
		s.errorFor(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.listResponse(types.ListIncludeKeywords))
}

func (s *Server) handleReported(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if strings.TrimSpace(name) == "" {
		s.errorFor(w, &ErrValidation{Field: "name", Message: "query parameter is required"})
		return
	}
	s.jsonResponse(w, http.StatusOK, s.matcher.Match(name))
}

func (s *Server) handleReportedStats(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.matcher.Stats())
}

func (s *Server) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	if s.reports == nil {
		s.errorFor(w, &ErrUnavailable{Feature: "community reporting"})
		return
	}

	var report db.Report
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&report); err != nil {
		s.errorFor(w, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if err := report.Validate(); err != nil {
		s.errorFor(w, err)
		return
	}
	if companies.NormalizeName(report.CompanyName) == "" {
		s.errorFor(w, &ErrValidation{Field: "company_name", Message: "must contain letters or digits"})
		return
	}

	record, err := s.reports.ReportCompany(r.Context(), report)
	if err != nil {
		s.errorFor(w, fmt.Errorf("failed to record report: %w", err))
		return
	}
	if s.blocklist != nil {
		s.blocklist.Invalidate()
	}
	s.jsonResponse(w, http.StatusCreated, record)
}
