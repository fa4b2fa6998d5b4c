package httpserver

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/fairyhunter13/resume-ai-evaluator/internal/domain"
	"github.com/fairyhunter13/resume-ai-evaluator/internal/usecase"
)

// Server bundles the usecase services behind HTTP handlers.
type Server struct {
	Uploads        usecase.UploadService
	Results        usecase.ResultService
	MaxUploadBytes int64
	MaxFiles       int

	DBCheck    Check
	RedisCheck Check
	TikaCheck  Check
}

// NewServer constructs the handler set.
func NewServer(uploads usecase.UploadService, results usecase.ResultService, maxUploadMB, maxFiles int, dbCheck, redisCheck, tikaCheck Check) *Server {
	return &Server{
		Uploads:        uploads,
		Results:        results,
		MaxUploadBytes: int64(maxUploadMB) << 20,
		MaxFiles:       maxFiles,
		DBCheck:        dbCheck,
		RedisCheck:     redisCheck,
		TikaCheck:      tikaCheck,
	}
}

type candidateView struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	Status           string    `json:"status"`
	FitScore         *float64  `json:"fit_score"`
	Recommendation   *string   `json:"recommendation"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func toCandidateView(c domain.Candidate) candidateView {
	return candidateView{
		ID:               c.ID,
		OriginalFilename: c.OriginalFilename,
		Status:           string(c.Status),
		FitScore:         c.FitScore,
		Recommendation:   c.Recommendation,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

type uploadResponse struct {
	Candidates []candidateView `json:"candidates"`
}

// UploadHandler accepts a multipart form with one or more PDF files
// under the "files" field. Each accepted file becomes a PENDING
// candidate with a processing task enqueued.
//
//	POST /v1/candidates/upload
func (s *Server) UploadHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// +1MB headroom for multipart framing.
		limit := s.MaxUploadBytes*int64(s.MaxFiles) + (1 << 20)
		r.Body = http.MaxBytesReader(w, r.Body, limit)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, r, fmt.Errorf("%w: invalid multipart form", domain.ErrInvalidArgument), nil)
			return
		}
		files := r.MultipartForm.File["files"]
		if len(files) == 0 {
			writeError(w, r, fmt.Errorf("%w: no files provided", domain.ErrInvalidArgument), nil)
			return
		}
		if len(files) > s.MaxFiles {
			writeError(w, r, fmt.Errorf("%w: too many files (max %d)", domain.ErrInvalidArgument, s.MaxFiles), nil)
			return
		}
		out := make([]candidateView, 0, len(files))
		for _, fh := range files {
			if fh.Size > s.MaxUploadBytes {
				writeError(w, r, fmt.Errorf("%w: file %q exceeds size limit", domain.ErrInvalidArgument, fh.Filename), nil)
				return
			}
			f, err := fh.Open()
			if err != nil {
				writeError(w, r, fmt.Errorf("open upload: %w", err), nil)
				return
			}
			data, err := io.ReadAll(io.LimitReader(f, s.MaxUploadBytes+1))
			_ = f.Close()
			if err != nil {
				writeError(w, r, fmt.Errorf("read upload: %w", err), nil)
				return
			}
			if int64(len(data)) > s.MaxUploadBytes {
				writeError(w, r, fmt.Errorf("%w: file %q exceeds size limit", domain.ErrInvalidArgument, fh.Filename), nil)
				return
			}
			cand, err := s.Uploads.Ingest(r.Context(), fh.Filename, data)
			if err != nil {
				writeError(w, r, err, map[string]string{"filename": fh.Filename})
				return
			}
			out = append(out, toCandidateView(cand))
		}
		writeJSON(w, http.StatusAccepted, uploadResponse{Candidates: out})
	}
}

// ListHandler returns all candidates, newest first.
//
//	GET /v1/candidates
func (s *Server) ListHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cands, err := s.Results.List(r.Context())
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		out := make([]candidateView, 0, len(cands))
		for _, c := range cands {
			out = append(out, toCandidateView(c))
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"candidates": out})
	}
}

// StatusHandler returns the candidate row only, cheap enough to poll.
//
//	GET /v1/candidates/{id}/status
func (s *Server) StatusHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		cand, err := s.Results.Status(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, toCandidateView(cand))
	}
}

type resultView struct {
	candidateView
	RawText     *string                   `json:"raw_text"`
	Structured  *domain.StructuredProfile `json:"structured"`
	Strengths   []string                  `json:"strengths"`
	Weaknesses  []string                  `json:"weaknesses"`
	SummaryText *string                   `json:"summary_text"`
	ErrorLog    *string                   `json:"error_log"`
}

// ResultHandler returns the candidate with extraction and evaluation
// payloads when they exist.
//
//	GET /v1/candidates/{id}/result
func (s *Server) ResultHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		res, err := s.Results.Result(r.Context(), id)
		if err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusOK, resultView{
			candidateView: toCandidateView(res.Candidate),
			RawText:       res.RawText,
			Structured:    res.Structured,
			Strengths:     res.Strengths,
			Weaknesses:    res.Weaknesses,
			SummaryText:   res.SummaryText,
			ErrorLog:      res.ErrorLog,
		})
	}
}

// ReevaluateHandler re-runs the full pipeline for a candidate.
//
//	POST /v1/candidates/{id}/re-evaluate
func (s *Server) ReevaluateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := s.Results.Reevaluate(r.Context(), id); err != nil {
			writeError(w, r, err, nil)
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]string{"id": id, "status": string(domain.StatusPending)})
	}
}
