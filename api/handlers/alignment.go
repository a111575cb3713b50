// Package handlers implements the protmatch REST endpoints.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/aria-lang/protmatch-go/internal/alignment"
	"github.com/aria-lang/protmatch-go/internal/config"
	"github.com/aria-lang/protmatch-go/internal/metrics"
	"github.com/aria-lang/protmatch-go/internal/sequence"
)

// Limits bounds the work a single request may ask for.
type Limits struct {
	MaxCandidates     int
	MaxSequenceLength int
	MaxBodyBytes      int64
}

// LimitsFrom copies the request limits out of the server config.
func LimitsFrom(s config.Server) Limits {
	return Limits{
		MaxCandidates:     s.MaxCandidates,
		MaxSequenceLength: s.MaxSequenceLength,
		MaxBodyBytes:      s.MaxBodyBytes,
	}
}

// Handler serves alignment requests against one penalty table.
type Handler struct {
	table   *alignment.PenaltyTable
	logger  *log.Logger
	workers int
	limits  Limits
}

// New creates a Handler. A nil table selects BLOSUM62, and zero limits take
// the config defaults.
func New(table *alignment.PenaltyTable, logger *log.Logger, workers int, limits Limits) *Handler {
	if table == nil {
		table = alignment.BLOSUM62()
	}
	def := LimitsFrom(config.Default().Server)
	if limits.MaxCandidates <= 0 {
		limits.MaxCandidates = def.MaxCandidates
	}
	if limits.MaxSequenceLength <= 0 {
		limits.MaxSequenceLength = def.MaxSequenceLength
	}
	if limits.MaxBodyBytes <= 0 {
		limits.MaxBodyBytes = def.MaxBodyBytes
	}
	return &Handler{
		table:   table,
		logger:  logger,
		workers: workers,
		limits:  limits,
	}
}

// Routes mounts the alignment and matrix endpoints on r.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/alignment", func(r chi.Router) {
		r.Post("/local", h.LocalAlign)
		r.Post("/score", h.Score)
		r.Post("/best", h.BestMatch)
		r.Post("/scan", h.Scan)
	})
	r.Get("/matrix", h.Matrix)
}

// AlignmentRequest represents a pairwise alignment request.
type AlignmentRequest struct {
	Sequence1 string `json:"sequence1"`
	Sequence2 string `json:"sequence2"`
}

// AlignmentResponse represents one local alignment.
type AlignmentResponse struct {
	AlignedSeq1 string  `json:"aligned_seq1"`
	AlignedSeq2 string  `json:"aligned_seq2"`
	Score       int     `json:"score"`
	Identity    float64 `json:"identity"`
	CIGAR       string  `json:"cigar"`
	Matches     int     `json:"matches"`
	Mismatches  int     `json:"mismatches"`
	Gaps        int     `json:"gaps"`
	GapOpenings int     `json:"gap_openings"`
	Start1      int     `json:"start1"`
	End1        int     `json:"end1"`
	Start2      int     `json:"start2"`
	End2        int     `json:"end2"`
}

func newAlignmentResponse(a *alignment.Alignment) AlignmentResponse {
	return AlignmentResponse{
		AlignedSeq1: a.AlignedSeq1,
		AlignedSeq2: a.AlignedSeq2,
		Score:       a.Score,
		Identity:    a.Identity,
		CIGAR:       a.ToCIGAR(),
		Matches:     a.MatchCount(),
		Mismatches:  a.MismatchCount(),
		Gaps:        a.TotalGaps(),
		GapOpenings: a.GapOpenings(),
		Start1:      a.Start1,
		End1:        a.End1,
		Start2:      a.Start2,
		End2:        a.End2,
	}
}

// ScoreResponse represents the response for alignment score.
type ScoreResponse struct {
	Score int `json:"score"`
}

// CandidateRequest is one record of a best-match or scan request.
type CandidateRequest struct {
	Description string `json:"description"`
	Sequence    string `json:"sequence"`
}

// BestMatchRequest asks for the candidate that aligns best to Query.
type BestMatchRequest struct {
	Query      string             `json:"query"`
	Candidates []CandidateRequest `json:"candidates"`
}

// BestMatchResponse describes the winning candidate.
type BestMatchResponse struct {
	Index       int               `json:"index"`
	ID          string            `json:"id"`
	Description string            `json:"description"`
	Alignment   AlignmentResponse `json:"alignment"`
}

// ScanResult is the score of one candidate in a scan.
type ScanResult struct {
	Index       int    `json:"index"`
	Description string `json:"description"`
	Score       int    `json:"score"`
}

// MatrixResponse summarises the active penalty table.
type MatrixResponse struct {
	Gap      string `json:"gap"`
	Alphabet string `json:"alphabet"`
	Pairs    int    `json:"pairs"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// requestError carries the status a failed request should answer with.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...interface{}) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

// finish writes the error response for err, if any, and records metrics.
func (h *Handler) finish(w http.ResponseWriter, endpoint string, start time.Time, err error) {
	if err == nil {
		metrics.ObserveRequest(endpoint, metrics.ResultOK, time.Since(start))
		return
	}

	var (
		reqErr   *requestError
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &reqErr):
		metrics.ObserveRequest(endpoint, metrics.ResultRejected, time.Since(start))
		writeError(w, reqErr.status, reqErr.msg)
	case errors.As(err, &tooLarge):
		metrics.ObserveRequest(endpoint, metrics.ResultRejected, time.Since(start))
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, alignment.ErrUnknownSymbol), errors.Is(err, alignment.ErrEmptyCandidateSet):
		metrics.ObserveRequest(endpoint, metrics.ResultRejected, time.Since(start))
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		metrics.ObserveRequest(endpoint, metrics.ResultError, time.Since(start))
		h.logger.Error("alignment failed", "endpoint", endpoint, "err", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

// residues normalises s and checks its length and every residue against
// the table.
func (h *Handler) residues(field, s string) (string, error) {
	s = sequence.Normalize(s)
	if len(s) > h.limits.MaxSequenceLength {
		return "", badRequest("%s: sequence too long: %d residues (limit %d)",
			field, len(s), h.limits.MaxSequenceLength)
	}
	if err := sequence.Validate(s, h.table); err != nil {
		return "", badRequest("%s: %v", field, err)
	}
	return s, nil
}

// decode reads the JSON body of r into v, reading at most MaxBodyBytes.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v interface{}) error {
	body := http.MaxBytesReader(w, r.Body, h.limits.MaxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return badRequest("invalid request body")
	}
	return nil
}

func (h *Handler) decodePair(w http.ResponseWriter, r *http.Request) (string, string, error) {
	var req AlignmentRequest
	if err := h.decode(w, r, &req); err != nil {
		return "", "", err
	}
	seq1, err := h.residues("sequence1", req.Sequence1)
	if err != nil {
		return "", "", err
	}
	seq2, err := h.residues("sequence2", req.Sequence2)
	if err != nil {
		return "", "", err
	}
	return seq1, seq2, nil
}

func (h *Handler) decodeCandidates(w http.ResponseWriter, r *http.Request) (string, []*sequence.Record, error) {
	var req BestMatchRequest
	if err := h.decode(w, r, &req); err != nil {
		return "", nil, err
	}
	if len(req.Candidates) > h.limits.MaxCandidates {
		return "", nil, badRequest("too many candidates: %d (limit %d)",
			len(req.Candidates), h.limits.MaxCandidates)
	}

	query, err := h.residues("query", req.Query)
	if err != nil {
		return "", nil, err
	}

	candidates := make([]*sequence.Record, len(req.Candidates))
	for i, c := range req.Candidates {
		seq, err := h.residues(fmt.Sprintf("candidates[%d]", i), c.Sequence)
		if err != nil {
			return "", nil, err
		}
		candidates[i] = &sequence.Record{Description: c.Description, Sequence: seq}
	}
	return query, candidates, nil
}

// LocalAlign handles POST /api/alignment/local.
func (h *Handler) LocalAlign(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := func() error {
		seq1, seq2, err := h.decodePair(w, r)
		if err != nil {
			return err
		}
		a, err := alignment.LocalAlign(seq1, seq2, h.table)
		if err != nil {
			return err
		}
		metrics.AddCells(len(seq1), len(seq2))
		writeJSON(w, http.StatusOK, newAlignmentResponse(a))
		return nil
	}()
	h.finish(w, "local", start, err)
}

// Score handles POST /api/alignment/score.
func (h *Handler) Score(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := func() error {
		seq1, seq2, err := h.decodePair(w, r)
		if err != nil {
			return err
		}
		score, err := alignment.AlignmentScoreOnly(seq1, seq2, h.table)
		if err != nil {
			return err
		}
		metrics.AddCells(len(seq1), len(seq2))
		writeJSON(w, http.StatusOK, ScoreResponse{Score: score})
		return nil
	}()
	h.finish(w, "score", start, err)
}

// BestMatch handles POST /api/alignment/best.
func (h *Handler) BestMatch(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := func() error {
		query, candidates, err := h.decodeCandidates(w, r)
		if err != nil {
			return err
		}

		selector := &alignment.Selector{
			Table:   h.table,
			Workers: h.workers,
			Progress: func(_ int, rec *sequence.Record, _ int) {
				metrics.CandidateScanned()
				metrics.AddCells(len(query), rec.Len())
			},
		}
		m, err := selector.Select(r.Context(), query, candidates)
		if err != nil {
			return err
		}

		h.logger.Debug("best match", "candidates", len(candidates), "index", m.Index, "score", m.Alignment.Score)
		writeJSON(w, http.StatusOK, BestMatchResponse{
			Index:       m.Index,
			ID:          m.Record.ID(),
			Description: m.Record.Description,
			Alignment:   newAlignmentResponse(m.Alignment),
		})
		return nil
	}()
	h.finish(w, "best", start, err)
}

// Scan handles POST /api/alignment/scan, returning every candidate's score
// in request order.
func (h *Handler) Scan(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	err := func() error {
		query, candidates, err := h.decodeCandidates(w, r)
		if err != nil {
			return err
		}
		results, err := alignment.AlignAgainstMultiple(query, candidates, h.table)
		if err != nil {
			return err
		}

		out := make([]ScanResult, len(results))
		for i, res := range results {
			metrics.CandidateScanned()
			metrics.AddCells(len(query), candidates[res.Index].Len())
			out[i] = ScanResult{
				Index:       res.Index,
				Description: candidates[res.Index].Description,
				Score:       res.Alignment.Score,
			}
		}
		writeJSON(w, http.StatusOK, out)
		return nil
	}()
	h.finish(w, "scan", start, err)
}

// Matrix handles GET /api/matrix.
func (h *Handler) Matrix(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MatrixResponse{
		Gap:      string(alignment.Gap),
		Alphabet: string(h.table.Alphabet()),
		Pairs:    h.table.Len(),
	})
}
