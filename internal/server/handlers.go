// SPDX-License-Identifier: MIT

package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/katalvlaran/rankreduce/internal/document"
	"github.com/katalvlaran/rankreduce/matrix"
	"github.com/katalvlaran/rankreduce/rankreduce"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errTooLarge    = errors.New("matrix dimension above server limit")
	errTimeout     = errors.New("decomposition did not finish in time")
)

type errorBody struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

type healthBody struct {
	OK   bool   `json:"ok"`
	Time string `json:"time"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, healthBody{OK: true, Time: time.Now().UTC().Format(time.RFC3339)})
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.writeError(w, r, http.StatusNotFound, fmt.Errorf("no route for %s %s", r.Method, r.URL.Path))
}

type outcome struct {
	b   *matrix.Dense
	st  rankreduce.State
	err error
}

// handleReduce decodes a document.Input, runs the requested decomposer and
// answers with a document.Result. Missing algorithm and rank fall back to the
// configured defaults.
func (s *Server) handleReduce(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBody())
	var in document.Input
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			s.writeError(w, r, http.StatusRequestEntityTooLarge, err)
			return
		}
		s.writeError(w, r, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	kind := s.cfg.Kind()
	if in.Algorithm != "" {
		k, err := rankreduce.ParseKind(in.Algorithm)
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, err)
			return
		}
		kind = k
	}
	rank := s.cfg.Rank
	if in.Rank != 0 {
		rank = in.Rank
	}

	c, warnings, err := in.Matrix()
	if err != nil {
		s.writeError(w, r, http.StatusBadRequest, err)
		return
	}
	if limit := s.cfg.Server.MaxDimension; limit > 0 && c.Rows() > limit {
		s.writeError(w, r, http.StatusRequestEntityTooLarge, fmt.Errorf("n=%d > %d: %w", c.Rows(), limit, errTooLarge))
		return
	}

	ctx := r.Context()
	if s.cfg.Server.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Server.RequestTimeout)
		defer cancel()
	}

	done := make(chan outcome, 1)
	d := s.decomposers[kind]
	s.metrics.InFlight.Inc()
	go func() {
		defer s.metrics.InFlight.Dec()
		start := time.Now()
		b, st, err := d.Create(c, rank)
		s.metrics.ObserveDecomposition(kind, st, time.Since(start), err)
		done <- outcome{b: b, st: st, err: err}
	}()

	var out outcome
	select {
	case out = <-done:
	case <-ctx.Done():
		s.writeError(w, r, http.StatusServiceUnavailable, errTimeout)
		return
	}
	switch {
	case errors.Is(out.err, rankreduce.ErrInvalidInput):
		s.writeError(w, r, http.StatusBadRequest, out.err)
		return
	case errors.Is(out.err, rankreduce.ErrNumericalFailure):
		s.writeError(w, r, http.StatusUnprocessableEntity, out.err)
		return
	case out.err != nil:
		s.writeError(w, r, http.StatusInternalServerError, out.err)
		return
	}

	res, err := document.NewResult(in.Name, kind, out.b, out.st, nil)
	if err != nil {
		s.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	res.ID = RequestID(r.Context())
	res.Warnings = warnings
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) maxBody() int64 {
	if s.cfg.Server.MaxBodyBytes > 0 {
		return s.cfg.Server.MaxBodyBytes
	}

	return 8 << 20
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, code int, err error) {
	id := RequestID(r.Context())
	lvl := zerolog.WarnLevel
	if code >= http.StatusInternalServerError {
		lvl = zerolog.ErrorLevel
	}
	s.log.WithLevel(lvl).Str("request_id", id).Int("status", code).Err(err).Msg("request failed")
	s.writeJSON(w, code, errorBody{ID: id, Error: err.Error()})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error().Err(err).Msg("encode response")
	}
}
