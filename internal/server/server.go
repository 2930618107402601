// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package server exposes jsonmap.Translate over HTTP: a translate endpoint,
// a liveness probe, and a Prometheus metrics endpoint, grounded on the
// teacher's internal/observability server (its own registry, its own
// metrics, promhttp.Handler for exposition).
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/samber/oops"

	"github.com/kyle-silver/jsonmap/pkg/errutil"
	"github.com/kyle-silver/jsonmap/pkg/jsonmap"
)

// Server serves the jsonmap HTTP API.
type Server struct {
	logger          *slog.Logger
	mux             *http.ServeMux
	maxRequestBytes int64
}

// New builds a Server with its routes registered. maxRequestBytes caps the
// size of a POST /v1/translate request body (internal/config.Config's
// MaxProgramBytes); a request exceeding it is rejected as a ParseError
// before the program or input is ever decoded.
func New(logger *slog.Logger, maxRequestBytes int) *Server {
	s := &Server{logger: logger, mux: http.NewServeMux(), maxRequestBytes: int64(maxRequestBytes)}
	s.mux.HandleFunc("POST /v1/translate", s.handleTranslate)
	s.mux.HandleFunc("GET /healthz", s.handleHealthz)
	s.mux.Handle("GET /metrics", promhttp.Handler())
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

type translateRequest struct {
	Program string          `json:"program"`
	Input   json.RawMessage `json:"input"`
}

type translateResponse struct {
	Output json.RawMessage `json:"output,omitempty"`
	Error  *errorResponse  `json:"error,omitempty"`
}

type errorResponse struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Path    string `json:"path,omitempty"`
}

// wrapRequestDecodeErr tags a malformed request-body error for logging.
func wrapRequestDecodeErr(requestID string, err error) error {
	return oops.Code("TRANSLATE_REQUEST_DECODE_FAILED").With("request_id", requestID).Wrapf(err, "decode translate request")
}

// wrapInputDecodeErr tags a malformed input-value error for logging.
func wrapInputDecodeErr(requestID string, err error) error {
	return oops.Code("TRANSLATE_INPUT_DECODE_FAILED").With("request_id", requestID).Wrapf(err, "decode translate input")
}

// wrapTranslateErr tags a translate() failure with its jsonmap error kind for logging.
func wrapTranslateErr(requestID, kind string, err error) error {
	return oops.Code("TRANSLATE_FAILED").With("request_id", requestID, "kind", kind).Wrapf(err, "translate program")
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	requestID := ulid.Make().String()
	logger := s.logger.With("request_id", requestID)
	start := time.Now()

	if s.maxRequestBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.maxRequestBytes)
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.LogError(logger, "malformed translate request", wrapRequestDecodeErr(requestID, err))
		recordTranslate(time.Since(start), outcomeParseError)
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Error: &errorResponse{Kind: "ParseError", Message: "malformed or oversized JSON request body"},
		})
		return
	}

	input, err := jsonmap.Decode(req.Input)
	if err != nil {
		errutil.LogError(logger, "malformed translate input", wrapInputDecodeErr(requestID, err))
		recordTranslate(time.Since(start), outcomeParseError)
		writeJSON(w, http.StatusBadRequest, translateResponse{
			Error: &errorResponse{Kind: "ParseError", Message: "malformed JSON input value"},
		})
		return
	}

	output, err := jsonmap.Translate(req.Program, input)
	if err != nil {
		jmErr, _ := err.(*jsonmap.Error)
		outcome := outcomeEvalError
		status := http.StatusUnprocessableEntity
		resp := errorResponse{Kind: "TypeMismatch", Message: err.Error()}
		if jmErr != nil {
			resp = errorResponse{Kind: string(jmErr.Kind), Message: jmErr.Message, Line: jmErr.Line, Column: jmErr.Column, Path: jmErr.Path}
			switch jmErr.Kind {
			case jsonmap.KindLexError:
				outcome, status = outcomeLexError, http.StatusBadRequest
			case jsonmap.KindParseError:
				outcome, status = outcomeParseError, http.StatusBadRequest
			}
		}
		errutil.LogError(logger, "translate failed", wrapTranslateErr(requestID, resp.Kind, err))
		recordTranslate(time.Since(start), outcome)
		writeJSON(w, status, translateResponse{Error: &resp})
		return
	}

	recordTranslate(time.Since(start), outcomeOK)
	outputJSON, err := jsonmap.Encode(output)
	if err != nil {
		errutil.LogError(logger, "encode translate output", err)
		writeJSON(w, http.StatusInternalServerError, translateResponse{
			Error: &errorResponse{Kind: "TypeMismatch", Message: "failed to encode output"},
		})
		return
	}
	writeJSON(w, http.StatusOK, translateResponse{Output: outputJSON})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
