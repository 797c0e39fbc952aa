// Package http exposes the chat exchange
// responses are written raw as {answer} or {error}, the chat widget reads no envelope
package http

import (
	"encoding/json"
	"errors"
	"io"
	stdhttp "net/http"

	"opendash/internal/modkit/httpkit"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/chat/domain"
	"opendash/internal/services/api/chat/service"
)

const maxBody = 64 << 10

// CORS headers every exchange response carries
var corsHeaders = [][2]string{
	{"Access-Control-Allow-Origin", "*"},
	{"Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type"},
}

// Register mounts the exchange at the module root
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	r.Post("/", httpkit.Handle(h.exchange))
	r.Options("/", preflight)
}

type handlers struct{ svc domain.ServicePort }

func withCORS(resp httpkit.Response) httpkit.Response {
	for _, kv := range corsHeaders {
		resp = resp.WithHeader(kv[0], kv[1])
	}
	return resp
}

func fail(status int, msg string) httpkit.Response {
	return withCORS(httpkit.Raw(status, domain.ErrorResponse{Error: msg}))
}

// swagger:route POST /chat Chat chatExchange
// @Summary Ask a question about the ministry's open data
// @Tags Chat
// @Accept json
// @Produce json
// @Param body body domain.ChatRequest true "question"
// @Success 200 {object} domain.ChatResponse "answer"
// @Failure 400 {object} domain.ErrorResponse "message missing"
// @Failure 500 {object} domain.ErrorResponse "key missing or completion failed"
// @Router /chat [post]
func (h *handlers) exchange(r *stdhttp.Request) httpkit.Response {
	// an unreadable body never reaches the service, so it answers 400 even
	// when the completion key is missing; the key check comes first only for parsed requests
	var in domain.ChatRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&in); err != nil && !errors.Is(err, io.EOF) {
		logger.C(r.Context()).Debug().Err(err).Msg("chat body rejected")
		return fail(stdhttp.StatusBadRequest, domain.MsgMessageMissing)
	}

	out, err := h.svc.Answer(r.Context(), in)
	if err == nil {
		return withCORS(httpkit.Raw(stdhttp.StatusOK, out))
	}

	switch {
	case perr.CodeOf(err) == perr.ErrorCodeConfig:
		logger.C(r.Context()).Error().Err(err).Msg("chat completion key missing")
		return fail(stdhttp.StatusInternalServerError, domain.MsgNoKey)
	case errors.Is(err, service.ErrMessageRequired):
		return fail(stdhttp.StatusBadRequest, domain.MsgMessageMissing)
	case errors.Is(err, service.ErrEmptyAnswer):
		logger.C(r.Context()).Error().Msg("chat completion returned no answer")
		return fail(stdhttp.StatusInternalServerError, domain.MsgNoAnswer)
	default:
		logger.C(r.Context()).Error().Err(err).Msg("chat exchange failed")
		return fail(stdhttp.StatusInternalServerError, domain.MsgTemporary)
	}
}

// preflight answers with headers and an empty body
func preflight(w stdhttp.ResponseWriter, _ *stdhttp.Request) {
	for _, kv := range corsHeaders {
		w.Header().Set(kv[0], kv[1])
	}
	w.WriteHeader(stdhttp.StatusOK)
}
