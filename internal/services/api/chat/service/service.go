// Package service answers chat questions: classify, query, then synthesize
package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"opendash/internal/adapters/llm"
	"opendash/internal/modkit/repokit"
	perr "opendash/internal/platform/errors"
	"opendash/internal/platform/logger"
	"opendash/internal/services/api/chat/domain"
	crepo "opendash/internal/services/api/chat/repo"
)

// Sentinels the transport layer maps to fixed messages
var (
	ErrMessageRequired = perr.Newf(perr.ErrorCodeValidation, "message is required")
	ErrEmptyAnswer     = perr.Newf(perr.ErrorCodeUnavailable, "completion returned no answer")
)

// Config tunes the completion calls
type Config struct {
	Model       string
	MaxTokens   int
	Temperature float64
	ContextRows int
}

// Service implements domain.ServicePort
type Service struct {
	LLM  domain.Completer
	DB   repokit.TxRunner
	Repo repokit.Binder[domain.StorageRepo]
	// Writes stores exchanges, nil turns persistence off
	Writes repokit.TxRunner
	Cfg    Config
}

var _ domain.ServicePort = (*Service)(nil)

// New constructs a chat service
func New(c domain.Completer, db repokit.TxRunner, binder repokit.Binder[domain.StorageRepo], writes repokit.TxRunner, cfg Config) *Service {
	if c == nil {
		panic("chat.Service requires a non-nil Completer")
	}
	if db == nil || binder == nil {
		panic("chat.Service requires a TxRunner and a repo Binder")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 400
	}
	if cfg.ContextRows <= 0 {
		cfg.ContextRows = 10
	}
	return &Service{LLM: c, DB: db, Repo: binder, Writes: writes, Cfg: cfg}
}

// Answer runs one exchange
// only a missing key, a failed final completion or an empty answer fail it
func (s *Service) Answer(ctx context.Context, in domain.ChatRequest) (domain.ChatResponse, error) {
	if !s.LLM.HasKey() {
		return domain.ChatResponse{}, perr.Configf("chat completion key is not set")
	}
	question := strings.TrimSpace(in.Message)
	if question == "" {
		return domain.ChatResponse{}, ErrMessageRequired
	}
	log := logger.C(ctx)

	d := s.classify(ctx, question)

	var (
		result    []repokit.Record
		resultErr error
		top       []repokit.Record
	)
	var g errgroup.Group
	if d != nil && d.Intent == domain.IntentQuery {
		g.Go(func() error {
			result, resultErr = s.execute(ctx, *d)
			if resultErr != nil {
				log.Warn().Err(resultErr).Str("table", d.Table).Msg("chat query failed, answering from context")
			}
			return nil
		})
	}
	g.Go(func() error {
		var err error
		top, err = s.topAPICalls(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("chat context unavailable")
		}
		return nil
	})
	_ = g.Wait()

	answer, err := s.LLM.Complete(ctx, llm.Request{
		Model: s.Cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: answerPrompt(d, result, resultErr, top)},
			{Role: llm.RoleUser, Content: question},
		},
		MaxTokens:   s.Cfg.MaxTokens,
		Temperature: s.Cfg.Temperature,
	})
	if err != nil {
		return domain.ChatResponse{}, err
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return domain.ChatResponse{}, ErrEmptyAnswer
	}

	out := domain.ChatResponse{Answer: answer}
	if s.Writes != nil {
		out.SessionID = s.persist(ctx, in.SessionID, question, answer)
	}
	return out, nil
}

// classify asks for a descriptor, nil means answer from context alone
func (s *Service) classify(ctx context.Context, question string) *domain.QueryDescriptor {
	log := logger.C(ctx)
	reply, err := s.LLM.Complete(ctx, llm.Request{
		Model: s.Cfg.Model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifierPrompt()},
			{Role: llm.RoleUser, Content: question},
		},
		MaxTokens:   s.Cfg.MaxTokens,
		Temperature: 0,
	})
	if err != nil {
		log.Warn().Err(err).Msg("chat classify failed")
		return nil
	}
	d, err := parseDescriptor(reply)
	if err != nil {
		log.Debug().Err(err).Int("reply_len", len(reply)).Msg("chat descriptor rejected")
		return nil
	}
	log.Debug().Str("intent", string(d.Intent)).Str("table", d.Table).Int("year", d.Filters.Year).Msg("chat descriptor")
	return &d
}

func (s *Service) execute(ctx context.Context, d domain.QueryDescriptor) ([]repokit.Record, error) {
	q, err := crepo.BuildQuery(d)
	if err != nil {
		return nil, err
	}
	var rows []repokit.Record
	err = s.DB.Tx(ctx, func(tx repokit.Queryer) error {
		var e error
		rows, e = s.Repo.Bind(tx).Run(ctx, q)
		return e
	})
	return rows, err
}

func (s *Service) topAPICalls(ctx context.Context) ([]repokit.Record, error) {
	var rows []repokit.Record
	err := s.DB.Tx(ctx, func(tx repokit.Queryer) error {
		var e error
		rows, e = s.Repo.Bind(tx).TopAPICalls(ctx, s.Cfg.ContextRows)
		return e
	})
	return rows, err
}

// persist stores the exchange best effort and returns the session id used
func (s *Service) persist(ctx context.Context, sessionID, question, answer string) string {
	if _, err := uuid.Parse(sessionID); err != nil {
		sessionID = uuid.NewString()
	}
	err := s.Writes.Tx(ctx, func(tx repokit.Queryer) error {
		return s.Repo.Bind(tx).SaveExchange(ctx, domain.Exchange{SessionID: sessionID, Question: question, Answer: answer})
	})
	if err != nil {
		logger.C(ctx).Warn().Err(err).Str("session_id", sessionID).Msg("chat exchange not stored")
	}
	return sessionID
}
