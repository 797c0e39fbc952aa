package domain

import (
	"context"

	"opendash/internal/adapters/llm"
	"opendash/internal/modkit/repokit"
)

// ServicePort answers one exchange
type ServicePort interface {
	Answer(ctx context.Context, in ChatRequest) (ChatResponse, error)
}

// Completer is the chat-completion seam
type Completer interface {
	Complete(ctx context.Context, in llm.Request) (string, error)
	HasKey() bool
}

// Query is a built, parameterized statement
type Query struct {
	SQL  string
	Args []any
}

// Exchange is one stored question and answer pair
type Exchange struct {
	SessionID string
	Question  string
	Answer    string
}

// StorageRepo reads query results and context rows, and stores exchanges
type StorageRepo interface {
	Run(ctx context.Context, q Query) ([]repokit.Record, error)
	TopAPICalls(ctx context.Context, n int) ([]repokit.Record, error)
	SaveExchange(ctx context.Context, ex Exchange) error
}
