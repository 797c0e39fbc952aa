// Package module wires the chat exchange into the API
package module

import (
	"time"

	"opendash/internal/adapters/llm"
	"opendash/internal/modkit"
	"opendash/internal/modkit/httpkit"
	"opendash/internal/modkit/repokit"
	"opendash/internal/modkit/swaggerkit"
	"opendash/internal/platform/config"
	"opendash/internal/services/api/chat/domain"
	chathttp "opendash/internal/services/api/chat/http"
	"opendash/internal/services/api/chat/repo"
	"opendash/internal/services/api/chat/service"
)

// Ports exposes the chat service to sibling modules
type Ports struct {
	Service domain.ServicePort
}

// Module implements the chat module
type Module struct {
	modkit.Base
	ports Ports
}

// Settings are the CORE_CHAT_* knobs
type Settings struct {
	Client           llm.Options
	Service          service.Config
	Persist          bool
	StatementTimeout time.Duration
}

// LoadSettings reads CORE_CHAT_*, the bare OPENAI_API_KEY is accepted as a fallback
func LoadSettings(cfg config.Conf) Settings {
	c := cfg.Prefix("CORE_CHAT_")
	key := c.MayString("OPENAI_API_KEY", "")
	if key == "" {
		key = cfg.MayString("OPENAI_API_KEY", "")
	}
	return Settings{
		Client: llm.Options{
			BaseURL: c.MayString("BASE_URL", "https://api.openai.com/v1"),
			APIKey:  key,
			Timeout: c.MayDuration("TIMEOUT", 30*time.Second),
		},
		Service: service.Config{
			Model:       c.MayString("MODEL", "gpt-4o-mini"),
			MaxTokens:   c.MayInt("MAX_TOKENS", 400),
			Temperature: c.MayFloat64("TEMPERATURE", 0.3),
			ContextRows: c.MayInt("CONTEXT_ROWS", 10),
		},
		Persist:          c.MayBool("PERSIST", false),
		StatementTimeout: c.MayDuration("STATEMENT_TIMEOUT", 10*time.Second),
	}
}

// New constructs the chat module, mounted at /chat
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build("chat", "/chat", opts...)

	set := LoadSettings(deps.Cfg)
	client := llm.NewClient(set.Client)
	if !client.HasKey() {
		deps.Log.Warn().Msg("chat completion key not set, the exchange answers 500")
	}

	reads := repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(set.StatementTimeout), repokit.ReadOnly())
	var writes repokit.TxRunner
	if set.Persist {
		writes = repokit.WithBeginHooks(deps.PG, repokit.StatementTimeout(set.StatementTimeout))
	}
	svc := service.New(client, reads, repo.NewPG(), writes, set.Service)

	swaggerkit.Register(chathttp.DocumentErrors)

	m := &Module{ports: Ports{Service: svc}}
	m.Base = modkit.NewBase(b, func(r httpkit.Router) {
		chathttp.Register(r, svc)
	})
	return m
}

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return m.ports }
