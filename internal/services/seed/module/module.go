// Package module wires the seed loader, it mounts no routes
package module

import (
	"os"

	"opendash/internal/modkit"
	"opendash/internal/platform/config"
	phttp "opendash/internal/platform/net/http"
	"opendash/internal/services/seed/domain"
	"opendash/internal/services/seed/ingest"
	"opendash/internal/services/seed/repo"
	"opendash/internal/services/seed/service"
)

// Ports defines the seed module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the seed module
type Module struct {
	ports Ports
}

// FromConfig reads CORE_SEED_* defaults, flags override them
func FromConfig(cfg config.Conf) (domain.Options, error) {
	c := cfg.Prefix("CORE_SEED_")
	tables, err := domain.ParseTables(c.MayString("TABLES", ""))
	if err != nil {
		return domain.Options{}, err
	}
	return domain.Options{
		Dir:      c.MayString("DIR", "./data"),
		Tables:   tables,
		Truncate: c.MayBool("TRUNCATE", false),
		CH:       c.MayBool("CH", false),
		Chunk:    c.MayInt("CHUNK", repo.DefaultChunk),
	}, nil
}

// New constructs the seed module reading exports from dir
func New(deps modkit.Deps, dir string) *Module {
	var rollups domain.RollupSink
	if deps.HasCH() {
		rollups = repo.NewRollups(deps.CH)
	}
	svc := service.New(deps.PG, repo.NewPG(), ingest.NewReader(os.DirFS(dir)), rollups)
	return &Module{ports: Ports{Runner: svc}}
}

// Name returns the module name
func (m *Module) Name() string { return "seed" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Prefix is empty, seed mounts no routes
func (m *Module) Prefix() string { return "" }

// MountRoutes is a no-op
func (m *Module) MountRoutes(phttp.Router) {}
