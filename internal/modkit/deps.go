package modkit

import (
	"time"

	"opendash/internal/modkit/repokit"
	"opendash/internal/platform/config"
	"opendash/internal/platform/logger"
	"opendash/internal/platform/net/middleware"
	"opendash/internal/platform/store"
)

// Deps holds the shared dependencies handed to every module constructor
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// PG is required by data modules, CH stays nil unless rollups are enabled
	PG repokit.TxRunner
	CH store.Clickhouse

	// Admin resolves bearer tokens for admin only routes, nil denies them
	Admin middleware.AuthPort

	// Now is the wall clock, tests pin it to a fixed day
	Now func() time.Time
}

// Clock returns Now or time.Now when unset
func (d Deps) Clock() func() time.Time {
	if d.Now != nil {
		return d.Now
	}
	return time.Now
}

// HasCH reports whether the rollup store is wired
func (d Deps) HasCH() bool { return d.CH != nil }
