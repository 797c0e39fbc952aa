package store

import (
	"time"

	"opendash/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// boot knobs, zero means the opener defaults
	ConnectRetries int
	PingTimeout    time.Duration
}

// CHConfig configures the optional clickhouse rollup store
type CHConfig struct {
	Enabled    bool
	URL        string
	LogSQL     bool
	ClientName string
	ClientTag  string
}

// ConfigFrom reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_* from root
// postgres is always on, clickhouse needs SERVICE_CLICKHOUSE_ENABLED and a DBURL
func ConfigFrom(root config.Conf, app, tag string) Config {
	pg := root.Prefix("SERVICE_PGSQL_")
	ch := root.Prefix("SERVICE_CLICKHOUSE_")
	chURL := ch.MayString("DBURL", "")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:        true,
			URL:            pg.MustString("DBURL"),
			MaxConns:       int32(pg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pg.MayInt("SLOW_MS", 500),
			LogSQL:         pg.MayBool("LOG_SQL", false),
			ConnectRetries: pg.MayInt("CONNECT_RETRIES", 0),
			PingTimeout:    pg.MayDuration("PING_TIMEOUT", 0),
		},
		CH: CHConfig{
			Enabled:    chURL != "" && ch.MayBool("ENABLED", false),
			URL:        chURL,
			LogSQL:     ch.MayBool("LOG_SQL", false),
			ClientName: app,
			ClientTag:  tag,
		},
	}
}
