// Package module defines the contract every API module satisfies
package module

import (
	phttp "opendash/internal/platform/net/http"
)

// Module mounts its routes under its own prefix and may expose ports for siblings
// kept in its own package so a module can import it without pulling modkit deps
type Module interface {
	Name() string
	Prefix() string
	MountRoutes(r phttp.Router)
	Ports() any
}
