// Package modkit wires API modules from shared dependencies and options
package modkit

import "opendash/internal/modkit/module"

// Module is what the API mounts, one per feature area
type Module = module.Module

// Builder constructs a Module from shared deps and options
// every feature package exposes New with this shape
type Builder func(Deps, ...Option) Module
