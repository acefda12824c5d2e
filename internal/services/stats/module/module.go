// Package module implements the stats module
package module

import (
	"time"

	"danmukit/internal/modkit"
	"danmukit/internal/services/stats/domain"
	"danmukit/internal/services/stats/service"
)

// Ports exposed by the stats module
type Ports struct {
	Recorder domain.RecorderPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new stats module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	modkit.Build(append([]modkit.Option{
		modkit.WithName("stats"),
	}, opts...)...)

	cfg := FromConfig(deps.Cfg)
	if overrides.RecentSize != 0 {
		cfg.RecentSize = overrides.RecentSize
	}

	rec := service.New(service.Config{RecentSize: cfg.RecentSize}, time.Now().UTC())

	m := &Module{deps: deps}
	m.ports = Ports{Recorder: rec}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "stats" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
