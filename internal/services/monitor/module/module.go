// Package module implements the monitor module
package module

import (
	"danmukit/internal/core/cadence"
	"danmukit/internal/core/giftpack"
	"danmukit/internal/modkit"
	"danmukit/internal/platform/logger"
	"danmukit/internal/services/monitor/domain"
	"danmukit/internal/services/monitor/service"
)

// Ports exposed by the monitor module
type Ports struct {
	Session domain.SessionPort
}

// Module implements modkit.Module
type Module struct {
	deps  modkit.Deps
	ports Ports
}

// New constructs a new monitor module
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("monitor"),
	}, opts...)...)

	// Basic guardrails against incorrect wiring
	ports, ok := b.Ports.(domain.Ports)
	if !ok {
		panic("monitor module: expected WithPorts(monitor/domain.Ports)")
	}
	if ports.Source == nil || ports.Emitter == nil {
		panic("monitor module: Ports missing Source or Emitter")
	}

	// Merge config + overrides
	cfg := FromConfig(deps.Cfg)
	if overrides.SelfNickname != "" {
		cfg.SelfNickname = overrides.SelfNickname
	}
	if overrides.AltNicknames != nil {
		cfg.AltNicknames = overrides.AltNicknames
	}
	if overrides.Interval != 0 {
		cfg.Interval = overrides.Interval
	}
	if overrides.ChatTTL != 0 {
		cfg.ChatTTL = overrides.ChatTTL
	}
	if overrides.RealtimeTTL != 0 {
		cfg.RealtimeTTL = overrides.RealtimeTTL
	}
	if overrides.GiftTTL != 0 {
		cfg.GiftTTL = overrides.GiftTTL
	}
	if overrides.CacheMax != 0 {
		cfg.CacheMax = overrides.CacheMax
	}
	if overrides.CadenceMin != 0 {
		cfg.CadenceMin = overrides.CadenceMin
	}
	if overrides.CadenceMax != 0 {
		cfg.CadenceMax = overrides.CadenceMax
	}
	if overrides.DiagSize != 0 {
		cfg.DiagSize = overrides.DiagSize
	}
	if overrides.EmitBuffer != 0 {
		cfg.EmitBuffer = overrides.EmitBuffer
	}
	// bool override wins (defaults false if caller didn't set)
	if overrides.FixedInterval {
		cfg.FixedInterval = true
	}

	if err := cfg.Validate(); err != nil {
		panic(err)
	}

	// Shared vocabulary pack for classification and extraction
	pack, err := giftpack.Load()
	if err != nil {
		panic(err)
	}

	sess := service.New(
		ports,
		pack,
		service.Config{
			SelfNickname:  cfg.SelfNickname,
			AltNicknames:  cfg.AltNicknames,
			Interval:      cfg.Interval,
			FixedInterval: cfg.FixedInterval,
			ChatTTL:       cfg.ChatTTL,
			RealtimeTTL:   cfg.RealtimeTTL,
			GiftTTL:       cfg.GiftTTL,
			CacheMax:      cfg.CacheMax,
			Cadence: cadence.Config{
				MinInterval: cfg.CadenceMin,
				MaxInterval: cfg.CadenceMax,
				Default:     cfg.Interval,
			},
			DiagSize:   cfg.DiagSize,
			EmitBuffer: cfg.EmitBuffer,
		},
		logger.Named("monitor"),
	)

	m := &Module{deps: deps}
	m.ports = Ports{Session: sess}
	return m
}

// Name satisfies modkit.Module
func (m *Module) Name() string { return "monitor" }

// Ports satisfies modkit.Module
func (m *Module) Ports() any { return m.ports }
