// Command danmukit-monitor runs one monitoring session over an NDJSON block
// stream: RawBlocks in on stdin or a file, deduplicated events out on stdout
package main

import (
	"context"
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"danmukit/internal/modkit"
	"danmukit/internal/modkit/module"
	"danmukit/internal/platform/config"
	"danmukit/internal/platform/logger"

	monitordom "danmukit/internal/services/monitor/domain"
	monitormod "danmukit/internal/services/monitor/module"

	statsmod "danmukit/internal/services/stats/module"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

func main() {
	root := config.New()
	l := logger.Get()

	var (
		input    = flag.String("input", "-", "NDJSON block stream; '-' for stdin")
		roomID   = flag.String("room", "", "room identifier for log correlation")
		self     = flag.String("self", "", "streamer nickname to filter")
		alts     = flag.String("alts", "", "comma separated alt nicknames to filter")
		interval = flag.String("interval", "", "scan interval, e.g. 500ms")
		fixed    = flag.Bool("fixed", false, "pin the scan interval, disable cadence adaptation")
		snapshot = flag.Bool("snapshot", false, "print the stats snapshot on exit")
	)
	flag.Parse()

	// Pass CLI flags into MONITOR_* so the module can read its own config
	mustSetEnv("MONITOR_SELF_NICKNAME", *self)
	mustSetEnv("MONITOR_ALT_NICKNAMES", *alts)
	mustSetEnv("MONITOR_INTERVAL", *interval)
	mustSetEnv("MONITOR_FIXED_INTERVAL", map[bool]string{true: "1", false: ""}[*fixed])

	var in io.ReadCloser = os.Stdin
	if *input != "-" {
		f, err := os.Open(*input)
		if err != nil {
			log.Fatalf("open -input: %v", err)
		}
		in = f
	}
	defer in.Close()

	sessionID := uuid.NewString()
	ctx := logger.WithSession(context.Background(), sessionID, *roomID)
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps := modkit.Deps{
		Cfg: root,
		Log: *l,
	}

	// Build dependency modules first
	sm := statsmod.New(deps, statsmod.Options{})

	// Build the monitor module with ports injected from deps modules
	mm := monitormod.New(
		deps,
		monitormod.Options{
			SelfNickname:  *self,
			AltNicknames:  splitCSV(*alts),
			FixedInterval: *fixed,
		},
		modkit.WithPorts(monitordom.Ports{
			Source:  newBlockSource(in),
			Emitter: newNDJSONEmitter(os.Stdout),
			Stats:   module.MustPortsOf[statsmod.Ports](sm).Recorder,
		}),
	)

	// Register ports
	module.Register(sm.Name(), sm.Ports())
	module.Register(mm.Name(), mm.Ports())

	logger.C(ctx).Info().Str("input", *input).Msg("session starting")

	ports := mm.Ports().(monitormod.Ports)
	if err := ports.Session.Run(ctx); err != nil && err != context.Canceled {
		logger.C(ctx).Fatal().Err(err).Msg("session failed")
	}

	for _, d := range ports.Session.Diagnostics() {
		logger.C(ctx).Debug().
			Str("category", d.Category).
			Str("code", d.Code).
			Str("text", d.Text).
			Msg("dropped block")
	}

	if *snapshot {
		snap := module.MustPortsOf[statsmod.Ports](sm).Recorder.Snapshot()
		if err := json.NewEncoder(os.Stderr).Encode(snap); err != nil {
			logger.C(ctx).Error().Err(err).Msg("snapshot encode failed")
		}
	}

	logger.C(ctx).Info().Msg("session finished")
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
