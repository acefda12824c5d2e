package module

import (
	"time"

	"github.com/go-playground/validator/v10"

	"danmukit/internal/platform/config"
)

// Options holds configuration settings for the monitor module
type Options struct {
	SelfNickname string
	AltNicknames []string

	Interval      time.Duration `validate:"min=50ms,max=10s"`
	FixedInterval bool

	ChatTTL     time.Duration `validate:"min=1s,max=10m"`
	RealtimeTTL time.Duration `validate:"min=1s,max=10m"`
	GiftTTL     time.Duration `validate:"min=1s,max=10m"`
	CacheMax    int           `validate:"min=200,max=500"`

	CadenceMin time.Duration `validate:"min=50ms"`
	CadenceMax time.Duration `validate:"gtefield=CadenceMin,max=30s"`

	DiagSize   int `validate:"min=1,max=10000"`
	EmitBuffer int `validate:"min=1,max=65536"`
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	mf := cfg.Prefix("MONITOR_")
	return Options{
		SelfNickname:  mf.MayString("SELF_NICKNAME", ""),
		AltNicknames:  mf.MayCSV("ALT_NICKNAMES", nil),
		Interval:      mf.MayDuration("INTERVAL", 500*time.Millisecond),
		FixedInterval: mf.MayBool("FIXED_INTERVAL", false),
		ChatTTL:       mf.MayDuration("CHAT_TTL", 10*time.Second),
		RealtimeTTL:   mf.MayDuration("REALTIME_TTL", 10*time.Second),
		GiftTTL:       mf.MayDuration("GIFT_TTL", 60*time.Second),
		CacheMax:      mf.MayInt("CACHE_MAX", 300),
		CadenceMin:    mf.MayDuration("CADENCE_MIN", 200*time.Millisecond),
		CadenceMax:    mf.MayDuration("CADENCE_MAX", 2*time.Second),
		DiagSize:      mf.MayInt("DIAG_SIZE", 100),
		EmitBuffer:    mf.MayInt("EMIT_BUFFER", 256),
	}
}

// Validate checks option ranges before any session is built
func (o Options) Validate() error {
	return validator.New(validator.WithRequiredStructEnabled()).Struct(o)
}
