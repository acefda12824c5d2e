package module

import "danmukit/internal/platform/config"

// Options holds configuration settings for the stats module
type Options struct {
	RecentSize int
}

// FromConfig extracts Options from the given config.Conf
func FromConfig(cfg config.Conf) Options {
	sf := cfg.Prefix("STATS_")
	return Options{
		RecentSize: sf.MayInt("RECENT_SIZE", 50),
	}
}
