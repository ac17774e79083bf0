package config

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/identity-client/internal/flagx"
)

var (
	valueFlags = []string{"-a", "-t", "-i", "-s", "-d", "-r", "-l", "-o"}
	boolFlags  = []string{"-log-json", "--log-json"}
)

// parseFlags populates Config fields from command-line flags.
//
// The function filters args to the flags it knows about, using
// flagx.FilterArgsWithBool, so -c/-config and unknown flags are ignored.
func parseFlags(cfg *Config, args []string) {
	filtered := flagx.FilterArgsWithBool(args, valueFlags, boolFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the identity API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "request timeout")
	statusCheckInterval := fs.Int("i", int(cfg.StatusCheckInterval.Seconds()), "server status check interval (in seconds)")
	fs.StringVar(&cfg.StorageDriver, "s", cfg.StorageDriver, "session storage driver (sqlite|redis)")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "SQLite database path")
	fs.StringVar(&cfg.RedisAddr, "r", cfg.RedisAddr, "Redis address")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogOutput, "o", cfg.LogOutput, "log output")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "JSON logs")

	if err := fs.Parse(filtered); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "i" {
			cfg.StatusCheckInterval = time.Duration(*statusCheckInterval) * time.Second
		}
	})
}
