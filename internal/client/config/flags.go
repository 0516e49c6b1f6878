package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/finapp/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string     base URL of the account service
//	-d string     path of the local session cache database
//	-s duration   minimum splash display time (e.g. 2s, 1500ms)
//
// os.Args is filtered to the flags handled here so this parser does not
// interfere with flags owned by other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "base URL of the account service")
	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path of the local session cache database")
	fs.DurationVar(&cfg.SplashMinDisplay, "s", cfg.SplashMinDisplay, "minimum splash display time")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
