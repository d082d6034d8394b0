// migrate applies the local sqlite state migrations from embedded SQL. The sqlite state backend
// also migrates on open; use this to prepare or roll back a state file ahead of time.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"admin-console/desktop/internal/config"
	"admin-console/desktop/internal/db/migrate"
)

func main() {
	flags := pflag.NewFlagSet("migrate", pflag.ExitOnError)
	direction := flags.String("direction", "up", "Migration direction: up or down")
	flags.String("state-path", "", "sqlite state file (overrides STATE_PATH)")
	_ = flags.Parse(os.Args[1:])

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	if cfg.StateBackend != "sqlite" {
		fmt.Fprintf(os.Stderr, "STATE_BACKEND is %q; migrations only apply to the sqlite backend\n", cfg.StateBackend)
		os.Exit(1)
	}

	if err := migrate.Run(cfg.StatePath, *direction); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}
}
