// console is the admin console client. It signs in against the backend REST API, runs the
// register and forgot-password OTP journeys, and manages users, workspaces, roles, audit logs,
// incidents and statistics.
//
// Configuration comes from the environment or a .env file (see internal/config); the global
// flags below override it.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"admin-console/desktop/internal/apierror"
	"admin-console/desktop/internal/app"
	"admin-console/desktop/internal/config"
	"admin-console/desktop/internal/logging"
)

type command struct {
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"login":           {"sign in with email and password", runLogin},
	"logout":          {"end the current session", runLogout},
	"whoami":          {"show the signed-in user", runWhoami},
	"register":        {"create an account (email code required)", runRegister},
	"forgot-password": {"reset a password (email code required)", runForgotPassword},
	"users":           {"list|get|create|update|delete users", runUsers},
	"workspaces":      {"list|get|create|update|delete workspaces", runWorkspaces},
	"roles":           {"list|create|update|delete roles", runRoles},
	"audit":           {"list audit logs", runAudit},
	"incidents":       {"list|get security incidents", runIncidents},
	"stats":           {"show dashboard counters", runStats},
	"locale":          {"show or set the preferred language", runLocale},
}

// cli is the per-invocation state handed to every command.
type cli struct {
	app *app.App
	in  *bufio.Reader
	out io.Writer
	err io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := pflag.NewFlagSet("console", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.SetInterspersed(false)
	flags.String("api", "", "backend base URL (overrides API_BASE_URL)")
	flags.String("state-backend", "", "file, sqlite, redis or memory (overrides STATE_BACKEND)")
	flags.String("state-path", "", "state file path (overrides STATE_PATH)")
	flags.String("log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")
	flags.Usage = func() { usage(stderr, flags) }
	if err := flags.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if flags.NArg() == 0 {
		usage(stderr, flags)
		return 2
	}
	name := flags.Arg(0)
	cmd, ok := commands[name]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", name)
		usage(stderr, flags)
		return 2
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintln(stderr, "config:", err)
		return 1
	}
	if err := logging.Setup(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat, Output: stderr}); err != nil {
		fmt.Fprintln(stderr, "logging:", err)
		return 1
	}

	a, err := app.New(ctx, cfg, app.Options{
		OnLogin: func(string) { fmt.Fprintln(stderr, "Sign in with `console login`.") },
	})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() {
		if err := a.Close(context.WithoutCancel(ctx)); err != nil {
			slog.Warn("console: shutdown", "err", err)
		}
	}()

	c := &cli{app: a, in: bufio.NewReader(stdin), out: stdout, err: stderr}
	if err := cmd.run(ctx, c, flags.Args()[1:]); err != nil {
		report(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer, flags *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: console [flags] <command> [args]")
	fmt.Fprintln(w, "\ncommands:")
	names := make([]string, 0, len(commands))
	for n := range commands {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(w, "  %-16s %s\n", n, commands[n].summary)
	}
	fmt.Fprintln(w, "\nflags:")
	flags.SetOutput(w)
	flags.PrintDefaults()
}

// report prints err for a person: API errors by message and code, anything else as is.
func report(w io.Writer, err error) {
	if e, ok := apierror.As(err); ok {
		fmt.Fprintf(w, "error: %s (%s)\n", e.Message, e.Code)
		return
	}
	fmt.Fprintln(w, "error:", err)
}

// prompt writes label to the error stream and reads one trimmed line from stdin.
func (c *cli) prompt(label string) (string, error) {
	fmt.Fprint(c.err, label)
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ":")), err)
	}
	return strings.TrimSpace(line), nil
}

// orPrompt returns v, or prompts for it when empty.
func (c *cli) orPrompt(v, label string) (string, error) {
	if v != "" {
		return v, nil
	}
	return c.prompt(label)
}

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// subFlags returns a flag set for a command that reports errors on the error stream.
func (c *cli) subFlags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(c.err)
	return fs
}
