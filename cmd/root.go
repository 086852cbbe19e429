// Package cmd wires up the CLI flags and starts the echo service.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	flag "github.com/spf13/pflag"

	"echosrv/config"
	"echosrv/internal/core"
	ncerr "echosrv/internal/errors"
	"echosrv/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X echosrv/cmd.version=2.0.0"
var version = "1.0.0" //nolint:gochecknoglobals

// stdout receives --version and --dry-run output, stderr the usage text.
var (
	stdout io.Writer = os.Stdout //nolint:gochecknoglobals
	stderr io.Writer = os.Stderr //nolint:gochecknoglobals
)

// Execute resolves the configuration from defaults, config file,
// environment and args, then runs the service until ctx is cancelled.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Defaults()

	path := configPath(args)
	if path != "" {
		if err := config.LoadFile(cfg, path); err != nil {
			return err
		}
	}
	config.LoadFromEnv(cfg)

	fs := flag.NewFlagSet("echosrv", flag.ContinueOnError)

	// ── service ──────────────────────────────────────────────────
	fs.String("config", path, "YAML config file (env "+config.EnvConfigFile+")")
	fs.IntVarP(&cfg.ChunkSize, "chunk-size", "b", cfg.ChunkSize, "Bytes received per read")
	fs.IntVar(&cfg.Backlog, "backlog", cfg.Backlog, "Pending-connection queue length")
	fs.BoolVarP(&cfg.Sequential, "sequential", "s", cfg.Sequential, "Serve one client at a time")

	quitMode := string(cfg.QuitMode)
	fs.StringVar(&quitMode, "quit-mode", quitMode, `What the "." quit line ends: session or server`)

	timeoutSec := int(cfg.Timeout / time.Second)
	fs.IntVarP(&timeoutSec, "timeout", "w", timeoutSec, "Per read/write timeout in seconds (0 = none)")

	// ── SSH reverse tunnel ───────────────────────────────────────
	fs.StringVarP(&cfg.TunnelSpec, "tunnel", "R", cfg.TunnelSpec, "Serve through SSH gateway [user@]host[:port] instead of a local port")
	fs.IntVar(&cfg.RemotePort, "remote-port", cfg.RemotePort, "Port to open on the gateway (default: same as local)")
	fs.StringVar(&cfg.RemoteBindAddress, "remote-bind", cfg.RemoteBindAddress, "Gateway bind address")
	fs.StringVar(&cfg.SSHKeyPath, "ssh-key", cfg.SSHKeyPath, "SSH private key file")
	fs.BoolVar(&cfg.SSHPassword, "ssh-password", cfg.SSHPassword, "Prompt for SSH password")
	fs.BoolVar(&cfg.UseSSHAgent, "ssh-agent", cfg.UseSSHAgent, "Use SSH agent")
	fs.BoolVar(&cfg.StrictHostKey, "strict-hostkey", cfg.StrictHostKey, "Verify SSH host keys")
	fs.StringVar(&cfg.KnownHostsPath, "known-hosts", cfg.KnownHostsPath, "Custom known_hosts path")

	// ── output ───────────────────────────────────────────────────
	var verbose int
	var quiet bool
	fs.CountVarP(&verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVarP(&quiet, "quiet", "q", false, "Only report fatal errors")

	var dryRun, showVersion, showHelp bool
	fs.BoolVar(&dryRun, "dry-run", false, "Validate and print the effective config, then exit")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Fprintf(stdout, "echosrv %s\n", version)
		return nil
	}

	if m, err := config.ParseQuitMode(quitMode); err == nil {
		cfg.QuitMode = m
	} else {
		cfg.QuitMode = config.QuitMode(quitMode) // rejected by Validate
	}
	if fs.Changed("timeout") {
		cfg.Timeout = time.Duration(timeoutSec) * time.Second
	}
	cfg.Verbose += verbose
	if quiet {
		cfg.Verbose = 0
	}

	// ── positional port ──────────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.ApplyTunnelSpec(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if dryRun {
		out, err := config.Dump(cfg)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	}

	// ── run ──────────────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

// configPath finds --config ahead of the full parse so the file can
// supply the defaults the real flags are registered with.
func configPath(args []string) string {
	pre := flag.NewFlagSet("echosrv", flag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.SetOutput(io.Discard)
	pre.Usage = func() {}

	path := pre.String("config", "", "")
	_ = pre.Parse(args) // the full parse reports errors

	if *path != "" {
		return *path
	}
	return os.Getenv(config.EnvConfigFile)
}

func parsePositional(cfg *config.Config, remaining []string) error {
	switch len(remaining) {
	case 0:
		return nil
	case 1:
		port, err := config.ParsePort(remaining[0])
		if err != nil {
			return err
		}
		cfg.Port = port
		return nil
	default:
		return fmt.Errorf("%w: expected at most one port argument, got %d (use --help for usage)",
			ncerr.ErrUsage, len(remaining))
	}
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(stderr, `echosrv v%s

A TCP line-echo server.  Every client is greeted, then each line it
sends is echoed back.  A line that is just "." ends the session.

Usage:
  echosrv [options] [port]                    Listen on port (default %d)
  echosrv -R user@gateway [options] [port]    Serve through an SSH gateway instead of a local port

Options:
`, version, config.DefaultPort)
	fs.SetOutput(stderr)
	fs.PrintDefaults()
	fmt.Fprintf(stderr, `
Examples:
  echosrv                                     Serve on %d
  echosrv -v 7000                             Serve on 7000, log chunk sizes
  echosrv -s --quit-mode server               Classic one-at-a-time server
  echosrv -R ops@bastion --remote-port 8007   Reachable as bastion:8007
  echosrv --config echosrv.yaml --dry-run     Show the effective config
`, config.DefaultPort)
}
