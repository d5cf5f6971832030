package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"xdao.co/charsniff/config"
	"xdao.co/charsniff/contentid"
	"xdao.co/charsniff/logging"
	"xdao.co/charsniff/report"
	"xdao.co/charsniff/runner"
	"xdao.co/charsniff/sniff"
	"xdao.co/charsniff/transport/grpcsniff"
)

var version = "dev"

const (
	exitOK    = 0
	exitFail  = 1
	exitUsage = 2
)

// exitError carries the process exit code through cobra's RunE.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageErr(format string, args ...any) error {
	return &exitError{code: exitUsage, err: fmt.Errorf(format, args...)}
}

func failErr(err error) error {
	return &exitError{code: exitFail, err: err}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, out io.Writer, errOut io.Writer) int {
	root := newRootCmd(out, errOut)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err == nil {
		return exitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil && ee.code != exitOK {
			fmt.Fprintf(errOut, "charsniff: %v\n", ee.err)
		}
		return ee.code
	}
	// Flag parsing and unknown commands.
	fmt.Fprintf(errOut, "charsniff: %v\n", err)
	fmt.Fprintln(errOut, "Run 'charsniff --help' for usage.")
	return exitUsage
}

func newRootCmd(out io.Writer, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "charsniff",
		Short: "Check text files against character-set and line-ending policies",
		Long: `charsniff is a build-time gate for text files.

It checks every listed file for characters outside an allowed code range,
characters outside an allow-list or inside a deny-list, a required end of
line convention and, optionally, strict UTF-8 byte sequences. The exit code
is non-zero when any file fails.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.AddCommand(newCheckCmd(), newEOLCmd(), newCIDCmd(), newFormatsCmd(), newVersionCmd())
	return root
}

// checkFlags are the check options that stay outside the config file.
type checkFlags struct {
	configPath    string
	remote        string
	remoteTimeout time.Duration
}

func newCheckCmd() *cobra.Command {
	var f checkFlags
	cmd := &cobra.Command{
		Use:   "check [flags] <file>...",
		Short: "Validate files against the policy",
		Example: `  charsniff check --max-char-code 127 --eol LF README.md docs/*.md
  charsniff check --config charsniff.yaml --format json
  charsniff check --remote 127.0.0.1:7878 src/*.properties`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, f, args)
		},
	}
	cmd.Flags().StringVar(&f.configPath, "config", "", "config file (yaml, json or toml)")
	cmd.Flags().StringVar(&f.remote, "remote", "", "validate through the charsniff-grpcd at this address instead of in process")
	cmd.Flags().DurationVar(&f.remoteTimeout, "remote-timeout", 10*time.Second, "connect and per-file timeout for --remote")
	config.RegisterFlags(cmd.Flags())
	return cmd
}

func runCheck(cmd *cobra.Command, f checkFlags, args []string) error {
	cfg, err := config.Load(f.configPath, cmd.Flags())
	if err != nil {
		return usageErr("%w", err)
	}
	cfg.Files = append(cfg.Files, args...)
	if len(cfg.Files) == 0 {
		return usageErr("no files to check")
	}
	if _, ok := report.Lookup(cfg.Format); !ok {
		return usageErr("unknown report format %q (available: %s)", cfg.Format, strings.Join(report.Names(), ", "))
	}
	if cfg.NoColor {
		color.NoColor = true
	}

	log, err := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return usageErr("%w", err)
	}
	defer func() { _ = log.Sync() }()

	policy, err := cfg.BuildPolicy()
	if err != nil {
		return usageErr("%w", err)
	}
	log.Debug("Policy loaded",
		zap.String("source", cfg.Source),
		zap.String("charset", policy.Encoding()),
		zap.Int("min_char_code", policy.MinCode()),
		zap.Int("max_char_code", policy.MaxCode()),
		zap.Stringer("eol", policy.EOL()),
		zap.Bool("validate_utf8", policy.ValidateUTF8()),
		zap.Int("files", len(cfg.Files)))
	if policy.EmptyRange() {
		log.Warn("Min char code exceeds max char code, every non-empty file will fail",
			zap.Int("min_char_code", policy.MinCode()),
			zap.Int("max_char_code", policy.MaxCode()))
	}

	opts := []runner.Option{runner.WithLogger(log)}
	if f.remote != "" {
		client, err := grpcsniff.Dial(cmd.Context(), f.remote, grpcsniff.DialOptions{
			ReadyTimeout: f.remoteTimeout,
			CallTimeout:  f.remoteTimeout,
		})
		if err != nil {
			return failErr(fmt.Errorf("connect to %s: %w", f.remote, err))
		}
		defer func() { _ = client.Close() }()
		log.Debug("Validating remotely", zap.String("remote", f.remote))
		opts = append(opts, runner.WithChecker(client))
	}

	sum, runErr := runner.New(policy, cfg.Runner(), opts...).Run(cmd.Context())
	if err := report.Write(cmd.OutOrStdout(), cfg.Format, sum); err != nil {
		return failErr(fmt.Errorf("write report: %w", err))
	}
	if runErr != nil {
		return failErr(runErr)
	}
	return nil
}

func newEOLCmd() *cobra.Command {
	var charset string
	cmd := &cobra.Command{
		Use:   "eol [--charset <name>] <file>...",
		Short: "Print the first end-of-line kind of each file",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := sniff.DefaultOptions()
			opts.Encoding = charset
			policy, err := sniff.NewPolicy(opts)
			if err != nil {
				return usageErr("%w", err)
			}
			failed := false
			for _, path := range args {
				b, err := os.ReadFile(path)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "read %s: %v\n", path, err)
					failed = true
					continue
				}
				text, err := policy.Decode(b)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", path, err)
					failed = true
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", path, sniff.DetectFirstEOL(text))
			}
			if failed {
				return &exitError{code: exitFail, err: errors.New("some files could not be read")}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&charset, "charset", sniff.DefaultEncoding, "charset used to decode files")
	return cmd
}

func newCIDCmd() *cobra.Command {
	var verify string
	cmd := &cobra.Command{
		Use:   "cid [--verify <cid>] <file>",
		Short: "Print the content identifier recorded for a file in reports",
		Long: `Print the content identifier recorded for a file in reports.

With --verify, compare the file against an identifier taken from an earlier
report instead and exit non-zero when the content changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := os.ReadFile(args[0])
			if err != nil {
				return failErr(fmt.Errorf("read %s: %w", args[0], err))
			}
			if verify == "" {
				fmt.Fprintln(cmd.OutOrStdout(), contentid.Of(b))
				return nil
			}
			ok, err := contentid.Matches(verify, b)
			if err != nil {
				return usageErr("%w", err)
			}
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\tCHANGED\n", args[0])
				return &exitError{code: exitFail, err: fmt.Errorf("%s does not match %s", args[0], verify)}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\tMATCH\n", args[0])
			return nil
		},
	}
	cmd.Flags().StringVar(&verify, "verify", "", "expected content identifier")
	return cmd
}

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List report formats",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			for _, r := range report.List() {
				if r.Description == "" {
					fmt.Fprintln(cmd.OutOrStdout(), r.Name)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Name, r.Description)
			}
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "charsniff %s\n", version)
		},
	}
}
