// Package runner applies a sniff.Policy to a list of files, logs a status
// line per file and aggregates the outcome of a build step.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"xdao.co/charsniff/contentid"
	"xdao.co/charsniff/sniff"
)

var (
	// ErrMissingFile aborts a run when a listed file does not exist and
	// missing files are not allowed.
	ErrMissingFile = errors.New("can't find file")
	// ErrBadFiles is returned after a run in which at least one file failed.
	ErrBadFiles = errors.New("detected bad files, check log")
)

// Status is the per-file outcome.
type Status string

const (
	StatusOK     Status = "OK"
	StatusBad    Status = "BAD"
	StatusMissed Status = "MISSED"
)

// Config holds the run-level toggles. The file list is processed in order.
type Config struct {
	Files               []string
	MissingFilesAllowed bool
	FailForEmptyFile    bool
}

// FileResult is what the run recorded for one listed file.
type FileResult struct {
	Path   string
	Status Status
	Size   int64
	// CID identifies the checked bytes; empty when the file was not read.
	CID string
	// Verdict is set when the file was validated.
	Verdict *sniff.Verdict
	// Reason explains a BAD or MISSED status.
	Reason string
	Err    error
}

// Summary aggregates a run.
type Summary struct {
	Results []FileResult
	Checked int
	Bad     int
	Missing int
}

// OK reports whether no file failed.
func (s Summary) OK() bool { return s.Bad == 0 }

// Checker decides the verdict for the bytes of one file.
type Checker interface {
	Check(ctx context.Context, data []byte) (sniff.Verdict, error)
}

// policyChecker runs the policy in process.
type policyChecker struct{ p *sniff.Policy }

func (c policyChecker) Check(_ context.Context, data []byte) (sniff.Verdict, error) {
	return sniff.Inspect(data, c.p)
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used for status lines and diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// WithChecker replaces the in-process policy checks, for example with a
// remote charsniff-grpcd client. The policy still supplies the charset and
// EOL requirement used in log lines.
func WithChecker(c Checker) Option {
	return func(r *Runner) {
		if c != nil {
			r.check = c
		}
	}
}

// WithFS replaces the file system access; used by tests.
func WithFS(stat func(string) (fs.FileInfo, error), read func(string) ([]byte, error)) Option {
	return func(r *Runner) {
		if stat != nil {
			r.stat = stat
		}
		if read != nil {
			r.read = read
		}
	}
}

// Runner validates files one after another against a shared policy.
type Runner struct {
	policy *sniff.Policy
	cfg    Config
	log    *zap.Logger
	check  Checker
	stat   func(string) (fs.FileInfo, error)
	read   func(string) ([]byte, error)
}

func New(policy *sniff.Policy, cfg Config, opts ...Option) *Runner {
	r := &Runner{
		policy: policy,
		cfg:    cfg,
		log:    zap.NewNop(),
		check:  policyChecker{p: policy},
		stat:   os.Stat,
		read:   os.ReadFile,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run checks every configured file. It stops early only for a missing file
// that is not allowed, or when ctx is done. The returned summary covers the
// files processed so far.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	var sum Summary
	if r.policy == nil {
		return sum, errors.New("runner: nil policy")
	}

	for _, path := range r.cfg.Files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		res := r.checkOne(ctx, path)
		sum.Results = append(sum.Results, res)
		r.printStatus(res)

		switch res.Status {
		case StatusMissed:
			sum.Missing++
			if !r.cfg.MissingFilesAllowed {
				return sum, fmt.Errorf("%w : %s", ErrMissingFile, path)
			}
		case StatusBad:
			sum.Checked++
			sum.Bad++
		default:
			sum.Checked++
		}
	}

	if sum.Bad > 0 {
		return sum, ErrBadFiles
	}
	return sum, nil
}

func (r *Runner) checkOne(ctx context.Context, path string) FileResult {
	res := FileResult{Path: path}

	info, err := r.stat(path)
	if err != nil || !info.Mode().IsRegular() {
		res.Status = StatusMissed
		res.Reason = "not found"
		r.log.Debug("File not found", zap.String("file", path))
		return res
	}
	res.Size = info.Size()

	if res.Size == 0 && r.cfg.FailForEmptyFile {
		res.Status = StatusBad
		res.Reason = "zero length"
		r.log.Debug("File has zero length", zap.String("file", path))
		return res
	}

	data, err := r.read(path)
	if err != nil {
		res.Status = StatusBad
		res.Err = sniff.NewIOError("can't read text file", err)
		res.Reason = res.Err.Error()
		r.log.Error("Can't read text file", zap.String("file", path), zap.Error(err))
		return res
	}
	res.CID = contentid.Of(data)

	v, err := r.check.Check(ctx, data)
	if err != nil {
		res.Status = StatusBad
		res.Err = err
		res.Reason = err.Error()
		r.log.Error("Can't check text file",
			zap.String("file", path),
			zap.String("charset", r.policy.Encoding()),
			zap.Error(err))
		return res
	}
	res.Verdict = &v
	if v.OK {
		res.Status = StatusOK
		return res
	}

	res.Status = StatusBad
	res.Reason = describe(v)
	if ce := r.log.Check(zap.DebugLevel, "File violates policy"); ce != nil {
		fields := []zap.Field{zap.String("file", path), zap.String("rule", v.RuleID)}
		switch v.RuleID {
		case sniff.RuleCodeRange:
			fields = append(fields, zap.String("chars", v.OffendingString()))
		case sniff.RuleEOL:
			fields = append(fields, zap.Stringer("detected", v.DetectedEOL), zap.Stringer("required", r.policy.EOL()))
		}
		ce.Write(fields...)
	}
	return res
}

func describe(v sniff.Verdict) string {
	switch v.RuleID {
	case sniff.RuleCodeRange:
		return "detected wrong chars : " + v.OffendingString()
	case sniff.RuleMembership:
		return "contains chars outside the allowed alphabet"
	case sniff.RuleEOL:
		return "wrong end of line " + v.DetectedEOL.String()
	case sniff.RuleUTF8:
		return "contains wrong UTF8 byte sequence"
	default:
		return "rejected by rule " + v.RuleID
	}
}

// statusWidth is the column at which the status follows the dotted name.
const statusWidth = 64

// StatusLine renders a file status as its base name padded with dots to 64
// columns, followed by the status.
func StatusLine(path string, st Status) string {
	name := filepath.Base(path)
	pad := statusWidth - len([]rune(name))
	if pad < 0 {
		pad = 0
	}
	return name + strings.Repeat(".", pad) + string(st)
}

func (r *Runner) printStatus(res FileResult) {
	line := StatusLine(res.Path, res.Status)
	switch res.Status {
	case StatusBad:
		r.log.Error(line)
	case StatusMissed:
		r.log.Warn(line)
	default:
		r.log.Info(line)
	}
}
