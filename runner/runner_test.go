package runner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"xdao.co/charsniff/contentid"
	"xdao.co/charsniff/sniff"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o644))
	return p
}

func digitsPolicy(t *testing.T) *sniff.Policy {
	t.Helper()
	opts := sniff.DefaultOptions()
	opts.MinCode, opts.MaxCode = '0', '9'
	p, err := sniff.NewPolicy(opts)
	require.NoError(t, err)
	return p
}

func observed(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func TestRun_AllOK(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("0123"))
	b := writeFile(t, dir, "b.txt", []byte("456789"))

	log, logs := observed(zapcore.InfoLevel)
	sum, err := New(digitsPolicy(t), Config{Files: []string{a, b}}, WithLogger(log)).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, sum.OK())
	assert.Equal(t, 2, sum.Checked)
	require.Len(t, sum.Results, 2)
	assert.Equal(t, StatusOK, sum.Results[0].Status)
	assert.Equal(t, contentid.Of([]byte("0123")), sum.Results[0].CID)
	assert.Equal(t, int64(6), sum.Results[1].Size)

	entries := logs.FilterLevelExact(zapcore.InfoLevel).All()
	require.Len(t, entries, 2)
	assert.Equal(t, StatusLine(a, StatusOK), entries[0].Message)
}

func TestRun_BadFileCountsAndContinues(t *testing.T) {
	dir := t.TempDir()
	bad := writeFile(t, dir, "bad.txt", []byte("12a3"))
	good := writeFile(t, dir, "good.txt", []byte("123"))

	log, logs := observed(zapcore.DebugLevel)
	sum, err := New(digitsPolicy(t), Config{Files: []string{bad, good}}, WithLogger(log)).Run(context.Background())
	require.ErrorIs(t, err, ErrBadFiles)
	assert.Equal(t, 1, sum.Bad)
	assert.Equal(t, 2, sum.Checked)
	assert.Equal(t, StatusBad, sum.Results[0].Status)
	assert.Equal(t, StatusOK, sum.Results[1].Status)
	require.NotNil(t, sum.Results[0].Verdict)
	assert.Equal(t, sniff.RuleCodeRange, sum.Results[0].Verdict.RuleID)
	assert.Equal(t, "detected wrong chars : 'a'", sum.Results[0].Reason)

	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	diag := logs.FilterMessage("File violates policy").All()
	require.Len(t, diag, 1)
	assert.Equal(t, "'a'", diag[0].ContextMap()["chars"])
}

func TestRun_MissingFileAborts(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.txt")
	never := writeFile(t, dir, "never.txt", []byte("1"))

	log, logs := observed(zapcore.InfoLevel)
	sum, err := New(digitsPolicy(t), Config{Files: []string{missing, never}}, WithLogger(log)).Run(context.Background())
	require.ErrorIs(t, err, ErrMissingFile)
	assert.Contains(t, err.Error(), missing)
	assert.Equal(t, 1, sum.Missing)
	assert.Len(t, sum.Results, 1, "run stops at the missing file")
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRun_MissingFileAllowed(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.txt", []byte("1"))

	sum, err := New(digitsPolicy(t), Config{
		Files:               []string{filepath.Join(dir, "nope.txt"), dir, good},
		MissingFilesAllowed: true,
	}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Missing, "directories count as missing")
	assert.Equal(t, 1, sum.Checked)
	assert.True(t, sum.OK())
}

func TestRun_EmptyFile(t *testing.T) {
	dir := t.TempDir()
	empty := writeFile(t, dir, "empty.txt", nil)

	sum, err := New(digitsPolicy(t), Config{Files: []string{empty}}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusOK, sum.Results[0].Status)

	sum, err = New(digitsPolicy(t), Config{Files: []string{empty}, FailForEmptyFile: true}).Run(context.Background())
	require.ErrorIs(t, err, ErrBadFiles)
	assert.Equal(t, StatusBad, sum.Results[0].Status)
	assert.Equal(t, "zero length", sum.Results[0].Reason)
	assert.Empty(t, sum.Results[0].CID)
}

func TestRun_ReadErrorIsBad(t *testing.T) {
	dir := t.TempDir()
	p := writeFile(t, dir, "locked.txt", []byte("1"))
	boom := errors.New("boom")

	sum, err := New(digitsPolicy(t), Config{Files: []string{p}},
		WithFS(nil, func(string) ([]byte, error) { return nil, boom }),
	).Run(context.Background())
	require.ErrorIs(t, err, ErrBadFiles)
	res := sum.Results[0]
	assert.Equal(t, StatusBad, res.Status)
	assert.True(t, sniff.IsKind(res.Err, sniff.KindIO))
	assert.ErrorIs(t, res.Err, boom)
}

func TestRun_StatOverride(t *testing.T) {
	stat := func(string) (fs.FileInfo, error) { return nil, fs.ErrNotExist }
	sum, err := New(digitsPolicy(t), Config{Files: []string{"x"}, MissingFilesAllowed: true},
		WithFS(stat, nil)).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, StatusMissed, sum.Results[0].Status)
}

func TestRun_ContextCanceled(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sum, err := New(digitsPolicy(t), Config{Files: []string{a}}).Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sum.Results)
}

type checkerFunc func(ctx context.Context, data []byte) (sniff.Verdict, error)

func (f checkerFunc) Check(ctx context.Context, data []byte) (sniff.Verdict, error) {
	return f(ctx, data)
}

func TestRun_WithChecker(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.txt", []byte("letters"))
	b := writeFile(t, dir, "b.txt", []byte("reject me"))
	c := writeFile(t, dir, "c.txt", []byte("unreachable"))
	down := errors.New("remote down")

	var seen []string
	check := checkerFunc(func(_ context.Context, data []byte) (sniff.Verdict, error) {
		seen = append(seen, string(data))
		switch string(data) {
		case "reject me":
			return sniff.Verdict{RuleID: "SNIFF-REMOTE-001"}, nil
		case "unreachable":
			return sniff.Verdict{}, down
		}
		return sniff.Verdict{OK: true}, nil
	})

	log, logs := observed(zapcore.InfoLevel)
	// The digits policy would reject every file; the checker decides instead.
	sum, err := New(digitsPolicy(t), Config{Files: []string{a, b, c}},
		WithLogger(log), WithChecker(check)).Run(context.Background())
	require.ErrorIs(t, err, ErrBadFiles)
	assert.Equal(t, []string{"letters", "reject me", "unreachable"}, seen)

	assert.Equal(t, StatusOK, sum.Results[0].Status)
	assert.Equal(t, StatusBad, sum.Results[1].Status)
	assert.Equal(t, "rejected by rule SNIFF-REMOTE-001", sum.Results[1].Reason)
	assert.Equal(t, StatusBad, sum.Results[2].Status)
	assert.ErrorIs(t, sum.Results[2].Err, down)
	assert.Equal(t, 2, sum.Bad)
	assert.Equal(t, 1, logs.FilterMessage("Can't check text file").Len())
}

func TestRun_NilPolicy(t *testing.T) {
	_, err := New(nil, Config{}).Run(context.Background())
	assert.Error(t, err)
}

func TestStatusLine(t *testing.T) {
	line := StatusLine("/tmp/some/readme.md", StatusOK)
	assert.Equal(t, "readme.md"+strings.Repeat(".", 64-len("readme.md"))+"OK", line)
	assert.Len(t, StatusLine("x", StatusMissed), 64+len("MISSED"))

	long := strings.Repeat("n", 70)
	assert.Equal(t, long+"BAD", StatusLine(long, StatusBad))
}
