package main

import (
	"bytes"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"xdao.co/charsniff/sniff"
	"xdao.co/charsniff/transport/grpcsniff"
)

func TestRun_UsageErrors(t *testing.T) {
	var errOut bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), []string{"--bogus"}, &errOut))

	errOut.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"--charset", "klingon"}, &errOut))
	assert.Contains(t, errOut.String(), "Invalid policy")

	errOut.Reset()
	assert.Equal(t, 2, run(context.Background(), []string{"--log-level", "LOUD"}, &errOut))

	assert.Equal(t, 0, run(context.Background(), []string{"--help"}, &errOut))
}

func TestRun_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(200*time.Millisecond, cancel)

	var errOut bytes.Buffer
	code := run(ctx, []string{"--listen", "127.0.0.1:0", "--log-format", "JSON"}, &errOut)
	assert.Equal(t, 0, code)
	assert.Contains(t, errOut.String(), "charsniff-grpcd listening")
	assert.Contains(t, errOut.String(), "Shutting down")
}

func TestServe(t *testing.T) {
	opts := sniff.DefaultOptions()
	opts.MinCode, opts.MaxCode = 'z', 'a'
	policy := sniff.MustPolicy(opts)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	core, logs := observer.New(zap.InfoLevel)

	ctx, cancel := context.WithCancel(context.Background())
	served := make(chan error, 1)
	go func() { served <- serve(ctx, lis, policy, 1<<20, zap.New(core)) }()

	c, err := grpcsniff.Dial(context.Background(), lis.Addr().String(), grpcsniff.DialOptions{
		ReadyTimeout: 5 * time.Second,
		CallTimeout:  5 * time.Second,
	})
	require.NoError(t, err)

	ok, err := c.Validate([]byte("m"))
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.Validate(nil)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, c.Close())
	cancel()
	select {
	case err := <-served:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
	assert.Equal(t, 1, logs.FilterMessageSnippet("every non-empty file will fail").Len())
}
