package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"xdao.co/charsniff/config"
	"xdao.co/charsniff/logging"
	"xdao.co/charsniff/sniff"
	"xdao.co/charsniff/transport/grpcsniff"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, errOut io.Writer) int {
	fs := pflag.NewFlagSet("charsniff-grpcd", pflag.ContinueOnError)
	fs.SetOutput(errOut)
	listen := fs.String("listen", "127.0.0.1:7878", "listen address")
	configPath := fs.String("config", "", "config file holding the policy (yaml, json or toml)")
	maxMsg := fs.Int("max-msg-bytes", 16<<20, "maximum request size in bytes")
	logLevel := fs.String("log-level", "INFO", "log level: DEBUG, INFO, WARN or ERROR")
	logFormat := fs.String("log-format", "CONSOLE", "log format: CONSOLE or JSON")
	config.RegisterPolicyFlags(fs)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	log, err := logging.NewWithWriter(errOut, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintln(errOut, err)
		return 2
	}
	defer func() { _ = log.Sync() }()

	cfg, err := config.Load(*configPath, fs)
	if err != nil {
		log.Error("Invalid configuration", zap.Error(err))
		return 2
	}
	policy, err := cfg.BuildPolicy()
	if err != nil {
		log.Error("Invalid policy", zap.Error(err))
		return 2
	}

	lis, err := net.Listen("tcp", *listen)
	if err != nil {
		log.Error("Listen failed", zap.String("addr", *listen), zap.Error(err))
		return 1
	}
	defer lis.Close()

	if err := serve(ctx, lis, policy, *maxMsg, log); err != nil {
		log.Error("Serve failed", zap.Error(err))
		return 1
	}
	return 0
}

// serve answers Sniffer RPCs on lis until ctx is done, then drains in-flight
// calls.
func serve(ctx context.Context, lis net.Listener, policy *sniff.Policy, maxMsg int, log *zap.Logger) error {
	s := grpc.NewServer(grpc.MaxRecvMsgSize(maxMsg))
	grpcsniff.RegisterSnifferServer(s, &grpcsniff.Server{Policy: policy})

	if policy.EmptyRange() {
		log.Warn("Min char code exceeds max char code, every non-empty file will fail",
			zap.Int("min_char_code", policy.MinCode()),
			zap.Int("max_char_code", policy.MaxCode()))
	}
	log.Info("charsniff-grpcd listening",
		zap.String("addr", lis.Addr().String()),
		zap.String("charset", policy.Encoding()),
		zap.Stringer("eol", policy.EOL()))

	done := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
			log.Info("Shutting down")
			s.GracefulStop()
		case <-done:
		}
	}()

	err := s.Serve(lis)
	close(done)
	<-stopped
	if ctx.Err() != nil {
		return nil
	}
	return err
}
