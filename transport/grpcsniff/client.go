package grpcsniff

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/charsniff/sniff"
)

// RuleRemote is the Verdict.RuleID of a file the remote policy rejected. The
// service answers with a bare verdict, so no finer rule is known.
const RuleRemote = "SNIFF-REMOTE-001"

// Client validates bytes against a remote Sniffer service.
type Client struct {
	cc     *grpc.ClientConn
	client SnifferClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// ReadyTimeout, when non-zero, makes Dial wait until the daemon accepts
	// the connection so an unreachable daemon fails before any file is sent.
	ReadyTimeout time.Duration

	// CallTimeout becomes Client.Timeout.
	CallTimeout time.Duration

	// MaxMsgBytes raises the send limit when non-zero. A whole file travels
	// in one request.
	MaxMsgBytes int
}

// Dial connects to a charsniff-grpcd listening on target (host:port).
func Dial(ctx context.Context, target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts, grpc.WithDefaultCallOptions(grpc.MaxCallSendMsgSize(opts.MaxMsgBytes)))
	}

	cc, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("grpcsniff: dial %s: %w", target, err)
	}
	if opts.ReadyTimeout > 0 {
		if err := waitReady(ctx, cc, opts.ReadyTimeout); err != nil {
			_ = cc.Close()
			return nil, err
		}
	}

	c := NewClient(cc)
	c.Timeout = opts.CallTimeout
	return c, nil
}

func waitReady(ctx context.Context, cc *grpc.ClientConn, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d)
	defer cancel()

	cc.Connect()
	for {
		state := cc.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Shutdown:
			return fmt.Errorf("grpcsniff: connection to %s shut down", cc.Target())
		}
		if !cc.WaitForStateChange(ctx, state) {
			return fmt.Errorf("grpcsniff: %s not ready (last state %s): %w", cc.Target(), state, ctx.Err())
		}
	}
}

// NewClient wraps an existing connection. Close closes cc.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewSnifferClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Validate reports whether data satisfies the server's policy.
func (c *Client) Validate(data []byte) (bool, error) {
	return c.validate(context.Background(), data)
}

// Check validates data remotely and reports the result as a Verdict, so a
// Client can stand in for the in-process checks of a runner.
func (c *Client) Check(ctx context.Context, data []byte) (sniff.Verdict, error) {
	ok, err := c.validate(ctx, data)
	if err != nil {
		return sniff.Verdict{}, err
	}
	if !ok {
		return sniff.Verdict{RuleID: RuleRemote}, nil
	}
	return sniff.Verdict{OK: true}, nil
}

func (c *Client) validate(parent context.Context, data []byte) (bool, error) {
	ctx, cancel := c.ctx(parent)
	defer cancel()

	reply, err := c.client.Validate(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return false, mapRPC(err)
	}
	return reply.GetValue(), nil
}

// DetectEOL returns the first line break kind of data as decoded by the
// server's charset.
func (c *Client) DetectEOL(data []byte) (sniff.EndOfLine, error) {
	ctx, cancel := c.ctx(context.Background())
	defer cancel()

	reply, err := c.client.DetectEOL(ctx, wrapperspb.Bytes(data))
	if err != nil {
		return sniff.Undefined, mapRPC(err)
	}
	return sniff.ParseEndOfLine(reply.GetValue())
}

func (c *Client) ctx(parent context.Context) (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, c.Timeout)
}
