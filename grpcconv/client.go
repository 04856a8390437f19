package grpcconv

import (
	"context"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"xdao.co/qblxml/qbl"
)

// Client converts files through a remote Converter service.
// It satisfies convert.Converter.
type Client struct {
	cc     *grpc.ClientConn
	client ConverterClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
		dialOpts = append(dialOpts, grpc.WithBlock())
	}

	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	return NewClient(cc), nil
}

// NewClient wraps an existing connection. Close closes cc.
func NewClient(cc *grpc.ClientConn) *Client {
	return &Client{cc: cc, client: NewConverterClient(cc)}
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// ToXML decodes a qbl buffer remotely.
func (c *Client) ToXML(ctx context.Context, qblBytes []byte) ([]byte, error) {
	return c.Convert(ctx, qbl.FileTypeQbl, qblBytes)
}

// FromXML encodes an xml buffer remotely.
func (c *Client) FromXML(ctx context.Context, xml []byte) ([]byte, error) {
	return c.Convert(ctx, qbl.FileTypeXML, xml)
}

// Convert sends in to the service and returns the converted bytes.
// Pipeline failures come back as *qbl.Error with their Kind and RuleID intact.
func (c *Client) Convert(ctx context.Context, from qbl.FileType, in []byte) ([]byte, error) {
	if c == nil || c.client == nil {
		return nil, qbl.NewError(qbl.KindIO, "QBL-RPC-001", "grpcconv: client is not connected")
	}
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	var (
		reply *wrapperspb.BytesValue
		err   error
	)
	switch from {
	case qbl.FileTypeQbl:
		reply, err = c.client.ToXML(ctx, wrapperspb.Bytes(in))
	case qbl.FileTypeXML:
		reply, err = c.client.FromXML(ctx, wrapperspb.Bytes(in))
	default:
		return nil, qbl.NewError(qbl.KindUnsupportedExtension, "QBL-EXT-002", "unknown file type")
	}
	if err != nil {
		return nil, fromStatus(err)
	}
	return reply.GetValue(), nil
}
