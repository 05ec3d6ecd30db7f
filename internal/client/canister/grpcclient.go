package canister

import (
	"context"
	"fmt"
	"sync"

	rpc "github.com/dmitrijs2005/merchantdash/internal/canister"
	"github.com/dmitrijs2005/merchantdash/internal/common"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
)

type GRPCClient struct {
	conn   *grpc.ClientConn
	client rpc.RPCClient

	mu         sync.RWMutex
	delegation string
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient connects to the canister at target. Extra dial options are
// appended after the defaults (plaintext transport, delegation interceptor).
func NewGRPCClient(target string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.delegationInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewRPCClient(conn)
	return c, nil
}

func withDelegation(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(rpc.DelegationHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) delegationInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	s.mu.RLock()
	token := s.delegation
	s.mu.RUnlock()

	if token != "" {
		ctx = withDelegation(ctx, token)
	}

	return invoker(ctx, method, req, reply, cc, opts...)
}

func (s *GRPCClient) Authorize(delegation string) {
	s.mu.Lock()
	s.delegation = delegation
	s.mu.Unlock()
}

func (s *GRPCClient) GetMerchant(ctx context.Context) (*merchant.Response, error) {
	resp, err := s.client.GetMerchant(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return rpc.DecodeResponse(resp)
}

func (s *GRPCClient) UpdateMerchant(ctx context.Context, m merchant.Merchant) (*merchant.Response, error) {
	resp, err := s.client.UpdateMerchant(ctx, rpc.EncodeMerchant(m))
	if err != nil {
		return nil, s.mapError(err)
	}
	return rpc.DecodeResponse(resp)
}

func (s *GRPCClient) GetLogs(ctx context.Context) ([]string, error) {
	resp, err := s.client.GetLogs(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return rpc.DecodeLogs(resp)
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return fmt.Errorf("%w: %s", common.ErrUnauthorized, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return fmt.Errorf("%w: %s", common.ErrUnavailable, st.Message())
	case codes.Canceled:
		return fmt.Errorf("rpc cancelled: %w", context.Canceled)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
