// Package grpc serves the canister RPC surface over gRPC.
package grpc

import (
	"context"
	"crypto/ed25519"
	"net"

	"github.com/dmitrijs2005/merchantdash/internal/canister"
	"github.com/dmitrijs2005/merchantdash/internal/logging"
	"github.com/dmitrijs2005/merchantdash/internal/merchant"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"google.golang.org/grpc"
)

// MerchantService is the business layer behind the RPC handlers.
type MerchantService interface {
	Get(ctx context.Context, owner principal.Principal) (*merchant.Response, error)
	Update(ctx context.Context, owner principal.Principal, m merchant.Merchant) (*merchant.Response, error)
	Logs(ctx context.Context, owner principal.Principal) ([]string, error)
}

type GRPCServer struct {
	address     string
	merchants   MerchantService
	logger      logging.Logger
	providerKey ed25519.PublicKey
}

var _ canister.RPCServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, ms MerchantService, providerKey ed25519.PublicKey) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		merchants:   ms,
		providerKey: providerKey,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.delegationInterceptor))

	canister.RegisterServer(srv, s)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	<-stopped
	return nil
}
