package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/merchantdash/internal/canister"
	"github.com/dmitrijs2005/merchantdash/internal/delegation"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const callerKey ctxKey = "caller"

// callerFrom returns the principal stored by the interceptor.
func callerFrom(ctx context.Context) (principal.Principal, bool) {
	p, ok := ctx.Value(callerKey).(principal.Principal)
	return p, ok
}

// delegationInterceptor verifies the delegation on every canister call and
// puts the caller principal into the context.
func (s *GRPCServer) delegationInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(canister.DelegationHeaderName); len(values) > 0 {
			token = values[0]
		}
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "missing delegation")
	}

	caller, _, err := delegation.Verify(token, s.providerKey)
	if err != nil {
		s.logger.Warn(ctx, "rejected delegation", "method", info.FullMethod, "err", err)
		if errors.Is(err, delegation.ErrDelegationExpired) {
			return nil, status.Error(codes.Unauthenticated, "delegation expired")
		}
		return nil, status.Error(codes.Unauthenticated, "invalid delegation")
	}

	return handler(context.WithValue(ctx, callerKey, caller), req)
}
