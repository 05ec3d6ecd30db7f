package grpc

import (
	"context"

	"github.com/dmitrijs2005/merchantdash/internal/canister"
	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

func (s *GRPCServer) caller(ctx context.Context) (principal.Principal, error) {
	p, ok := callerFrom(ctx)
	if !ok || p.IsAnonymous() {
		return principal.Principal{}, status.Error(codes.Unauthenticated, "anonymous caller")
	}
	return p, nil
}

func (s *GRPCServer) GetMerchant(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	p, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.merchants.Get(ctx, p)
	if err != nil {
		s.logger.Error(ctx, "get merchant", "principal", p.String(), "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return canister.EncodeResponse(resp), nil
}

func (s *GRPCServer) UpdateMerchant(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	p, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	m, err := canister.DecodeMerchant(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	resp, err := s.merchants.Update(ctx, p, m)
	if err != nil {
		s.logger.Error(ctx, "update merchant", "principal", p.String(), "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	s.logger.Info(ctx, "merchant updated", "principal", p.String(), "status", resp.Status)
	return canister.EncodeResponse(resp), nil
}

func (s *GRPCServer) GetLogs(ctx context.Context, _ *emptypb.Empty) (*structpb.ListValue, error) {
	p, err := s.caller(ctx)
	if err != nil {
		return nil, err
	}

	logs, err := s.merchants.Logs(ctx, p)
	if err != nil {
		s.logger.Error(ctx, "get logs", "principal", p.String(), "err", err)
		return nil, status.Error(codes.Internal, "internal error")
	}

	return canister.EncodeLogs(logs), nil
}
