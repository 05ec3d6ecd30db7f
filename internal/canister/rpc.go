// Package canister describes the canister RPC surface shared by the dashboard
// client and the development canister: the gRPC service descriptor, typed
// client/server stubs and the wire codec.
//
// Messages use protobuf well-known types so no generated code is involved:
// requests without arguments are Empty, envelopes and merchant records are
// Struct and log sequences are ListValue.
package canister

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName = "merchant.v1.Canister"

	GetMerchantMethod    = "/merchant.v1.Canister/GetMerchant"
	UpdateMerchantMethod = "/merchant.v1.Canister/UpdateMerchant"
	GetLogsMethod        = "/merchant.v1.Canister/GetLogs"
)

// DelegationHeaderName is the gRPC metadata key carrying the caller's
// delegation.
const DelegationHeaderName = "delegation"

// RPCClient is the raw client stub of the canister service.
type RPCClient interface {
	GetMerchant(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	UpdateMerchant(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetLogs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error)
}

type rpcClient struct {
	cc grpc.ClientConnInterface
}

// NewRPCClient binds the client stub to a connection.
func NewRPCClient(cc grpc.ClientConnInterface) RPCClient {
	return &rpcClient{cc: cc}
}

func (c *rpcClient) GetMerchant(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, GetMerchantMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rpcClient) UpdateMerchant(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, UpdateMerchantMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *rpcClient) GetLogs(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.ListValue, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, GetLogsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RPCServer is implemented by canister servers.
type RPCServer interface {
	GetMerchant(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateMerchant(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetLogs(context.Context, *emptypb.Empty) (*structpb.ListValue, error)
}

// RegisterServer registers srv on s.
func RegisterServer(s grpc.ServiceRegistrar, srv RPCServer) {
	s.RegisterService(&ServiceDesc, srv)
}

// ServiceDesc is the grpc.ServiceDesc of the canister service.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*RPCServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetMerchant", Handler: getMerchantHandler},
		{MethodName: "UpdateMerchant", Handler: updateMerchantHandler},
		{MethodName: "GetLogs", Handler: getLogsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "merchant/v1/canister.proto",
}

func getMerchantHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCServer).GetMerchant(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetMerchantMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RPCServer).GetMerchant(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

func updateMerchantHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCServer).UpdateMerchant(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: UpdateMerchantMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RPCServer).UpdateMerchant(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func getLogsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RPCServer).GetLogs(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetLogsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(RPCServer).GetLogs(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}
