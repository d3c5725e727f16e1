package grpc

// proto.go defines the gRPC service contract for diabetes.risk.v1.RiskService.
// Messages are plain structs carried by the JSON codec registered in codec.go.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	RiskService_Predict_FullMethodName       = "/diabetes.risk.v1.RiskService/Predict"
	RiskService_GetPrediction_FullMethodName = "/diabetes.risk.v1.RiskService/GetPrediction"
)

// RiskServiceServer is the server API for RiskService.
type RiskServiceServer interface {
	Predict(context.Context, *PredictRequest) (*PredictResponse, error)
	GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error)
	mustEmbedUnimplementedRiskServiceServer()
}

// UnimplementedRiskServiceServer provides forward-compatible default implementations.
type UnimplementedRiskServiceServer struct{}

func (UnimplementedRiskServiceServer) Predict(context.Context, *PredictRequest) (*PredictResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Predict not implemented")
}
func (UnimplementedRiskServiceServer) GetPrediction(context.Context, *GetPredictionRequest) (*GetPredictionResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetPrediction not implemented")
}
func (UnimplementedRiskServiceServer) mustEmbedUnimplementedRiskServiceServer() {}

// RegisterRiskServiceServer registers the RiskServiceServer with the gRPC server.
func RegisterRiskServiceServer(s grpclib.ServiceRegistrar, srv RiskServiceServer) {
	s.RegisterService(&_RiskService_serviceDesc, srv)
}

var _RiskService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "diabetes.risk.v1.RiskService",
	HandlerType: (*RiskServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "Predict", Handler: _RiskService_Predict_Handler},
		{MethodName: "GetPrediction", Handler: _RiskService_GetPrediction_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _RiskService_Predict_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(PredictRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).Predict(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskService_Predict_FullMethodName}
	handler := func(ctx context.Context, in interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).Predict(ctx, in.(*PredictRequest))
	}
	return interceptor(ctx, req, info, handler)
}

func _RiskService_GetPrediction_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetPredictionRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(RiskServiceServer).GetPrediction(ctx, req)
	}
	info := &grpclib.UnaryServerInfo{Server: srv, FullMethod: RiskService_GetPrediction_FullMethodName}
	handler := func(ctx context.Context, in interface{}) (interface{}, error) {
		return srv.(RiskServiceServer).GetPrediction(ctx, in.(*GetPredictionRequest))
	}
	return interceptor(ctx, req, info, handler)
}

// RiskServiceClient is the client API for RiskService.
type RiskServiceClient interface {
	Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error)
	GetPrediction(ctx context.Context, in *GetPredictionRequest, opts ...grpclib.CallOption) (*GetPredictionResponse, error)
}

type riskServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewRiskServiceClient returns a client that speaks the JSON codec.
func NewRiskServiceClient(cc grpclib.ClientConnInterface) RiskServiceClient {
	return &riskServiceClient{cc: cc}
}

func (c *riskServiceClient) Predict(ctx context.Context, in *PredictRequest, opts ...grpclib.CallOption) (*PredictResponse, error) {
	out := new(PredictResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, RiskService_Predict_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *riskServiceClient) GetPrediction(ctx context.Context, in *GetPredictionRequest, opts ...grpclib.CallOption) (*GetPredictionResponse, error) {
	out := new(GetPredictionResponse)
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(codecName)}, opts...)
	if err := c.cc.Invoke(ctx, RiskService_GetPrediction_FullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
