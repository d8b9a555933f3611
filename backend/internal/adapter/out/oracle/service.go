// Package oracle выносит запрос ближайшей точки поверхности в отдельный gRPC сервис.
// Сообщения передаются как google.protobuf.Struct, сгенерированный код не нужен.
package oracle

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	// ServiceName полное имя gRPC сервиса
	ServiceName = "fractal.DistanceField"
	// NearestPointMethod полное имя метода для Invoke
	NearestPointMethod = "/" + ServiceName + "/NearestPoint"
)

// DistanceFieldServer серверная сторона сервиса
type DistanceFieldServer interface {
	NearestPoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc описание сервиса для grpc.Server
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DistanceFieldServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "NearestPoint",
			Handler:    nearestPointHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fractal/distance_field.proto",
}

// RegisterDistanceFieldServer регистрирует реализацию сервиса
func RegisterDistanceFieldServer(s grpc.ServiceRegistrar, srv DistanceFieldServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func nearestPointHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DistanceFieldServer).NearestPoint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: NearestPointMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(DistanceFieldServer).NearestPoint(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
