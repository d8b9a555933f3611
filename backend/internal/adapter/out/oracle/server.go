package oracle

import (
	"context"
	"log"
	"sync/atomic"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"fractal-marble/backend/internal/fractal"
)

// Server отдает любой fractal.Oracle по gRPC
type Server struct {
	oracle   fractal.Oracle
	logger   *log.Logger
	requests atomic.Uint64
}

// NewServer создает сервер поверх оракула
func NewServer(o fractal.Oracle, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{oracle: o, logger: logger}
}

// NearestPoint обрабатывает запрос ближайшей точки
func (s *Server) NearestPoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	shape, p, err := DecodeRequest(req)
	if err != nil {
		s.logger.Printf("[DistanceField] Некорректный запрос: %v", err)
		return nil, status.Errorf(codes.InvalidArgument, "nearest point: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}

	n := s.requests.Add(1)
	if n == 1 || n%10000 == 0 {
		s.logger.Printf("[DistanceField] Обработано запросов: %d", n)
	}

	return EncodePoint(s.oracle.NearestPoint(shape, p)), nil
}

// Requests количество обработанных запросов
func (s *Server) Requests() uint64 {
	return s.requests.Load()
}
