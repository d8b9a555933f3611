package oracle

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"

	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

// DefaultTimeout время на один запрос из шага симуляции
const DefaultTimeout = 5 * time.Millisecond

// GRPCOracle удаленный оракул ближайшей точки.
// При ошибке запроса шаг продолжается без столкновения.
type GRPCOracle struct {
	conn    grpc.ClientConnInterface
	closer  func() error
	timeout time.Duration
	logger  *log.Logger

	calls    atomic.Uint64
	failures atomic.Uint64
}

// Dial подключается к сервису по адресу
func Dial(address string, timeout time.Duration, logger *log.Logger) (*GRPCOracle, error) {
	conn, err := grpc.NewClient(address, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к сервису поверхности: %w", err)
	}

	o := NewGRPCOracle(conn, timeout, logger)
	o.closer = conn.Close
	o.logger.Printf("[GRPCOracle] Подключено к сервису поверхности: %s", address)
	return o, nil
}

// NewGRPCOracle создает оракул поверх готового соединения
func NewGRPCOracle(conn grpc.ClientConnInterface, timeout time.Duration, logger *log.Logger) *GRPCOracle {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = log.Default()
	}
	return &GRPCOracle{conn: conn, timeout: timeout, logger: logger}
}

// NearestPointContext запрос ближайшей точки с явным контекстом
func (o *GRPCOracle) NearestPointContext(ctx context.Context, shape fractal.ShapeParams, p vecmath.Vec) (vecmath.Vec, error) {
	o.calls.Add(1)

	resp := new(structpb.Struct)
	if err := o.conn.Invoke(ctx, NearestPointMethod, EncodeRequest(shape, p), resp); err != nil {
		return vecmath.Vec{}, fmt.Errorf("nearest point: %w", err)
	}

	point, err := DecodePoint(resp)
	if err != nil {
		return vecmath.Vec{}, fmt.Errorf("nearest point response: %w", err)
	}
	return point, nil
}

// NearestPoint реализует fractal.Oracle. При ошибке возвращает fractal.FarAway.
func (o *GRPCOracle) NearestPoint(shape fractal.ShapeParams, p vecmath.Vec) vecmath.Vec {
	ctx, cancel := context.WithTimeout(context.Background(), o.timeout)
	defer cancel()

	point, err := o.NearestPointContext(ctx, shape, p)
	if err != nil {
		n := o.failures.Add(1)
		// Первая ошибка и дальше каждая сотая, чтобы не заливать лог на 60 TPS
		if n == 1 || n%100 == 0 {
			o.logger.Printf("[GRPCOracle] Ошибка запроса (всего %d): %v", n, err)
		}
		return fractal.FarAway
	}
	return point
}

// Stats количество запросов и ошибок
func (o *GRPCOracle) Stats() (calls, failures uint64) {
	return o.calls.Load(), o.failures.Load()
}

// Close закрывает соединение, если оно было открыто через Dial
func (o *GRPCOracle) Close() error {
	if o.closer == nil {
		return nil
	}
	return o.closer()
}
