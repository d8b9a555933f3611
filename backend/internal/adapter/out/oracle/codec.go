package oracle

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"fractal-marble/backend/internal/fractal"
	"fractal-marble/backend/internal/vecmath"
)

// Поля сообщений сервиса
const (
	fieldScale    = "scale"
	fieldAngle1   = "angle1"
	fieldAngle2   = "angle2"
	fieldOffset   = "offset"
	fieldPosition = "position"
	fieldPoint    = "point"
)

// EncodeRequest собирает запрос ближайшей точки
func EncodeRequest(shape fractal.ShapeParams, p vecmath.Vec) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldScale:    structpb.NewNumberValue(shape.Scale),
		fieldAngle1:   structpb.NewNumberValue(shape.Angle1),
		fieldAngle2:   structpb.NewNumberValue(shape.Angle2),
		fieldOffset:   vecValue(shape.Offset),
		fieldPosition: vecValue(p),
	}}
}

// DecodeRequest разбирает запрос ближайшей точки
func DecodeRequest(req *structpb.Struct) (fractal.ShapeParams, vecmath.Vec, error) {
	if req == nil {
		return fractal.ShapeParams{}, vecmath.Vec{}, fmt.Errorf("empty request")
	}

	var (
		shape fractal.ShapeParams
		err   error
	)
	if shape.Scale, err = number(req, fieldScale); err != nil {
		return shape, vecmath.Vec{}, err
	}
	if shape.Angle1, err = number(req, fieldAngle1); err != nil {
		return shape, vecmath.Vec{}, err
	}
	if shape.Angle2, err = number(req, fieldAngle2); err != nil {
		return shape, vecmath.Vec{}, err
	}
	if shape.Offset, err = vec(req, fieldOffset); err != nil {
		return shape, vecmath.Vec{}, err
	}

	p, err := vec(req, fieldPosition)
	if err != nil {
		return shape, vecmath.Vec{}, err
	}
	return shape, p, nil
}

// EncodePoint собирает ответ с ближайшей точкой
func EncodePoint(p vecmath.Vec) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldPoint: vecValue(p),
	}}
}

// DecodePoint разбирает ответ с ближайшей точкой
func DecodePoint(resp *structpb.Struct) (vecmath.Vec, error) {
	if resp == nil {
		return vecmath.Vec{}, fmt.Errorf("empty response")
	}
	return vec(resp, fieldPoint)
}

func vecValue(v vecmath.Vec) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
		structpb.NewNumberValue(v[0]),
		structpb.NewNumberValue(v[1]),
		structpb.NewNumberValue(v[2]),
	}})
}

func number(s *structpb.Struct, field string) (float64, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return 0, fmt.Errorf("field %q is missing", field)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", field)
	}
	return n.NumberValue, nil
}

func vec(s *structpb.Struct, field string) (vecmath.Vec, error) {
	v, ok := s.GetFields()[field]
	if !ok {
		return vecmath.Vec{}, fmt.Errorf("field %q is missing", field)
	}
	list := v.GetListValue()
	if list == nil || len(list.GetValues()) != 3 {
		return vecmath.Vec{}, fmt.Errorf("field %q must be a list of 3 numbers", field)
	}

	var out vecmath.Vec
	for i, item := range list.GetValues() {
		n, ok := item.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return vecmath.Vec{}, fmt.Errorf("field %q[%d] is not a number", field, i)
		}
		out[i] = n.NumberValue
	}
	return out, nil
}
