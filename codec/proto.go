package codec

import (
	"fmt"
	"reflect"

	"google.golang.org/protobuf/proto"
)

// Proto is a Codec for values implementing proto.Message. Decode accepts
// either a message or a pointer to a message variable, allocating the
// message when the pointer is nil so containers can decode into a fresh
// zero value.
type Proto struct{}

func (Proto) Encode(v any) ([]byte, error) {
	m, ok := v.(proto.Message)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not implement proto.Message", ErrUnsupportedType, v)
	}
	return proto.Marshal(m)
}

func (Proto) Decode(data []byte, v any) error {
	if m, ok := v.(proto.Message); ok {
		return proto.Unmarshal(data, m)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("%w: decode target must be a non-nil pointer", ErrUnsupportedType)
	}

	elem := rv.Elem()
	if elem.Kind() == reflect.Pointer && elem.IsNil() {
		elem.Set(reflect.New(elem.Type().Elem()))
	}

	m, ok := elem.Interface().(proto.Message)
	if !ok {
		return fmt.Errorf("%w: %T does not implement proto.Message", ErrUnsupportedType, elem.Interface())
	}
	return proto.Unmarshal(data, m)
}

func (Proto) Name() string { return "proto" }

func (Proto) Extension() string { return ".pb" }
