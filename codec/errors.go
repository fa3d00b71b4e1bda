package codec

import "errors"

// ErrUnsupportedType is returned when a codec cannot handle the value it was
// given, such as a non-proto.Message passed to the protobuf codec.
var ErrUnsupportedType = errors.New("unsupported type")
