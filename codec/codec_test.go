package codec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/stowage-dev/stowage/codec"
)

type profile struct {
	Name   string   `json:"name" yaml:"name"`
	Visits int      `json:"visits" yaml:"visits"`
	Tags   []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

func TestJSON_RoundTrip(t *testing.T) {
	c := codec.JSON{}
	in := profile{Name: "ada", Visits: 3, Tags: []string{"admin", "beta"}}

	data, err := c.Encode(in)
	require.NoError(t, err)

	var out profile
	require.NoError(t, c.Decode(data, &out))
	assert.Equal(t, in, out)
}

func TestJSON_Identity(t *testing.T) {
	c := codec.JSON{}
	assert.Equal(t, "json", c.Name())
	assert.Equal(t, ".json", c.Extension())
}

func TestJSON_DecodeGarbage(t *testing.T) {
	var out profile
	assert.Error(t, codec.JSON{}.Decode([]byte("{not json"), &out))
}

func TestYAML_RoundTrip(t *testing.T) {
	c := codec.YAML{}
	in := profile{Name: "grace", Visits: 7}

	data, err := c.Encode(in)
	require.NoError(t, err)

	var out profile
	require.NoError(t, c.Decode(data, &out))
	assert.Equal(t, in, out)
}

func TestYAML_Identity(t *testing.T) {
	c := codec.YAML{}
	assert.Equal(t, "yaml", c.Name())
	assert.Equal(t, ".yaml", c.Extension())
}

func TestProto_RoundTrip(t *testing.T) {
	c := codec.Proto{}
	in := wrapperspb.String("hello")

	data, err := c.Encode(in)
	require.NoError(t, err)

	out := &wrapperspb.StringValue{}
	require.NoError(t, c.Decode(data, out))
	assert.True(t, proto.Equal(in, out))
}

func TestProto_DecodeAllocatesNilMessage(t *testing.T) {
	c := codec.Proto{}
	data, err := c.Encode(wrapperspb.String("lazy"))
	require.NoError(t, err)

	// Containers decode into &v where v is a zero (nil) message pointer.
	var out *wrapperspb.StringValue
	require.NoError(t, c.Decode(data, &out))
	require.NotNil(t, out)
	assert.Equal(t, "lazy", out.GetValue())
}

func TestProto_RejectsNonMessage(t *testing.T) {
	c := codec.Proto{}

	_, err := c.Encode(profile{Name: "nope"})
	assert.ErrorIs(t, err, codec.ErrUnsupportedType)

	var out profile
	assert.ErrorIs(t, c.Decode([]byte{}, &out), codec.ErrUnsupportedType)
}
