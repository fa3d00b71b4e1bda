package codec

import "gopkg.in/yaml.v3"

// YAML is a Codec backed by gopkg.in/yaml.v3.
type YAML struct{}

func (YAML) Encode(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

func (YAML) Decode(data []byte, v any) error {
	return yaml.Unmarshal(data, v)
}

func (YAML) Name() string { return "yaml" }

func (YAML) Extension() string { return ".yaml" }
