package codec

import "encoding/json"

// JSON is a Codec backed by encoding/json. Output is indented so backing
// files stay readable when inspected directly.
type JSON struct{}

func (JSON) Encode(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}

func (JSON) Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSON) Name() string { return "json" }

func (JSON) Extension() string { return ".json" }
