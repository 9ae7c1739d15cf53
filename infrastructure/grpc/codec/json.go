// Package codec registers the JSON wire codec used by every service of this module.
// Clients select it with grpc.CallContentSubtype(codec.Name); servers pick it up
// from the content-subtype of the request.
package codec

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

const Name = "json"

type JSON struct{}

func (JSON) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (JSON) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (JSON) Name() string {
	return Name
}

func init() {
	encoding.RegisterCodec(JSON{})
}
