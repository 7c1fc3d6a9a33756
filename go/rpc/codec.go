// Package rpc hand-wires a gRPC service for the coordinator's five
// wire messages without a protoc code-generation step: the wire codec
// is plain JSON, registered under gRPC's default "proto" content-subtype
// so the standard client/server framing and streaming machinery works
// unmodified. This mirrors go/shuffle/api.go's role (a gRPC entry
// point delegating into an owned in-process component) without
// depending on this repository having its own protobuf toolchain.
package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName matches gRPC's built-in default content-subtype, so no
// dial/call option is required on either side to select it: this codec
// simply replaces the "proto" codec for the lifetime of the process.
const codecName = "proto"

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

// jsonCodec implements encoding.Codec (Marshal/Unmarshal/Name) with
// encoding/json. gRPC only requires its codec to round-trip arbitrary
// Go values; it has no opinion on the byte format itself.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return codecName }
