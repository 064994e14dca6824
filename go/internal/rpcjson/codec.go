// Package rpcjson lets connect handlers and clients exchange plain Go
// structs as JSON, without generated protobuf messages.
package rpcjson

import (
	"encoding/json"
	"fmt"

	"connectrpc.com/connect"
)

// Codec replaces connect's protobuf-only "json" codec.
type Codec struct{}

var _ connect.Codec = Codec{}

func (Codec) Name() string { return "json" }

func (Codec) Marshal(msg any) ([]byte, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal %T: %w", msg, err)
	}
	return data, nil
}

func (Codec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, msg); err != nil {
		return fmt.Errorf("unmarshal %T: %w", msg, err)
	}
	return nil
}

// Option configures a handler or client to speak this codec only.
func Option() connect.Option {
	return connect.WithCodec(Codec{})
}
