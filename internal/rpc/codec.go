// Package rpc defines the BookService wire contract shared by the gRPC
// client and server: the messages of book_service.proto, the service
// descriptor and the codec that puts them on the wire.
package rpc

import (
	"fmt"

	"google.golang.org/grpc/encoding"
	grpcproto "google.golang.org/grpc/encoding/proto"
	"google.golang.org/protobuf/proto"
)

// CodecName is the content-subtype of BookService calls. It replaces the
// default protobuf codec, so plain "application/grpc" peers built from
// book_service.proto interoperate.
const CodecName = grpcproto.Name

func init() {
	encoding.RegisterCodec(codec{})
}

// codec writes BookService messages in protobuf wire format and hands every
// other proto.Message, such as the health service payloads, to the protobuf
// runtime.
type codec struct{}

func (codec) Marshal(v any) ([]byte, error) {
	switch m := v.(type) {
	case message:
		return m.appendWire(nil), nil
	case proto.Message:
		return proto.Marshal(m)
	}
	return nil, fmt.Errorf("rpc: cannot marshal %T", v)
}

func (codec) Unmarshal(data []byte, v any) error {
	switch m := v.(type) {
	case message:
		return unmarshalWire(data, m)
	case proto.Message:
		return proto.Unmarshal(data, m)
	}
	return fmt.Errorf("rpc: cannot unmarshal into %T", v)
}

func (codec) Name() string {
	return CodecName
}
