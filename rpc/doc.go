// Package rpc is the daemon's remote control surface: a grpc.ServiceDesc
// for the Acquisition service, hand-written in the shape protoc-gen-go-grpc
// emits, registered against a real *grpc.Server the same way
// ollama-proxy/cmd/proxy wires its generated service.
//
// No .proto file is compiled here. Messages are google.golang.org/protobuf's
// own well-known types - structpb.Struct for every request/response that
// carries a body, emptypb.Empty for the rest - so the wire format is
// genuine protobuf and every method still rides the real grpc-go codec and
// transport. acqconfig's YAML DTOs (already json-tagged for this purpose)
// are marshaled into and out of structpb.Struct at the service boundary,
// which keeps this package free of a second, parallel message schema.
package rpc
