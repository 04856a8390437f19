// Package grpcconv exposes the qbl pipeline as a gRPC service and provides a
// client that plugs into package convert as a remote Converter.
package grpcconv
