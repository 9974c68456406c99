package grpc

import (
	"crypto/tls"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
)

// GetGrpcConnection dials a node's gRPC endpoint. Endpoints given as https:// URLs or on port 443 use TLS with the
// system roots, anything else is dialed in plaintext.
func GetGrpcConnection(grpcUri string) (*grpc.ClientConn, error) {
	target, useTLS := normalizeTarget(grpcUri)

	transportCredentials := grpc.WithTransportCredentials(insecure.NewCredentials())
	if useTLS {
		creds := credentials.NewTLS(&tls.Config{
			MinVersion: tls.VersionTLS12,
		})
		transportCredentials = grpc.WithTransportCredentials(creds)
	}

	opts := []grpc.DialOption{
		transportCredentials,
	}

	return grpc.Dial(
		target,
		opts...,
	)
}

func normalizeTarget(grpcUri string) (string, bool) {
	target := strings.TrimSpace(grpcUri)
	useTLS := false

	switch {
	case strings.HasPrefix(target, "https://"):
		target = strings.TrimPrefix(target, "https://")
		useTLS = true
	case strings.HasPrefix(target, "http://"):
		target = strings.TrimPrefix(target, "http://")
	}
	target = strings.TrimSuffix(target, "/")

	if strings.HasSuffix(target, ":443") {
		useTLS = true
	} else if useTLS && !strings.Contains(target, ":") {
		target += ":443"
	}

	return target, useTLS
}
