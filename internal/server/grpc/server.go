// Package grpc exposes the authentication core over gRPC: password login,
// identity lookup and logout, all guarded by the same gate as the HTTP API.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/dmitrijs2005/gophtodo/internal/logging"
	"github.com/dmitrijs2005/gophtodo/internal/server/services"
	"google.golang.org/grpc"
)

type GRPCServer struct {
	address  string
	tokenKey string
	users    *services.UserService
	gate     *services.Gate
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us *services.UserService, gate *services.Gate) *GRPCServer {
	return &GRPCServer{
		address:  a,
		tokenKey: common.TokenMetadataKey,
		logger:   l.With("module", "grpc_server"),
		users:    us,
		gate:     gate,
	}
}

// WithTokenHeader reads the bearer token from the metadata key matching the
// HTTP token header name.
func (s *GRPCServer) WithTokenHeader(header string) *GRPCServer {
	s.tokenKey = common.MetadataKey(header)
	return s
}

// Run listens on the configured address and serves until ctx is cancelled.
func (s *GRPCServer) Run(ctx context.Context) error {
	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve is Run on an existing listener.
func (s *GRPCServer) Serve(ctx context.Context, listen net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.authInterceptor))
	RegisterAuthServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
