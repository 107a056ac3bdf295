package grpc

import (
	"context"

	"github.com/dmitrijs2005/gophtodo/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var publicMethods = map[string]struct{}{
	MethodLogin: {},
}

// authInterceptor runs the gate on the "auth" metadata value for every
// method except Login and attaches the identity to the context.
func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	if _, ok := publicMethods[info.FullMethod]; ok {
		return handler(ctx, req)
	}

	var token string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(s.tokenKey); len(values) > 0 {
			token = values[0]
		}
	}

	user, record, err := s.gate.RequireAuthentication(ctx, token)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return handler(auth.WithIdentity(ctx, user, record), req)
}
