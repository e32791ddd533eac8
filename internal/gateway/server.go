// Copyright (c) 2025 Plugctl
// Licensed under the MIT License. See LICENSE file in the project root for details.

package gateway

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"google.golang.org/grpc"
)

// Server runs the gRPC and HTTP front ends for one Service.
type Server struct {
	svc  *Service
	grpc *grpc.Server
	http *http.Server
}

// NewServer prepares both transports. Nothing listens until Serve.
func NewServer(svc *Service) *Server {
	gs := grpc.NewServer()
	RegisterRelayServer(gs, NewRelayServer(svc))
	return &Server{
		svc:  svc,
		grpc: gs,
		http: &http.Server{Handler: NewHTTP(svc), ReadHeaderTimeout: 10 * time.Second},
	}
}

// Serve accepts on both listeners until ctx is done or one of them fails,
// then shuts both down. Either listener may be nil to disable that transport.
func (s *Server) Serve(ctx context.Context, grpcLn, httpLn net.Listener) error {
	errc := make(chan error, 2)
	running := 0
	if grpcLn != nil {
		running++
		s.svc.log.Info().Str("addr", grpcLn.Addr().String()).Msg("grpc gateway listening")
		go func() { errc <- s.grpc.Serve(grpcLn) }()
	}
	if httpLn != nil {
		running++
		s.svc.log.Info().Str("addr", httpLn.Addr().String()).Msg("http gateway listening")
		go func() { errc <- s.http.Serve(httpLn) }()
	}
	if running == 0 {
		return errors.New("gateway: no listeners")
	}

	var err error
	select {
	case <-ctx.Done():
	case err = <-errc:
		running--
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.http.Shutdown(shutdownCtx)
	s.grpc.GracefulStop()

	for ; running > 0; running-- {
		<-errc
	}
	if errors.Is(err, http.ErrServerClosed) || errors.Is(err, grpc.ErrServerStopped) {
		err = nil
	}
	return err
}
