// Package grpc exposes the sale engine as the hypesale.v1.SaleService gRPC
// service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/hypesale/internal/logging"
	"github.com/dmitrijs2005/hypesale/internal/server/models"
	"github.com/dmitrijs2005/hypesale/internal/server/services"
	"google.golang.org/grpc"
)

// AuditExporter ships a batch of events to long-term storage and returns
// the key it was stored under.
type AuditExporter interface {
	Export(ctx context.Context, events []models.Event) (string, error)
}

type GRPCServer struct {
	address   string
	engine    *services.Engine
	exporter  AuditExporter
	logger    logging.Logger
	jwtSecret []byte
}

// NewGRPCServer builds the server. exporter may be nil, in which case
// ExportAuditLog reports Unimplemented.
func NewGRPCServer(a string, l logging.Logger, e *services.Engine, exporter AuditExporter, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		engine:    e,
		exporter:  exporter,
		jwtSecret: []byte(secretKey),
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	RegisterSaleServiceServer(srv, s)

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
