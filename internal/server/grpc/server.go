// Package grpc exposes the server services as myshelf.BookService plus the
// standard gRPC health service.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/myshelf/internal/logging"
	"github.com/dmitrijs2005/myshelf/internal/rpc"
	"github.com/dmitrijs2005/myshelf/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type UserService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (userID string, token string, err error)
}

type BookService interface {
	Put(ctx context.Context, ownerID string, book models.Book) (*models.Book, error)
	List(ctx context.Context, ownerID string) ([]models.Book, error)
	Delete(ctx context.Context, ownerID, bookID string) error
}

type StorageService interface {
	PresignUpload(ctx context.Context, ownerID, bookID string) (key string, url string, err error)
	PresignDownload(ctx context.Context, ownerID, key string) (string, error)
}

type GRPCServer struct {
	rpc.UnimplementedBookServiceServer
	address   string
	users     UserService
	books     BookService
	storage   StorageService
	logger    logging.Logger
	jwtSecret []byte
}

func NewGRPCServer(a string, l logging.Logger, us UserService, bs BookService, ss StorageService, secretKey string) *GRPCServer {
	return &GRPCServer{
		address:   a,
		logger:    l.With("module", "grpc_server"),
		users:     us,
		books:     bs,
		storage:   ss,
		jwtSecret: []byte(secretKey),
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())
	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))

	rpc.RegisterBookServiceServer(srv, s)

	hs := health.NewServer()
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(rpc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)

	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		hs.Shutdown()
		srv.GracefulStop()
	}()

	err := srv.Serve(lis)
	if ctx.Err() != nil {
		<-stopped
	}
	return err
}
