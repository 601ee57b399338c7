package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// GRPCClient talks to the MyShelf server: authentication, remote book
// metadata, presigned blob URLs and the health probe.
type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.BookServiceClient
	health      healthpb.HealthClient

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := s.AccessToken(); token != "" {
		ctx = withAccessToken(ctx, token)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewGRPCClient prepares a lazily connecting client for endpointURL. Every
// call is bounded by timeout when it is positive. Extra dial options are
// appended after the defaults.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewBookServiceClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) AccessToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

// SetAccessToken installs a token restored from the local session.
func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *GRPCClient) Register(ctx context.Context, userName, password string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Register(ctx, &rpc.RegisterRequest{Username: userName, Password: password})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.UserID, nil
}

// Login authenticates and keeps the returned access token for later calls.
func (s *GRPCClient) Login(ctx context.Context, userName, password string) (userID, token string, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Username: userName, Password: password})
	if err != nil {
		return "", "", s.mapError(err)
	}

	s.SetAccessToken(resp.AccessToken)
	return resp.UserID, resp.AccessToken, nil
}

func (s *GRPCClient) PutBook(ctx context.Context, ownerID string, b models.RemoteBook) (models.RemoteBook, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.PutBook(ctx, &rpc.PutBookRequest{OwnerID: ownerID, Book: toWire(b)})
	if err != nil {
		return models.RemoteBook{}, s.mapError(err)
	}
	return fromWire(resp.Book), nil
}

func (s *GRPCClient) ListBooks(ctx context.Context, ownerID string) ([]models.RemoteBook, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ListBooks(ctx, &rpc.ListBooksRequest{OwnerID: ownerID})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]models.RemoteBook, 0, len(resp.Books))
	for _, b := range resp.Books {
		out = append(out, fromWire(b))
	}
	return out, nil
}

func (s *GRPCClient) DeleteBook(ctx context.Context, ownerID, bookID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeleteBook(ctx, &rpc.DeleteBookRequest{OwnerID: ownerID, BookID: bookID}); err != nil {
		return s.mapError(err)
	}
	return nil
}

// PresignUpload returns the locator the blob will live under and a URL to
// PUT it to.
func (s *GRPCClient) PresignUpload(ctx context.Context, ownerID, bookID string) (locator, url string, err error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.PresignUpload(ctx, &rpc.PresignUploadRequest{OwnerID: ownerID, BookID: bookID})
	if err != nil {
		return "", "", s.mapError(err)
	}
	return resp.Locator, resp.URL, nil
}

func (s *GRPCClient) PresignDownload(ctx context.Context, ownerID, locator string) (string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.PresignDownload(ctx, &rpc.PresignDownloadRequest{OwnerID: ownerID, Locator: locator})
	if err != nil {
		return "", s.mapError(err)
	}
	return resp.URL, nil
}

// Ping asks the server's health service whether BookService is serving.
func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.health.Check(ctx, &healthpb.HealthCheckRequest{Service: rpc.ServiceName})
	if err != nil {
		return s.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.NotFound:
		return ErrNotFound
	case codes.AlreadyExists:
		return common.ErrAlreadyExists
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func toWire(b models.RemoteBook) rpc.Book {
	return rpc.Book{ID: b.ID, Title: b.Title, Author: b.Author, Locator: b.Locator, UploadedAt: b.UploadedAt}
}

func fromWire(b rpc.Book) models.RemoteBook {
	return models.RemoteBook{ID: b.ID, Title: b.Title, Author: b.Author, Locator: b.Locator, UploadedAt: b.UploadedAt}
}
