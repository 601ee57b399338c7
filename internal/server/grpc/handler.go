package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/myshelf/internal/common"
	"github.com/dmitrijs2005/myshelf/internal/rpc"
	"github.com/dmitrijs2005/myshelf/internal/server/models"
	"github.com/dmitrijs2005/myshelf/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func toStatus(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidArgument):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, services.ErrForeignLocator):
		return status.Error(codes.PermissionDenied, err.Error())
	case errors.Is(err, common.ErrAlreadyExists):
		return status.Error(codes.AlreadyExists, "already exists")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "not found")
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

func toRPCBook(b models.Book) rpc.Book {
	return rpc.Book{ID: b.ID, Title: b.Title, Author: b.Author, Locator: b.Locator, UploadedAt: b.UploadedAt}
}

func (s *GRPCServer) Register(ctx context.Context, req *rpc.RegisterRequest) (*rpc.RegisterResponse, error) {

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "username", user.UserName, "user_id", user.ID)
	return &rpc.RegisterResponse{UserID: user.ID}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	userID, token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.LoginResponse{UserID: userID, AccessToken: token}, nil
}

func (s *GRPCServer) PutBook(ctx context.Context, req *rpc.PutBookRequest) (*rpc.PutBookResponse, error) {
	owner, err := ownerFromContext(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	saved, err := s.books.Put(ctx, owner, models.Book{
		ID:      req.Book.ID,
		Title:   req.Book.Title,
		Author:  req.Book.Author,
		Locator: req.Book.Locator,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	return &rpc.PutBookResponse{Book: toRPCBook(*saved)}, nil
}

func (s *GRPCServer) ListBooks(ctx context.Context, req *rpc.ListBooksRequest) (*rpc.ListBooksResponse, error) {
	owner, err := ownerFromContext(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	list, err := s.books.List(ctx, owner)
	if err != nil {
		return nil, toStatus(err)
	}

	out := make([]rpc.Book, 0, len(list))
	for _, b := range list {
		out = append(out, toRPCBook(b))
	}
	return &rpc.ListBooksResponse{Books: out}, nil
}

func (s *GRPCServer) DeleteBook(ctx context.Context, req *rpc.DeleteBookRequest) (*rpc.DeleteBookResponse, error) {
	owner, err := ownerFromContext(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	if err := s.books.Delete(ctx, owner, req.BookID); err != nil {
		return nil, toStatus(err)
	}
	return &rpc.DeleteBookResponse{}, nil
}

func (s *GRPCServer) PresignUpload(ctx context.Context, req *rpc.PresignUploadRequest) (*rpc.PresignUploadResponse, error) {
	owner, err := ownerFromContext(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	key, url, err := s.storage.PresignUpload(ctx, owner, req.BookID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.PresignUploadResponse{Locator: key, URL: url}, nil
}

func (s *GRPCServer) PresignDownload(ctx context.Context, req *rpc.PresignDownloadRequest) (*rpc.PresignDownloadResponse, error) {
	owner, err := ownerFromContext(ctx, req.OwnerID)
	if err != nil {
		return nil, err
	}

	url, err := s.storage.PresignDownload(ctx, owner, req.Locator)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.PresignDownloadResponse{URL: url}, nil
}
