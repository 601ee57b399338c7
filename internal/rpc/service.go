package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "myshelf.BookService"

const (
	RegisterMethod        = "/" + ServiceName + "/Register"
	LoginMethod           = "/" + ServiceName + "/Login"
	PutBookMethod         = "/" + ServiceName + "/PutBook"
	ListBooksMethod       = "/" + ServiceName + "/ListBooks"
	DeleteBookMethod      = "/" + ServiceName + "/DeleteBook"
	PresignUploadMethod   = "/" + ServiceName + "/PresignUpload"
	PresignDownloadMethod = "/" + ServiceName + "/PresignDownload"
)

// BookServiceServer is implemented by the server side of BookService.
type BookServiceServer interface {
	Register(context.Context, *RegisterRequest) (*RegisterResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	PutBook(context.Context, *PutBookRequest) (*PutBookResponse, error)
	ListBooks(context.Context, *ListBooksRequest) (*ListBooksResponse, error)
	DeleteBook(context.Context, *DeleteBookRequest) (*DeleteBookResponse, error)
	PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error)
	PresignDownload(context.Context, *PresignDownloadRequest) (*PresignDownloadResponse, error)
}

// UnimplementedBookServiceServer answers every call with codes.Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedBookServiceServer struct{}

func (UnimplementedBookServiceServer) Register(context.Context, *RegisterRequest) (*RegisterResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedBookServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedBookServiceServer) PutBook(context.Context, *PutBookRequest) (*PutBookResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PutBook not implemented")
}
func (UnimplementedBookServiceServer) ListBooks(context.Context, *ListBooksRequest) (*ListBooksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListBooks not implemented")
}
func (UnimplementedBookServiceServer) DeleteBook(context.Context, *DeleteBookRequest) (*DeleteBookResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteBook not implemented")
}
func (UnimplementedBookServiceServer) PresignUpload(context.Context, *PresignUploadRequest) (*PresignUploadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignUpload not implemented")
}
func (UnimplementedBookServiceServer) PresignDownload(context.Context, *PresignDownloadRequest) (*PresignDownloadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PresignDownload not implemented")
}

// unary adapts a typed BookServiceServer method to grpc.MethodHandler,
// routing through the server interceptor chain when one is installed.
func unary[Req, Resp any](fullMethod string, call func(BookServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		s := srv.(BookServiceServer)
		if interceptor == nil {
			return call(s, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(s, ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// BookServiceDesc describes BookService for grpc.Server.RegisterService.
var BookServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BookServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: unary(RegisterMethod, BookServiceServer.Register)},
		{MethodName: "Login", Handler: unary(LoginMethod, BookServiceServer.Login)},
		{MethodName: "PutBook", Handler: unary(PutBookMethod, BookServiceServer.PutBook)},
		{MethodName: "ListBooks", Handler: unary(ListBooksMethod, BookServiceServer.ListBooks)},
		{MethodName: "DeleteBook", Handler: unary(DeleteBookMethod, BookServiceServer.DeleteBook)},
		{MethodName: "PresignUpload", Handler: unary(PresignUploadMethod, BookServiceServer.PresignUpload)},
		{MethodName: "PresignDownload", Handler: unary(PresignDownloadMethod, BookServiceServer.PresignDownload)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "myshelf/book_service",
}

func RegisterBookServiceServer(s grpc.ServiceRegistrar, srv BookServiceServer) {
	s.RegisterService(&BookServiceDesc, srv)
}

// BookServiceClient is the client API for BookService.
type BookServiceClient interface {
	Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	PutBook(ctx context.Context, in *PutBookRequest, opts ...grpc.CallOption) (*PutBookResponse, error)
	ListBooks(ctx context.Context, in *ListBooksRequest, opts ...grpc.CallOption) (*ListBooksResponse, error)
	DeleteBook(ctx context.Context, in *DeleteBookRequest, opts ...grpc.CallOption) (*DeleteBookResponse, error)
	PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error)
	PresignDownload(ctx context.Context, in *PresignDownloadRequest, opts ...grpc.CallOption) (*PresignDownloadResponse, error)
}

type bookServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBookServiceClient(cc grpc.ClientConnInterface) BookServiceClient {
	return &bookServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bookServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*RegisterResponse, error) {
	return invoke[RegisterResponse](ctx, c.cc, RegisterMethod, in, opts)
}

func (c *bookServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, LoginMethod, in, opts)
}

func (c *bookServiceClient) PutBook(ctx context.Context, in *PutBookRequest, opts ...grpc.CallOption) (*PutBookResponse, error) {
	return invoke[PutBookResponse](ctx, c.cc, PutBookMethod, in, opts)
}

func (c *bookServiceClient) ListBooks(ctx context.Context, in *ListBooksRequest, opts ...grpc.CallOption) (*ListBooksResponse, error) {
	return invoke[ListBooksResponse](ctx, c.cc, ListBooksMethod, in, opts)
}

func (c *bookServiceClient) DeleteBook(ctx context.Context, in *DeleteBookRequest, opts ...grpc.CallOption) (*DeleteBookResponse, error) {
	return invoke[DeleteBookResponse](ctx, c.cc, DeleteBookMethod, in, opts)
}

func (c *bookServiceClient) PresignUpload(ctx context.Context, in *PresignUploadRequest, opts ...grpc.CallOption) (*PresignUploadResponse, error) {
	return invoke[PresignUploadResponse](ctx, c.cc, PresignUploadMethod, in, opts)
}

func (c *bookServiceClient) PresignDownload(ctx context.Context, in *PresignDownloadRequest, opts ...grpc.CallOption) (*PresignDownloadResponse, error) {
	return invoke[PresignDownloadResponse](ctx, c.cc, PresignDownloadMethod, in, opts)
}
