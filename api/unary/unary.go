// Package unary builds grpc method handlers and client invocations for hand-declared services.
package unary

import (
	"chat-rooms/infrastructure/grpc/codec"
	"context"

	"google.golang.org/grpc"
)

// Handler adapts a typed server method into a grpc.MethodHandler, honoring interceptors.
func Handler[S any, Req any, Resp any](fullMethod string,
	call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		})
	}
}

// Invoke performs a unary call encoded with the JSON codec.
func Invoke[Resp any, Req any](ctx context.Context, cc grpc.ClientConnInterface,
	fullMethod string, in *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(codec.Name)}, opts...)
	if err := cc.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
