package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

type unaryMethod func(AssistantServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(name string, call unaryMethod) grpc.MethodDesc {
	fullMethod := "/" + ServiceName + "/" + name
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(AssistantServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(AssistantServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the assistant service without generated stubs
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("StartSession", AssistantServer.StartSession),
		unaryHandler("AnalyzeTicket", AssistantServer.AnalyzeTicket),
		unaryHandler("TicketURL", AssistantServer.TicketURL),
		unaryHandler("Recommendation", AssistantServer.Recommendation),
		unaryHandler("RankedTickets", AssistantServer.RankedTickets),
		unaryHandler("Notify", AssistantServer.Notify),
		unaryHandler("StartPR", AssistantServer.StartPR),
		unaryHandler("GetPRStatus", AssistantServer.GetPRStatus),
		unaryHandler("CancelPR", AssistantServer.CancelPR),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ticketpilot/v1/assistant.proto",
}

// Client calls the assistant service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient creates a new assistant service client
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Call invokes method with req and returns the response
func (c *Client) Call(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	if req == nil {
		req = &structpb.Struct{}
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// KeyRequest builds a request for a ticket-scoped method
func KeyRequest(key string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"key": structpb.NewStringValue(key),
	}}
}
