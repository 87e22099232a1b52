package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/clintrovert/ticketpilot/internal/api/wire"
	"github.com/clintrovert/ticketpilot/internal/assistant"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "ticketpilot.v1.AssistantService"

// AssistantServer is the gRPC surface of the assistant. Requests carrying a
// ticket use the "key" field; responses mirror the REST JSON bodies.
type AssistantServer interface {
	StartSession(context.Context, *structpb.Struct) (*structpb.Struct, error)
	AnalyzeTicket(context.Context, *structpb.Struct) (*structpb.Struct, error)
	TicketURL(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Recommendation(context.Context, *structpb.Struct) (*structpb.Struct, error)
	RankedTickets(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Notify(context.Context, *structpb.Struct) (*structpb.Struct, error)
	StartPR(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetPRStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	CancelPR(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// Server implements AssistantServer over the assistant service
type Server struct {
	assistant *assistant.Service
	health    *health.Server
	logger    *zap.Logger
}

// NewServer creates a new gRPC server
func NewServer(svc *assistant.Service, logger *zap.Logger) *Server {
	return &Server{
		assistant: svc,
		health:    health.NewServer(),
		logger:    logger,
	}
}

// Register registers the assistant and health services with a gRPC server
func (s *Server) Register(grpcServer *grpc.Server) {
	grpcServer.RegisterService(&ServiceDesc, s)
	healthpb.RegisterHealthServer(grpcServer, s.health)
	s.health.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
}

// Shutdown marks every service as not serving
func (s *Server) Shutdown() {
	s.health.Shutdown()
}

// StartSession starts a new session
func (s *Server) StartSession(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	session, err := s.assistant.StartSession(ctx)
	if err != nil {
		s.logger.Error("failed to start session", zap.Error(err))
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return toStruct(wire.ToSessionResponse(session))
}

// AnalyzeTicket analyzes one ticket
func (s *Server) AnalyzeTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	ticket, analysis, err := s.assistant.AnalyzeTicket(ctx, key)
	if err != nil {
		return nil, s.toStatus("failed to analyze ticket", key, err)
	}
	return toStruct(wire.ToAnalyzeResponse(ticket, analysis, s.assistant.Current()))
}

// TicketURL returns the tracker URL of a ticket
func (s *Server) TicketURL(_ context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	u, err := s.assistant.TicketURL(key)
	if err != nil {
		return nil, s.toStatus("failed to build ticket url", key, err)
	}
	return toStruct(wire.URLResponse{URL: u})
}

// Recommendation returns the contextual recommendation of a ticket
func (s *Server) Recommendation(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	rec, err := s.assistant.Recommendation(ctx, key)
	if err != nil {
		return nil, s.toStatus("failed to recommend", key, err)
	}
	return toStruct(rec)
}

// RankedTickets returns the session's ranked short-list
func (s *Server) RankedTickets(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	return toStruct(wire.RankedResponse{Tickets: s.assistant.Ranked()})
}

// Notify sends a Slack notification about a ticket
func (s *Server) Notify(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	if err := s.assistant.Notify(ctx, key); err != nil {
		return nil, s.toStatus("failed to notify", key, err)
	}
	return toStruct(wire.NotifyResponse{Success: true})
}

// StartPR starts the ticket PR workflow
func (s *Server) StartPR(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	workflowID, err := s.assistant.StartPR(ctx, key)
	if err != nil {
		return nil, s.toStatus("failed to start pull request", key, err)
	}
	return toStruct(wire.PRResponse{WorkflowID: workflowID, Status: "started"})
}

// GetPRStatus describes the ticket PR workflow
func (s *Server) GetPRStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	st, err := s.assistant.PRStatus(ctx, key)
	if err != nil {
		if errors.Is(err, assistant.ErrPullRequestsDisabled) {
			return nil, s.toStatus("failed to get pull request status", key, err)
		}
		return toStruct(wire.PRResponse{Status: "not_found"})
	}
	return toStruct(wire.PRResponse{WorkflowID: st.WorkflowID, RunID: st.RunID, Status: st.Status})
}

// CancelPR cancels the ticket PR workflow
func (s *Server) CancelPR(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key, err := ticketKey(req)
	if err != nil {
		return nil, err
	}

	workflowID, err := s.assistant.CancelPR(ctx, key)
	if err != nil {
		return nil, s.toStatus("failed to cancel pull request", key, err)
	}
	return toStruct(wire.PRResponse{WorkflowID: workflowID, Status: "cancelled"})
}

func (s *Server) toStatus(msg, key string, err error) error {
	switch {
	case errors.Is(err, assistant.ErrTicketNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, assistant.ErrNotificationsDisabled), errors.Is(err, assistant.ErrPullRequestsDisabled):
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		s.logger.Error(msg, zap.String("ticket", key), zap.Error(err))
		return status.Error(codes.Internal, err.Error())
	}
}

func ticketKey(req *structpb.Struct) (string, error) {
	key := req.GetFields()["key"].GetStringValue()
	if key == "" {
		return "", status.Error(codes.InvalidArgument, "key is required")
	}
	return key, nil
}

// toStruct converts a JSON-tagged value into a Struct
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode response: %v", err))
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Error(codes.Internal, fmt.Sprintf("failed to encode response: %v", err))
	}
	return out, nil
}
