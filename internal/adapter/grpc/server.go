package grpc

import (
	"context"
	"encoding/json"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/simaogato/plusvalia-backend/internal/adapter/dto"
	plusvaliav1 "github.com/simaogato/plusvalia-backend/internal/adapter/grpc/plusvalia/v1"
	"github.com/simaogato/plusvalia-backend/internal/adapter/presenter"
	"github.com/simaogato/plusvalia-backend/internal/domain"
	"github.com/simaogato/plusvalia-backend/internal/usecase/calculation"
	"github.com/simaogato/plusvalia-backend/internal/usecase/catalog"
)

// Server implements the PlusvaliaService gRPC server
type Server struct {
	plusvaliav1.UnimplementedPlusvaliaServiceServer

	CalculationService *calculation.CalculationService
	CatalogService     *catalog.CatalogService
	Presenter          *presenter.Presenter
}

// NewServer creates a new gRPC server instance
func NewServer(
	calculationService *calculation.CalculationService,
	catalogService *catalog.CatalogService,
	p *presenter.Presenter,
) *Server {
	return &Server{
		CalculationService: calculationService,
		CatalogService:     catalogService,
		Presenter:          p,
	}
}

// Calculate handles the Calculate RPC
// The request Struct carries the same fields as the HTTP JSON body
func (s *Server) Calculate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body dto.CalculationRequest
	if err := fromStruct(req, &body); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid request: %v", err)
	}

	input, err := body.ToInput()
	if err != nil {
		return nil, mapError(err)
	}

	calc, err := s.CalculationService.Calculate(ctx, body.MunicipalityID, input)
	if err != nil {
		return nil, mapError(err)
	}

	cfg, err := s.CatalogService.Get(ctx, calc.MunicipalityID)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewCalculationResponse(calc, s.Presenter.Present(calc, cfg)))
}

// ListMunicipalities handles the ListMunicipalities RPC
func (s *Server) ListMunicipalities(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	municipalities, err := s.CatalogService.List(ctx, "")
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(map[string]interface{}{
		"municipalities": dto.NewMunicipalitySummaries(municipalities),
	})
}

// GetMunicipality handles the GetMunicipality RPC
func (s *Server) GetMunicipality(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id := req.GetFields()["id"].GetStringValue()

	municipality, err := s.CatalogService.Get(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}

	return toStruct(dto.NewMunicipalityResponse(municipality))
}

// fromStruct decodes a Struct into out through its JSON representation
func fromStruct(in *structpb.Struct, out interface{}) error {
	raw, err := json.Marshal(in.AsMap())
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// toStruct encodes v into a Struct through its JSON representation
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}

	out, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %v", err)
	}
	return out, nil
}

// mapError converts domain errors to gRPC status errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidConfig):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}
