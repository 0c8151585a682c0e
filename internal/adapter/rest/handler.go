package rest

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/simaogato/plusvalia-backend/internal/adapter/dto"
	"github.com/simaogato/plusvalia-backend/internal/adapter/presenter"
	"github.com/simaogato/plusvalia-backend/internal/domain"
	"github.com/simaogato/plusvalia-backend/internal/usecase/calculation"
	"github.com/simaogato/plusvalia-backend/internal/usecase/catalog"
)

// Handler exposes the calculator over JSON
type Handler struct {
	CalculationService *calculation.CalculationService
	CatalogService     *catalog.CatalogService
	Presenter          *presenter.Presenter
}

// NewHandler creates a new Handler
func NewHandler(
	calculationService *calculation.CalculationService,
	catalogService *catalog.CatalogService,
	p *presenter.Presenter,
) *Handler {
	return &Handler{
		CalculationService: calculationService,
		CatalogService:     catalogService,
		Presenter:          p,
	}
}

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// Calculate handles POST /v1/calculations
func (h *Handler) Calculate(c *fiber.Ctx) error {
	var req dto.CalculationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "invalid request body"})
	}

	input, err := req.ToInput()
	if err != nil {
		return writeError(c, err)
	}

	calc, err := h.CalculationService.Calculate(c.UserContext(), req.MunicipalityID, input)
	if err != nil {
		return writeError(c, err)
	}

	cfg, err := h.CatalogService.Get(c.UserContext(), calc.MunicipalityID)
	if err != nil {
		return writeError(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(dto.NewCalculationResponse(calc, h.Presenter.Present(calc, cfg)))
}

// ListMunicipalities handles GET /v1/municipalities?region=
func (h *Handler) ListMunicipalities(c *fiber.Ctx) error {
	municipalities, err := h.CatalogService.List(c.UserContext(), c.Query("region"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(fiber.Map{
		"municipalities": dto.NewMunicipalitySummaries(municipalities),
	})
}

// GetMunicipality handles GET /v1/municipalities/:id
func (h *Handler) GetMunicipality(c *fiber.Ctx) error {
	municipality, err := h.CatalogService.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(dto.NewMunicipalityResponse(municipality))
}

// Health handles GET /health
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// writeError maps domain errors to HTTP status codes
func writeError(c *fiber.Ctx, err error) error {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: validationErr.Error(), Field: validationErr.Field})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrMunicipalityNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{Error: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: "internal error"})
	}
}
