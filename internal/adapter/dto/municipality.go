package dto

import (
	"strconv"

	"github.com/simaogato/plusvalia-backend/internal/domain"
)

// RebateResponse is one rebate category of a municipality
type RebateResponse struct {
	Applicable  bool   `json:"applicable"`
	Percent     string `json:"percent"`
	Description string `json:"description,omitempty"`
}

// MunicipalitySummary is the list entry of a municipality
type MunicipalitySummary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Province   string `json:"province"`
	Region     string `json:"region"`
	Population int    `json:"population"`
}

// MunicipalityResponse is the full configuration of a municipality
type MunicipalityResponse struct {
	MunicipalitySummary
	TaxRate      string                    `json:"tax_rate"`
	Coefficients map[string]string         `json:"coefficients"`
	Rebates      map[string]RebateResponse `json:"rebates"`
	Deadlines    struct {
		SaleBusinessDays  int `json:"sale_business_days"`
		InheritanceMonths int `json:"inheritance_months"`
	} `json:"deadlines"`
	TownHall struct {
		URL     string `json:"url,omitempty"`
		Address string `json:"address,omitempty"`
		Phone   string `json:"phone,omitempty"`
	} `json:"town_hall"`
	LastUpdated string `json:"last_updated,omitempty"`
}

// NewMunicipalitySummary converts a municipality for listing
func NewMunicipalitySummary(m *domain.MunicipalityConfig) MunicipalitySummary {
	return MunicipalitySummary{
		ID:         m.ID,
		Name:       m.Name,
		Province:   m.Province,
		Region:     m.Region,
		Population: m.Population,
	}
}

// NewMunicipalitySummaries converts a list of municipalities, keeping the order
func NewMunicipalitySummaries(municipalities []*domain.MunicipalityConfig) []MunicipalitySummary {
	summaries := make([]MunicipalitySummary, 0, len(municipalities))
	for _, m := range municipalities {
		summaries = append(summaries, NewMunicipalitySummary(m))
	}
	return summaries
}

// NewMunicipalityResponse converts a municipality with its full tax configuration
func NewMunicipalityResponse(m *domain.MunicipalityConfig) *MunicipalityResponse {
	resp := &MunicipalityResponse{
		MunicipalitySummary: NewMunicipalitySummary(m),
		TaxRate:             m.TaxRate.String(),
		Coefficients:        make(map[string]string, len(m.Coefficients)),
		Rebates:             make(map[string]RebateResponse, len(m.Rebates)),
		LastUpdated:         m.LastUpdated,
	}

	for year, coefficient := range m.Coefficients {
		resp.Coefficients[strconv.Itoa(year)] = coefficient.String()
	}

	for kind, rebate := range m.Rebates {
		resp.Rebates[string(kind)] = RebateResponse{
			Applicable:  rebate.Applicable,
			Percent:     rebate.Percent.String(),
			Description: rebate.Description,
		}
	}

	resp.Deadlines.SaleBusinessDays = m.Deadlines.SaleBusinessDays
	resp.Deadlines.InheritanceMonths = m.Deadlines.InheritanceMonths
	resp.TownHall.URL = m.TownHallURL
	resp.TownHall.Address = m.TownHallAddress
	resp.TownHall.Phone = m.TownHallPhone

	return resp
}
