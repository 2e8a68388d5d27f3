package api

import (
	"github.com/starford/warband/internal/catalog"
	"github.com/starford/warband/internal/index"
	"github.com/starford/warband/internal/models"
)

// WarbandSummary is a list item in the API response (aliased from the domain layer).
type WarbandSummary = models.WarbandSummary

// WarbandListResponse wraps paginated warband listings.
type WarbandListResponse struct {
	Warbands []WarbandSummary `json:"warbands" validate:"required"`
	Total    int              `json:"total" example:"42" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// ModifierResponse is a catalog entry.
type ModifierResponse struct {
	Name         string `json:"name" example:"Afiada" validate:"required"`
	Effect       string `json:"effect" example:"+1 de dano"`
	Cost         string `json:"cost,omitempty" example:"10"`
	Restrictions string `json:"restrictions,omitempty"`
	Kind         string `json:"kind" example:"melee" validate:"required"`
}

// ModifierListResponse wraps the full catalog.
type ModifierListResponse struct {
	Modifiers []ModifierResponse `json:"modifiers" validate:"required"`
}

func toModifierResponse(m catalog.Modifier) ModifierResponse {
	return ModifierResponse{
		Name:         m.Name,
		Effect:       m.Effect,
		Cost:         m.Cost,
		Restrictions: m.Restrictions,
		Kind:         string(m.Kind),
	}
}
