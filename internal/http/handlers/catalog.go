package handlers

import (
	"net/http"

	"creativestudio/internal/domain"
)

type styleOption struct {
	ID    domain.Style `json:"id"`
	Label string       `json:"label"`
}

type catalogResponse struct {
	Styles           []styleOption                            `json:"styles"`
	AspectDimensions map[domain.AspectRatio]domain.Dimensions `json:"aspectDimensions"`
	SizeMultipliers  map[domain.ImageSize]float64             `json:"sizeMultipliers"`
	ExportPresets    []domain.ExportPreset                    `json:"exportPresets"`
	QuickPresets     []domain.QuickPreset                     `json:"quickPresets"`
}

// Catalog returns the static option lists the client renders.
func (a *App) Catalog(w http.ResponseWriter, r *http.Request) {
	styles := make([]styleOption, 0, len(domain.Styles))
	for _, s := range domain.Styles {
		styles = append(styles, styleOption{ID: s, Label: s.Label()})
	}
	a.json(w, http.StatusOK, catalogResponse{
		Styles:           styles,
		AspectDimensions: domain.AspectDimensions,
		SizeMultipliers:  domain.SizeMultipliers,
		ExportPresets:    domain.ExportPresets,
		QuickPresets:     domain.QuickPresets,
	})
}
