package costing

import "scenario-engine/internal/model"

type TemplateComponent struct {
	ID          string
	Label       string
	DirectShare float64
}

// Template is the fixed cost structure of a tier. Direct shares sum to 1.
type Template struct {
	Components      []TemplateComponent
	OpportunityRate float64
}

var templates = map[model.Tier]Template{
	model.TierFrontline: {
		OpportunityRate: 0.30,
		Components: []TemplateComponent{
			{ID: "faculty", Label: "Faculty and mentor time", DirectShare: 0.35},
			{ID: "materials", Label: "Training materials", DirectShare: 0.15},
			{ID: "venue", Label: "Venue and logistics", DirectShare: 0.20},
			{ID: "travel", Label: "Travel and per diem", DirectShare: 0.20},
			{ID: "management", Label: "Programme management", DirectShare: 0.10},
		},
	},
	model.TierIntermediate: {
		OpportunityRate: 0.25,
		Components: []TemplateComponent{
			{ID: "faculty", Label: "Faculty and mentor time", DirectShare: 0.40},
			{ID: "materials", Label: "Training materials", DirectShare: 0.10},
			{ID: "venue", Label: "Venue and logistics", DirectShare: 0.15},
			{ID: "travel", Label: "Travel and per diem", DirectShare: 0.15},
			{ID: "field", Label: "Field investigation support", DirectShare: 0.10},
			{ID: "management", Label: "Programme management", DirectShare: 0.10},
		},
	},
	model.TierAdvanced: {
		OpportunityRate: 0.20,
		Components: []TemplateComponent{
			{ID: "faculty", Label: "Faculty and mentor time", DirectShare: 0.40},
			{ID: "stipend", Label: "Fellow stipends", DirectShare: 0.20},
			{ID: "field", Label: "Field investigation support", DirectShare: 0.15},
			{ID: "travel", Label: "Travel and per diem", DirectShare: 0.10},
			{ID: "conference", Label: "Scientific conferences", DirectShare: 0.05},
			{ID: "management", Label: "Programme management", DirectShare: 0.10},
		},
	},
}

// TemplateFor returns the tier's template. Unknown tiers get an empty
// template with a zero opportunity rate.
func TemplateFor(t model.Tier) Template {
	return templates[t]
}
