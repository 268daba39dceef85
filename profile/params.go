package profile

import "fmt"

// ═══════════════════════════════════════════════════════════════════════════════
// PROFILE PRESETS - Fixed parameter table per trader personality
// ═══════════════════════════════════════════════════════════════════════════════

// Params is the numeric preset behind a named profile
type Params struct {
	Name            string
	RiskAppetite    float64 // [0,1]
	Discipline      float64 // [0,1]
	Patience        float64 // [0,1]
	FomoThreshold   float64 // confidence floor for a FOMO entry while greedy
	MaxLeverage     float64
	SizingFactor    float64 // fraction of capital per trade
	MinConfirmation float64 // baseline entry threshold
	RiskReward      float64 // target R multiple
	StopLossPct     float64
}

var presets = map[string]Params{
	"strategic": {
		Name:            "strategic",
		RiskAppetite:    0.4,
		Discipline:      0.8,
		Patience:        0.7,
		FomoThreshold:   0.7,
		MaxLeverage:     3,
		SizingFactor:    0.02,
		MinConfirmation: 0.65,
		RiskReward:      3.0,
		StopLossPct:     0.03,
	},
	"aggressive": {
		Name:            "aggressive",
		RiskAppetite:    0.8,
		Discipline:      0.3,
		Patience:        0.3,
		FomoThreshold:   0.4,
		MaxLeverage:     20,
		SizingFactor:    0.04,
		MinConfirmation: 0.55,
		RiskReward:      2.0,
		StopLossPct:     0.03,
	},
	"newbie": {
		Name:            "newbie",
		RiskAppetite:    0.6,
		Discipline:      0.2,
		Patience:        0.3,
		FomoThreshold:   0.3,
		MaxLeverage:     15,
		SizingFactor:    0.03,
		MinConfirmation: 0.50,
		RiskReward:      2.0,
		StopLossPct:     0.03,
	},
	"scalper": {
		Name:            "scalper",
		RiskAppetite:    0.6,
		Discipline:      0.7,
		Patience:        0.2,
		FomoThreshold:   0.6,
		MaxLeverage:     25,
		SizingFactor:    0.05,
		MinConfirmation: 0.60,
		RiskReward:      1.5,
		StopLossPct:     0.03,
	},
	"yolo": {
		Name:            "yolo",
		RiskAppetite:    1.0,
		Discipline:      0.1,
		Patience:        0.1,
		FomoThreshold:   0.1,
		MaxLeverage:     50,
		SizingFactor:    0.10,
		MinConfirmation: 0.40,
		RiskReward:      1.5,
		StopLossPct:     0.03,
	},
}

// Names lists the available profile names
func Names() []string {
	return []string{"strategic", "aggressive", "newbie", "scalper", "yolo"}
}

// Preset returns the parameter set for a profile name
func Preset(name string) (Params, error) {
	p, ok := presets[name]
	if !ok {
		return Params{}, fmt.Errorf("unknown trader profile %q", name)
	}
	return p, nil
}
