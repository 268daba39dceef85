package cosmic

import (
	"fmt"
	"math"
	"time"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// FACTOR SERVICE - Deterministic influence pipeline
// ═══════════════════════════════════════════════════════════════════════════════
//
// Calculate and Apply are pure: same conditions, same config, same clock
// reading, same output. The service never touches a decision field that
// the application section does not permit.
//
// ═══════════════════════════════════════════════════════════════════════════════

// Influences is the bounded output of Calculate. Every value is clamped
// to [-2, 2] after weighting.
type Influences struct {
	RiskAppetiteMod    float64 `json:"risk_appetite_mod"`
	ConfidenceMod      float64 `json:"confidence_mod"`
	MistakeProbability float64 `json:"mistake_probability"`
	EmotionalIntensity float64 `json:"emotional_intensity"`
	InsightPotential   float64 `json:"insight_potential"`
	Vitality           float64 `json:"vitality"`
	Alertness          float64 `json:"alertness"`
	Discipline         float64 `json:"discipline"`
}

// IsZero reports whether no influence is active
func (in Influences) IsZero() bool {
	return in == Influences{}
}

// FactorStatus is one factor's switch and weight for the status report
type FactorStatus struct {
	Enabled bool    `json:"enabled"`
	Weight  float64 `json:"weight"`
}

// Status is the externally visible service state
type Status struct {
	Enabled bool                    `json:"enabled"`
	Factors map[string]FactorStatus `json:"factors"`
}

// Service computes and applies cosmic influences
type Service struct {
	cfg Config
	now func() time.Time
}

// NewService builds a factor service. A nil clock falls back to time.Now;
// tests inject a fixed clock for reproducibility.
func NewService(cfg Config, clock func() time.Time) *Service {
	if clock == nil {
		clock = time.Now
	}
	if cfg.Factors == nil {
		cfg.Factors = DefaultConfig().Factors
	}
	if cfg.Application == nil {
		cfg.Application = DefaultConfig().Application
	}
	return &Service{cfg: cfg, now: clock}
}

// Enabled reports the master switch
func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

// FactorEnabled reports whether a single factor is active
func (s *Service) FactorEnabled(name string) bool {
	if !s.cfg.Enabled {
		return false
	}
	return s.cfg.Factors[name].Enabled
}

// FactorWeight returns a factor's weight, 0 when disabled
func (s *Service) FactorWeight(name string) float64 {
	if !s.FactorEnabled(name) {
		return 0
	}
	return s.cfg.Factors[name].Weight
}

// Status reports the master switch and every factor's setting
func (s *Service) Status() Status {
	st := Status{
		Enabled: s.cfg.Enabled,
		Factors: make(map[string]FactorStatus, len(FactorNames)),
	}
	for _, name := range FactorNames {
		f := s.cfg.Factors[name]
		st.Factors[name] = FactorStatus{Enabled: f.Enabled, Weight: f.Weight}
	}
	return st
}

// Calculate derives the influence vector from the given conditions.
// Unrecognized enum values are a programmer bug and panic.
func (s *Service) Calculate(c types.CosmicConditions) Influences {
	if !s.cfg.Enabled {
		return Influences{}
	}

	var in Influences

	if w := s.FactorWeight(FactorMoonPhase); w > 0 {
		moon, ok := moonTable[c.MoonPhase]
		if !ok {
			panic(fmt.Sprintf("cosmic: unknown moon phase %q", c.MoonPhase))
		}
		in.RiskAppetiteMod += w * moon.risk
		in.ConfidenceMod += w * moon.conf
		in.EmotionalIntensity += w * 2 * moon.emotion
		in.InsightPotential += w * moon.insight
		if c.MoonPhase == types.MoonFull {
			in.MistakeProbability += w * 0.1
		}
	}

	if w := s.FactorWeight(FactorSchumann); w > 0 {
		sch, ok := schumannTable[c.Schumann]
		if !ok {
			panic(fmt.Sprintf("cosmic: unknown schumann level %q", c.Schumann))
		}
		in.RiskAppetiteMod += w * sch
		in.EmotionalIntensity += w * sch
	}

	if w := s.FactorWeight(FactorLiquidity); w > 0 {
		liq, ok := liquidityTable[c.Liquidity]
		if !ok {
			panic(fmt.Sprintf("cosmic: unknown liquidity level %q", c.Liquidity))
		}
		in.RiskAppetiteMod += w * liq
	}

	if w := s.FactorWeight(FactorSentiment); w > 0 {
		sent, ok := sentimentTable[c.Sentiment]
		if !ok {
			panic(fmt.Sprintf("cosmic: unknown sentiment level %q", c.Sentiment))
		}
		in.RiskAppetiteMod += w * sent
		in.ConfidenceMod += w * sent
		in.EmotionalIntensity += w * 0.5 * math.Abs(sent)
	}

	if w := s.FactorWeight(FactorMercuryRetrograde); w > 0 && c.MercuryRetrograde {
		in.MistakeProbability += w * mercuryRetroPenalty
	}

	if w := s.FactorWeight(FactorGeographic); w > 0 {
		geo := geographic(c.Latitude, c.Longitude, s.now().UTC())
		in.RiskAppetiteMod += w * geo.risk
		in.ConfidenceMod += w * geo.vitality
		in.Vitality += w * geo.vitality
	}

	if w := s.FactorWeight(FactorTimeCycle); w > 0 {
		in.ConfidenceMod += w * timeCycle(c.DayOfWeek, c.HourOfDay)
	}

	if w := s.FactorWeight(FactorCircadian); w > 0 {
		circ := circadian(c.HourOfDay)
		in.Alertness += w * circ.alertness
		in.Discipline += w * circ.discipline
	}

	return in.clamped()
}

func (in Influences) clamped() Influences {
	return Influences{
		RiskAppetiteMod:    clamp(in.RiskAppetiteMod, -2, 2),
		ConfidenceMod:      clamp(in.ConfidenceMod, -2, 2),
		MistakeProbability: clamp(in.MistakeProbability, -2, 2),
		EmotionalIntensity: clamp(in.EmotionalIntensity, -2, 2),
		InsightPotential:   clamp(in.InsightPotential, -2, 2),
		Vitality:           clamp(in.Vitality, -2, 2),
		Alertness:          clamp(in.Alertness, -2, 2),
		Discipline:         clamp(in.Discipline, -2, 2),
	}
}

// Apply nudges a decision by the influence vector and returns the
// modified copy; the input decision is never mutated. Only fields the
// application section permits are touched.
func (s *Service) Apply(d types.Decision, in Influences) types.Decision {
	out := d
	if !s.cfg.Enabled {
		return out
	}

	if s.cfg.Application[FieldPositionSize] {
		factor := clamp(1+in.RiskAppetiteMod, 0.5, 2.0)
		out.PositionSize = d.PositionSize * factor
	}
	if s.cfg.Application[FieldEntryThreshold] {
		factor := clamp(1-in.ConfidenceMod, 0.7, 1.3)
		out.EntryThreshold = clamp(d.EntryThreshold*factor, 0, 1)
	}
	if s.cfg.Application[FieldExitImpulse] {
		factor := clamp(1+in.EmotionalIntensity, 0.8, 1.5)
		out.ExitImpulse = clamp(d.ExitImpulse*factor, 0, 1)
	}
	if s.cfg.Application[FieldConfidence] {
		out.Confidence = clamp(d.Confidence+in.ConfidenceMod, 0, 1)
	}
	if s.cfg.Application[FieldRiskAppetite] {
		out.RiskAppetite = clamp(d.RiskAppetite+in.RiskAppetiteMod, 0, 1)
	}
	if s.cfg.Application[FieldInsightLevel] {
		out.InsightLevel = clamp(d.InsightLevel+in.InsightPotential, 0, 1)
	}
	if s.cfg.Application[FieldEmotionalIntensity] {
		out.EmotionalIntensity = clamp(d.EmotionalIntensity+in.EmotionalIntensity, 0, 1)
	}

	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
