package cosmic

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// ErrBadConfig wraps any malformed factor configuration
var ErrBadConfig = errors.New("invalid cosmic config")

// Factor names form a closed set; anything else in the document is a typo
const (
	FactorMoonPhase         = "moon_phase"
	FactorSchumann          = "schumann"
	FactorLiquidity         = "liquidity"
	FactorSentiment         = "sentiment"
	FactorMercuryRetrograde = "mercury_retrograde"
	FactorGeographic        = "geographic"
	FactorTimeCycle         = "time_cycle"
	FactorCircadian         = "circadian"
)

// FactorNames lists every known factor, in table order
var FactorNames = []string{
	FactorMoonPhase,
	FactorSchumann,
	FactorLiquidity,
	FactorSentiment,
	FactorMercuryRetrograde,
	FactorGeographic,
	FactorTimeCycle,
	FactorCircadian,
}

// Decision fields the service may be permitted to modify
const (
	FieldPositionSize       = "position_size"
	FieldEntryThreshold     = "entry_threshold"
	FieldExitImpulse        = "exit_impulse"
	FieldRiskAppetite       = "risk_appetite"
	FieldConfidence         = "confidence"
	FieldInsightLevel       = "insight_level"
	FieldEmotionalIntensity = "emotional_intensity"
)

var applicationFields = []string{
	FieldPositionSize,
	FieldEntryThreshold,
	FieldExitImpulse,
	FieldRiskAppetite,
	FieldConfidence,
	FieldInsightLevel,
	FieldEmotionalIntensity,
}

// FactorSetting enables and weights a single factor
type FactorSetting struct {
	Enabled bool
	Weight  float64
}

// Config governs the factor service
type Config struct {
	Enabled     bool
	Factors     map[string]FactorSetting
	Application map[string]bool
}

// DefaultConfig returns a config with every factor enabled at weight 1
// and every application field permitted
func DefaultConfig() Config {
	cfg := Config{
		Enabled:     true,
		Factors:     make(map[string]FactorSetting, len(FactorNames)),
		Application: make(map[string]bool, len(applicationFields)),
	}
	for _, name := range FactorNames {
		cfg.Factors[name] = FactorSetting{Enabled: true, Weight: 1.0}
	}
	for _, field := range applicationFields {
		cfg.Application[field] = true
	}
	return cfg
}

// yaml shapes; weights stay *float64 so a missing weight can default to 1.0
type rawFactor struct {
	Enabled *bool    `yaml:"enabled"`
	Weight  *float64 `yaml:"weight"`
}

type rawConfig struct {
	Enabled     *bool                `yaml:"enabled"`
	Factors     map[string]rawFactor `yaml:"factors"`
	Application map[string]bool      `yaml:"application"`
}

// LoadConfig reads and parses a YAML factor configuration file
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read cosmic config: %w", err)
	}
	return ParseConfig(b)
}

// ParseConfig parses a YAML factor configuration document.
// Unknown factor names are warned about and dropped; missing factors
// default to enabled with weight 1.0; a missing application section
// permits every field.
func ParseConfig(b []byte) (Config, error) {
	var raw rawConfig
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrBadConfig, err)
	}

	cfg := DefaultConfig()
	if raw.Enabled != nil {
		cfg.Enabled = *raw.Enabled
	}

	for name, rf := range raw.Factors {
		if !knownFactor(name) {
			log.Warn().Str("factor", name).Msg("Unknown cosmic factor in config, ignoring")
			continue
		}
		setting := FactorSetting{Enabled: true, Weight: 1.0}
		if rf.Enabled != nil {
			setting.Enabled = *rf.Enabled
		}
		if rf.Weight != nil {
			if *rf.Weight < 0 {
				return Config{}, fmt.Errorf("%w: factor %s has negative weight %v", ErrBadConfig, name, *rf.Weight)
			}
			setting.Weight = *rf.Weight
		}
		cfg.Factors[name] = setting
	}

	for field, allowed := range raw.Application {
		if !knownField(field) {
			log.Warn().Str("field", field).Msg("Unknown application field in config, ignoring")
			continue
		}
		cfg.Application[field] = allowed
	}

	return cfg, nil
}

func knownFactor(name string) bool {
	for _, n := range FactorNames {
		if n == name {
			return true
		}
	}
	return false
}

func knownField(name string) bool {
	for _, f := range applicationFields {
		if f == name {
			return true
		}
	}
	return false
}
