package cosmic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

const sampleConfig = `
enabled: true
factors:
  moon_phase:         { enabled: true,  weight: 0.5 }
  schumann:           { enabled: false, weight: 0.0 }
  liquidity:          { enabled: true,  weight: 0.7 }
  sentiment:          { enabled: true,  weight: 1.0 }
  mercury_retrograde: { enabled: false, weight: 0.0 }
application:
  position_size: true
  entry_threshold: true
  exit_impulse: true
`

func TestParseConfigSample(t *testing.T) {
	cfg, err := ParseConfig([]byte(sampleConfig))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}

	if !cfg.Enabled {
		t.Fatal("expected master enabled")
	}
	if f := cfg.Factors[FactorMoonPhase]; !f.Enabled || f.Weight != 0.5 {
		t.Fatalf("moon_phase = %+v", f)
	}
	if f := cfg.Factors[FactorSchumann]; f.Enabled {
		t.Fatalf("schumann should be disabled, got %+v", f)
	}

	// Factors absent from the document default to enabled, weight 1
	for _, name := range []string{FactorGeographic, FactorTimeCycle, FactorCircadian} {
		if f := cfg.Factors[name]; !f.Enabled || f.Weight != 1.0 {
			t.Fatalf("%s should default to enabled/1.0, got %+v", name, f)
		}
	}

	// Application fields absent from the document default to permitted
	if !cfg.Application[FieldConfidence] || !cfg.Application[FieldRiskAppetite] {
		t.Fatal("absent application fields should default to true")
	}
	if !cfg.Application[FieldPositionSize] {
		t.Fatal("position_size should be permitted")
	}
}

func TestParseConfigUnknownFactorIgnored(t *testing.T) {
	doc := `
factors:
  saturn_rings: { enabled: true, weight: 3.0 }
  moon_phase:   { enabled: true, weight: 0.25 }
`
	cfg, err := ParseConfig([]byte(doc))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if _, ok := cfg.Factors["saturn_rings"]; ok {
		t.Fatal("unknown factor should not be kept")
	}
	if f := cfg.Factors[FactorMoonPhase]; f.Weight != 0.25 {
		t.Fatalf("moon_phase weight = %v", f.Weight)
	}
}

func TestParseConfigMalformed(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{"sequence root", "- a\n- b\n"},
		{"scalar root", "42\n"},
		{"non-numeric weight", "factors:\n  moon_phase: { weight: heavy }\n"},
		{"negative weight", "factors:\n  moon_phase: { weight: -1.0 }\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tc.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrBadConfig) {
				t.Fatalf("expected ErrBadConfig, got %v", err)
			}
		})
	}
}

func TestParseConfigMasterSwitch(t *testing.T) {
	cfg, err := ParseConfig([]byte("enabled: false\n"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Enabled {
		t.Fatal("expected master disabled")
	}

	// Empty document keeps every default
	cfg, err = ParseConfig([]byte(""))
	if err != nil {
		t.Fatalf("ParseConfig empty: %v", err)
	}
	if !cfg.Enabled {
		t.Fatal("empty document should default to enabled")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cosmic.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if f := cfg.Factors[FactorLiquidity]; f.Weight != 0.7 {
		t.Fatalf("liquidity weight = %v", f.Weight)
	}

	if _, err := LoadConfig(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
