package profile

import (
	"github.com/rs/zerolog/log"

	"github.com/omegaxbt/omegabot/types"
)

// ═══════════════════════════════════════════════════════════════════════════════
// EMOTION MACHINE - Streak-driven state transitions
// ═══════════════════════════════════════════════════════════════════════════════
//
// Win path:  neutral → confident → greedy → neutral
// Loss path: neutral → anxious → fearful → revenge? → neutral
//
// Transitions are driven entirely by the streak counters. The single
// non-deterministic edge (revenge at four straight losses for a
// low-discipline profile) draws from the injected RNG. Five straight
// losses force fearful for every profile.
//
// ═══════════════════════════════════════════════════════════════════════════════

const (
	winsForConfidence = 2
	winsForGreed      = 4
	winsForHumility   = 6
	lossesForAnxiety  = 2
	lossesForFear     = 3
	lossesForRevenge  = 4
	forcedFearLosses  = 5

	riskDecayPerLoss   = 0.05
	riskRecoverPerWin  = 0.02
	minRiskAppetite    = 0.05
	lowDisciplineLimit = 0.3
)

// RecordTrade folds one closed trade into the state: counters, streaks,
// capital, drawdown, risk appetite and the emotional transition
func (t *Trader) RecordTrade(state *types.TraderState, pnl float64) {
	state.TotalTrades++
	state.Capital += pnl
	state.ProfitLoss += pnl

	if pnl >= 0 {
		state.Wins++
		state.ConsecutiveWins++
		state.ConsecutiveLosses = 0
		state.RiskAppetite = clampf(state.RiskAppetite+riskRecoverPerWin, minRiskAppetite, t.params.RiskAppetite)
	} else {
		state.Losses++
		state.ConsecutiveLosses++
		state.ConsecutiveWins = 0
		state.RiskAppetite = clampf(state.RiskAppetite-riskDecayPerLoss, minRiskAppetite, 1)

		if before := state.Capital - pnl; before > 0 {
			if dd := -pnl / before; dd > state.MaxDrawdown {
				state.MaxDrawdown = dd
			}
		}
	}

	prev := state.Emotion
	state.Emotion = t.nextEmotion(state)
	if state.Emotion != prev {
		log.Info().
			Str("profile", t.params.Name).
			Str("from", string(prev)).
			Str("to", string(state.Emotion)).
			Int("streak_wins", state.ConsecutiveWins).
			Int("streak_losses", state.ConsecutiveLosses).
			Msg("🎭 Emotional state changed")
	}
}

func (t *Trader) nextEmotion(state *types.TraderState) types.EmotionalState {
	switch {
	case state.ConsecutiveLosses >= forcedFearLosses:
		// Forced for every profile, no exceptions
		return types.EmotionFearful
	case state.ConsecutiveLosses >= lossesForRevenge:
		if t.params.Discipline < lowDisciplineLimit && t.rng.Float64() < 0.5 {
			return types.EmotionRevenge
		}
		return types.EmotionFearful
	case state.ConsecutiveLosses >= lossesForFear:
		return types.EmotionFearful
	case state.ConsecutiveLosses >= lossesForAnxiety:
		return types.EmotionAnxious
	case state.ConsecutiveLosses == 1:
		return types.EmotionNeutral
	case state.ConsecutiveWins >= winsForHumility:
		return types.EmotionNeutral
	case state.ConsecutiveWins >= winsForGreed:
		return types.EmotionGreedy
	case state.ConsecutiveWins >= winsForConfidence:
		return types.EmotionConfident
	default:
		return types.EmotionNeutral
	}
}
