package profile

import (
	"math"
	"testing"

	"github.com/omegaxbt/omegabot/types"
)

func loseN(tr *Trader, state *types.TraderState, n int) {
	for i := 0; i < n; i++ {
		tr.RecordTrade(state, -10)
	}
}

func winN(tr *Trader, state *types.TraderState, n int) {
	for i := 0; i < n; i++ {
		tr.RecordTrade(state, 10)
	}
}

func TestWinStreakTransitions(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	winN(tr, state, 1)
	if state.Emotion != types.EmotionNeutral {
		t.Fatalf("after 1 win: %s", state.Emotion)
	}
	winN(tr, state, 1)
	if state.Emotion != types.EmotionConfident {
		t.Fatalf("after 2 wins: %s", state.Emotion)
	}
	winN(tr, state, 2)
	if state.Emotion != types.EmotionGreedy {
		t.Fatalf("after 4 wins: %s", state.Emotion)
	}
	winN(tr, state, 2)
	if state.Emotion != types.EmotionNeutral {
		t.Fatalf("after 6 wins: %s", state.Emotion)
	}
}

func TestLossStreakTransitions(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	loseN(tr, state, 1)
	if state.Emotion != types.EmotionNeutral {
		t.Fatalf("after 1 loss: %s", state.Emotion)
	}
	loseN(tr, state, 1)
	if state.Emotion != types.EmotionAnxious {
		t.Fatalf("after 2 losses: %s", state.Emotion)
	}
	loseN(tr, state, 1)
	if state.Emotion != types.EmotionFearful {
		t.Fatalf("after 3 losses: %s", state.Emotion)
	}
}

func TestDisciplinedTraderNeverSeeksRevenge(t *testing.T) {
	tr := newTrader(t, "strategic") // discipline 0.8
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	loseN(tr, state, 4)
	if state.Emotion != types.EmotionFearful {
		t.Fatalf("after 4 losses: %s", state.Emotion)
	}
}

func TestRecklessTraderMayTiltAtFourLosses(t *testing.T) {
	tr := newTrader(t, "yolo") // discipline 0.1, revenge edge is a coin flip
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	loseN(tr, state, 4)
	if state.Emotion != types.EmotionRevenge && state.Emotion != types.EmotionFearful {
		t.Fatalf("after 4 losses: %s", state.Emotion)
	}
}

func TestFiveLossesForceFearForEveryProfile(t *testing.T) {
	for _, name := range Names() {
		tr := newTrader(t, name)
		state := tr.InitState("t", "paper", "BTC/USDT", 10000)

		loseN(tr, state, 5)
		if state.Emotion != types.EmotionFearful {
			t.Fatalf("%s after 5 losses: %s", name, state.Emotion)
		}
	}
}

func TestRiskAppetiteDecaysAndRecovers(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	loseN(tr, state, 5)
	if math.Abs(state.RiskAppetite-0.15) > 1e-9 {
		t.Fatalf("risk appetite after 5 losses = %v, want 0.15", state.RiskAppetite)
	}

	winN(tr, state, 3)
	if math.Abs(state.RiskAppetite-0.21) > 1e-9 {
		t.Fatalf("risk appetite after recovery = %v, want 0.21", state.RiskAppetite)
	}

	// Recovery never exceeds the preset baseline
	winN(tr, state, 50)
	if state.RiskAppetite > tr.Params().RiskAppetite+1e-9 {
		t.Fatalf("risk appetite %v above preset %v", state.RiskAppetite, tr.Params().RiskAppetite)
	}
}

func TestRiskAppetiteFloor(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	loseN(tr, state, 50)
	if math.Abs(state.RiskAppetite-0.05) > 1e-9 {
		t.Fatalf("risk appetite = %v, want the 0.05 floor", state.RiskAppetite)
	}
}

func TestRecordTradeBookkeeping(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	tr.RecordTrade(state, 250)
	tr.RecordTrade(state, -100)
	tr.RecordTrade(state, 50)

	if state.TotalTrades != 3 || state.Wins != 2 || state.Losses != 1 {
		t.Fatalf("counters: trades=%d wins=%d losses=%d", state.TotalTrades, state.Wins, state.Losses)
	}
	if math.Abs(state.Capital-10200) > 1e-9 {
		t.Fatalf("capital = %v, want 10200", state.Capital)
	}
	if math.Abs(state.ProfitLoss-200) > 1e-9 {
		t.Fatalf("pnl = %v, want 200", state.ProfitLoss)
	}
	if got, want := state.WinRate(), 2.0/3.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("win rate = %v, want %v", got, want)
	}
	if state.MaxDrawdown <= 0 {
		t.Fatalf("drawdown not recorded: %v", state.MaxDrawdown)
	}
}

func TestMaxDrawdownTracksWorstLoss(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	tr.RecordTrade(state, -100) // 1% of 10000
	if math.Abs(state.MaxDrawdown-0.01) > 1e-9 {
		t.Fatalf("drawdown = %v, want 0.01", state.MaxDrawdown)
	}

	tr.RecordTrade(state, -50) // smaller relative loss, drawdown keeps its max
	if math.Abs(state.MaxDrawdown-0.01) > 1e-9 {
		t.Fatalf("drawdown = %v, want 0.01", state.MaxDrawdown)
	}

	tr.RecordTrade(state, -500)
	if state.MaxDrawdown <= 0.01 {
		t.Fatalf("drawdown = %v, want above 0.01", state.MaxDrawdown)
	}
}

func TestLossResetsWinStreak(t *testing.T) {
	tr := newTrader(t, "strategic")
	state := tr.InitState("t", "paper", "BTC/USDT", 10000)

	winN(tr, state, 3)
	loseN(tr, state, 1)
	if state.ConsecutiveWins != 0 || state.ConsecutiveLosses != 1 {
		t.Fatalf("streaks: wins=%d losses=%d", state.ConsecutiveWins, state.ConsecutiveLosses)
	}
	if state.Emotion != types.EmotionNeutral {
		t.Fatalf("emotion after streak break: %s", state.Emotion)
	}
}
