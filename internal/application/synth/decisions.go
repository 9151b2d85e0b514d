package synth

import (
	"fmt"
	"math"

	"github.com/alejandrodnm/tradersim/internal/domain"
)

// Slippage bounds the relative execution offset of an open order.
const Slippage = 0.002

const (
	minOrderID = 100000
	maxOrderID = 999999
)

var idleReasons = []string{
	"No high-confidence setup found",
	"RSI near oversold, waiting for confirmation",
	"Trend unclear, maintaining positions",
	"Waiting for breakout confirmation",
	"Market consolidating, holding",
	"Risk-reward not favorable",
	"Indicators conflicting, staying out",
	"Volatility too low for entry",
	"4h EMA20 ≈ EMA50, no clear trend",
	"KEMAD and ZeroLag not aligned",
}

// Outcome is what a trader decided in one cycle.
type Outcome struct {
	Decisions         []domain.Decision
	Log               []string
	RequestDurationMs int
}

// Decide draws the cycle's decisions. Nothing here carries over between
// calls; close decisions only ever reference one of positions.
func Decide(rng *Rand, p domain.DecisionProfile, positions []domain.Position, surface domain.PriceSurface) Outcome {
	var out Outcome
	switch {
	case !rng.Bernoulli(p.ActionProb):
		out = idle(rng)
	case len(positions) > 0 && rng.Bernoulli(p.CloseProb):
		out = closePosition(rng, positions)
	default:
		out = openPosition(rng, p, surface)
	}

	out.RequestDurationMs = rng.IntRange(p.LatencyMs.Min, p.LatencyMs.Max)
	out.Log = append([]string{fmt.Sprintf("AI request duration: %d ms", out.RequestDurationMs)}, out.Log...)
	return out
}

func idle(rng *Rand) Outcome {
	action := domain.ActionWait
	if rng.Pick(2) == 1 {
		action = domain.ActionHold
	}
	reason := idleReasons[rng.Pick(len(idleReasons))]
	return Outcome{
		Decisions: []domain.Decision{{Action: action, Symbol: domain.AllSymbols, Success: true}},
		Log:       []string{fmt.Sprintf("✓ %s %s — %s", domain.AllSymbols, action, reason)},
	}
}

func closePosition(rng *Rand, positions []domain.Position) Outcome {
	pos := positions[rng.Pick(len(positions))]
	d := domain.Decision{
		Action:   domain.CloseAction(pos.Side),
		Symbol:   pos.Symbol,
		Quantity: pos.Quantity,
		Leverage: pos.Leverage,
		Price:    pos.MarkPrice,
		OrderID:  rng.IntRange(minOrderID, maxOrderID),
		Success:  true,
	}
	line := fmt.Sprintf("Closed %s %s @ %s (PnL: %s USDT)",
		pos.Side.Upper(), pos.Symbol, domain.FormatNumber(pos.MarkPrice), domain.FormatSigned(pos.UnrealizedPnL))
	return Outcome{Decisions: []domain.Decision{d}, Log: []string{line}}
}

func openPosition(rng *Rand, p domain.DecisionProfile, surface domain.PriceSurface) Outcome {
	pool := availablePool(p.Pool, surface)
	if len(pool) == 0 {
		return idle(rng)
	}

	symbol := pool[rng.WeightedIndex(poolWeights(pool))].Symbol
	quote := surface[symbol]

	filled := quote.Price * (1 + rng.Uniform(-Slippage, Slippage))
	side := domain.SideShort
	if rng.Bernoulli(p.LongProb) {
		side = domain.SideLong
	}
	leverage := rng.PickInt(p.Leverage.For(quote.Class))
	notional := drawNotional(rng, p.Notional, quote.Class)

	qty := domain.Round(notional/filled, domain.QuantityDecimals(quote.Price))
	price := domain.Round(filled, quote.Decimals)

	d := domain.Decision{
		Action:   domain.OpenAction(side),
		Symbol:   symbol,
		Quantity: qty,
		Leverage: leverage,
		Price:    price,
		OrderID:  rng.IntRange(minOrderID, maxOrderID),
		Success:  true,
	}
	line := fmt.Sprintf("Opened %s %s x%d @ %s (%d USDT)",
		side.Upper(), symbol, leverage, domain.FormatNumber(price), int(math.Round(notional)))
	return Outcome{Decisions: []domain.Decision{d}, Log: []string{line}}
}
