package synth

import "github.com/alejandrodnm/tradersim/internal/domain"

// Positions draws the open positions a trader holds at one step. The result
// is empty when the hold gate does not fire.
func Positions(rng *Rand, p domain.PositionProfile, surface domain.PriceSurface) []domain.Position {
	if !rng.Bernoulli(p.HoldProb) {
		return nil
	}

	pool := availablePool(p.Pool, surface)
	if len(pool) == 0 {
		return nil
	}

	count := 1
	if len(p.CountWeights) > 0 {
		count = rng.WeightedIndex(p.CountWeights) + 1
	}

	var positions []domain.Position
	for _, idx := range rng.SampleWeighted(poolWeights(pool), count) {
		symbol := pool[idx].Symbol
		quote := surface[symbol]

		entryRaw := quote.Price * (1 + rng.Uniform(p.EntryOffset.Min, p.EntryOffset.Max))
		leverage := rng.PickInt(p.Leverage.For(quote.Class))
		side := domain.SideShort
		if rng.Bernoulli(p.LongProb) {
			side = domain.SideLong
		}
		notional := drawNotional(rng, p.Notional, quote.Class)

		qty := domain.Round(notional/entryRaw, domain.QuantityDecimals(quote.Price))
		if qty <= 0 {
			continue
		}
		entry := domain.Round(entryRaw, quote.Decimals)
		positions = append(positions, domain.NewPosition(symbol, side, entry, quote.Price, qty, leverage))
	}
	return positions
}

// availablePool keeps the pool entries that are priced on the surface.
func availablePool(pool []domain.WeightedSymbol, surface domain.PriceSurface) []domain.WeightedSymbol {
	out := make([]domain.WeightedSymbol, 0, len(pool))
	for _, ws := range pool {
		if _, ok := surface[ws.Symbol]; ok {
			out = append(out, ws)
		}
	}
	return out
}

func poolWeights(pool []domain.WeightedSymbol) []float64 {
	w := make([]float64, len(pool))
	for i, ws := range pool {
		w[i] = ws.Weight
	}
	return w
}

// drawNotional draws a size in quote currency for the class. Classes missing
// from the table fall back to the alt range, then to a fixed 10k.
func drawNotional(rng *Rand, table domain.Notional, c domain.Class) float64 {
	r, ok := table[c]
	if !ok {
		r, ok = table[domain.ClassAlt]
	}
	if !ok {
		return 10000
	}
	return rng.Uniform(r.Min, r.Max)
}
