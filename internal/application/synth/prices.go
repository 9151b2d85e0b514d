package synth

import "github.com/alejandrodnm/tradersim/internal/domain"

// PriceNoise is the relative standard deviation of the per-step price noise.
const PriceNoise = 0.003

// Market prices a fixed instrument universe. It holds no state between
// steps: each surface is computed from the step's time fraction alone.
type Market struct {
	instruments []domain.Instrument
}

// NewMarket builds a market over instruments, priced in the given order.
func NewMarket(instruments []domain.Instrument) *Market {
	return &Market{instruments: instruments}
}

// Symbols lists the market's instruments in pricing order.
func (m *Market) Symbols() []string {
	return domain.Symbols(m.instruments)
}

// Surface prices every instrument at step of total. The drift component is
// a pure function of (step, total); only the noise draw differs between calls.
func (m *Market) Surface(rng *Rand, step, total int) domain.PriceSurface {
	t := float64(step) / float64(max(total-1, 1))

	surface := make(domain.PriceSurface, len(m.instruments))
	for _, inst := range m.instruments {
		noise := inst.Base * rng.Gauss(0, PriceNoise)
		price := inst.Base*(1+inst.Drift(t)) + noise
		dec := inst.PriceDecimals()
		surface[inst.Symbol] = domain.Quote{
			Price:    domain.Round(price, dec),
			Class:    inst.Class,
			Decimals: dec,
		}
	}
	return surface
}
