package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPosition_LongPnL(t *testing.T) {
	p := NewPosition("BTCUSDT", SideLong, 100000, 101000, 0.5, 5)
	assert.InDelta(t, 500.0, p.UnrealizedPnL, 0.001)
	assert.InDelta(t, 10000.0, p.Margin, 0.001)
}

func TestNewPosition_ShortPnL(t *testing.T) {
	p := NewPosition("ETHUSDT", SideShort, 3300, 3200, 10, 2)
	assert.InDelta(t, 1000.0, p.UnrealizedPnL, 0.001)
	assert.InDelta(t, 16500.0, p.Margin, 0.001)
}

func TestNewPosition_PnLRecomputable(t *testing.T) {
	p := NewPosition("DOGEUSDT", SideShort, 0.351234, 0.348765, 28571, 3)
	assert.InDelta(t, p.PnL(), p.UnrealizedPnL, 0.005)
	assert.InDelta(t, p.RequiredMargin(), p.Margin, 0.005)
}

func TestNewAccountState_NoPositions(t *testing.T) {
	s := NewAccountState(10000, nil)
	assert.Equal(t, 10000.0, s.TotalBalance)
	assert.Equal(t, 10000.0, s.AvailableBalance)
	assert.Equal(t, 0, s.PositionCount)
	assert.Equal(t, 0.0, s.MarginUsedPct)
}

func TestNewAccountState_AvailableFlooredAtZero(t *testing.T) {
	positions := []Position{
		NewPosition("BTCUSDT", SideLong, 100000, 100500, 0.6, 3), // margin 20000
	}
	s := NewAccountState(10000, positions)
	assert.Equal(t, 0.0, s.AvailableBalance)
	assert.Equal(t, float64(MaxMarginUsedPct), s.MarginUsedPct)
	assert.InDelta(t, 300.0, s.TotalUnrealizedProfit, 0.001)
	assert.Equal(t, 1, s.PositionCount)
}

func TestNewAccountState_MarginPct(t *testing.T) {
	positions := []Position{
		NewPosition("ETHUSDT", SideLong, 3000, 3000, 5, 5), // margin 3000
		NewPosition("SOLUSDT", SideShort, 250, 240, 10, 2), // margin 1250
	}
	s := NewAccountState(10000, positions)
	assert.InDelta(t, 5750.0, s.AvailableBalance, 0.001)
	assert.InDelta(t, 42.5, s.MarginUsedPct, 0.001)
	assert.InDelta(t, 100.0, s.TotalUnrealizedProfit, 0.001)
}

func TestNewAccountState_ZeroBalance(t *testing.T) {
	positions := []Position{NewPosition("ETHUSDT", SideLong, 3000, 3000, 1, 3)}
	s := NewAccountState(0, positions)
	assert.Equal(t, 0.0, s.MarginUsedPct)
	assert.Equal(t, 0.0, s.AvailableBalance)
}

func TestActions(t *testing.T) {
	assert.Equal(t, ActionOpenShort, OpenAction(SideShort))
	assert.Equal(t, ActionCloseLong, CloseAction(SideLong))
	assert.False(t, ActionWait.IsTrade())
	assert.False(t, ActionHold.IsTrade())
	assert.True(t, ActionCloseShort.IsTrade())
	assert.True(t, ActionCloseShort.IsClose())
	assert.False(t, ActionOpenLong.IsClose())
	assert.Equal(t, "SHORT", SideShort.Upper())
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "+12.30", FormatSigned(12.3))
	assert.Equal(t, "-0.50", FormatSigned(-0.5))
	assert.Equal(t, "105000.12", FormatNumber(105000.12))
	assert.Equal(t, "0.351234", FormatNumber(0.351234))
	assert.Equal(t, 6, PriceDecimals(0.95))
	assert.Equal(t, 2, PriceDecimals(2.8))
	assert.Equal(t, 3, QuantityDecimals(105000))
	assert.Equal(t, 2, QuantityDecimals(260))
	assert.Equal(t, 0, QuantityDecimals(0.35))
}
