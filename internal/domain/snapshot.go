package domain

import (
	"strings"
	"time"
)

// Side is the direction of a position.
type Side string

const (
	SideLong  Side = "long"
	SideShort Side = "short"
)

// Upper returns the side as shown in execution logs.
func (s Side) Upper() string { return strings.ToUpper(string(s)) }

// Action is the kind of a trading decision.
type Action string

const (
	ActionWait       Action = "wait"
	ActionHold       Action = "hold"
	ActionOpenLong   Action = "open_long"
	ActionOpenShort  Action = "open_short"
	ActionCloseLong  Action = "close_long"
	ActionCloseShort Action = "close_short"
)

// OpenAction returns the open action for side.
func OpenAction(s Side) Action {
	if s == SideShort {
		return ActionOpenShort
	}
	return ActionOpenLong
}

// CloseAction returns the close action for side.
func CloseAction(s Side) Action {
	if s == SideShort {
		return ActionCloseShort
	}
	return ActionCloseLong
}

// IsTrade reports whether the action touches a specific instrument.
func (a Action) IsTrade() bool {
	return a != ActionWait && a != ActionHold
}

// IsClose reports whether the action closes an existing position.
func (a Action) IsClose() bool {
	return a == ActionCloseLong || a == ActionCloseShort
}

// AllSymbols is the symbol used by non-trade decisions.
const AllSymbols = "ALL"

// Position is an open leveraged position. UnrealizedPnL and Margin are
// derived from the other (already rounded) fields.
type Position struct {
	Symbol        string  `json:"symbol"`
	Side          Side    `json:"side"`
	EntryPrice    float64 `json:"entry_price"`
	MarkPrice     float64 `json:"mark_price"`
	Quantity      float64 `json:"quantity"`
	Leverage      int     `json:"leverage"`
	UnrealizedPnL float64 `json:"unrealized_pnl"`
	Margin        float64 `json:"margin"`
}

// NewPosition builds a position and derives its P&L and margin.
func NewPosition(symbol string, side Side, entry, mark, qty float64, leverage int) Position {
	p := Position{
		Symbol:     symbol,
		Side:       side,
		EntryPrice: entry,
		MarkPrice:  mark,
		Quantity:   qty,
		Leverage:   leverage,
	}
	p.UnrealizedPnL = RoundCents(p.PnL())
	p.Margin = RoundCents(p.RequiredMargin())
	return p
}

// PnL recomputes the unrealized profit from entry, mark and quantity.
func (p Position) PnL() float64 {
	if p.Side == SideShort {
		return (p.EntryPrice - p.MarkPrice) * p.Quantity
	}
	return (p.MarkPrice - p.EntryPrice) * p.Quantity
}

// Notional is the entry value of the position before leverage.
func (p Position) Notional() float64 {
	return p.EntryPrice * p.Quantity
}

// RequiredMargin recomputes notional / leverage.
func (p Position) RequiredMargin() float64 {
	if p.Leverage <= 0 {
		return p.Notional()
	}
	return p.Notional() / float64(p.Leverage)
}

// Decision is one trading action taken in a cycle. Generated decisions
// always succeed.
type Decision struct {
	Action    Action    `json:"action"`
	Symbol    string    `json:"symbol"`
	Quantity  float64   `json:"quantity"`
	Leverage  int       `json:"leverage"`
	Price     float64   `json:"price"`
	OrderID   int       `json:"order_id"`
	Timestamp time.Time `json:"timestamp"`
	Success   bool      `json:"success"`
	Error     string    `json:"error"`
}

// MaxMarginUsedPct caps the reported margin usage.
const MaxMarginUsedPct = 90

// AccountState is the account block of a snapshot.
type AccountState struct {
	TotalBalance          float64 `json:"total_balance"`
	AvailableBalance      float64 `json:"available_balance"`
	TotalUnrealizedProfit float64 `json:"total_unrealized_profit"`
	PositionCount         int     `json:"position_count"`
	MarginUsedPct         float64 `json:"margin_used_pct"`
}

// NewAccountState derives the account block from balance and positions only.
func NewAccountState(balance float64, positions []Position) AccountState {
	var unrealized, margin float64
	for _, p := range positions {
		unrealized += p.UnrealizedPnL
		margin += p.Margin
	}

	available := balance - margin
	if available < 0 {
		available = 0
	}

	var pct float64
	if balance > 0 {
		pct = Round(margin/balance*100, 1)
		if pct > MaxMarginUsedPct {
			pct = MaxMarginUsedPct
		}
	}

	return AccountState{
		TotalBalance:          RoundCents(balance),
		AvailableBalance:      RoundCents(available),
		TotalUnrealizedProfit: RoundCents(unrealized),
		PositionCount:         len(positions),
		MarginUsedPct:         pct,
	}
}

// Snapshot is one self-consistent decision-log record for a trader at a
// cycle. The prompt and trace fields have no synthetic value and stay empty.
type Snapshot struct {
	Timestamp         time.Time    `json:"timestamp"`
	CycleNumber       int          `json:"cycle_number"`
	SystemPrompt      string       `json:"system_prompt"`
	InputPrompt       string       `json:"input_prompt"`
	CoTTrace          string       `json:"cot_trace"`
	DecisionJSON      string       `json:"decision_json"`
	AccountState      AccountState `json:"account_state"`
	Positions         []Position   `json:"positions"`
	CandidateCoins    []string     `json:"candidate_coins"`
	Decisions         []Decision   `json:"decisions"`
	ExecutionLog      []string     `json:"execution_log"`
	Success           bool         `json:"success"`
	ErrorMessage      string       `json:"error_message"`
	RequestDurationMs int          `json:"ai_request_duration_ms"`
}
