package leave

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

var half = decimal.NewFromFloat(0.5)

// CountDays counts weekdays from start to end inclusive, then removes half a
// day for an afternoon start and half a day for a morning end. A span with
// no weekday counts 0 and the result never goes below 0.
func CountDays(start, end time.Time, startHalf, endHalf HalfDay) decimal.Decimal {
	start, end = civil(start), civil(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	if days == 0 {
		return decimal.Zero
	}

	total := decimal.NewFromInt(int64(days))
	if startHalf == Afternoon {
		total = total.Sub(half)
	}
	if endHalf == Morning {
		total = total.Sub(half)
	}
	if total.IsNegative() {
		return decimal.Zero
	}
	return total
}

// Allowances is the yearly ceiling per type. Zero means the type is only
// tracked, not capped.
type Allowances map[Type]decimal.Decimal

func AllowancesFrom(cfg internal.PolicyConfig) Allowances {
	cfg = cfg.WithDefaults()
	return Allowances{
		TypePaid:   decimal.NewFromFloat(cfg.PaidLeaveDays),
		TypeSick:   decimal.Zero,
		TypeUnpaid: decimal.NewFromFloat(cfg.UnpaidLeaveDays),
	}
}

type Balance struct {
	Max       decimal.Decimal `json:"max"`
	Consumed  decimal.Decimal `json:"consumed"`
	Remaining decimal.Decimal `json:"remaining"`
	Tracked   bool            `json:"tracked"`
}

type Balances map[Type]Balance

// ComputeBalances sums the days of approved requests per type. Requests in
// any other status are ignored. The result does not depend on input order.
func ComputeBalances(requests []*LeaveRequest, allowances Allowances) Balances {
	consumed := make(map[Type]decimal.Decimal, len(Types))
	for _, r := range requests {
		if r.Status != workflow.StatusApproved {
			continue
		}
		consumed[r.Type] = consumed[r.Type].Add(CountDays(r.StartDate, r.EndDate, r.StartHalf, r.EndHalf))
	}

	out := make(Balances, len(Types))
	for _, t := range Types {
		max := allowances[t]
		b := Balance{Max: max, Consumed: consumed[t], Remaining: decimal.Zero}
		if max.IsPositive() {
			b.Tracked = true
			b.Remaining = decimal.Max(decimal.Zero, max.Sub(b.Consumed))
		}
		out[t] = b
	}
	return out
}
