package advance

import (
	"time"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/common/validation"
)

// TargetMonth is the salary month an advance requested at now is deducted
// from: always the following calendar month.
func TargetMonth(now time.Time) string {
	first := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
	return first.Format(targetMonthLayout)
}

// CanSubmit applies the admission rules in order: submission window, one
// request per target month, then amount and reason. existing holds the
// user's previous requests in any status.
func CanSubmit(now time.Time, existing []*AdvanceRequest, dto CreateAdvanceDTO, p Policy) (string, error) {
	if now.Day() > p.WindowLastDay {
		return "", internal.ErrAdvanceWindowClosed
	}

	month := TargetMonth(now)
	for _, r := range existing {
		if r.TargetMonth == month {
			return "", internal.ErrAdvanceDuplicate
		}
	}

	// amounts are stored to the cent, so the rules apply to the rounded value
	v := validation.NewValidator()
	v.Field("amount", dto.Amount.Round(2)).
		Positive(internal.ErrCodeInvalidAmount).
		MaxDecimal(p.MaxAmount, internal.ErrCodeAmountTooHigh)
	v.Field("reason", dto.Reason).MaxLength(reasonMaxLength)
	if err := v.Validate(); err != nil {
		return "", err
	}
	return month, nil
}
