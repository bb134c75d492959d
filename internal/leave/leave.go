package leave

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/frahmantamala/staff-requests/internal"
	leaveDatamodel "github.com/frahmantamala/staff-requests/internal/core/datamodel/leave"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

const (
	dateLayout      = "2006-01-02"
	reasonMaxLength = 1000
)

type Type string

const (
	TypePaid   Type = "CP"
	TypeSick   Type = "MA"
	TypeUnpaid Type = "CSS"
)

// Types lists every leave type in display order.
var Types = []Type{TypePaid, TypeSick, TypeUnpaid}

func ParseType(raw string) (Type, error) {
	switch Type(strings.ToUpper(strings.TrimSpace(raw))) {
	case TypePaid:
		return TypePaid, nil
	case TypeSick:
		return TypeSick, nil
	case TypeUnpaid:
		return TypeUnpaid, nil
	}
	return "", internal.NewValidationFieldError("type", "type must be one of cp, ma, css", internal.ErrCodeInvalidLeaveType)
}

type HalfDay string

const (
	FullDay   HalfDay = "FULL_DAY"
	Morning   HalfDay = "MORNING"
	Afternoon HalfDay = "AFTERNOON"
)

// ParseHalfDay also accepts the labels shown by the leave form. Empty means
// a full day.
func ParseHalfDay(field, raw string) (HalfDay, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "full_day", "journée", "journee":
		return FullDay, nil
	case "morning", "matin":
		return Morning, nil
	case "afternoon", "après-midi", "apres-midi":
		return Afternoon, nil
	}
	return "", internal.NewValidationFieldError(field, field+" must be FULL_DAY, MORNING or AFTERNOON", internal.ErrCodeInvalidHalfDay)
}

type LeaveRequest struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Type      Type            `json:"type"`
	StartDate time.Time       `json:"start_date"`
	EndDate   time.Time       `json:"end_date"`
	StartHalf HalfDay         `json:"start_half"`
	EndHalf   HalfDay         `json:"end_half"`
	Reason    *string         `json:"reason,omitempty"`
	Status    workflow.Status `json:"status"`
	Days      decimal.Decimal `json:"days"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type CreateLeaveDTO struct {
	Type      string  `json:"type"`
	StartDate string  `json:"start_date"`
	EndDate   string  `json:"end_date"`
	StartHalf string  `json:"start_half,omitempty"`
	EndHalf   string  `json:"end_half,omitempty"`
	Reason    *string `json:"reason,omitempty"`
}

type DecisionDTO struct {
	Status string `json:"status"`
}

// parsed is a CreateLeaveDTO with every field checked for shape.
type parsed struct {
	Type      Type
	Start     time.Time
	End       time.Time
	StartHalf HalfDay
	EndHalf   HalfDay
	Reason    *string
}

func parseDate(field, raw string) (time.Time, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, internal.NewValidationFieldError(field, field+" must use the YYYY-MM-DD format", internal.ErrCodeInvalidDate)
	}
	return t, nil
}

func (d CreateLeaveDTO) parse() (parsed, error) {
	var p parsed
	var err error
	if p.Type, err = ParseType(d.Type); err != nil {
		return p, err
	}
	if p.Start, err = parseDate("start_date", d.StartDate); err != nil {
		return p, err
	}
	if p.End, err = parseDate("end_date", d.EndDate); err != nil {
		return p, err
	}
	if p.StartHalf, err = ParseHalfDay("start_half", d.StartHalf); err != nil {
		return p, err
	}
	if p.EndHalf, err = ParseHalfDay("end_half", d.EndHalf); err != nil {
		return p, err
	}
	p.Reason = d.Reason
	return p, nil
}

func ToDataModel(l *LeaveRequest) *leaveDatamodel.LeaveRequest {
	return &leaveDatamodel.LeaveRequest{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      string(l.Type),
		StartDate: l.StartDate,
		EndDate:   l.EndDate,
		StartHalf: string(l.StartHalf),
		EndHalf:   string(l.EndHalf),
		Reason:    l.Reason,
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// FromDataModel also fills the derived day count.
func FromDataModel(l *leaveDatamodel.LeaveRequest) *LeaveRequest {
	out := &LeaveRequest{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      Type(l.Type),
		StartDate: civil(l.StartDate),
		EndDate:   civil(l.EndDate),
		StartHalf: HalfDay(l.StartHalf),
		EndHalf:   HalfDay(l.EndHalf),
		Reason:    l.Reason,
		Status:    workflow.Status(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
	out.Days = CountDays(out.StartDate, out.EndDate, out.StartHalf, out.EndHalf)
	return out
}

// civil drops the clock and zone, keeping the calendar date as UTC midnight.
func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today is the calendar date at now in loc, as UTC midnight.
func Today(now time.Time, loc *time.Location) time.Time {
	return civil(now.In(loc))
}
