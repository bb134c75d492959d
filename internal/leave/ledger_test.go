package leave_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/leave"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

var _ = Describe("CountDays", func() {
	// 2024-04-01 is a Monday
	DescribeTable("counts weekdays with half-day adjustments",
		func(start, end time.Time, sh, eh leave.HalfDay, want string) {
			Expect(leave.CountDays(start, end, sh, eh).Equal(dec(want))).To(BeTrue())
		},
		Entry("Monday to Friday", date(2024, 4, 1), date(2024, 4, 5), leave.FullDay, leave.FullDay, "5"),
		Entry("single Saturday", date(2024, 4, 6), date(2024, 4, 6), leave.FullDay, leave.FullDay, "0"),
		Entry("single Sunday with half markers", date(2024, 4, 7), date(2024, 4, 7), leave.Afternoon, leave.Morning, "0"),
		Entry("weekend in the middle", date(2024, 4, 5), date(2024, 4, 8), leave.FullDay, leave.FullDay, "2"),
		Entry("same day afternoon to morning", date(2024, 4, 2), date(2024, 4, 2), leave.Afternoon, leave.Morning, "0"),
		Entry("same day morning only", date(2024, 4, 2), date(2024, 4, 2), leave.FullDay, leave.Morning, "0.5"),
		Entry("afternoon start over a week", date(2024, 4, 1), date(2024, 4, 5), leave.Afternoon, leave.FullDay, "4.5"),
		Entry("both halves over a week", date(2024, 4, 1), date(2024, 4, 5), leave.Afternoon, leave.Morning, "4"),
		Entry("two full weeks", date(2024, 4, 1), date(2024, 4, 14), leave.FullDay, leave.FullDay, "10"),
	)

	It("ignores the time of day", func() {
		start := time.Date(2024, 4, 1, 18, 0, 0, 0, time.UTC)
		end := time.Date(2024, 4, 2, 1, 0, 0, 0, time.UTC)
		Expect(leave.CountDays(start, end, leave.FullDay, leave.FullDay).Equal(dec("2"))).To(BeTrue())
	})
})

var _ = Describe("ComputeBalances", func() {
	allowances := leave.AllowancesFrom(internal.PolicyConfig{})

	approved := func(t leave.Type, start, end time.Time, sh, eh leave.HalfDay) *leave.LeaveRequest {
		return &leave.LeaveRequest{Type: t, StartDate: start, EndDate: end, StartHalf: sh, EndHalf: eh, Status: workflow.StatusApproved}
	}

	It("uses the default allowances", func() {
		b := leave.ComputeBalances(nil, allowances)
		Expect(b[leave.TypePaid].Max.Equal(dec("25"))).To(BeTrue())
		Expect(b[leave.TypeUnpaid].Max.Equal(dec("6"))).To(BeTrue())
		Expect(b[leave.TypeSick].Max.IsZero()).To(BeTrue())
		Expect(b[leave.TypeSick].Tracked).To(BeFalse())
		Expect(b[leave.TypePaid].Remaining.Equal(dec("25"))).To(BeTrue())
	})

	It("consumes a Monday to Friday paid leave", func() {
		b := leave.ComputeBalances([]*leave.LeaveRequest{
			approved(leave.TypePaid, date(2024, 4, 1), date(2024, 4, 5), leave.FullDay, leave.FullDay),
		}, allowances)
		Expect(b[leave.TypePaid].Consumed.Equal(dec("5"))).To(BeTrue())
		Expect(b[leave.TypePaid].Remaining.Equal(dec("20"))).To(BeTrue())
		Expect(b[leave.TypePaid].Tracked).To(BeTrue())
	})

	It("floors the remaining balance at zero", func() {
		b := leave.ComputeBalances([]*leave.LeaveRequest{
			approved(leave.TypeUnpaid, date(2024, 4, 1), date(2024, 4, 12), leave.FullDay, leave.FullDay),
		}, allowances)
		Expect(b[leave.TypeUnpaid].Consumed.Equal(dec("10"))).To(BeTrue())
		Expect(b[leave.TypeUnpaid].Remaining.IsZero()).To(BeTrue())
	})

	It("tracks sick leave without a ceiling", func() {
		b := leave.ComputeBalances([]*leave.LeaveRequest{
			approved(leave.TypeSick, date(2024, 4, 1), date(2024, 4, 3), leave.FullDay, leave.FullDay),
		}, allowances)
		Expect(b[leave.TypeSick].Consumed.Equal(dec("3"))).To(BeTrue())
		Expect(b[leave.TypeSick].Remaining.IsZero()).To(BeTrue())
	})

	It("skips requests that are not approved", func() {
		pending := approved(leave.TypePaid, date(2024, 4, 1), date(2024, 4, 5), leave.FullDay, leave.FullDay)
		pending.Status = workflow.StatusPending
		b := leave.ComputeBalances([]*leave.LeaveRequest{pending}, allowances)
		Expect(b[leave.TypePaid].Consumed.IsZero()).To(BeTrue())
	})

	It("does not depend on the order of requests", func() {
		reqs := []*leave.LeaveRequest{
			approved(leave.TypePaid, date(2024, 4, 1), date(2024, 4, 5), leave.Afternoon, leave.FullDay),
			approved(leave.TypePaid, date(2024, 5, 6), date(2024, 5, 7), leave.FullDay, leave.Morning),
			approved(leave.TypeUnpaid, date(2024, 6, 3), date(2024, 6, 3), leave.FullDay, leave.FullDay),
			approved(leave.TypeSick, date(2024, 2, 1), date(2024, 2, 2), leave.FullDay, leave.FullDay),
		}
		reversed := []*leave.LeaveRequest{reqs[3], reqs[2], reqs[1], reqs[0]}
		shuffled := []*leave.LeaveRequest{reqs[2], reqs[0], reqs[3], reqs[1]}

		base := leave.ComputeBalances(reqs, allowances)
		for _, perm := range [][]*leave.LeaveRequest{reversed, shuffled} {
			got := leave.ComputeBalances(perm, allowances)
			for _, t := range leave.Types {
				Expect(got[t].Consumed.Equal(base[t].Consumed)).To(BeTrue())
				Expect(got[t].Remaining.Equal(base[t].Remaining)).To(BeTrue())
			}
		}
		Expect(base[leave.TypePaid].Consumed.Equal(dec("6"))).To(BeTrue())
	})
})
