package leave_test

import (
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/leave"
)

var _ = Describe("Admission", func() {
	today := date(2024, 3, 10)

	It("rejects an end before the start", func() {
		err := leave.CanSubmit(today, leave.TypePaid, date(2024, 4, 5), date(2024, 4, 1))
		Expect(errors.Is(err, internal.ErrInvalidDateRange)).To(BeTrue())
	})

	DescribeTable("past start dates",
		func(t leave.Type, allowed bool) {
			err := leave.CanSubmit(today, t, date(2024, 3, 8), date(2024, 3, 12))
			if allowed {
				Expect(err).NotTo(HaveOccurred())
			} else {
				Expect(errors.Is(err, internal.ErrLeaveStartInPast)).To(BeTrue())
			}
		},
		Entry("paid leave is denied", leave.TypePaid, false),
		Entry("unpaid leave is denied", leave.TypeUnpaid, false),
		Entry("sick leave may be backdated", leave.TypeSick, true),
	)

	It("accepts a leave starting today", func() {
		Expect(leave.CanSubmit(today, leave.TypePaid, today, today)).To(Succeed())
	})

	It("computes today in the given timezone", func() {
		paris, err := time.LoadLocation("Europe/Paris")
		Expect(err).NotTo(HaveOccurred())
		now := time.Date(2024, 3, 10, 23, 30, 0, 0, time.UTC)
		Expect(leave.Today(now, paris)).To(Equal(date(2024, 3, 11)))
		Expect(leave.Today(now, time.UTC)).To(Equal(date(2024, 3, 10)))
	})

	DescribeTable("ParseType",
		func(raw string, want leave.Type) {
			got, err := leave.ParseType(raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("cp", "cp", leave.TypePaid),
		Entry("ma", "ma", leave.TypeSick),
		Entry("CSS", "CSS", leave.TypeUnpaid),
	)

	It("rejects an unknown type", func() {
		_, err := leave.ParseType("rtt")
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Code).To(Equal(internal.ErrCodeInvalidLeaveType))
	})

	DescribeTable("ParseHalfDay",
		func(raw string, want leave.HalfDay) {
			got, err := leave.ParseHalfDay("start_half", raw)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("empty", "", leave.FullDay),
		Entry("Journée", "Journée", leave.FullDay),
		Entry("Matin", "Matin", leave.Morning),
		Entry("Après-midi", "Après-midi", leave.Afternoon),
		Entry("AFTERNOON", "AFTERNOON", leave.Afternoon),
	)
})
