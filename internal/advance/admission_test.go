package advance_test

import (
	"errors"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/advance"
)

var _ = Describe("Admission", func() {
	policy := advance.PolicyFrom(internal.PolicyConfig{})
	day := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 10, 0, 0, 0, time.UTC) }
	valid := advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(200)}

	It("uses the default limits", func() {
		Expect(policy.MaxAmount.Equal(decimal.NewFromInt(5000))).To(BeTrue())
		Expect(policy.WindowLastDay).To(Equal(15))
	})

	DescribeTable("TargetMonth",
		func(now time.Time, want string) {
			Expect(advance.TargetMonth(now)).To(Equal(want))
		},
		Entry("mid month", day(2024, time.March, 10), "2024-04"),
		Entry("december rolls the year", day(2024, time.December, 1), "2025-01"),
		Entry("end of january", day(2024, time.January, 31), "2024-02"),
	)

	It("accepts a request on day 10 for the next month", func() {
		month, err := advance.CanSubmit(day(2024, time.March, 10), nil, valid, policy)
		Expect(err).NotTo(HaveOccurred())
		Expect(month).To(Equal("2024-04"))
	})

	It("accepts the last day of the window", func() {
		_, err := advance.CanSubmit(day(2024, time.March, 15), nil, valid, policy)
		Expect(err).NotTo(HaveOccurred())
	})

	DescribeTable("closes the window after day 15 whatever the payload",
		func(d int, dto advance.CreateAdvanceDTO) {
			_, err := advance.CanSubmit(day(2024, time.March, d), nil, dto, policy)
			Expect(errors.Is(err, internal.ErrAdvanceWindowClosed)).To(BeTrue())
		},
		Entry("day 16", 16, valid),
		Entry("day 20", 20, valid),
		Entry("day 31 with an invalid amount", 31, advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(-1)}),
	)

	It("denies a second request for the same target month in any status", func() {
		existing := []*advance.AdvanceRequest{{TargetMonth: "2024-04", Status: "REJECTED"}}
		_, err := advance.CanSubmit(day(2024, time.March, 10), existing, advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(100)}, policy)
		Expect(errors.Is(err, internal.ErrAdvanceDuplicate)).To(BeTrue())
	})

	It("ignores requests for other months", func() {
		existing := []*advance.AdvanceRequest{{TargetMonth: "2024-03"}}
		_, err := advance.CanSubmit(day(2024, time.March, 10), existing, valid, policy)
		Expect(err).NotTo(HaveOccurred())
	})

	long := strings.Repeat("a", 501)
	DescribeTable("validates amount and reason",
		func(dto advance.CreateAdvanceDTO, code internal.ErrorCode) {
			_, err := advance.CanSubmit(day(2024, time.March, 10), nil, dto, policy)
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			details, ok := appErr.Details.(internal.ValidationErrors)
			Expect(ok).To(BeTrue())
			Expect(details.Errors[0].Code).To(Equal(string(code)))
		},
		Entry("zero", advance.CreateAdvanceDTO{Amount: decimal.Zero}, internal.ErrCodeInvalidAmount),
		Entry("negative", advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(-5)}, internal.ErrCodeInvalidAmount),
		Entry("rounds to zero", advance.CreateAdvanceDTO{Amount: decimal.RequireFromString("0.001")}, internal.ErrCodeInvalidAmount),
		Entry("just under half a cent", advance.CreateAdvanceDTO{Amount: decimal.RequireFromString("0.004")}, internal.ErrCodeInvalidAmount),
		Entry("over the cap", advance.CreateAdvanceDTO{Amount: decimal.RequireFromString("5000.01")}, internal.ErrCodeAmountTooHigh),
		Entry("reason too long", advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(10), Reason: &long}, internal.ErrCodeTextTooLong),
	)

	It("accepts an amount that rounds to one cent", func() {
		_, err := advance.CanSubmit(day(2024, time.March, 10), nil, advance.CreateAdvanceDTO{Amount: decimal.RequireFromString("0.005")}, policy)
		Expect(err).NotTo(HaveOccurred())
	})

	It("accepts the cap itself", func() {
		_, err := advance.CanSubmit(day(2024, time.March, 10), nil, advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(5000)}, policy)
		Expect(err).NotTo(HaveOccurred())
	})
})
