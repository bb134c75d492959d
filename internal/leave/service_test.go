package leave_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/testdb"
	"github.com/frahmantamala/staff-requests/internal/leave"
	leavePostgres "github.com/frahmantamala/staff-requests/internal/leave/postgres"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

var _ = Describe("Leave Service", func() {
	var (
		db       *gorm.DB
		notifs   *notification.Service
		svc      *leave.Service
		ctx      context.Context
		hr       internal.Actor
		employee internal.Actor
	)

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		users := userPostgres.NewUserRepository(db)
		for _, u := range []*user.User{
			{Email: "rh@example.com", FirstName: "Claire", LastName: "Martin", Role: internal.RoleHR, PasswordHash: "x", IsActive: true},
			{Email: "marie@example.com", FirstName: "Marie", LastName: "Dupont", Role: internal.RoleEmployee, PasswordHash: "x", IsActive: true},
		} {
			Expect(users.Create(ctx, u)).To(Succeed())
			if u.Role == internal.RoleHR {
				hr = internal.Actor{UserID: u.ID, Role: u.Role}
			} else {
				employee = internal.Actor{UserID: u.ID, Role: u.Role}
			}
		}

		notifs = notification.NewService(notificationPostgres.NewNotificationRepository(db), slogger)
		svc = leave.NewService(
			leavePostgres.NewLeaveRepository(db),
			user.NewService(users, nil, 4, slogger),
			leave.AllowancesFrom(internal.PolicyConfig{}),
			time.UTC,
			slogger,
		)
		svc.Now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	})

	AfterEach(func() {
		Expect(testdb.Close(db)).To(Succeed())
	})

	paidWeek := leave.CreateLeaveDTO{Type: "cp", StartDate: "2024-04-01", EndDate: "2024-04-05"}

	It("stores a pending request with its day count", func() {
		req, evts, err := svc.Create(ctx, employee, paidWeek)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.Status).To(Equal(workflow.StatusPending))
		Expect(req.Type).To(Equal(leave.TypePaid))
		Expect(req.StartHalf).To(Equal(leave.FullDay))
		Expect(req.StartDate).To(Equal(date(2024, 4, 1)))
		Expect(req.Days.Equal(dec("5"))).To(BeTrue())
		Expect(evts).To(HaveLen(2))
	})

	It("allows backdated sick leave only", func() {
		_, _, err := svc.Create(ctx, employee, leave.CreateLeaveDTO{Type: "cp", StartDate: "2024-03-01", EndDate: "2024-03-02"})
		Expect(errors.Is(err, internal.ErrLeaveStartInPast)).To(BeTrue())

		_, _, err = svc.Create(ctx, employee, leave.CreateLeaveDTO{Type: "ma", StartDate: "2024-03-01", EndDate: "2024-03-02"})
		Expect(err).NotTo(HaveOccurred())
	})

	It("rejects malformed dates", func() {
		_, _, err := svc.Create(ctx, employee, leave.CreateLeaveDTO{Type: "cp", StartDate: "01/04/2024", EndDate: "2024-04-05"})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
	})

	It("notifies the submitter exactly once when HR approves, then refuses a repeat", func() {
		req, _, err := svc.Create(ctx, employee, paidWeek)
		Expect(err).NotTo(HaveOccurred())
		before, err := notifs.List(ctx, employee)
		Expect(err).NotTo(HaveOccurred())

		decided, evts, err := svc.Decide(ctx, hr, req.ID, leave.DecisionDTO{Status: "APPROVED"})
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(workflow.StatusApproved))
		Expect(evts).To(HaveLen(1))

		after, err := notifs.List(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(after).To(HaveLen(len(before) + 1))
		newest := after[0]
		Expect(newest.StatusValue()).To(Equal("APPROVED"))
		Expect(newest.LinkValue()).To(Equal("/dashboard/salarie/conges"))

		_, evts, err = svc.Decide(ctx, hr, req.ID, leave.DecisionDTO{Status: "APPROVED"})
		Expect(errors.Is(err, internal.ErrInvalidTransition)).To(BeTrue())
		Expect(evts).To(BeEmpty())

		again, err := notifs.List(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(again).To(HaveLen(len(after)))
	})

	It("counts only approved leave in the balances", func() {
		approvedReq, _, err := svc.Create(ctx, employee, paidWeek)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = svc.Create(ctx, employee, leave.CreateLeaveDTO{Type: "cp", StartDate: "2024-05-06", EndDate: "2024-05-06"})
		Expect(err).NotTo(HaveOccurred())
		_, _, err = svc.Decide(ctx, hr, approvedReq.ID, leave.DecisionDTO{Status: "approved"})
		Expect(err).NotTo(HaveOccurred())

		b, err := svc.MyBalances(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(b[leave.TypePaid].Consumed.Equal(dec("5"))).To(BeTrue())
		Expect(b[leave.TypePaid].Remaining.Equal(dec("20"))).To(BeTrue())
	})

	It("refuses decisions from employees", func() {
		req, _, err := svc.Create(ctx, employee, paidWeek)
		Expect(err).NotTo(HaveOccurred())
		_, _, err = svc.Decide(ctx, employee, req.ID, leave.DecisionDTO{Status: "APPROVED"})
		Expect(errors.Is(err, internal.ErrUnauthorized)).To(BeTrue())
	})
})
