package advance_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/advance"
	advancePostgres "github.com/frahmantamala/staff-requests/internal/advance/postgres"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/core/testdb"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

var _ = Describe("Advance Service", func() {
	var (
		db       *gorm.DB
		repo     *advancePostgres.AdvanceRepository
		notifs   *notification.Service
		svc      *advance.Service
		ctx      context.Context
		hr       internal.Actor
		employee internal.Actor
	)

	newUser := func(users *userPostgres.UserRepository, email string, role internal.Role) internal.Actor {
		u := &user.User{Email: email, FirstName: "Prénom", LastName: "Nom", Role: role, PasswordHash: "x", IsActive: true}
		Expect(users.Create(ctx, u)).To(Succeed())
		return internal.Actor{UserID: u.ID, Role: role}
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		users := userPostgres.NewUserRepository(db)
		hr = newUser(users, "rh@example.com", internal.RoleHR)
		employee = newUser(users, "marie@example.com", internal.RoleEmployee)
		directory := user.NewService(users, nil, 4, slogger)

		repo = advancePostgres.NewAdvanceRepository(db)
		notifs = notification.NewService(notificationPostgres.NewNotificationRepository(db), slogger)
		svc = advance.NewService(repo, directory, advance.PolicyFrom(internal.PolicyConfig{}), slogger)
		svc.Now = func() time.Time { return time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC) }
	})

	AfterEach(func() {
		Expect(testdb.Close(db)).To(Succeed())
	})

	submit := func(amount int64) (*advance.AdvanceRequest, []events.Event, error) {
		return svc.Create(ctx, employee, advance.CreateAdvanceDTO{Amount: decimal.NewFromInt(amount)})
	}

	It("accepts the first request of the month and denies the second", func() {
		req, evts, err := submit(200)
		Expect(err).NotTo(HaveOccurred())
		Expect(req.ID).NotTo(BeZero())
		Expect(req.TargetMonth).To(Equal("2024-04"))
		Expect(req.Status).To(Equal(workflow.StatusPending))
		Expect(evts).To(HaveLen(2))

		_, evts, err = submit(100)
		Expect(errors.Is(err, internal.ErrAdvanceDuplicate)).To(BeTrue())
		Expect(evts).To(BeEmpty())

		mine, err := svc.ListMine(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
	})

	It("refuses an amount that would be stored as zero", func() {
		_, evts, err := svc.Create(ctx, employee, advance.CreateAdvanceDTO{Amount: decimal.RequireFromString("0.001")})
		appErr, ok := internal.IsAppError(err)
		Expect(ok).To(BeTrue())
		Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		Expect(evts).To(BeEmpty())

		mine, err := svc.ListMine(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(BeEmpty())
	})

	It("denies every submission after day 15", func() {
		svc.Now = func() time.Time { return time.Date(2024, 3, 20, 9, 0, 0, 0, time.UTC) }
		_, _, err := submit(200)
		Expect(errors.Is(err, internal.ErrAdvanceWindowClosed)).To(BeTrue())
	})

	It("reads the day in the policy timezone", func() {
		// 23:30 UTC on the 15th is already the 16th in Paris
		svc.Now = func() time.Time { return time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC) }
		_, _, err := submit(200)
		Expect(errors.Is(err, internal.ErrAdvanceWindowClosed)).To(BeTrue())
	})

	It("writes the HR notification and the confirmation with the request", func() {
		_, _, err := submit(200)
		Expect(err).NotTo(HaveOccurred())

		hrItems, err := notifs.List(ctx, hr)
		Expect(err).NotTo(HaveOccurred())
		Expect(hrItems).To(HaveLen(1))
		Expect(hrItems[0].Title).To(Equal("Nouvelle demande d'acompte"))
		Expect(hrItems[0].Message).To(ContainSubstring("200.00 € pour 2024-04"))
		Expect(hrItems[0].LinkValue()).To(Equal(notification.LinkHRAdvances))

		mine, err := notifs.List(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].LinkValue()).To(Equal(notification.LinkEmployeeAdvances))
	})

	It("rejects a duplicate that slips past the admission check", func() {
		row := &advance.AdvanceRequest{UserID: employee.UserID, Amount: decimal.NewFromInt(50), TargetMonth: "2024-04", Status: workflow.StatusPending}
		_, err := repo.Create(ctx, row, nil)
		Expect(err).NotTo(HaveOccurred())

		again := &advance.AdvanceRequest{UserID: employee.UserID, Amount: decimal.NewFromInt(60), TargetMonth: "2024-04", Status: workflow.StatusPending}
		_, err = repo.Create(ctx, again, []notification.Message{{RecipientID: employee.UserID, Title: "x", Kind: notification.KindAdvance}})
		Expect(errors.Is(err, internal.ErrAdvanceDuplicate)).To(BeTrue())

		n, err := notifs.UnreadCount(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
	})

	Describe("Decide", func() {
		var req *advance.AdvanceRequest

		BeforeEach(func() {
			var err error
			req, _, err = submit(200)
			Expect(err).NotTo(HaveOccurred())
		})

		It("approves once and notifies the submitter", func() {
			decided, evts, err := svc.Decide(ctx, hr, req.ID, advance.DecisionDTO{Status: "approved"})
			Expect(err).NotTo(HaveOccurred())
			Expect(decided.Status).To(Equal(workflow.StatusApproved))
			Expect(evts).To(HaveLen(1))
			evt := evts[0].(*events.NotificationCreatedEvent)
			Expect(evt.UserID).To(Equal(employee.UserID))
			Expect(evt.Status).To(Equal("APPROVED"))

			_, _, err = svc.Decide(ctx, hr, req.ID, advance.DecisionDTO{Status: "REJECTED"})
			Expect(errors.Is(err, internal.ErrInvalidTransition)).To(BeTrue())

			stored, err := repo.GetByID(ctx, req.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Status).To(Equal(workflow.StatusApproved))
		})

		It("refuses an employee", func() {
			_, _, err := svc.Decide(ctx, employee, req.ID, advance.DecisionDTO{Status: "APPROVED"})
			Expect(errors.Is(err, internal.ErrUnauthorized)).To(BeTrue())
		})

		It("refuses PENDING as a decision", func() {
			_, _, err := svc.Decide(ctx, hr, req.ID, advance.DecisionDTO{Status: "PENDING"})
			appErr, ok := internal.IsAppError(err)
			Expect(ok).To(BeTrue())
			Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
		})

		It("reports a missing request", func() {
			_, _, err := svc.Decide(ctx, hr, 9999, advance.DecisionDTO{Status: "APPROVED"})
			Expect(errors.Is(err, internal.ErrRequestNotFound)).To(BeTrue())
		})

		It("lets only HR list every request", func() {
			_, err := svc.ListAll(ctx, employee)
			Expect(errors.Is(err, internal.ErrUnauthorized)).To(BeTrue())
			all, err := svc.ListAll(ctx, hr)
			Expect(err).NotTo(HaveOccurred())
			Expect(all).To(HaveLen(1))
		})
	})
})
