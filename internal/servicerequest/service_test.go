package servicerequest_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/testdb"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
	"github.com/frahmantamala/staff-requests/internal/servicerequest"
	servicePostgres "github.com/frahmantamala/staff-requests/internal/servicerequest/postgres"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
	"github.com/frahmantamala/staff-requests/internal/workflow"
)

const secret = "n8n-shared-secret"

var _ = Describe("Service Request Service", func() {
	var (
		db       *gorm.DB
		notifs   *notification.Service
		svc      *servicerequest.Service
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
		rh := &user.User{Email: "rh@example.com", FirstName: "Claire", LastName: "Martin", Role: internal.RoleHR, PasswordHash: "x", IsActive: true}
		marie := &user.User{Email: "marie@example.com", FirstName: "Marie", LastName: "Dupont", Role: internal.RoleEmployee, PasswordHash: "x", IsActive: true}
		Expect(users.Create(ctx, rh)).To(Succeed())
		Expect(users.Create(ctx, marie)).To(Succeed())
		hr = internal.Actor{UserID: rh.ID, Role: internal.RoleHR}
		employee = internal.Actor{UserID: marie.ID, Role: internal.RoleEmployee}

		notifs = notification.NewService(notificationPostgres.NewNotificationRepository(db), slogger)
		svc = servicerequest.NewService(
			servicePostgres.NewServiceRequestRepository(db),
			user.NewService(users, nil, 4, slogger),
			secret,
			slogger,
		)
	})

	AfterEach(func() {
		Expect(testdb.Close(db)).To(Succeed())
	})

	Describe("Create", func() {
		It("files an app request and notifies HR", func() {
			req, evts, err := svc.Create(ctx, employee, servicerequest.CreateServiceRequestDTO{
				Category: "MATERIEL", Subject: "Gants", Description: "Plus de gants taille M dans l'ambulance 3",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.Source).To(Equal(servicerequest.SourceApp))
			Expect(req.Status).To(Equal(workflow.StatusPending))
			Expect(evts).To(HaveLen(2))

			items, err := notifs.List(ctx, hr)
			Expect(err).NotTo(HaveOccurred())
			Expect(items).To(HaveLen(1))
			Expect(items[0].Message).To(ContainSubstring("(MATERIEL)"))
			Expect(items[0].LinkValue()).To(Equal(notification.LinkHRServices))
		})

		DescribeTable("validation",
			func(dto servicerequest.CreateServiceRequestDTO) {
				_, _, err := svc.Create(ctx, employee, dto)
				appErr, ok := internal.IsAppError(err)
				Expect(ok).To(BeTrue())
				Expect(appErr.Type).To(Equal(internal.ErrorTypeValidation))
			},
			Entry("missing category", servicerequest.CreateServiceRequestDTO{Subject: "Gants", Description: "Description assez longue"}),
			Entry("short subject", servicerequest.CreateServiceRequestDTO{Category: "RH", Subject: "ab", Description: "Description assez longue"}),
			Entry("short description", servicerequest.CreateServiceRequestDTO{Category: "RH", Subject: "Gants", Description: "court"}),
		)
	})

	Describe("CreateExternal", func() {
		It("rejects a wrong secret", func() {
			_, _, err := svc.CreateExternal(ctx, servicerequest.ExternalServiceRequestDTO{Secret: "nope", Email: "marie@example.com", Subject: "x", Description: "y"})
			Expect(errors.Is(err, internal.ErrInvalidSecret)).To(BeTrue())
		})

		It("reports an unknown email", func() {
			_, _, err := svc.CreateExternal(ctx, servicerequest.ExternalServiceRequestDTO{Secret: secret, Email: "nobody@example.com", Subject: "x", Description: "y"})
			Expect(errors.Is(err, internal.ErrUserNotFound)).To(BeTrue())
		})

		It("defaults the category and the source", func() {
			req, evts, err := svc.CreateExternal(ctx, servicerequest.ExternalServiceRequestDTO{
				Secret: secret, Email: "Marie@Example.com", Subject: "Planning", Description: "Changement de garde samedi",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(req.UserID).To(Equal(employee.UserID))
			Expect(req.Category).To(Equal(servicerequest.CategoryOther))
			Expect(req.Source).To(Equal(servicerequest.SourceWhatsApp))
			Expect(evts).To(HaveLen(2))
		})

		It("is disabled without a configured secret", func() {
			slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			closed := servicerequest.NewService(servicePostgres.NewServiceRequestRepository(db), nil, "", slogger)
			_, _, err := closed.CreateExternal(ctx, servicerequest.ExternalServiceRequestDTO{Email: "marie@example.com"})
			Expect(errors.Is(err, internal.ErrInvalidSecret)).To(BeTrue())
		})
	})

	It("lets HR reject once", func() {
		req, _, err := svc.Create(ctx, employee, servicerequest.CreateServiceRequestDTO{Category: "RH", Subject: "Attestation", Description: "Attestation employeur pour la banque"})
		Expect(err).NotTo(HaveOccurred())

		decided, evts, err := svc.Decide(ctx, hr, req.ID, servicerequest.DecisionDTO{Status: "rejected"})
		Expect(err).NotTo(HaveOccurred())
		Expect(decided.Status).To(Equal(workflow.StatusRejected))
		Expect(evts).To(HaveLen(1))

		_, _, err = svc.Decide(ctx, hr, req.ID, servicerequest.DecisionDTO{Status: "approved"})
		Expect(errors.Is(err, internal.ErrInvalidTransition)).To(BeTrue())

		mine, err := svc.ListMine(ctx, employee)
		Expect(err).NotTo(HaveOccurred())
		Expect(mine).To(HaveLen(1))
		Expect(mine[0].Status).To(Equal(workflow.StatusRejected))
	})
})
