package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/core/testdb"
	"github.com/frahmantamala/staff-requests/internal/notification"
	notificationPostgres "github.com/frahmantamala/staff-requests/internal/notification/postgres"
)

var _ = Describe("Notification Service", func() {
	var (
		db    *gorm.DB
		svc   *notification.Service
		ctx   context.Context
		alice = internal.Actor{UserID: 7, Role: internal.RoleEmployee}
		bob   = internal.Actor{UserID: 8, Role: internal.RoleEmployee}
	)

	insert := func(recipient int64, n int) []*notification.Notification {
		msgs := make([]notification.Message, 0, n)
		for i := 0; i < n; i++ {
			msgs = append(msgs, notification.Message{
				RecipientID: recipient,
				Title:       "Demande de congé approuvée",
				Body:        "Votre demande de congé a été approuvée.",
				Kind:        notification.KindLeave,
				Status:      "APPROVED",
				Link:        notification.LinkEmployeeLeaves,
			})
		}
		stored, err := notificationPostgres.InsertAll(db, msgs)
		Expect(err).NotTo(HaveOccurred())
		return stored
	}

	BeforeEach(func() {
		var err error
		db, err = testdb.Open()
		Expect(err).NotTo(HaveOccurred())
		ctx = context.Background()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		svc = notification.NewService(notificationPostgres.NewNotificationRepository(db), slogger)
	})

	AfterEach(func() {
		Expect(testdb.Close(db)).To(Succeed())
	})

	It("lists at most 20 notifications, newest first", func() {
		stored := insert(alice.UserID, 25)
		insert(bob.UserID, 1)

		items, err := svc.List(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(notification.ListLimit))
		Expect(items[0].ID).To(Equal(stored[24].ID))
		for _, n := range items {
			Expect(n.UserID).To(Equal(alice.UserID))
		}
	})

	It("hides dismissed notifications from the list and the unread count", func() {
		stored := insert(alice.UserID, 3)
		Expect(svc.Dismiss(ctx, alice, stored[0].ID)).To(Succeed())
		Expect(svc.MarkRead(ctx, alice, stored[1].ID)).To(Succeed())

		items, err := svc.List(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(items).To(HaveLen(2))

		n, err := svc.UnreadCount(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))
	})

	It("treats another user's notification as missing", func() {
		stored := insert(alice.UserID, 1)
		err := svc.MarkRead(ctx, bob, stored[0].ID)
		Expect(errors.Is(err, internal.ErrNotificationMissing)).To(BeTrue())
		err = svc.Dismiss(ctx, bob, stored[0].ID)
		Expect(errors.Is(err, internal.ErrNotificationMissing)).To(BeTrue())

		n, err := svc.UnreadCount(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(1)))
	})

	It("marks all visible notifications read", func() {
		insert(alice.UserID, 4)
		insert(bob.UserID, 2)

		updated, err := svc.MarkAllRead(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(updated).To(Equal(int64(4)))

		n, err := svc.UnreadCount(ctx, alice)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(BeZero())
		n, err = svc.UnreadCount(ctx, bob)
		Expect(err).NotTo(HaveOccurred())
		Expect(n).To(Equal(int64(2)))
	})

	It("builds one event per stored row", func() {
		stored := insert(alice.UserID, 2)
		evts := notification.Events(stored)
		Expect(evts).To(HaveLen(2))
		evt, ok := evts[0].(*events.NotificationCreatedEvent)
		Expect(ok).To(BeTrue())
		Expect(evt.NotificationID).To(Equal(stored[0].ID))
		Expect(evt.UserID).To(Equal(alice.UserID))
		Expect(evt.Link).To(Equal(notification.LinkEmployeeLeaves))
		Expect(evt.EventType()).To(Equal(events.EventTypeNotificationCreated))
	})
})
