package notification_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/mail"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/push"
)

type fakeDirectory struct {
	profiles map[int64]coreuser.Profile
}

func (f fakeDirectory) GetProfile(ctx context.Context, id int64) (*coreuser.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return nil, internal.ErrUserNotFound
	}
	return &p, nil
}

func (f fakeDirectory) GetProfileByEmail(ctx context.Context, email string) (*coreuser.Profile, error) {
	for _, p := range f.profiles {
		if p.Email == email {
			return &p, nil
		}
	}
	return nil, internal.ErrUserNotFound
}

func (f fakeDirectory) HRUsers(ctx context.Context) ([]coreuser.Profile, error) {
	return nil, nil
}

type fakeMailer struct {
	mu   sync.Mutex
	err  error
	sent []mail.Message
}

func (f *fakeMailer) Send(ctx context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return f.err
}

func (f *fakeMailer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

type fakePusher struct {
	mu       sync.Mutex
	err      error
	payloads []push.Payload
}

func (f *fakePusher) SendToUser(ctx context.Context, userID int64, p push.Payload) (push.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payloads = append(f.payloads, p)
	return push.Result{Sent: 1}, f.err
}

func (f *fakePusher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.payloads)
}

var _ = Describe("Dispatcher", func() {
	var (
		mailer     *fakeMailer
		pusher     *fakePusher
		dispatcher *notification.Dispatcher
		slogger    *slog.Logger
		evt        *events.NotificationCreatedEvent
	)

	BeforeEach(func() {
		slogger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		mailer = &fakeMailer{}
		pusher = &fakePusher{}
		dir := fakeDirectory{profiles: map[int64]coreuser.Profile{
			7: {ID: 7, Email: "marie@example.com", FirstName: "Marie", LastName: "Dupont"},
		}}
		dispatcher = notification.NewDispatcher(dir, mailer, pusher, internal.AppConfig{PublicURL: "https://rh.example.com/", Name: "VDF Ambulance"}, slogger)
		evt = events.NewNotificationCreatedEvent(1, 7, "Demande de congé approuvée", "Votre demande de congé a été approuvée.", "LEAVE", "APPROVED", "/dashboard/salarie/conges")
	})

	It("sends a branded email and a push with the deep link", func() {
		Expect(dispatcher.Handle(context.Background(), evt)).To(Succeed())

		Expect(mailer.sent).To(HaveLen(1))
		Expect(mailer.sent[0].To).To(Equal("marie@example.com"))
		Expect(mailer.sent[0].Subject).To(Equal("Demande de congé approuvée"))
		Expect(mailer.sent[0].HTML).To(ContainSubstring(`href="https://rh.example.com/dashboard/salarie/conges"`))
		Expect(mailer.sent[0].HTML).To(ContainSubstring("Bonjour Marie,"))

		Expect(pusher.payloads).To(HaveLen(1))
		Expect(pusher.payloads[0].URL).To(Equal("/dashboard/salarie/conges"))
		Expect(pusher.payloads[0].Title).To(Equal("Demande de congé approuvée"))
	})

	It("keeps pushing when email fails and swallows both errors", func() {
		mailer.err = errors.New("smtp down")
		pusher.err = errors.New("push down")
		Expect(dispatcher.Handle(context.Background(), evt)).To(Succeed())
		Expect(mailer.sent).To(HaveLen(1))
		Expect(pusher.payloads).To(HaveLen(1))
	})

	It("skips email for an unknown recipient but still pushes", func() {
		other := events.NewNotificationCreatedEvent(2, 99, "T", "M", "ADVANCE", "PENDING", "")
		Expect(dispatcher.Handle(context.Background(), other)).To(Succeed())
		Expect(mailer.sent).To(BeEmpty())
		Expect(pusher.payloads).To(HaveLen(1))
		Expect(pusher.payloads[0].URL).To(Equal("/dashboard"))
	})

	It("runs when the bus publishes a notification event", func() {
		bus := events.NewEventBus(slogger)
		dispatcher.Register(bus)
		bus.PublishAll(context.Background(), []events.Event{evt})

		drainCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		Expect(bus.Drain(drainCtx)).To(Succeed())
		Expect(mailer.count()).To(Equal(1))
		Expect(pusher.count()).To(Equal(1))
	})
})
