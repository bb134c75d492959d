package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sourcegraph/conc"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/frahmantamala/staff-requests/internal/core/events"
	coreuser "github.com/frahmantamala/staff-requests/internal/core/user"
	"github.com/frahmantamala/staff-requests/internal/mail"
	"github.com/frahmantamala/staff-requests/internal/push"
)

const pushIcon = "/icons/icon-192x192.png"

type Pusher interface {
	SendToUser(ctx context.Context, userID int64, payload push.Payload) (push.Result, error)
}

// Dispatcher delivers stored notifications by email and Web Push. Both
// channels are best effort: failures are logged and never reach the caller.
type Dispatcher struct {
	directory coreuser.Directory
	mailer    mail.Mailer
	pusher    Pusher
	app       internal.AppConfig
	logger    *slog.Logger
}

func NewDispatcher(directory coreuser.Directory, mailer mail.Mailer, pusher Pusher, app internal.AppConfig, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		directory: directory,
		mailer:    mailer,
		pusher:    pusher,
		app:       app,
		logger:    logger,
	}
}

func (d *Dispatcher) Register(bus *events.EventBus) {
	bus.Subscribe(events.EventTypeNotificationCreated, d.Handle)
}

func (d *Dispatcher) Handle(ctx context.Context, event events.Event) error {
	evt, ok := event.(*events.NotificationCreatedEvent)
	if !ok {
		d.logger.Warn("unexpected event payload", "event_type", event.EventType(), "event_id", event.EventID())
		return nil
	}

	var wg conc.WaitGroup
	wg.Go(func() { d.sendEmail(ctx, evt) })
	wg.Go(func() { d.sendPush(ctx, evt) })
	wg.Wait()
	return nil
}

func (d *Dispatcher) absoluteLink(link string) string {
	if link == "" {
		link = "/dashboard"
	}
	return strings.TrimRight(d.app.PublicURL, "/") + link
}

func (d *Dispatcher) sendEmail(ctx context.Context, evt *events.NotificationCreatedEvent) {
	if d.mailer == nil || d.directory == nil {
		return
	}
	profile, err := d.directory.GetProfile(ctx, evt.UserID)
	if err != nil {
		d.logger.Warn("notification email skipped, recipient not found",
			"error", err, "user_id", evt.UserID, "notification_id", evt.NotificationID)
		return
	}
	if profile.Email == "" {
		return
	}

	html, err := mail.RenderBranded(mail.Branded{
		Brand:      d.app.Name,
		Title:      evt.Title,
		Preheader:  evt.Message,
		Greeting:   fmt.Sprintf("Bonjour %s,", profile.FirstName),
		Paragraphs: []string{evt.Message},
		ActionURL:  d.absoluteLink(evt.Link),
		ActionText: "Voir le détail",
	})
	if err != nil {
		d.logger.Error("failed to render notification email", "error", err, "notification_id", evt.NotificationID)
		return
	}

	err = d.mailer.Send(ctx, mail.Message{To: profile.Email, Subject: evt.Title, HTML: html})
	if err != nil {
		d.logger.Error("notification email failed",
			"error", internal.NewDeliveryError("email", err),
			"user_id", evt.UserID, "notification_id", evt.NotificationID)
		return
	}
	d.logger.Info("notification email sent", "user_id", evt.UserID, "notification_id", evt.NotificationID)
}

func (d *Dispatcher) sendPush(ctx context.Context, evt *events.NotificationCreatedEvent) {
	if d.pusher == nil {
		return
	}
	link := evt.Link
	if link == "" {
		link = "/dashboard"
	}
	res, err := d.pusher.SendToUser(ctx, evt.UserID, push.Payload{
		Title: evt.Title,
		Body:  evt.Message,
		URL:   link,
		Icon:  pushIcon,
	})
	if err != nil {
		d.logger.Error("notification push failed", "error", err, "user_id", evt.UserID, "notification_id", evt.NotificationID)
		return
	}
	d.logger.Debug("notification push done",
		"user_id", evt.UserID, "sent", res.Sent, "failed", res.Failed, "removed", res.Removed)
}
