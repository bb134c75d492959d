package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/frahmantamala/staff-requests/internal/core/events"
	"github.com/frahmantamala/staff-requests/internal/mail"
	"github.com/frahmantamala/staff-requests/internal/notification"
	"github.com/frahmantamala/staff-requests/internal/push"
	pushPostgres "github.com/frahmantamala/staff-requests/internal/push/postgres"
	"github.com/frahmantamala/staff-requests/internal/user"
	userPostgres "github.com/frahmantamala/staff-requests/internal/user/postgres"
	"github.com/frahmantamala/staff-requests/pkg/logger"
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Event management commands",
	Long:  `Inspect the notification delivery path (email and web push) without going through a request.`,
}

var publishEventCmd = &cobra.Command{
	Use:   "publish",
	Short: "Deliver a test notification to a user",
	Long:  `Publish a notification.created event synchronously so email and push are sent to the given user. Nothing is stored.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return publishTestEvent(cmd.Context())
	},
}

var (
	eventUserID  int64
	eventTitle   string
	eventMessage string
	eventLink    string
)

func publishTestEvent(ctx context.Context) error {
	if eventUserID <= 0 {
		return fmt.Errorf("--user-id is required")
	}
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	lg := logger.LoggerWrapper()

	db, err := initDB(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	mailer := mail.New(cfg.Mail, lg)
	directory := user.NewService(userPostgres.NewUserRepository(db.Gorm), nil, cfg.Security.BCryptCost, lg)
	pushSvc := push.NewService(pushPostgres.NewSubscriptionRepository(db.Gorm), push.NewWebPushSender(cfg.Push), cfg.Push.VAPIDPublicKey, lg)

	bus := events.NewEventBus(lg)
	notification.NewDispatcher(directory, mailer, pushSvc, cfg.App, lg).Register(bus)

	evt := events.NewNotificationCreatedEvent(0, eventUserID, eventTitle, eventMessage, "TEST", "", eventLink)
	lg.Info("publishing test event", "event_type", evt.EventType(), "event_id", evt.EventID(), "user_id", eventUserID)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bus.PublishSync(ctx, evt); err != nil {
		return err
	}
	lg.Info("test event delivered")
	return nil
}

func init() {
	publishEventCmd.Flags().Int64Var(&eventUserID, "user-id", 0, "recipient user id")
	publishEventCmd.Flags().StringVar(&eventTitle, "title", "Notification de test", "notification title")
	publishEventCmd.Flags().StringVar(&eventMessage, "message", "Ceci est une notification de test.", "notification body")
	publishEventCmd.Flags().StringVar(&eventLink, "link", "/dashboard", "deep link opened from the notification")

	eventCmd.AddCommand(publishEventCmd)
	rootCmd.AddCommand(eventCmd)
}
