package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/frahmantamala/staff-requests/internal"
	"github.com/sourcegraph/conc"
)

type Service struct {
	repo      RepositoryAPI
	sender    Sender
	publicKey string
	logger    *slog.Logger
}

// NewService accepts a nil sender, in which case SendToUser is a no-op.
func NewService(repo RepositoryAPI, sender Sender, publicKey string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		sender:    sender,
		publicKey: publicKey,
		logger:    logger,
	}
}

func (s *Service) VAPIDPublicKey() string {
	return s.publicKey
}

// Save registers the caller's subscription. A known endpoint is left as is.
func (s *Service) Save(ctx context.Context, actor internal.Actor, dto SubscribeDTO) error {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("push subscription rejected", "error", err, "user_id", actor.UserID)
		return err
	}

	sub := &Subscription{UserID: actor.UserID, Endpoint: dto.Endpoint, Keys: dto.Keys}
	created, err := s.repo.SaveIfAbsent(ctx, sub)
	if err != nil {
		s.logger.Error("failed to save push subscription", "error", err, "user_id", actor.UserID)
		return internal.NewInternalError("failed to save subscription", err)
	}
	if created {
		s.logger.Info("push subscription saved", "user_id", actor.UserID, "subscription_id", sub.ID)
	}
	return nil
}

func gone(status int) bool {
	return status == http.StatusNotFound || status == http.StatusGone
}

// SendToUser pushes payload to every subscription of userID concurrently and
// waits for all of them. Endpoints answering 404 or 410 are deleted. Only a
// failure to list subscriptions is returned as an error.
func (s *Service) SendToUser(ctx context.Context, userID int64, payload Payload) (Result, error) {
	var res Result
	if s.sender == nil {
		return res, nil
	}

	subs, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return res, internal.NewDeliveryError("push", err)
	}
	if len(subs) == 0 {
		return res, nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return res, internal.NewDeliveryError("push", err)
	}

	var (
		mu sync.Mutex
		wg conc.WaitGroup
	)
	for _, sub := range subs {
		sub := sub
		wg.Go(func() {
			status, err := s.sender.Send(ctx, *sub, body)
			switch {
			case err != nil:
				s.logger.Warn("push delivery failed", "error", err, "subscription_id", sub.ID, "user_id", userID)
				mu.Lock()
				res.Failed++
				mu.Unlock()
			case gone(status):
				if derr := s.repo.DeleteByID(ctx, sub.ID); derr != nil {
					s.logger.Error("failed to delete expired subscription", "error", derr, "subscription_id", sub.ID)
				}
				mu.Lock()
				res.Removed++
				mu.Unlock()
			case status >= 400:
				s.logger.Warn("push service refused delivery", "status", status, "subscription_id", sub.ID)
				mu.Lock()
				res.Failed++
				mu.Unlock()
			default:
				mu.Lock()
				res.Sent++
				mu.Unlock()
			}
		})
	}
	wg.Wait()

	s.logger.Info("push fan-out finished", "user_id", userID, "sent", res.Sent, "failed", res.Failed, "removed", res.Removed)
	return res, nil
}
