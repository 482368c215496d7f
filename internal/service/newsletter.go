package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/Skotchmaster/handi_point/internal/logging"
	"github.com/Skotchmaster/handi_point/internal/notify"
	"github.com/Skotchmaster/handi_point/internal/store"
)

type NewsletterService struct {
	Subscribers *store.Subscribers
}

// Subscribe adds email to the global subscriber set. It reports whether the
// address was new.
func (s *NewsletterService) Subscribe(ctx context.Context, email string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || !IsValidEmail(email) {
		notify.Send(ctx, "Please enter a valid email address!", notify.Error)
		return false, &ValidationError{Fields: map[string]string{"email": "Please enter a valid email address!"}}
	}

	added, err := s.Subscribers.Add(ctx, email)
	if err != nil {
		logging.FromContext(ctx).Error("newsletter_subscribe_failed", "error", err)
		return false, fmt.Errorf("subscribe: %w", err)
	}
	if !added {
		notify.Send(ctx, "You are already subscribed!", notify.Info)
		return false, nil
	}
	notify.Send(ctx, "Successfully subscribed to our newsletter!", notify.Success)
	return true, nil
}
