package services

import (
	"context"

	"github.com/dmitrijs2005/identity-client/internal/client/session"
	"github.com/dmitrijs2005/identity-client/internal/logging"
)

// UnauthorizedHandler returns the hook the HTTP client runs on every 401:
// the session is dropped and the user is sent to the login screen. token is
// the bearer of the refused request; a refusal of a token the session no
// longer holds is ignored, so a late answer cannot end a newer session.
// Running it more than once is harmless.
func UnauthorizedHandler(s *session.Store, toLogin func(), log logging.Logger) func(ctx context.Context, token string) {
	if log == nil {
		log = logging.NewNop()
	}
	return func(ctx context.Context, token string) {
		if current := s.Token(); current != token {
			log.Debug(ctx, "401 for a replaced token ignored")
			return
		}
		wasAuthenticated := s.IsAuthenticated()
		if err := s.Clear(ctx); err != nil {
			log.Warn(ctx, "failed to clear session after 401", "error", err)
		}
		if wasAuthenticated {
			log.Info(ctx, "session expired")
		}
		toLogin()
	}
}
