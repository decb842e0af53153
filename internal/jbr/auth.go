package jbr

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/gofiber/fiber/v2"
)

// verifier checks bearer tokens against an OIDC provider's published keys.
// Only ID-token-shaped verification is supported; the façade has no login
// flow of its own, it only consumes tokens minted elsewhere.
type verifier struct {
	idTokenVerifier *oidc.IDTokenVerifier
}

// newVerifier discovers cfg.ProviderURL and returns a verifier, or nil (not
// an error) when cfg is unset — OIDC is an optional dependency.
func newVerifier(ctx context.Context, cfg OIDCConfig, log *slog.Logger) (*verifier, error) {
	if cfg.ProviderURL == "" {
		log.Debug("oidc not configured, jbr will run unauthenticated")
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.ProviderURL)
	if err != nil {
		return nil, fmt.Errorf("jbr: discovering oidc provider: %w", err)
	}

	return &verifier{
		idTokenVerifier: provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
	}, nil
}

// middleware returns a fiber handler that rejects requests without a valid
// bearer token. If v is nil the handler is a no-op passthrough.
func (v *verifier) middleware() fiber.Handler {
	if v == nil {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return SendError(c, fiber.StatusUnauthorized, "missing bearer token")
		}
		if _, err := v.idTokenVerifier.Verify(c.Context(), token); err != nil {
			return SendError(c, fiber.StatusUnauthorized, "invalid bearer token")
		}
		return c.Next()
	}
}
