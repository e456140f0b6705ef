package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/aria/internal/server"
	"github.com/desertthunder/aria/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin runs the OAuth2 authorization code flow against Tidal.
//
// Prints the authorization URL, waits for the browser callback on the
// configured localhost port, and saves the exchanged token to the token path.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized (check credentials.tidal in config.toml)", shared.ErrServiceUnavailable)
	}

	timeout := time.Duration(cmd.Int("timeout")) * time.Second
	state := shared.GenerateID()
	handler := server.NewOAuthHandler(r.catalog.OAuthConfig(), state)

	r.writePlain("Open this URL in your browser to authorize:\n\n")
	r.writePlain("  %s\n\n", r.catalog.AuthURL(state))
	r.writePlain("Waiting for callback...\n")

	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	result, err := server.WaitForCallback(ctx, addr, handler, timeout)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	if result.Error() != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, result.Error())
	}

	tokenPath := r.config.Credentials.Tidal.TokenPath
	if err := r.catalog.SaveToken(tokenPath, result.Token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}

	r.catalog.UseToken(ctx, result.Token)
	r.logger.Info("authentication successful", "token_path", tokenPath)
	r.writePlain("✓ Authenticated. Token saved to %s\n", tokenPath)

	return nil
}

// AuthStatus checks whether the saved token can establish a session.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.ensureSession(ctx); err != nil {
		r.writePlain("✗ Not authenticated: %v\n", err)
		return nil
	}

	r.writePlain("✓ Authenticated with Tidal\n")
	return nil
}
