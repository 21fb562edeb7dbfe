package main

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/desertthunder/localnext/internal/server"
	"github.com/desertthunder/localnext/internal/services"
	"github.com/desertthunder/localnext/internal/shared"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// Auth performs the OAuth2 authorization flow for Spotify and saves the
// resulting tokens to the config file.
//
// By default the user authorizes in a browser and pastes the redirect URL
// back into the terminal. With --listen a temporary local server receives
// the callback instead.
func (r *Runner) Auth(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	listen := cmd.Bool("listen")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if loaded, err := shared.LoadConfig(configPath); err == nil {
			config = loaded
		}
	}

	if config.Credentials.Spotify.ClientID == "" || config.Credentials.Spotify.ClientSecret == "" {
		return fmt.Errorf("%w: Spotify client_id and client_secret must be set in %s", shared.ErrInvalidConfig, configPath)
	}

	svc, err := services.NewSpotifyService(config.Credentials.Spotify.Map())
	if err != nil {
		return fmt.Errorf("failed to create Spotify service: %w", err)
	}

	var token *oauth2.Token
	if listen {
		token, err = r.doListenFlow(ctx, config, svc)
	} else {
		token, err = r.doPasteFlow(ctx, svc)
	}
	if err != nil {
		return err
	}

	if err := config.Credentials.Spotify.Update(token); err != nil {
		return fmt.Errorf("failed to update spotify configuration: %w", err)
	}

	if err := shared.SaveConfig(configPath, config); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	r.config = config
	r.music = svc

	r.writePlainln("✓ Authorization successful")
	r.writePlain("✓ Tokens saved to %s\n\n", configPath)
	r.writePlain("You can now use: localnext build <year> <month> <area-id>\n")

	return nil
}

// doListenFlow runs the authorization flow with a local callback server.
func (r *Runner) doListenFlow(ctx context.Context, config *shared.Config, svc services.OAuthService) (*oauth2.Token, error) {
	state := shared.GenerateState()
	authURL := svc.GetAuthURL(state)

	r.writePlain("Opening browser for Spotify authorization...\n")
	r.writePlain("If the browser does not open, visit:\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Warn("failed to open browser", "error", err)
	}

	addr := fmt.Sprintf("%s:%d", config.Server.Host, config.Server.Port)
	r.logger.Info("waiting for OAuth callback", "addr", addr)

	listenCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	return server.ListenForCallback(listenCtx, addr, svc.GetOAuthConfig(), state, r.logger)
}

// doPasteFlow runs the authorization flow without a local server: the user
// authorizes in the browser and pastes the redirect URL (or just the code)
// back into the terminal.
func (r *Runner) doPasteFlow(ctx context.Context, svc services.OAuthService) (*oauth2.Token, error) {
	state := shared.GenerateState()
	authURL := svc.GetAuthURL(state)

	r.writePlain("Visit this URL to authorize:\n%s\n\n", authURL)
	if err := shared.OpenBrowser(authURL); err != nil {
		r.logger.Debug("failed to open browser", "error", err)
	}

	r.writePlain("Paste the URL you were redirected to (or the code parameter): ")

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	code, err := extractAuthCode(strings.TrimSpace(line), state)
	if err != nil {
		return nil, err
	}

	return svc.Exchange(ctx, code)
}

// extractAuthCode pulls the authorization code out of a pasted redirect URL,
// or returns the input unchanged when it is a bare code.
func extractAuthCode(input, state string) (string, error) {
	if input == "" {
		return "", fmt.Errorf("%w: empty authorization response", shared.ErrAuthFailed)
	}

	if !strings.Contains(input, "://") && !strings.Contains(input, "?") {
		return input, nil
	}

	parsed, err := url.Parse(input)
	if err != nil {
		return "", fmt.Errorf("%w: could not parse redirect URL: %v", shared.ErrAuthFailed, err)
	}

	query := parsed.Query()
	if got := query.Get("state"); got != "" && got != state {
		return "", fmt.Errorf("%w: state mismatch in redirect URL", shared.ErrAuthFailed)
	}

	code := query.Get("code")
	if code == "" {
		return "", fmt.Errorf("%w: no code parameter in redirect URL", shared.ErrAuthFailed)
	}

	return code, nil
}
