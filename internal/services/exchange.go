package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/desertthunder/lyrix/internal/models"
)

type exchangeRequest struct {
	Code        string `json:"code"`
	RedirectURI string `json:"redirect_uri"`
}

type exchangeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Data    struct {
		AccessToken  string `json:"access_token"`
		ExpiresIn    int    `json:"expires_in"`
		RefreshToken string `json:"refresh_token"`
	} `json:"data"`
}

// ExchangeService swaps a Spotify authorization code for tokens via the
// backend exchange endpoint. The backend holds the client secret; this client
// never talks to accounts.spotify.com directly.
type ExchangeService struct {
	baseURL    string
	httpClient *http.Client
}

// NewExchangeService creates an exchange client for the backend at baseURL.
func NewExchangeService(baseURL string, client *http.Client) *ExchangeService {
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}

	return &ExchangeService{
		baseURL:    baseURL,
		httpClient: newHTTPClient(client),
	}
}

// Exchange sends the authorization code and redirect URI to the backend and
// returns the granted tokens.
//
// Every failure mode (transport, non-2xx status, success flag false) surfaces
// as *ExchangeError: callers can't fix a failed exchange, only restart the
// connect flow. Never retried: authorization codes are single-use.
func (s *ExchangeService) Exchange(ctx context.Context, code, redirectURI string) (*models.TokenGrant, error) {
	payload, err := json.Marshal(exchangeRequest{Code: code, RedirectURI: redirectURI})
	if err != nil {
		return nil, fmt.Errorf("failed to encode exchange request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/spotify/token", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &ExchangeError{Detail: fmt.Sprintf("transport: %v", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExchangeError{Status: resp.StatusCode, Detail: fmt.Sprintf("reading body: %v", err)}
	}

	var decoded exchangeResponse
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail := "exchange rejected"
		if json.Unmarshal(body, &decoded) == nil && decoded.Error != "" {
			detail = decoded.Error
		}
		return nil, &ExchangeError{Status: resp.StatusCode, Detail: detail}
	}

	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, &ExchangeError{Status: resp.StatusCode, Detail: fmt.Sprintf("decoding body: %v", err)}
	}

	if !decoded.Success {
		detail := decoded.Error
		if detail == "" {
			detail = "backend reported failure without detail"
		}
		return nil, &ExchangeError{Status: resp.StatusCode, Detail: detail}
	}

	if decoded.Data.AccessToken == "" || decoded.Data.ExpiresIn <= 0 {
		return nil, &ExchangeError{Status: resp.StatusCode, Detail: "incomplete token payload"}
	}

	return &models.TokenGrant{
		AccessToken:  decoded.Data.AccessToken,
		ExpiresIn:    decoded.Data.ExpiresIn,
		RefreshToken: decoded.Data.RefreshToken,
	}, nil
}
