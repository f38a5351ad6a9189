package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	kratos "github.com/ory/kratos-client-go"

	"ops-hub/internal/domain"
)

// KratosProvider implements domain.AuthProvider and
// domain.AccountProvisioner against Ory Kratos. Credential verification
// goes through the native login flow; profiles are resolved from the
// profile store with a TTL read cache in front.
type KratosProvider struct {
	client       *kratos.APIClient
	adminBaseURL string
	httpClient   *http.Client
	profiles     domain.ProfileStore
	cache        domain.ProfileCache

	mu           sync.Mutex
	sessionToken string
}

// NewKratosProvider creates a Kratos-backed auth provider with tuned HTTP
// transport.
func NewKratosProvider(baseURL, adminBaseURL string, timeout time.Duration, profiles domain.ProfileStore, cache domain.ProfileCache) *KratosProvider {
	configuration := kratos.NewConfiguration()
	configuration.Servers = []kratos.ServerConfiguration{
		{URL: baseURL},
	}

	transport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 20,
		IdleConnTimeout:     90 * time.Second,
	}

	httpClient := &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
	configuration.HTTPClient = httpClient

	return &KratosProvider{
		client:       kratos.NewAPIClient(configuration),
		adminBaseURL: adminBaseURL,
		httpClient:   httpClient,
		profiles:     profiles,
		cache:        cache,
	}
}

// Start opens the auth-state stream. A server process starts without a
// session, so the initial event is always signed-out; subsequent state
// changes flow through SignIn/SignOut.
func (p *KratosProvider) Start(_ context.Context, onChange func(*domain.Identity)) (func(), error) {
	onChange(nil)
	return func() {}, nil
}

// SignIn verifies credentials via the Kratos native login flow and
// resolves the profile record keyed by the returned identity id.
func (p *KratosProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	flow, resp, err := p.client.FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		return nil, mapKratosError(resp, err)
	}

	body := kratos.UpdateLoginFlowBody{
		UpdateLoginFlowWithPasswordMethod: kratos.NewUpdateLoginFlowWithPasswordMethod(email, "password", password),
	}
	success, resp, err := p.client.FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(body).
		Execute()
	if err != nil {
		return nil, mapKratosError(resp, err)
	}

	if success.Session.Identity == nil {
		return nil, fmt.Errorf("%w: missing identity in login response", domain.ErrAuthFailed)
	}
	identityID := success.Session.Identity.Id

	profile, err := p.resolveProfile(ctx, identityID)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	if success.SessionToken != nil {
		p.sessionToken = *success.SessionToken
	}
	p.mu.Unlock()

	return profile.Identity(identityID), nil
}

// SignOut revokes the Kratos session. Returns a nil identity: the real
// backend leaves the session signed out.
func (p *KratosProvider) SignOut(ctx context.Context) (*domain.Identity, error) {
	p.mu.Lock()
	token := p.sessionToken
	p.mu.Unlock()

	if token == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	resp, err := p.client.FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratos.PerformNativeLogoutBody{SessionToken: token}).
		Execute()
	if err != nil {
		// An already-invalid session still counts as signed out.
		if resp == nil || resp.StatusCode != http.StatusUnauthorized {
			return nil, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
		}
	}

	p.mu.Lock()
	p.sessionToken = ""
	p.mu.Unlock()
	return nil, nil
}

// resolveProfile reads the profile record through the cache.
func (p *KratosProvider) resolveProfile(ctx context.Context, identityID string) (*domain.Profile, error) {
	if cached, found := p.cache.Get(identityID); found {
		return cached, nil
	}

	profile, err := p.profiles.ReadProfile(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("%w: profile for %s: %w", domain.ErrAuthFailed, identityID, err)
	}

	p.cache.Set(identityID, *profile)
	return profile, nil
}

// CreateAccount provisions an identity with password credentials through
// the Kratos Admin API. Used by the bootstrap tool.
func (p *KratosProvider) CreateAccount(ctx context.Context, email, password string) (string, error) {
	if p.adminBaseURL == "" {
		return "", fmt.Errorf("%w: admin API not configured", domain.ErrBackendUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	payload := map[string]any{
		"schema_id": "default",
		"traits":    map[string]any{"email": email},
		"credentials": map[string]any{
			"password": map[string]any{
				"config": map[string]any{"password": password},
			},
		},
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/admin/identities", p.adminBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("admin API returned status %d: %s", resp.StatusCode, detail)
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return created.ID, nil
}

// HasIdentities reports whether any account exists yet. The bootstrap
// tool uses it to warn on re-provisioning.
func (p *KratosProvider) HasIdentities(ctx context.Context) (bool, error) {
	if p.adminBaseURL == "" {
		return false, fmt.Errorf("%w: admin API not configured", domain.ErrBackendUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	url := fmt.Sprintf("%s/admin/identities?page_size=1", p.adminBaseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: admin API returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}

	var identities []struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&identities); err != nil {
		return false, fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	return len(identities) > 0, nil
}

// mapKratosError translates a Kratos API failure onto the domain error
// taxonomy.
func mapKratosError(resp *http.Response, err error) error {
	if resp == nil {
		return fmt.Errorf("%w: %w", domain.ErrBackendUnavailable, err)
	}
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized:
		return domain.ErrInvalidCredentials
	case http.StatusNotFound, http.StatusGone:
		return domain.ErrUnknownAccount
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	default:
		return fmt.Errorf("%w: kratos returned status %d", domain.ErrBackendUnavailable, resp.StatusCode)
	}
}
