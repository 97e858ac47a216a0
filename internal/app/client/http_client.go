package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/exp/slog"

	"pontosync/internal/app/client/config"
	"pontosync/internal/domain/auth"
	"pontosync/internal/domain/sync"
)

// Login failures surfaced to the user.
var (
	ErrInvalidCredentials = errors.New("Credenciais inválidas")
	ErrInactiveUser       = errors.New("Usuário inativo")
)

// StatusError marks a reply that arrived but carried a non-2xx status,
// as opposed to a transport failure (server unreachable).
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("servidor retornou status %d", e.Code)
}

type httpClient struct {
	client  *http.Client
	log     *slog.Logger
	baseURL string
	token   string
}

func NewHTTPClient(cfg *config.Config, log *slog.Logger) *httpClient {
	timeout := time.Duration(cfg.RequestTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 20 * time.Second
	}

	return &httpClient{
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
		log:     log.With(slog.String("component", "http_client")),
		baseURL: strings.TrimRight(cfg.ServerAddress, "/"),
	}
}

func (h *httpClient) SetToken(token string) {
	h.token = token
}

func (h *httpClient) BaseURL() string {
	return h.baseURL
}

// HealthCheck distinguishes an unreachable server (plain error) from an
// unhealthy one (*StatusError).
func (h *httpClient) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+"/api/v1/health", nil)
	if err != nil {
		return fmt.Errorf("falha ao criar requisição: %w", err)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return fmt.Errorf("servidor indisponível: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode != http.StatusOK {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}

func (h *httpClient) Login(ctx context.Context, username, password string) (*auth.LoginResponse, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/auth/login", auth.LoginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		drain(resp)
		return nil, ErrInvalidCredentials
	case http.StatusForbidden:
		drain(resp)
		return nil, ErrInactiveUser
	}

	var loginResp auth.LoginResponse
	if err := h.parseResponse(resp, &loginResp); err != nil {
		return nil, err
	}

	h.SetToken(loginResp.Token)
	return &loginResp, nil
}

func (h *httpClient) Push(ctx context.Context, req sync.PushRequest) (*sync.PushResponse, error) {
	resp, err := h.doRequest(ctx, http.MethodPost, "/api/v1/sync/push", req)
	if err != nil {
		return nil, err
	}

	var pushResp sync.PushResponse
	if err := h.parseResponse(resp, &pushResp); err != nil {
		return nil, err
	}
	return &pushResp, nil
}

func (h *httpClient) Pull(ctx context.Context, since time.Time) (*sync.PullResponse, error) {
	path := "/api/v1/sync/pull"
	if !since.IsZero() {
		path += "?since=" + url.QueryEscape(since.UTC().Format(time.RFC3339))
	}

	resp, err := h.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var pullResp sync.PullResponse
	if err := h.parseResponse(resp, &pullResp); err != nil {
		return nil, err
	}
	return &pullResp, nil
}

func (h *httpClient) doRequest(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("falha ao serializar requisição: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, h.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar requisição: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if h.token != "" {
		req.Header.Set("Authorization", "Bearer "+h.token)
	}

	h.log.Debug("request", slog.String("method", method), slog.String("url", req.URL.String()))

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("falha na requisição: %w", err)
	}
	return resp, nil
}

func (h *httpClient) parseResponse(resp *http.Response, result any) error {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("falha ao ler resposta: %w", err)
	}

	h.log.Debug("response", slog.Int("status", resp.StatusCode))

	if resp.StatusCode >= 400 {
		return &StatusError{Code: resp.StatusCode}
	}

	if result != nil {
		if err := json.Unmarshal(body, result); err != nil {
			return fmt.Errorf("falha ao decodificar resposta: %w", err)
		}
	}
	return nil
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
