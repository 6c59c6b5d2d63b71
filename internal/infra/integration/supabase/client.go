// Package supabase fala com o Supabase Auth (GoTrue) por REST: sessão,
// login por senha, cadastro, logout, recuperação de senha e magic link.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/dmatosb/protocolo-estetica/internal/entity"
)

type Client struct {
	baseURL string
	anonKey string
	http    *http.Client

	mu      sync.Mutex
	session *entity.Session
}

func NewClient(anonKey, baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		anonKey: anonKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// CurrentSession devolve a sessão ativa, validando o token no servidor.
// Sem sessão local retorna nil sem erro; token recusado também vira nil
// (sessão morta não é falha de transporte).
func (c *Client) CurrentSession(ctx context.Context) (*entity.Session, error) {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil || !session.Valid() {
		return nil, nil
	}

	req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s/auth/v1/user", c.baseURL), nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, session.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na conexão com supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		c.dropSession()
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("supabase /user respondeu status %d", resp.StatusCode)
	}

	return session, nil
}

func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (*entity.Session, error) {
	return c.tokenRequest(ctx, "/auth/v1/token?grant_type=password", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) SignUp(ctx context.Context, email, password string) (*entity.Session, error) {
	return c.tokenRequest(ctx, "/auth/v1/signup", map[string]string{
		"email":    email,
		"password": password,
	})
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/auth/v1/logout", c.baseURL), nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, session.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na conexão com supabase: %w", err)
	}
	defer resp.Body.Close()

	// A sessão local morre independente da resposta do servidor.
	c.dropSession()

	if resp.StatusCode >= 500 {
		return fmt.Errorf("supabase /logout respondeu status %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) SendRecoveryEmail(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/v1/recover", map[string]string{"email": email}, "")
}

// SignInWithOtp envia o magic link para compradores que voltam.
func (c *Client) SignInWithOtp(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/v1/otp", map[string]string{"email": email}, "")
}

// ResendSignupConfirmation reenvia o email de confirmação de cadastro.
func (c *Client) ResendSignupConfirmation(ctx context.Context, email string) error {
	return c.postJSON(ctx, "/auth/v1/resend", map[string]string{
		"type":  "signup",
		"email": email,
	}, "")
}

func (c *Client) UpdatePassword(ctx context.Context, newPassword string) error {
	c.mu.Lock()
	session := c.session
	c.mu.Unlock()

	if session == nil || !session.Valid() {
		return fmt.Errorf("sem sessão ativa para trocar a senha")
	}

	body, err := json.Marshal(map[string]string{"password": newPassword})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "PUT", fmt.Sprintf("%s/auth/v1/user", c.baseURL), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, session.AccessToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na conexão com supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	return nil
}

// SetSession injeta uma sessão vinda de fora (token do link de
// recuperação, por exemplo).
func (c *Client) SetSession(accessToken string) error {
	session, err := sessionFromToken(accessToken)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

func (c *Client) tokenRequest(ctx context.Context, path string, payload map[string]string) (*entity.Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	c.setHeaders(req, "")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro na conexão com supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.apiError(resp)
	}

	var response tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("erro decode supabase: %w", err)
	}

	// Cadastro com confirmação de email ligada não devolve token;
	// o chamador decide se força um login em seguida.
	if response.AccessToken == "" {
		return nil, nil
	}

	session, err := sessionFromToken(response.AccessToken)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()

	return session, nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload any, token string) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	c.setHeaders(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro na conexão com supabase: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	return nil
}

// apiError extrai a mensagem de erro do GoTrue; ela é o que alimenta a
// tabela de tradução para o usuário.
func (c *Client) apiError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var apiErr struct {
		Message          string `json:"message"`
		Msg              string `json:"msg"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &apiErr); err == nil {
		for _, msg := range []string{apiErr.Message, apiErr.Msg, apiErr.ErrorDescription} {
			if msg != "" {
				return fmt.Errorf("%s", msg)
			}
		}
	}
	return fmt.Errorf("supabase respondeu status %d", resp.StatusCode)
}

func (c *Client) dropSession() {
	c.mu.Lock()
	c.session = nil
	c.mu.Unlock()
}

func (c *Client) setHeaders(req *http.Request, userToken string) {
	req.Header.Set("apikey", c.anonKey)
	req.Header.Set("Content-Type", "application/json")
	if userToken != "" {
		req.Header.Set("Authorization", "Bearer "+userToken)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
}
