// Package client talks to the AptiGenius REST API on behalf of the terminal
// test runner.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/context/ctxhttp"

	"aptigenius-backend/internal/model"
	"aptigenius-backend/internal/session"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// AuthResponse mirrors the body of signup and login.
type AuthResponse struct {
	Token        string     `json:"token"`
	RefreshToken string     `json:"refreshToken"`
	User         model.User `json:"user"`
}

// Client is safe for sequential use; set the token with Login or SetToken.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New returns a client for the server at baseURL, e.g. http://localhost:5000.
// A nil httpClient means http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

func (c *Client) SetToken(token string) { c.token = token }

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

func (c *Client) Signup(ctx context.Context, firstName, lastName, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{
		"firstName": firstName,
		"lastName":  lastName,
		"email":     email,
		"password":  password,
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", body, &out); err != nil {
		return nil, err
	}
	c.token = out.Token
	return &out, nil
}

// Settings returns the server's test duration and question limits.
func (c *Client) Settings(ctx context.Context) (*model.TestSettings, error) {
	var out model.TestSettings
	if err := c.do(ctx, http.MethodGet, "/api/config", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Sample fetches a random question set. Empty category or difficulty
// means any.
func (c *Client) Sample(ctx context.Context, category, difficulty string, limit int) ([]model.Question, error) {
	q := url.Values{}
	if category != "" {
		q.Set("category", category)
	}
	if difficulty != "" {
		q.Set("difficulty", difficulty)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/api/questions/random"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var out []model.Question
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubmitResult implements session.Submitter.
func (c *Client) SubmitResult(ctx context.Context, sub session.Submission) (*model.Result, error) {
	var out model.Result
	if err := c.do(ctx, http.MethodPost, "/api/results/submit", sub, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) MyResults(ctx context.Context) ([]model.Result, error) {
	var out []model.Result
	if err := c.do(ctx, http.MethodGet, "/api/results/my-results", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Stats(ctx context.Context) (*model.Stats, error) {
	var out model.Stats
	if err := c.do(ctx, http.MethodGet, "/api/results/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := ctxhttp.Do(ctx, c.http, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
