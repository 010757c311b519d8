// Package api is an HTTP client for the broker's JSON API.
package api

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

	"github.com/dmitrijs2005/userapp/internal/common"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrBadRequest  = errors.New("bad request")
)

type User struct {
	ID                int64     `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"first_name"`
	LastName          string    `json:"last_name"`
	UserName          string    `json:"username"`
	Password          string    `json:"password"`
	IsAdmin           bool      `json:"is_admin"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
}

// UserInput is the body of create and update requests. Every field is sent.
type UserInput struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	UserName  string `json:"username"`
	Password  string `json:"password"`
	IsAdmin   bool   `json:"is_admin"`
}

type Session struct {
	ID                int64     `json:"id"`
	UserName          string    `json:"username"`
	APIKey            string    `json:"apikey"`
	CreationTimestamp time.Time `json:"creation_timestamp"`
}

type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Ping checks the liveness route.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64))
	if resp.StatusCode != http.StatusOK || string(body) != common.HealthCheckResponse {
		return fmt.Errorf("%w: unexpected health response %d %q", ErrUnavailable, resp.StatusCode, body)
	}
	return nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.do(ctx, http.MethodGet, "/get/all/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetUser(ctx context.Context, userName string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodGet, "/get/user/"+url.PathEscape(userName), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) AddUser(ctx context.Context, in UserInput) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPost, "/add/user", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateUser(ctx context.Context, userName string, in UserInput) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodPut, "/update/user/"+url.PathEscape(userName), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteUser(ctx context.Context, userName string) (*User, error) {
	var out User
	if err := c.do(ctx, http.MethodDelete, "/delete/user/"+url.PathEscape(userName), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, userName, password string) (*Session, error) {
	body := map[string]string{"username": userName, "password": password}
	var out Session
	if err := c.do(ctx, http.MethodPost, "/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListSessions(ctx context.Context) ([]Session, error) {
	var out []Session
	if err := c.do(ctx, http.MethodGet, "/get/all/sessions", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type errorBody struct {
	Error string `json:"error"`
}

// do sends one request and decodes a 200 response into out. Other statuses
// map onto the shared sentinel errors.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	}

	var eb errorBody
	_ = json.NewDecoder(io.LimitReader(resp.Body, 4096)).Decode(&eb)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return common.ErrorNotFound
	case http.StatusConflict:
		return common.ErrorConflict
	case http.StatusUnauthorized:
		return common.ErrorUnauthorized
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrBadRequest, eb.Error)
	default:
		return fmt.Errorf("server error: %s %s", resp.Status, eb.Error)
	}
}
