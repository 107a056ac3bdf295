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
	"time"

	"github.com/dmitrijs2005/gophtodo/internal/client/models"
	"github.com/dmitrijs2005/gophtodo/internal/common"
	"github.com/hashicorp/go-cleanhttp"
)

type HTTPClient struct {
	baseURL     string
	tokenHeader string
	http        *http.Client
	token       string
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the API at baseURL. tokenHeader must
// match the server's token header; empty means the default "Auth".
func NewHTTPClient(baseURL, tokenHeader string, timeout time.Duration) *HTTPClient {
	if tokenHeader == "" {
		tokenHeader = common.TokenHeaderName
	}
	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = timeout
	return &HTTPClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		tokenHeader: tokenHeader,
		http:        hc,
	}
}

func (c *HTTPClient) Token() string { return c.token }

func (c *HTTPClient) SetToken(token string) { c.token = token }

func (c *HTTPClient) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
	return err
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *HTTPClient) Signup(ctx context.Context, email string, password []byte) (*models.User, error) {
	var user models.User
	if _, err := c.do(ctx, http.MethodPost, "/users", nil, credentials{email, string(password)}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Login authenticates and keeps the returned bearer token.
func (c *HTTPClient) Login(ctx context.Context, email string, password []byte) (*models.User, error) {
	var user models.User
	header, err := c.do(ctx, http.MethodPost, "/users/login", nil, credentials{email, string(password)}, &user)
	if err != nil {
		return nil, err
	}

	token := header.Get(c.tokenHeader)
	if token == "" {
		return nil, fmt.Errorf("login response has no %s header", c.tokenHeader)
	}
	c.token = token

	return &user, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/users/login", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *HTTPClient) LogoutAll(ctx context.Context) error {
	if _, err := c.do(ctx, http.MethodDelete, "/users/sessions", nil, nil, nil); err != nil {
		return err
	}
	c.token = ""
	return nil
}

func (c *HTTPClient) ListTodos(ctx context.Context, filter models.TodoFilter) ([]models.Todo, error) {
	q := url.Values{}
	if filter.Completed != nil {
		q.Set("completed", strconv.FormatBool(*filter.Completed))
	}
	if filter.Query != "" {
		q.Set("q", filter.Query)
	}

	var items []models.Todo
	if _, err := c.do(ctx, http.MethodGet, "/todos", q, nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *HTTPClient) AddTodo(ctx context.Context, description string) (*models.Todo, error) {
	var item models.Todo
	body := map[string]any{"description": description}
	if _, err := c.do(ctx, http.MethodPost, "/todos", nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) CompleteTodo(ctx context.Context, id int64) (*models.Todo, error) {
	var item models.Todo
	body := map[string]any{"completed": true}
	if _, err := c.do(ctx, http.MethodPut, todoPath(id), nil, body, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func (c *HTTPClient) DeleteTodo(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil, nil)
	return err
}

func todoPath(id int64) string {
	return "/todos/" + strconv.FormatInt(id, 10)
}

// do sends one request, decodes a 2xx JSON body into out (when non-nil) and
// returns the response headers.
func (c *HTTPClient) do(ctx context.Context, method, path string, query url.Values, in, out any) (http.Header, error) {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set(c.tokenHeader, c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if err := mapStatus(resp); err != nil {
		return nil, err
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.Header, nil
}

func mapStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return common.ErrorNotFound
	case resp.StatusCode == http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrRejected, serverMessage(resp.Body))
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}
}

// serverMessage extracts {"error": "..."} from a 400 body.
func serverMessage(r io.Reader) string {
	var payload struct {
		Error string `json:"error"`
	}
	b, _ := io.ReadAll(io.LimitReader(r, 4096))
	if err := json.Unmarshal(b, &payload); err != nil || payload.Error == "" {
		return "bad request"
	}
	return payload.Error
}
