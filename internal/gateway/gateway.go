// Package gateway is the boundary to the remote users/todos/posts service.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/idilsaglam/userboard/internal/model"
)

// DefaultBaseURL is the public JSONPlaceholder service.
const DefaultBaseURL = "https://jsonplaceholder.typicode.com"

// Gateway is the set of remote reads and writes the views depend on.
type Gateway interface {
	FetchUsers(ctx context.Context) ([]model.User, error)
	FetchTodos(ctx context.Context) ([]model.Todo, error)
	FetchPostsByUser(ctx context.Context, userID int) ([]model.Post, error)
	UpdatePost(ctx context.Context, post model.Post) (model.Post, error)
	DeletePost(ctx context.Context, postID int) error
}

// Options configure a Client.
type Options struct {
	BaseURL string
	Token   string        // optional bearer token
	Timeout time.Duration // per request; 0 disables
	HTTP    *http.Client
	Logger  logrus.FieldLogger
}

// Client implements Gateway over HTTP+JSON.
type Client struct {
	baseURL string
	token   string
	timeout time.Duration
	http    *http.Client
	log     logrus.FieldLogger
}

var _ Gateway = (*Client)(nil)

// New creates a Client, filling in defaults for empty options.
func New(opt Options) *Client {
	c := &Client{
		baseURL: strings.TrimRight(opt.BaseURL, "/"),
		token:   opt.Token,
		timeout: opt.Timeout,
		http:    opt.HTTP,
		log:     opt.Logger,
	}
	if c.baseURL == "" {
		c.baseURL = DefaultBaseURL
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		c.log = l
	}
	return c
}

func (c *Client) FetchUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, "fetch users", http.MethodGet, "/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) FetchTodos(ctx context.Context) ([]model.Todo, error) {
	var todos []model.Todo
	if err := c.do(ctx, "fetch todos", http.MethodGet, "/todos", nil, &todos); err != nil {
		return nil, err
	}
	return todos, nil
}

func (c *Client) FetchPostsByUser(ctx context.Context, userID int) ([]model.Post, error) {
	q := url.Values{"userId": {strconv.Itoa(userID)}}
	var posts []model.Post
	if err := c.do(ctx, "fetch posts", http.MethodGet, "/posts?"+q.Encode(), nil, &posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (c *Client) UpdatePost(ctx context.Context, post model.Post) (model.Post, error) {
	var out model.Post
	path := fmt.Sprintf("/posts/%d", post.ID)
	if err := c.do(ctx, "update post", http.MethodPut, path, post, &out); err != nil {
		return model.Post{}, err
	}
	return out, nil
}

func (c *Client) DeletePost(ctx context.Context, postID int) error {
	return c.do(ctx, "delete post", http.MethodDelete, fmt.Sprintf("/posts/%d", postID), nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var rdr io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return &Error{Op: op, Kind: ErrValidation, Err: err}
		}
		rdr = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	reqID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", reqID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	log := c.log.WithFields(logrus.Fields{"op": op, "method": method, "path": path, "request_id": reqID})
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("request failed")
		return &Error{Op: op, Kind: ErrNetwork, Err: err}
	}
	defer resp.Body.Close()
	log = log.WithFields(logrus.Fields{"status": resp.StatusCode, "elapsed": time.Since(start)})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		log.Warn("unexpected status")
		e := &Error{Op: op, Status: resp.StatusCode, Kind: kindForStatus(resp.StatusCode)}
		if s := strings.TrimSpace(string(snippet)); s != "" {
			e.Err = errors.New(s)
		}
		return e
	}
	log.Debug("request ok")

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &Error{Op: op, Status: resp.StatusCode, Kind: ErrNetwork, Err: fmt.Errorf("decode: %w", err)}
	}
	return nil
}
