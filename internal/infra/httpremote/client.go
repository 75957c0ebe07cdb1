// Package httpremote implements domain.Remote against the treeboard persistence API.
package httpremote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/runoshun/treeboard/internal/domain"
)

// DefaultHealthTimeout bounds Health when the client has no timeout of its own.
const DefaultHealthTimeout = 5 * time.Second

// Client talks to the persistence API over HTTP with a bearer token.
// Fields are ordered to minimize memory padding.
type Client struct {
	http          *http.Client
	logger        *slog.Logger
	baseURL       string
	token         string
	healthTimeout time.Duration
}

var _ domain.Remote = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithHealthTimeout sets the timeout of Health.
func WithHealthTimeout(d time.Duration) Option {
	return func(c *Client) { c.healthTimeout = d }
}

// New creates a Client for baseURL (e.g. "http://localhost:8787/api").
func New(baseURL, token string, logger *slog.Logger, opts ...Option) *Client {
	c := &Client{
		http:          &http.Client{},
		logger:        logger.With("component", "http"),
		baseURL:       strings.TrimRight(baseURL, "/"),
		token:         token,
		healthTimeout: DefaultHealthTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do sends a request and returns the response body. Statuses >= 400 become
// *domain.RemoteError; the message comes from the "error" field when present.
func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", op, err)
	}
	c.logger.Debug("request", "op", op, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.RemoteError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}
	return data, nil
}

// errorMessage extracts {"error": "..."} or falls back to the trimmed body.
func errorMessage(body []byte) string {
	if gjson.ValidBytes(body) {
		if msg := gjson.GetBytes(body, "error"); msg.Exists() {
			return msg.String()
		}
	}
	return strings.TrimSpace(string(body))
}

func escape(id string) string {
	return url.PathEscape(id)
}

func decodeTasks(body []byte) ([]wireTask, error) {
	items := list(body, "tasks")
	out := make([]wireTask, 0, len(items))
	for _, it := range items {
		var w wireTask
		if err := json.Unmarshal([]byte(it.Raw), &w); err != nil {
			return nil, fmt.Errorf("decode task: %w", err)
		}
		out = append(out, w)
	}
	return out, nil
}

// ListTasks implements domain.Remote.
func (c *Client) ListTasks(ctx context.Context) ([]domain.FlatTask, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks", nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeTasks(body)
	if err != nil {
		return nil, err
	}
	out := make([]domain.FlatTask, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.flat())
	}
	return out, nil
}

// TaskTree implements domain.Remote.
func (c *Client) TaskTree(ctx context.Context) ([]*domain.Task, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks/tree", nil)
	if err != nil {
		return nil, err
	}
	wire, err := decodeTasks(body)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.Task, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.tree())
	}
	return out, nil
}

// CreateTask implements domain.Remote.
func (c *Client) CreateTask(ctx context.Context, task domain.FlatTask) error {
	_, err := c.do(ctx, http.MethodPost, "/tasks", toWireTask(task))
	return err
}

// UpdateTask implements domain.Remote.
func (c *Client) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) error {
	_, err := c.do(ctx, http.MethodPatch, "/tasks/"+escape(id), taskPatchBody(patch))
	return err
}

// DeleteTask implements domain.Remote.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/tasks/"+escape(id), nil)
	return err
}

// ListProjects implements domain.Remote.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	body, err := c.do(ctx, http.MethodGet, "/projects", nil)
	if err != nil {
		return nil, err
	}
	items := list(body, "projects")
	out := make([]domain.Project, 0, len(items))
	for _, it := range items {
		out = append(out, parseProject(it))
	}
	return out, nil
}

// CreateProject implements domain.Remote.
func (c *Client) CreateProject(ctx context.Context, project domain.Project) error {
	_, err := c.do(ctx, http.MethodPost, "/projects", projectBody(project))
	return err
}

// UpdateProject implements domain.Remote.
func (c *Client) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) error {
	_, err := c.do(ctx, http.MethodPatch, "/projects/"+escape(id), projectPatchBody(patch))
	return err
}

// DeleteProject implements domain.Remote.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	_, err := c.do(ctx, http.MethodDelete, "/projects/"+escape(id), nil)
	return err
}

func edges(body []byte, key, toField string) []domain.Edge {
	items := list(body, key)
	out := make([]domain.Edge, 0, len(items))
	for _, it := range items {
		out = append(out, domain.Edge{From: it.Get("task_id").String(), To: it.Get(toField).String()})
	}
	return out
}

// ListDependencies implements domain.Remote.
func (c *Client) ListDependencies(ctx context.Context) ([]domain.Edge, error) {
	body, err := c.do(ctx, http.MethodGet, "/dependencies", nil)
	if err != nil {
		return nil, err
	}
	return edges(body, "dependencies", "depends_on_id"), nil
}

// TaskDependencies implements domain.Remote.
func (c *Client) TaskDependencies(ctx context.Context, taskID string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks/"+escape(taskID)+"/dependencies", nil)
	if err != nil {
		return nil, err
	}
	return ids(list(body, "dependencies"), "depends_on_id"), nil
}

type dependencyBody struct {
	TaskID      string `json:"task_id"`
	DependsOnID string `json:"depends_on_id"`
}

// AddDependency implements domain.Remote.
func (c *Client) AddDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := c.do(ctx, http.MethodPost, "/dependencies", dependencyBody{TaskID: taskID, DependsOnID: dependsOnID})
	return err
}

// RemoveDependency implements domain.Remote.
func (c *Client) RemoveDependency(ctx context.Context, taskID, dependsOnID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/dependencies", dependencyBody{TaskID: taskID, DependsOnID: dependsOnID})
	return err
}

// ListRelated implements domain.Remote.
func (c *Client) ListRelated(ctx context.Context) ([]domain.Edge, error) {
	body, err := c.do(ctx, http.MethodGet, "/related", nil)
	if err != nil {
		return nil, err
	}
	return edges(body, "related", "related_id"), nil
}

// TaskRelated implements domain.Remote.
func (c *Client) TaskRelated(ctx context.Context, taskID string) ([]string, error) {
	body, err := c.do(ctx, http.MethodGet, "/tasks/"+escape(taskID)+"/related", nil)
	if err != nil {
		return nil, err
	}
	return ids(list(body, "related"), "related_id"), nil
}

type relatedBody struct {
	TaskID    string `json:"task_id"`
	RelatedID string `json:"related_id"`
}

// AddRelated implements domain.Remote.
func (c *Client) AddRelated(ctx context.Context, taskID, relatedID string) error {
	_, err := c.do(ctx, http.MethodPost, "/related", relatedBody{TaskID: taskID, RelatedID: relatedID})
	return err
}

// RemoveRelated implements domain.Remote.
func (c *Client) RemoveRelated(ctx context.Context, taskID, relatedID string) error {
	_, err := c.do(ctx, http.MethodDelete, "/related", relatedBody{TaskID: taskID, RelatedID: relatedID})
	return err
}

// GetSetting implements domain.Remote. A 404 means the key is absent.
func (c *Client) GetSetting(ctx context.Context, key string) (string, bool, error) {
	body, err := c.do(ctx, http.MethodGet, "/settings/"+escape(key), nil)
	if err != nil {
		var re *domain.RemoteError
		if errors.As(err, &re) && re.Status == http.StatusNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return gjson.GetBytes(body, "value").String(), true, nil
}

// PutSetting implements domain.Remote.
func (c *Client) PutSetting(ctx context.Context, key, value string) error {
	_, err := c.do(ctx, http.MethodPut, "/settings/"+escape(key), map[string]string{"value": value})
	return err
}

// DeleteSetting implements domain.Remote.
func (c *Client) DeleteSetting(ctx context.Context, key string) error {
	_, err := c.do(ctx, http.MethodDelete, "/settings/"+escape(key), nil)
	return err
}

// Health implements domain.Remote. It is the only call with its own timeout.
func (c *Client) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, c.healthTimeout)
	defer cancel()
	_, err := c.do(ctx, http.MethodGet, "/health", nil)
	return err
}
