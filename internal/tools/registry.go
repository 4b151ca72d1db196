// Package tools exposes the report operations as named tools with JSON arguments
// and text results.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"grocery-report/internal/observability"
)

// ErrUnknownTool is returned when invoking a tool that is not registered.
var ErrUnknownTool = errors.New("unknown tool")

// ParamSpec describes one optional tool argument.
type ParamSpec struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Default     interface{} `json:"default,omitempty"`
	Min         *int        `json:"min,omitempty"`
	Max         *int        `json:"max,omitempty"`
	Enum        []string    `json:"enum,omitempty"`
}

// Result is the outcome of a tool invocation.
type Result struct {
	Text    string `json:"text"`
	IsError bool   `json:"is_error"`
}

// Handler executes a tool with raw JSON arguments.
type Handler func(ctx context.Context, args json.RawMessage) Result

// Tool is a named operation.
type Tool struct {
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Params      []ParamSpec `json:"params"`
	Handler     Handler     `json:"-"`
}

// TextResult wraps a successful text result.
func TextResult(text string) Result {
	return Result{Text: text}
}

// ErrorResult wraps an error as a tool result.
func ErrorResult(err error) Result {
	return Result{Text: err.Error(), IsError: true}
}

// Registry holds tools by name. It is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	logger  *zap.Logger
	metrics *observability.Metrics
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithMetrics sets the metrics sink.
func WithMetrics(m *observability.Metrics) RegistryOption {
	return func(r *Registry) {
		r.metrics = m
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		tools:  make(map[string]Tool),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a tool. Registering a name twice is an error.
func (r *Registry) Register(t Tool) error {
	if t.Name == "" || t.Handler == nil {
		return fmt.Errorf("register tool %q: name and handler are required", t.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.tools[t.Name]; ok {
		return fmt.Errorf("register tool %q: already registered", t.Name)
	}
	r.tools[t.Name] = t
	return nil
}

// Get returns the tool registered under name.
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// List returns all tools sorted by name.
func (r *Registry) List() []Tool {
	r.mu.RLock()
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		out = append(out, t)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke runs the named tool. Handler failures, panics included, come back as
// error results; only an unknown name returns an error.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (Result, error) {
	t, ok := r.Get(name)
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}

	start := time.Now()
	res := r.run(ctx, t, args)

	status := "ok"
	if res.IsError {
		status = "error"
	}
	r.metrics.RecordToolInvocation(name, status)
	r.logger.Info("tool invoked",
		zap.String("tool", name),
		zap.String("status", status),
		zap.Duration("duration", time.Since(start)),
	)
	return res, nil
}

func (r *Registry) run(ctx context.Context, t Tool, args json.RawMessage) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			r.logger.Error("tool panicked", zap.String("tool", t.Name), zap.Any("panic", p))
			res = ErrorResult(fmt.Errorf("tool %s failed: %v", t.Name, p))
		}
	}()
	return t.Handler(ctx, args)
}
