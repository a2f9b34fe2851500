package httpclient

import (
	"context"
	"sync"

	"github.com/kbukum/robusthttp/component"
	"github.com/kbukum/robusthttp/resilience"
)

// Component wraps a Client in the lifecycle interface so it can be
// registered alongside other managed infrastructure. The client is
// built on Start and released on Stop.
type Component struct {
	name string
	cfg  Config
	opts []Option

	mu     sync.RWMutex
	client *Client
}

// NewComponent creates an unstarted client component.
func NewComponent(cfg Config, opts ...Option) *Component {
	name := cfg.Name
	if name == "" {
		name = "httpclient"
	}
	return &Component{name: name, cfg: cfg, opts: opts}
}

// Name implements component.Component.
func (c *Component) Name() string {
	return c.name
}

// Start builds the client.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return nil
	}
	client, err := New(c.cfg, c.opts...)
	if err != nil {
		return err
	}
	c.client = client
	return nil
}

// Stop closes the client.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client == nil {
		return nil
	}
	err := c.client.Close(ctx)
	c.client = nil
	return err
}

// Health reports degraded while the circuit breaker is open and
// unhealthy before Start.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.client == nil {
		return component.Health{Name: c.name, Status: component.StatusUnhealthy, Message: "not started"}
	}
	if cb := c.client.CircuitBreaker(); cb != nil && cb.State() == resilience.StateOpen {
		return component.Health{Name: c.name, Status: component.StatusDegraded, Message: "circuit breaker open"}
	}
	return component.Health{Name: c.name, Status: component.StatusHealthy}
}

// Client returns the managed client, or nil before Start.
func (c *Component) Client() *Client {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.client
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.name,
		Type:    "http-client",
		Details: c.cfg.BaseURL,
	}
}
