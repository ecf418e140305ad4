// FILE: tek/config/client.go
package config

import (
	"fmt"
	"sync"

	"github.com/tekutils/tek/errors"
)

// Client is a read-only view of a section that may be created before the
// section is registered. Once connected it never switches sections.
type Client struct {
	name   string
	mu     sync.RWMutex
	config *Configuration
}

// connect attaches the configuration unless already connected.
func (c *Client) connect(cfg *Configuration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.config == nil {
		c.config = cfg
	}
}

// Name returns the section name.
func (c *Client) Name() string { return c.name }

// Connected reports whether the section has been registered.
func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config != nil
}

// Configuration returns the connected section.
func (c *Client) Configuration() (*Configuration, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.config == nil {
		return nil, errors.Newf(errors.ErrClientNotConnected,
			"Config Client '%s' wasn't connected", c.name)
	}
	return c.config, nil
}

// Get returns the live value of key.
func (c *Client) Get(key string) (any, error) {
	c.mu.RLock()
	cfg := c.config
	c.mu.RUnlock()

	if cfg == nil {
		return nil, errors.Newf(errors.ErrClientNotConnected,
			"Config Client '%s' wasn't connected when accessing config option '%s'!", c.name, key)
	}
	return cfg.Get(key)
}

// Info returns the layer dump of the connected section.
func (c *Client) Info() string {
	cfg, err := c.Configuration()
	if err != nil {
		return err.Error()
	}
	return cfg.Info()
}

// Lazy resolves a key on first use and keeps the value.
// Later changes to the section do not affect an already resolved Lazy.
type Lazy[T any] struct {
	client   *Client
	key      string
	mu       sync.Mutex
	resolved bool
	value    T
}

// NewLazy creates a lazy value for key of the client's section.
func NewLazy[T any](client *Client, key string) *Lazy[T] {
	return &Lazy[T]{client: client, key: key}
}

// Get resolves the value on first call. Errors are not cached.
func (l *Lazy[T]) Get() (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.resolved {
		return l.value, nil
	}
	raw, err := l.client.Get(l.key)
	if err != nil {
		var zero T
		return zero, err
	}
	v, err := convert[T](raw)
	if err != nil {
		return v, errors.Wrapf(err, errors.ErrInvalidValue, "config option %s.%s", l.client.Name(), l.key)
	}
	l.value = v
	l.resolved = true
	return v, nil
}

// MustGet is like Get but panics on error.
func (l *Lazy[T]) MustGet() T {
	v, err := l.Get()
	if err != nil {
		panic(fmt.Sprintf("config: %v", err))
	}
	return v
}

// Resolved reports whether the value has been cached.
func (l *Lazy[T]) Resolved() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.resolved
}

func convert[T any](raw any) (T, error) {
	if v, ok := raw.(T); ok {
		return v, nil
	}
	return decodeWeak[T](raw)
}
