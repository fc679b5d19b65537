package sqlchain

import (
	"context"
	"sync"
)

// Pool is a bounded pool of Connections with FIFO checkout, as spec.md §5(b)
// describes: "a ConnectionPool holding up to maxConnections idle
// connections... Pool discipline: FIFO checkout; on release, keep if under
// capacity, otherwise close." Retries live in the factory, not the pool
// (spec.md §9), so Pool itself never retries — see retryConnect for that.
// Admission is a buffered-channel semaphore sized to cfg.MaxOpen: Acquire
// blocks once that many connections are checked out, exactly as spec.md
// §5's "ConnectionPool holding up to maxConnections" requires.
type Pool struct {
	factory func(context.Context) (Connection, error)
	cfg     PoolConfig
	sem     chan struct{}

	mu   sync.Mutex
	idle []Connection
}

// NewPool builds a Pool that lazily opens connections via factory, up to
// cfg.MaxOpen concurrently, keeping at most cfg.MaxIdle idle on release.
func NewPool(factory func(context.Context) (Connection, error), cfg PoolConfig) *Pool {
	maxOpen := cfg.MaxOpen
	if maxOpen <= 0 {
		maxOpen = 1
	}
	return &Pool{factory: factory, cfg: cfg, sem: make(chan struct{}, maxOpen)}
}

// Acquire returns an idle connection if one is available, otherwise opens a
// new one — blocking until a slot under MaxOpen frees up or ctx is done.
func (p *Pool) Acquire(ctx context.Context) (Connection, error) {
	select {
	case p.sem <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		c := p.idle[0]
		p.idle = p.idle[1:]
		p.mu.Unlock()
		return c, nil
	}
	p.mu.Unlock()

	c, err := p.factory(ctx)
	if err != nil {
		<-p.sem
		return nil, err
	}
	return c, nil
}

// Release returns c to the idle list if under MaxIdle capacity, otherwise
// closes it, then frees its admission slot.
func (p *Pool) Release(c Connection) {
	p.mu.Lock()
	if len(p.idle) < p.cfg.MaxIdle {
		p.idle = append(p.idle, c)
		p.mu.Unlock()
		<-p.sem
		return
	}
	p.mu.Unlock()
	_ = c.Close()
	<-p.sem
}

// Close closes every idle connection. In-flight connections acquired but
// not yet released are the caller's responsibility.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	var firstErr error
	for _, c := range p.idle {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	p.idle = nil
	return firstErr
}

// driverRegistration pairs a Dialect with the factory that builds its
// ConnectionProvider.
type driverRegistration struct {
	dialect Dialect
	factory ConnectionProviderFactory
}

// registryMu guards registry. It is written at process startup via
// RegisterDriver and read per chain thereafter — effectively read-only
// after init, per spec.md §5(a) and §9's "Global mutable state" note.
var (
	registryMu sync.RWMutex
	registry   = map[string]driverRegistration{}
)

// RegisterDriver registers a dialect and ConnectionProviderFactory under a
// "software" selector (e.g. "mysql", "postgres"), per spec.md §5(a)'s
// "process-wide provider registry."
func RegisterDriver(software string, dialect Dialect, factory ConnectionProviderFactory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[software] = driverRegistration{dialect: dialect, factory: factory}
}

// LookupDriver returns the Dialect and ConnectionProviderFactory registered
// for software, if any.
func LookupDriver(software string) (Dialect, ConnectionProviderFactory, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[software]
	if !ok {
		return nil, nil, false
	}
	return reg.dialect, reg.factory, true
}
