// Package signals dispatches OS signals to registered handlers and wraps a
// program's main function.
package signals

import (
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/tekutils/tek/logging"
)

// Handler is called with the received signal.
type Handler func(os.Signal)

type entry struct {
	id      uint64
	handler Handler
}

// Manager calls the handlers registered for a signal in reverse order of
// registration. After handling, the signal is ignored; an interrupt then
// exits the process unless ExitOnInterrupt is false.
type Manager struct {
	mu              sync.Mutex
	handlers        map[os.Signal][]entry
	nextID          uint64
	ch              chan os.Signal
	done            chan struct{}
	wg              sync.WaitGroup
	exitOnInterrupt bool
	exit            func(int)
	logger          zerolog.Logger
}

// NewManager returns a manager that is not yet listening.
func NewManager() *Manager {
	return &Manager{
		handlers:        make(map[os.Signal][]entry),
		exitOnInterrupt: true,
		exit:            os.Exit,
		logger:          logging.Component("signals"),
	}
}

var (
	instanceOnce sync.Once
	instance     *Manager
)

// Instance returns the process-wide manager.
func Instance() *Manager {
	instanceOnce.Do(func() { instance = NewManager() })
	return instance
}

// SetExitOnInterrupt controls whether an interrupt exits after the handlers ran.
func (m *Manager) SetExitOnInterrupt(exit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.exitOnInterrupt = exit
}

// Interrupt registers h for os.Interrupt.
func (m *Manager) Interrupt(h Handler) (remove func()) {
	return m.Add(os.Interrupt, h)
}

// Add registers h for sig and starts listening for it. The returned func
// removes the handler.
func (m *Manager) Add(sig os.Signal, h Handler) (remove func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ch == nil {
		m.ch = make(chan os.Signal, 1)
		m.done = make(chan struct{})
		m.wg.Add(1)
		go m.loop(m.ch, m.done)
	}
	m.nextID++
	id := m.nextID
	m.handlers[sig] = append(m.handlers[sig], entry{id: id, handler: h})
	signal.Notify(m.ch, sig)

	return func() { m.remove(id) }
}

func (m *Manager) remove(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for sig, entries := range m.handlers {
		m.handlers[sig] = slices.DeleteFunc(entries, func(e entry) bool { return e.id == id })
	}
}

func (m *Manager) loop(ch <-chan os.Signal, done <-chan struct{}) {
	defer m.wg.Done()
	for {
		select {
		case <-done:
			return
		case sig := <-ch:
			m.Handle(sig)
		}
	}
}

// Handle runs the handlers of sig as if it had been received. With exit on
// interrupt enabled, SIGINT is ignored from then on and the process exits
// with 130; otherwise the manager keeps listening.
func (m *Manager) Handle(sig os.Signal) {
	m.logger.Error().Str("signal", sig.String()).Msg("Interrupted by signal")

	m.mu.Lock()
	entries := slices.Clone(m.handlers[sig])
	exit := m.exitOnInterrupt && (sig == os.Interrupt || sig == syscall.SIGINT)
	m.mu.Unlock()

	for i := len(entries) - 1; i >= 0; i-- {
		entries[i].handler(sig)
	}
	if exit {
		signal.Ignore(sig)
		m.exit(130)
	}
}

// Stop stops listening and forgets all handlers.
func (m *Manager) Stop() {
	m.mu.Lock()
	ch, done := m.ch, m.done
	m.ch, m.done = nil, nil
	m.handlers = make(map[os.Signal][]entry)
	m.mu.Unlock()

	if ch == nil {
		return
	}
	signal.Stop(ch)
	close(done)
	m.wg.Wait()
}
