// Package session owns the single automation session of a WebLisp process.
package session

import (
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/itsmostafa/weblisp/internal/driver"
	"github.com/itsmostafa/weblisp/internal/lisp"
)

// State is the lifecycle state of the manager.
type State int

const (
	Stopped State = iota
	Started
)

func (s State) String() string {
	if s == Started {
		return "STARTED"
	}
	return "STOPPED"
}

// Manager starts and stops the automation session. The handle is non-nil
// exactly while the state is Started.
type Manager struct {
	factory driver.Factory
	opts    driver.Options
	logger  *slog.Logger

	handle driver.Session
	id     string
}

// NewManager returns a stopped manager that opens sessions with factory.
func NewManager(factory driver.Factory, opts driver.Options, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Manager{factory: factory, opts: opts, logger: logger}
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	if m.handle != nil {
		return Started
	}
	return Stopped
}

// Started reports whether a session is live.
func (m *Manager) Started() bool { return m.handle != nil }

// Session returns the live handle, or nil when stopped.
func (m *Manager) Session() driver.Session { return m.handle }

// ID returns the identifier of the live session, or "" when stopped.
func (m *Manager) ID() string { return m.id }

// Start opens a session. It returns false without doing anything when a
// session is already live. A factory failure leaves the manager stopped and
// is returned as a LifecycleError.
func (m *Manager) Start() (bool, error) {
	if m.handle != nil {
		return false, nil
	}
	h, err := m.factory(m.opts)
	if err != nil {
		return false, lisp.Wrap(lisp.LifecycleError, "failed to start session", err)
	}
	if h == nil {
		return false, lisp.Errorf(lisp.LifecycleError, "failed to start session: factory returned no session")
	}
	m.handle = h
	m.id = uuid.New().String()
	m.logger.Info("session started",
		slog.String("session", m.id),
		slog.Duration("implicit_wait", m.opts.ImplicitWait),
		slog.Duration("script_timeout", m.opts.ScriptTimeout))
	return true, nil
}

// Stop terminates the live session. It returns false without doing anything
// when no session is live. The handle is released even if terminating it
// fails; that failure is returned as a LifecycleError alongside true.
func (m *Manager) Stop() (bool, error) {
	if m.handle == nil {
		return false, nil
	}
	h, id := m.handle, m.id
	m.handle, m.id = nil, ""

	if err := h.Quit(); err != nil {
		m.logger.Warn("session quit failed", slog.String("session", id), slog.Any("error", err))
		return true, lisp.Wrap(lisp.LifecycleError, fmt.Sprintf("session %s stopped uncleanly", id), err)
	}
	m.logger.Info("session stopped", slog.String("session", id))
	return true, nil
}
