// Package snapshot provides checkpoint/restore around snippet processing.
//
// The environment and scope stack are mutated in place by elaboration. A
// snippet that should not persist its effects (keep = false) runs between a
// Checkpoint and a Restore; the cleanup is deferred so it runs on every
// exit path, success or failure. The manager never decides disposition
// itself — the caller's keep flag governs it.
package snapshot

import "git.home.luguber.info/inful/snipdoc/internal/lang"

// Handle is a captured copy of the environment and scope stack.
type Handle struct {
	env   *lang.Environment
	scope *lang.Scope
}

// Manager owns the live environment and scope for one document build.
type Manager struct {
	env   *lang.Environment
	scope *lang.Scope
}

func NewManager(env *lang.Environment, scope *lang.Scope) *Manager {
	return &Manager{env: env, scope: scope}
}

// Env returns the live environment.
func (m *Manager) Env() *lang.Environment { return m.env }

// Scope returns the live scope stack.
func (m *Manager) Scope() *lang.Scope { return m.scope }

// Checkpoint captures the current environment and scope by value.
func (m *Manager) Checkpoint() Handle {
	return Handle{env: m.env.Clone(), scope: m.scope.Clone()}
}

// Restore replaces the live state with a prior checkpoint.
func (m *Manager) Restore(h Handle) {
	m.env = h.env
	m.scope = h.scope
}

// Commit leaves the post-snippet state live. It exists to make the
// keep-vs-discard decision explicit at the call site.
func (m *Manager) Commit(Handle) {}

// WithSnippet runs fn against the live state under a guaranteed cleanup:
// when keep is false the pre-snippet state is restored on every exit path,
// including an error return from fn; when keep is true whatever state fn
// left behind stays live, even if fn failed partway.
func (m *Manager) WithSnippet(keep bool, fn func(env *lang.Environment, scope *lang.Scope) error) error {
	h := m.Checkpoint()
	defer func() {
		if keep {
			m.Commit(h)
		} else {
			m.Restore(h)
		}
	}()
	return fn(m.env, m.scope)
}
