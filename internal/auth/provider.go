package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/agencia-digital/agencia/internal/config"
	"github.com/agencia-digital/agencia/internal/models"
)

// ErrUnknownUser is returned by a Provider that has no metadata for a user
var ErrUnknownUser = errors.New("unknown user")

// Identity is the auth metadata of a user
type Identity struct {
	ID    string
	Email string
	Role  string
}

// Provider reads user metadata from the auth service
type Provider interface {
	Lookup(ctx context.Context, userID string) (Identity, error)
}

// ConfigProvider serves identities listed under auth.users
type ConfigProvider struct {
	mu    sync.RWMutex
	users map[string]Identity
}

// NewConfigProvider indexes the configured users by id. Entries without an
// id are ignored.
func NewConfigProvider(entries []config.UserEntry) *ConfigProvider {
	p := &ConfigProvider{users: make(map[string]Identity, len(entries))}
	for _, e := range entries {
		id := strings.TrimSpace(e.ID)
		if id == "" {
			continue
		}
		p.users[id] = Identity{ID: id, Email: e.Email, Role: e.Role}
	}
	return p
}

// Lookup implements Provider
func (p *ConfigProvider) Lookup(ctx context.Context, userID string) (Identity, error) {
	if err := ctx.Err(); err != nil {
		return Identity{}, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()

	ident, ok := p.users[userID]
	if !ok {
		return Identity{}, ErrUnknownUser
	}
	return ident, nil
}

// Set adds or replaces an identity, as when an admin changes a role
func (p *ConfigProvider) Set(ident Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users[ident.ID] = ident
}

// NormalizeRole maps role metadata to a stored role. The second value is
// false for roles the application does not know.
func NormalizeRole(role string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case models.RoleAdmin, "administrador":
		return models.RoleAdmin, true
	case models.RoleCollaborator, "collaborator":
		return models.RoleCollaborator, true
	}
	return "", false
}
