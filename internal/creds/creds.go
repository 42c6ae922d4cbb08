// Package creds supplies push/pull credentials for the Repository Handle.
// Derivation from a coordination-service token is an external collaborator
// per spec; this package only defines the interface and the static,
// operator-supplied implementation.
package creds

import "context"

// Credentials is a push/pull username/password pair.
type Credentials struct {
	Username string
	Password string
}

// Source yields the currently valid credentials. Implementations may
// rotate the returned value between calls; a fresh call is made for
// every serializer operation, so rotation is automatic.
type Source interface {
	Credentials(ctx context.Context) (Credentials, error)
}

// Static returns the same credentials on every call. Used in "external"
// credential mode, selected when both gitRemoteUser and gitRemotePassword
// are configured.
type Static struct {
	creds Credentials
}

// NewStatic returns a Source that always yields username/password.
func NewStatic(username, password string) *Static {
	return &Static{creds: Credentials{Username: username, Password: password}}
}

// Credentials implements Source.
func (s *Static) Credentials(ctx context.Context) (Credentials, error) {
	return s.creds, nil
}

// None is a Source for anonymous/unauthenticated remotes.
type None struct{}

// Credentials implements Source, returning the zero value.
func (None) Credentials(ctx context.Context) (Credentials, error) {
	return Credentials{}, nil
}
