package auth

import "context"

// StaticAuthorizer maps opaque tokens to actors. Used in development and
// tests; production deployments sit behind a gateway that swaps in a real
// credential verifier.
type StaticAuthorizer struct {
	actors map[string]Actor
}

func NewStaticAuthorizer() *StaticAuthorizer {
	return &StaticAuthorizer{actors: make(map[string]Actor)}
}

// Register associates a token with an actor identity.
func (s *StaticAuthorizer) Register(token string, a Actor) {
	s.actors[token] = a
}

func (s *StaticAuthorizer) Authorize(_ context.Context, credential string) (*Actor, error) {
	if credential == "" {
		return nil, ErrUnauthenticated
	}
	a, ok := s.actors[credential]
	if !ok {
		return nil, ErrInvalidCredential
	}
	out := a
	return &out, nil
}
