package auth

import (
	"chat-relay/domain"
	"chat-relay/errors"
)

// IdentityProvider is the single authentication gate of the relay: it turns a
// presented bearer token into a pre-validated identity, or refuses it.
type IdentityProvider struct {
	tokens *TokenManager
}

func NewIdentityProvider(tokens *TokenManager) *IdentityProvider {
	return &IdentityProvider{tokens: tokens}
}

func (p *IdentityProvider) Resolve(credential string) (domain.Identity, error) {
	if credential == "" {
		return domain.Identity{}, errors.ErrAuthFailure
	}
	claims, err := p.tokens.Validate(credential)
	if err != nil {
		return domain.Identity{}, errors.ErrAuthFailure
	}
	return domain.Identity{
		UserID:      claims.UserID,
		DisplayName: claims.DisplayName,
		Email:       claims.Email,
	}, nil
}
