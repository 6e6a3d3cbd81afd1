package auth

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/viant/mcp-protocol/authorization"
)

// DefaultNamespace is used when the caller carries no usable token.
const DefaultNamespace = "default"

// Service derives the caller namespace from the JWT that the MCP authorization
// middleware places in the request context. Tokens are parsed without
// verification; the middleware has already validated them.
type Service struct {
	// DefaultNamespace is returned when no token is present or no claim matches.
	DefaultNamespace string
	// Claims lists claim names tried in order.
	Claims []string
	parser *jwt.Parser
}

// Namespace returns the namespace of the caller in ctx.
func (s *Service) Namespace(ctx context.Context) (string, error) {
	if s == nil {
		return DefaultNamespace, nil
	}
	value := ctx.Value(authorization.TokenKey)
	if value == nil {
		return s.DefaultNamespace, nil
	}
	token, err := tokenString(value)
	if err != nil {
		return "", err
	}
	if ns, ok := s.claimNamespace(token); ok {
		return ns, nil
	}
	return s.DefaultNamespace, nil
}

func (s *Service) claimNamespace(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	claims := jwt.MapClaims{}
	if _, _, err := s.parser.ParseUnverified(token, claims); err != nil {
		return "", false
	}
	for _, name := range s.Claims {
		if v, _ := claims[name].(string); strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}
	return "", false
}

func tokenString(value interface{}) (string, error) {
	switch actual := value.(type) {
	case string:
		return actual, nil
	case *authorization.Token:
		if actual == nil {
			return "", nil
		}
		return actual.Token, nil
	}
	return "", fmt.Errorf("unsupported token type %T", value)
}

// New returns a Service that tries the "email", "preferred_username" and "sub" claims.
func New() *Service {
	return &Service{
		DefaultNamespace: DefaultNamespace,
		Claims:           []string{"email", "preferred_username", "sub"},
		parser:           jwt.NewParser(),
	}
}
