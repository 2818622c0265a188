package usecase

import (
	"context"
	"crypto/subtle"
	"errors"

	"github.com/Mayukh-Jain/equipviz/internal/auth/token"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgerror"
)

// Issuer creates access tokens for authenticated users.
type Issuer interface {
	Issue(username string) (string, error)
}

type Dependency struct {
	Issuer Issuer
	Users  map[string]string // username -> password
}

// Usecase validates credentials against the configured user table and hands
// out access tokens. There is no process-global session state: every request
// carries its own token.
type Usecase struct {
	issuer Issuer
	users  map[string]string
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		issuer: dep.Issuer,
		users:  dep.Users,
	}
}

// TokenResult is a successful login.
type TokenResult struct {
	Access string
}

// Login checks the credentials and issues an access token.
func (u *Usecase) Login(ctx context.Context, username, password string) (TokenResult, error) {
	if username == "" || password == "" {
		return TokenResult{}, pkgerror.NewValidation(errors.New("username and password are required"))
	}

	expected, ok := u.users[username]
	match := subtle.ConstantTimeCompare([]byte(expected), []byte(password)) == 1
	if !ok || !match {
		return TokenResult{}, pkgerror.NewBusiness("invalid username or password", pkgerror.CodeUnauthorized)
	}

	access, err := u.issuer.Issue(username)
	if err != nil {
		return TokenResult{}, pkgerror.NewServer(err)
	}

	return TokenResult{Access: access}, nil
}

var _ Issuer = (*token.Issuer)(nil)
