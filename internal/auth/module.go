// Package auth issues access tokens for configured users and provides the
// middleware that guards authenticated endpoints.
package auth

import (
	"time"

	"github.com/Mayukh-Jain/equipviz/internal/auth/inbound"
	"github.com/Mayukh-Jain/equipviz/internal/auth/token"
	"github.com/Mayukh-Jain/equipviz/internal/auth/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgconfig"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

type Dependency struct {
	Config pkgconfig.Config
	Router *pkgrouter.Router
}

// New mounts the token endpoint and returns the middleware protecting
// endpoints that require an authenticated caller.
func New(dep Dependency) (pkgrouter.Middleware, error) {
	issuer := token.NewIssuer(
		[]byte(dep.Config.GetString("auth.secret")),
		time.Duration(dep.Config.GetInt("auth.token_ttl_seconds"))*time.Second,
	)

	uc := usecase.New(usecase.Dependency{
		Issuer: issuer,
		Users:  dep.Config.GetMap("auth.users"),
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return Middleware(issuer), nil
}
