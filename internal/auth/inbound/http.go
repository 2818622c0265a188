package inbound

import (
	"context"

	"github.com/Mayukh-Jain/equipviz/internal/auth/usecase"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

type uc interface {
	Login(ctx context.Context, username, password string) (usecase.TokenResult, error)
}

// RegisterHTTPEndpoint mounts the token endpoint.
func RegisterHTTPEndpoint(r *pkgrouter.Router, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	r.POST("/token/", end.Token)
}
