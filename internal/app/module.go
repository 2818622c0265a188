package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/Mayukh-Jain/equipviz/internal/auth"
	"github.com/Mayukh-Jain/equipviz/internal/dataset"
	"github.com/Mayukh-Jain/equipviz/internal/pkg/pkgrouter"
)

func (a *App) initModules() {
	var authMW pkgrouter.Middleware

	if a.config.GetBool("modules.auth.enabled") {
		mw, err := auth.New(auth.Dependency{
			Config: a.config,
			Router: a.router,
		})
		if err != nil {
			slog.Error("failed to init module auth", "error", err)
			os.Exit(1)
		}
		authMW = mw
	}

	if a.config.GetBool("modules.dataset.enabled") {
		closer, err := dataset.New(dataset.Dependency{
			Config:    a.config,
			Router:    a.router,
			Goroutine: a.goroutine,
			Context:   a.ctx,
			ID:        a.uuid,
			AuthMW:    authMW,
		})
		if err != nil {
			slog.Error("failed to init module dataset", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Dataset"] = closer
		}
	}
}
