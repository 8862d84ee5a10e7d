package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/sevasetu/dhaja/internal/db"
	"github.com/sevasetu/dhaja/internal/http/api"
	authapi "github.com/sevasetu/dhaja/internal/http/api/admin/auth/endpoints"
	adminapi "github.com/sevasetu/dhaja/internal/http/api/admin/control/endpoints"
	"github.com/sevasetu/dhaja/internal/runner"
	"github.com/sevasetu/dhaja/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(r *gin.Engine, env Environment, store db.Store, files storage.Storage, runExecutor *runner.Runner) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Disposition",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
		Auth:   false,
	},
		authapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		// control modules
		adminapi.BookingModule(store, files),
		adminapi.AllotmentModule(store, files),
		adminapi.RunModule(store, runExecutor, files),
		// session endpoints that require auth
		authapi.AuthSessionModule(env.SecretKey, store),
	)
}
