package http

import (
	"time"

	"studentloan-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// Routes holds what Mount needs. Redis may be nil, which turns idempotency off.
type Routes struct {
	Health       *Handler
	Users        *UserHandler
	KYC          *KYCHandler
	Applications *ApplicationHandler

	Tokens         middleware.TokenValidator
	Redis          *redis.Client
	IdempotencyTTL time.Duration
}

func (r Routes) Mount(e *echo.Echo) {
	e.GET("/health", r.Health.Health)

	authed := middleware.RequireAuth(r.Tokens)
	mutating := []echo.MiddlewareFunc{authed}
	if r.Redis != nil {
		mutating = append(mutating, middleware.IdempotencyMiddleware(r.Redis, r.IdempotencyTTL))
	}

	g := e.Group("/users")
	g.POST("/login", r.Users.Login)
	g.POST("/register", r.Users.Register, authed)
	g.POST("/add-kyc-student", r.KYC.Submit, authed)

	g.POST("/loan-application", r.Applications.Create, mutating...)
	g.GET("/loan-application", r.Applications.List, authed)
	g.PUT("/loan-application", r.Applications.UpdateStatus, mutating...)
	g.POST("/loan-application/orphans/sweep", r.Applications.SweepOrphans, authed, middleware.RequireAdmin())

	g.GET("/:id", r.Users.Get, authed)
}
