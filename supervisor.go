package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/thejerf/suture/v4"
)

// NewSupervisor returns a supervisor logging its lifecycle events.
func NewSupervisor(name string) *suture.Supervisor {
	return suture.New(name, suture.Spec{
		EventHook: supervisorEventHook,
	})
}

func supervisorEventHook(ei suture.Event) {
	switch e := ei.(type) {
	case suture.EventStopTimeout:
		slog.Warn("service failed to terminate in a timely manner", "supervisor", e.SupervisorName, "service", e.ServiceName)
	case suture.EventServicePanic:
		slog.Error("service panic", "supervisor", e.SupervisorName, "service", e.ServiceName, "panic", e.PanicMsg)
		slog.Debug(e.Stacktrace)
	case suture.EventServiceTerminate:
		slog.Error("service failed", "supervisor", e.SupervisorName, "service", e.ServiceName, "error", e.Err)
	case suture.EventBackoff:
		slog.Debug("too many service failures, backing off", "supervisor", e.SupervisorName)
	case suture.EventResume:
		slog.Debug("exiting backoff state", "supervisor", e.SupervisorName)
	default:
		slog.Warn("unknown supervisor event", "type", int(e.Type()))
	}
}

// Service is a suture.Service with a name for the logs.
type Service interface {
	String() string
	suture.Service
}

// AddService adds service to super, keeping plain errors that happen to
// wrap a context error from being taken as a request to stop.
func AddService(super *suture.Supervisor, service Service) suture.ServiceToken {
	return super.Add(sanitizeService{Service: service})
}

type sanitizeService struct {
	Service
}

func (s sanitizeService) Serve(ctx context.Context) error {
	return sanitizeError(ctx, s.Service.Serve(ctx))
}

func sanitizeError(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return errors.New(err.Error())
	}
	return err
}
