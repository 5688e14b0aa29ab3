package service

import (
	"context"
	"errors"
	"testing"
)

func TestServiceFunc_Call(t *testing.T) {
	var svc Service[int, string] = ServiceFunc[int, string](func(_ context.Context, req int) (string, error) {
		if req < 0 {
			return "", errors.New("negative")
		}
		return "ok", nil
	})

	got, err := svc.Call(context.Background(), 1)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "ok" {
		t.Fatalf("Call() = %q, want ok", got)
	}

	if _, err := svc.Call(context.Background(), -1); err == nil {
		t.Fatal("Call() error = nil, want error for negative input")
	}
}

func TestFactoryFunc_NewService(t *testing.T) {
	var factory Factory[string, int, int] = FactoryFunc[string, int, int](func(cfg string) (Service[int, int], error) {
		if cfg == "" {
			return nil, errors.New("empty config")
		}
		return ServiceFunc[int, int](func(_ context.Context, req int) (int, error) {
			return req * 2, nil
		}), nil
	})

	svc, err := factory.NewService("doubler")
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	got, err := svc.Call(context.Background(), 21)
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != 42 {
		t.Fatalf("Call() = %d, want 42", got)
	}

	if _, err := factory.NewService(""); err == nil {
		t.Fatal("NewService(\"\") error = nil, want error")
	}
}

type stubProvider struct {
	svc Service[int, int]
	err error
}

func (s stubProvider) ToServiceProvider() (Service[int, int], error) { return s.svc, s.err }

func TestToServiceProvider_Interface(t *testing.T) {
	var p ToServiceProvider[int, int] = stubProvider{
		svc: ServiceFunc[int, int](func(_ context.Context, req int) (int, error) { return req, nil }),
	}
	svc, err := p.ToServiceProvider()
	if err != nil {
		t.Fatalf("ToServiceProvider() error = %v", err)
	}
	got, err := svc.Call(context.Background(), 7)
	if err != nil || got != 7 {
		t.Fatalf("Call() = (%d, %v), want (7, nil)", got, err)
	}
}
