package device

import (
	"context"
	"errors"
	"testing"
	"time"

	"admin-console/desktop/internal/device/domain"
)

func TestResolve_Success(t *testing.T) {
	p := ProviderFunc(func(context.Context) (domain.Identity, error) {
		return domain.Identity{IP: "10.0.0.5", MAC: "aa:bb:cc:dd:ee:ff", InterfaceName: "eth0"}, nil
	})
	id := Resolve(context.Background(), p)
	if id.IP != "10.0.0.5" {
		t.Errorf("IP = %q, want 10.0.0.5", id.IP)
	}
	if id.MAC != "AA:BB:CC:DD:EE:FF" {
		t.Errorf("MAC = %q, want upper-cased", id.MAC)
	}
	if id.InterfaceName != "eth0" {
		t.Errorf("InterfaceName = %q, want eth0", id.InterfaceName)
	}
}

func TestResolve_FailuresYieldUnknown(t *testing.T) {
	cases := map[string]Provider{
		"nil provider": nil,
		"unavailable":  Unavailable{},
		"error": ProviderFunc(func(context.Context) (domain.Identity, error) {
			return domain.Identity{}, errors.New("bridge rejected")
		}),
		"panic": ProviderFunc(func(context.Context) (domain.Identity, error) {
			panic("bridge missing")
		}),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			id := Resolve(context.Background(), p)
			if id.IP != domain.Unknown || id.MAC != domain.Unknown {
				t.Errorf("identity = %+v, want unknown sentinel", id)
			}
		})
	}
}

func TestResolve_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := ProviderFunc(func(ctx context.Context) (domain.Identity, error) {
		<-ctx.Done()
		return domain.Identity{}, ctx.Err()
	})
	start := time.Now()
	id := Resolve(ctx, p)
	if id.IP != domain.Unknown {
		t.Errorf("IP = %q, want unknown", id.IP)
	}
	if time.Since(start) > time.Second {
		t.Error("Resolve should return promptly for a cancelled context")
	}
}

func TestResolve_EmptyFieldsNormalized(t *testing.T) {
	p := ProviderFunc(func(context.Context) (domain.Identity, error) {
		return domain.Identity{IP: " ", MAC: ""}, nil
	})
	id := Resolve(context.Background(), p)
	if id.IP != domain.Unknown || id.MAC != domain.Unknown {
		t.Errorf("identity = %+v, want unknown fields", id)
	}
}
