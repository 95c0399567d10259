package phonelog

import (
	"context"
	"errors"
	"net"
	"testing"
)

type testResolver struct {
	hosts map[string][]string
	addrs map[string][]string
}

func (r *testResolver) LookupHost(ctx context.Context, host string) ([]string, error) {
	if a, ok := r.hosts[host]; ok {
		return a, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: host, IsNotFound: true}
}

func (r *testResolver) LookupAddr(ctx context.Context, addr string) ([]string, error) {
	if a, ok := r.addrs[addr]; ok {
		return a, nil
	}
	return nil, &net.DNSError{Err: "no such host", Name: addr, IsNotFound: true}
}

func newTestResolver() *testResolver {
	return &testResolver{
		hosts: map[string][]string{
			"phone":         {"192.0.2.10"},
			"phone.lan":     {"192.0.2.10", "192.0.2.11"},
			"unnamed.lan":   {"192.0.2.99"},
			"sep0011.local": {"2001:db8::10"},
		},
		addrs: map[string][]string{
			"192.0.2.10":   {"sep001122334455.example.net."},
			"192.0.2.20":   {"", "sep2.example.net"},
			"2001:db8::10": {"sep6.example.net."},
		},
	}
}

func TestResolveHost(t *testing.T) {
	for _, tc := range []struct {
		addr string
		host string
	}{
		{"192.0.2.10", "sep001122334455.example.net"},
		{"192.0.2.20", "sep2.example.net"},
		{"phone", "sep001122334455.example.net"},
		{"phone.lan", "sep001122334455.example.net"},
		{"2001:db8::10", "sep6.example.net"},
		{"[2001:db8::10]", "sep6.example.net"},
		{"sep0011.local", "sep6.example.net"},
	} {
		host, err := ResolveHost(context.Background(), newTestResolver(), tc.addr)
		if err != nil {
			t.Errorf("%q: unexpected error: %v", tc.addr, err)
		} else if host != tc.host {
			t.Errorf("%q: expected %q, got %q", tc.addr, tc.host, host)
		}
	}
}

func TestResolveHostError(t *testing.T) {
	for _, addr := range []string{
		"",
		"192.0.2.1",
		"missing.lan",
		"unnamed.lan",
	} {
		_, err := ResolveHost(context.Background(), newTestResolver(), addr)
		if err == nil {
			t.Errorf("%q: expected error", addr)
			continue
		}
		var rerr *ResolveError
		if !errors.As(err, &rerr) {
			t.Errorf("%q: expected ResolveError, got %T", addr, err)
		} else if rerr.Addr != addr {
			t.Errorf("%q: incorrect address in error: %q", addr, rerr.Addr)
		}
	}
	t.Run("Unwrap", func(t *testing.T) {
		_, err := ResolveHost(context.Background(), newTestResolver(), "missing.lan")
		var dnsErr *net.DNSError
		if !errors.As(err, &dnsErr) || !dnsErr.IsNotFound {
			t.Errorf("expected wrapped not found dns error, got %v", err)
		}
	})
}
