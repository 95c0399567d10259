package phonelog

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// Resolver looks up names and addresses. It is implemented by [net.Resolver].
type Resolver interface {
	LookupAddr(ctx context.Context, addr string) ([]string, error)
	LookupHost(ctx context.Context, host string) ([]string, error)
}

// ResolveError is returned when an address cannot be resolved to a hostname.
type ResolveError struct {
	Addr string
	Err  error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Addr, e.Err)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// ResolveHost returns the canonical hostname of addr, which may be an IP
// literal or a hostname. Hostnames are resolved forward first, then the first
// address is resolved back to its name. If r is nil, [net.DefaultResolver] is
// used.
func ResolveHost(ctx context.Context, r Resolver, addr string) (string, error) {
	if r == nil {
		r = net.DefaultResolver
	}
	if addr == "" {
		return "", &ResolveError{Addr: addr, Err: errors.New("no address specified")}
	}

	ip := strings.Trim(addr, "[]")
	if net.ParseIP(ip) == nil {
		addrs, err := r.LookupHost(ctx, addr)
		if err != nil {
			return "", &ResolveError{Addr: addr, Err: err}
		}
		if len(addrs) == 0 {
			return "", &ResolveError{Addr: addr, Err: errors.New("no addresses found")}
		}
		ip = addrs[0]
	}

	names, err := r.LookupAddr(ctx, ip)
	if err != nil {
		return "", &ResolveError{Addr: addr, Err: err}
	}
	for _, name := range names {
		if name = strings.TrimSuffix(name, "."); name != "" {
			return name, nil
		}
	}
	return "", &ResolveError{Addr: addr, Err: fmt.Errorf("no names found for %s", ip)}
}
