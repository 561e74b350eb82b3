package prettier

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Backend selects how blocks are formatted.
type Backend string

const (
	BackendAuto   Backend = "auto"
	BackendNative Backend = "native"
	BackendExec   Backend = "exec"
	BackendGoja   Backend = "goja"
)

// ParseBackend converts a flag or config value to a Backend.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendAuto:
		return BackendAuto, nil
	case BackendNative:
		return BackendNative, nil
	case BackendExec:
		return BackendExec, nil
	case BackendGoja:
		return BackendGoja, nil
	default:
		return "", fmt.Errorf("invalid formatter backend %q (expected auto|native|exec|goja)", s)
	}
}

// Settings describes how to assemble a Router.
type Settings struct {
	Backend Backend
	Command []string
	Bundle  []string
	Timeout time.Duration
}

// Router dispatches each parser to its backend.
type Router struct {
	routes   map[Parser]Formatter
	fallback Formatter
}

// NewRouter returns a router with explicit routes. Parsers without a route go
// to fallback; a nil fallback reports ErrNoBackend.
func NewRouter(routes map[Parser]Formatter, fallback Formatter) *Router {
	r := &Router{routes: make(map[Parser]Formatter, len(routes)), fallback: fallback}
	for p, f := range routes {
		r.routes[p] = f
	}
	return r
}

// Build assembles the router described by s.
//
// auto keeps JSON and GraphQL in-process and sends JavaScript to the goja
// runtime when a bundle is configured, otherwise to the prettier command
// when it is on PATH.
func Build(s Settings) (*Router, error) {
	native := NewNative()
	switch s.Backend {
	case BackendNative:
		return NewRouter(nativeRoutes(native), nil), nil
	case BackendExec:
		return NewRouter(nil, NewExec(s.Command, s.Timeout)), nil
	case BackendGoja:
		g, err := NewGoja(s.Bundle)
		if err != nil {
			return nil, err
		}
		return NewRouter(nil, g), nil
	case BackendAuto, "":
		routes := nativeRoutes(native)
		if len(s.Bundle) > 0 {
			g, err := NewGoja(s.Bundle)
			if err != nil {
				return nil, err
			}
			return NewRouter(routes, g), nil
		}
		if e := NewExec(s.Command, s.Timeout); e.Available() {
			return NewRouter(routes, e), nil
		}
		return NewRouter(routes, nil), nil
	default:
		return nil, fmt.Errorf("invalid formatter backend %q", s.Backend)
	}
}

func nativeRoutes(n *Native) map[Parser]Formatter {
	routes := make(map[Parser]Formatter, len(Parsers))
	for _, p := range Parsers {
		if n.Supports(p) {
			routes[p] = n
		}
	}
	return routes
}

// Format implements Formatter.
func (r *Router) Format(ctx context.Context, text string, p Parser, opts Options) (string, error) {
	if f, ok := r.routes[p]; ok {
		return f.Format(ctx, text, p, opts)
	}
	if r.fallback != nil {
		return r.fallback.Format(ctx, text, p, opts)
	}
	return "", &FormatError{
		Backend: "formatter",
		Parser:  p,
		Message: fmt.Sprintf("no backend can format %s (install prettier or configure formatter.bundle)", p),
		Err:     ErrNoBackend,
	}
}
