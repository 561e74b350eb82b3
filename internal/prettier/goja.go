package prettier

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/dop251/goja"
)

// GojaName is the backend name reported in goja FormatErrors.
const GojaName = "prettier (embedded)"

// entrypoint adapts the standalone bundle API to a single call.
// prettier 3 returns a promise; the job queue drains when the call returns.
const entrypoint = `
function __brufmtFormat(text, opts) {
  var plugins = [];
  var registry = globalThis.prettierPlugins || {};
  for (var name in registry) {
    plugins.push(registry[name]);
  }
  var options = Object.assign({}, opts, {plugins: plugins});
  return globalThis.prettier.format(text, options);
}
`

// Goja runs the prettier standalone bundle inside an embedded JavaScript
// runtime. The runtime is not goroutine-safe, calls are serialized.
type Goja struct {
	mu     sync.Mutex
	vm     *goja.Runtime
	format goja.Callable
}

// NewGoja loads the given scripts (prettier's standalone.js followed by the
// plugin bundles) into a fresh runtime.
func NewGoja(scripts []string) (*Goja, error) {
	if len(scripts) == 0 {
		return nil, fmt.Errorf("goja backend: no prettier bundle configured: %w", ErrNoBackend)
	}
	vm := goja.New()

	// The bundles reach for console in a few warning paths.
	noop := func(goja.FunctionCall) goja.Value { return goja.Undefined() }
	console := vm.NewObject()
	for _, name := range []string{"log", "warn", "error", "debug"} {
		if err := console.Set(name, noop); err != nil {
			return nil, err
		}
	}
	if err := vm.Set("console", console); err != nil {
		return nil, err
	}

	for _, path := range scripts {
		// #nosec G304 -- bundle paths come from configuration
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("goja backend: %w", err)
		}
		if _, err := vm.RunScript(path, string(src)); err != nil {
			return nil, fmt.Errorf("goja backend: failed to load %s: %w", path, err)
		}
	}
	if _, err := vm.RunString(entrypoint); err != nil {
		return nil, fmt.Errorf("goja backend: %w", err)
	}
	callable, ok := goja.AssertFunction(vm.Get("__brufmtFormat"))
	if !ok {
		return nil, fmt.Errorf("goja backend: entrypoint is not a function")
	}
	if prettier := vm.Get("prettier"); prettier == nil || goja.IsUndefined(prettier) {
		return nil, fmt.Errorf("goja backend: bundle did not define globalThis.prettier")
	}
	return &Goja{vm: vm, format: callable}, nil
}

// Format implements Formatter.
func (g *Goja) Format(ctx context.Context, text string, p Parser, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	jsOpts := opts.Clone()
	jsOpts["parser"] = string(p)

	res, err := g.format(goja.Undefined(), g.vm.ToValue(text), g.vm.ToValue(map[string]any(jsOpts)))
	if err != nil {
		return "", &FormatError{Backend: GojaName, Parser: p, Message: jsErrorMessage(err), Err: err}
	}

	promise, ok := res.Export().(*goja.Promise)
	if !ok {
		return res.String(), nil
	}
	switch promise.State() {
	case goja.PromiseStateFulfilled:
		return promise.Result().String(), nil
	case goja.PromiseStateRejected:
		return "", &FormatError{Backend: GojaName, Parser: p, Message: g.rejection(promise.Result())}
	default:
		return "", &FormatError{Backend: GojaName, Parser: p, Message: "prettier did not settle"}
	}
}

func (g *Goja) rejection(v goja.Value) string {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return "rejected without a reason"
	}
	if obj, ok := v.(*goja.Object); ok {
		if msg := obj.Get("message"); msg != nil && !goja.IsUndefined(msg) {
			return msg.String()
		}
	}
	return v.String()
}

func jsErrorMessage(err error) string {
	if ex, ok := err.(*goja.Exception); ok {
		return ex.Value().String()
	}
	return err.Error()
}
