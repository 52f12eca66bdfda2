package builtin

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "builtin")

// ErrToolNotFound is returned when calling a tool that is not registered.
var ErrToolNotFound = errors.New("tool not found")

// Registry serves registered tools in-process.
type Registry struct {
	lock  sync.RWMutex
	tools *orderedmap.OrderedMap[string, tools.ITool]
}

// ensure Registry implements the tools.BuiltinExecutor interface
var _ tools.BuiltinExecutor = (*Registry)(nil)

// NewRegistry returns a registry with the tools.
func NewRegistry(list ...tools.ITool) (*Registry, error) {
	r := &Registry{
		tools: orderedmap.New[string, tools.ITool](),
	}
	if err := r.Register(list...); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds the tools. Names must be unique.
func (r *Registry) Register(list ...tools.ITool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, t := range list {
		if t == nil {
			continue
		}
		if _, ok := r.tools.Get(t.Name()); ok {
			return errors.Errorf("tool %s is already registered", t.Name())
		}
		r.tools.Set(t.Name(), t)
		logger.KV(xlog.DEBUG, "status", "registered", "tool", t.Name())
	}
	return nil
}

// Deregister removes the tool, and returns false if it was not registered.
func (r *Registry) Deregister(name string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	_, present := r.tools.Delete(name)
	return present
}

// Get returns the tool by name.
func (r *Registry) Get(name string) (tools.ITool, bool) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.tools.Get(name)
}

// ListTools returns the registered tools in registration order.
func (r *Registry) ListTools(_ context.Context) []tools.ToolInfo {
	r.lock.RLock()
	list := make([]tools.ITool, 0, r.tools.Len())
	for pair := r.tools.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value)
	}
	r.lock.RUnlock()

	return tools.GetInfos(list...)
}

// CallTool calls the tool by name.
func (r *Registry) CallTool(ctx context.Context, name string, parameters map[string]any) (any, error) {
	t, ok := r.Get(name)
	if !ok {
		return nil, errors.Wrapf(ErrToolNotFound, "builtin tool %q", name)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}
	return t.Call(ctx, parameters)
}
