package hub

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/effective-security/toolpilot/tools"
	"github.com/effective-security/xlog"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

var logger = xlog.NewPackageLogger("github.com/effective-security/toolpilot", "hub")

var (
	// ErrServerNotFound is returned for servers that are not registered.
	ErrServerNotFound = errors.New("server not found")
	// ErrNotConnected is returned when calling a disconnected server.
	ErrNotConnected = errors.New("connection is not established")
)

type server struct {
	info  tools.ServerInfo
	tools map[string]tools.ITool
}

// Hub routes calls to tools of registered servers.
type Hub struct {
	lock    sync.RWMutex
	servers *orderedmap.OrderedMap[string, *server]
}

// ensure Hub implements the tools.ExternalHub interface
var _ tools.ExternalHub = (*Hub)(nil)

// New returns an empty Hub.
func New() *Hub {
	return &Hub{
		servers: orderedmap.New[string, *server](),
	}
}

// AddServer registers a disconnected server.
func (h *Hub) AddServer(id, name string) error {
	if id == "" {
		return errors.New("invalid server: id is required")
	}

	h.lock.Lock()
	defer h.lock.Unlock()

	if _, ok := h.servers.Get(id); ok {
		return errors.Errorf("server %s is already registered", id)
	}
	h.servers.Set(id, &server{
		info:  tools.ServerInfo{ID: id, Name: name},
		tools: map[string]tools.ITool{},
	})
	logger.KV(xlog.DEBUG, "status", "server_added", "server", id)
	return nil
}

// RemoveServer removes the server, and returns false if it was not registered.
func (h *Hub) RemoveServer(id string) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	_, present := h.servers.Delete(id)
	return present
}

// RegisterTool adds the tools to the server.
func (h *Hub) RegisterTool(serverID string, list ...tools.ITool) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.servers.Get(serverID)
	if !ok {
		return errors.Wrapf(ErrServerNotFound, "server %q", serverID)
	}
	for _, t := range list {
		if t == nil {
			continue
		}
		if _, ok := s.tools[t.Name()]; ok {
			return errors.Errorf("tool %s is already registered on server %s", t.Name(), serverID)
		}
		s.tools[t.Name()] = t
	}
	return nil
}

// DeregisterTool removes the tool from the server.
func (h *Hub) DeregisterTool(serverID, name string) bool {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.servers.Get(serverID)
	if !ok {
		return false
	}
	_, ok = s.tools[name]
	delete(s.tools, name)
	return ok
}

// Connect marks the server as connected.
func (h *Hub) Connect(id string) error {
	return h.setConnected(id, true)
}

// Disconnect marks the server as disconnected.
func (h *Hub) Disconnect(id string) error {
	return h.setConnected(id, false)
}

func (h *Hub) setConnected(id string, connected bool) error {
	h.lock.Lock()
	defer h.lock.Unlock()

	s, ok := h.servers.Get(id)
	if !ok {
		return errors.Wrapf(ErrServerNotFound, "server %q", id)
	}
	if s.info.IsConnected != connected {
		s.info.IsConnected = connected
		logger.KV(xlog.DEBUG, "status", "connection_changed", "server", id, "connected", connected)
	}
	return nil
}

// GetServer returns a copy of the server info, or nil if it is not registered.
func (h *Hub) GetServer(id string) *tools.ServerInfo {
	h.lock.RLock()
	defer h.lock.RUnlock()

	s, ok := h.servers.Get(id)
	if !ok {
		return nil
	}
	info := s.info
	return &info
}

// Servers returns the registered servers in registration order.
func (h *Hub) Servers() []tools.ServerInfo {
	h.lock.RLock()
	defer h.lock.RUnlock()

	list := make([]tools.ServerInfo, 0, h.servers.Len())
	for pair := h.servers.Oldest(); pair != nil; pair = pair.Next() {
		list = append(list, pair.Value.info)
	}
	return list
}

// CallTool calls the tool on a connected server.
func (h *Hub) CallTool(ctx context.Context, serverID, name string, parameters map[string]any) (any, error) {
	h.lock.RLock()
	s, ok := h.servers.Get(serverID)
	var (
		tool      tools.ITool
		connected bool
	)
	if ok {
		tool = s.tools[name]
		connected = s.info.IsConnected
	}
	h.lock.RUnlock()

	if !ok {
		return nil, errors.Wrapf(ErrServerNotFound, "server %q", serverID)
	}
	if !connected {
		return nil, errors.Wrapf(ErrNotConnected, "server %q", serverID)
	}
	if tool == nil {
		return nil, errors.Errorf("tool %q not found on server %q", name, serverID)
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.WithStack(err)
	}

	res, err := tool.Call(ctx, parameters)
	if err != nil {
		logger.ContextKV(ctx, xlog.DEBUG,
			"status", "call_failed",
			"server", serverID,
			"tool", name,
			"err", err.Error(),
		)
		return nil, err
	}
	return res, nil
}
