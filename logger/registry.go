package logger

import (
	"sync"
)

// Component names used across streamkit. Each one gets its own logger so
// a deployment can tell runner, server and CLI output apart.
const (
	ComponentFlow   = "flow"
	ComponentServer = "server"
	ComponentCLI    = "cli"
)

var components = struct {
	sync.RWMutex
	byName map[string]*Logger
}{byName: make(map[string]*Logger)}

// Register stores l as the logger for component name, replacing any
// earlier one.
func Register(name string, l *Logger) {
	components.Lock()
	components.byName[name] = l
	components.Unlock()
}

// Get returns the logger registered for name. Unknown names fall back to
// the global logger tagged with the component, so callers never see nil.
func Get(name string) *Logger {
	components.RLock()
	l, ok := components.byName[name]
	components.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults derives a component logger from the global logger for
// each name, or for the streamkit components when none are given. Call it
// after Init so the loggers carry the configured level and format.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = []string{ComponentFlow, ComponentServer, ComponentCLI}
	}
	global := GetGlobalLogger()
	for _, name := range names {
		Register(name, global.WithComponent(name))
	}
}
