package application

import (
	"errors"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// CommandPolicy is the operator's allow-list of player-facing commands.
// Reload replaces the whole set at once; a failed reload keeps the
// previous set intact.
type CommandPolicy struct {
	path    string
	mu      sync.RWMutex
	allowed map[string]struct{}
}

type policyFile struct {
	Enabled []string `yaml:"enabled"`
}

func NewCommandPolicy(path string) *CommandPolicy {
	return &CommandPolicy{
		path:    path,
		allowed: make(map[string]struct{}),
	}
}

func (p *CommandPolicy) Reload() error {
	data, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			// No file means nothing is enabled.
			p.replace(nil)
			return nil
		}
		return err
	}

	var f policyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return err
	}
	p.replace(f.Enabled)
	return nil
}

func (p *CommandPolicy) replace(names []string) {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			set[name] = struct{}{}
		}
	}
	p.mu.Lock()
	p.allowed = set
	p.mu.Unlock()
}

func (p *CommandPolicy) IsAllowed(name string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	_, ok := p.allowed[strings.ToLower(name)]
	return ok
}
