// Package config loads and validates the collection configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/sosodev/duration"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the name of the configuration file in the
	// collection root.
	ConfigFileName = ".repo-manage.yml"

	// CurrentVersion is the current configuration format version.
	CurrentVersion = "1.0"

	// DefaultEventsWindow is how far back the events command looks when
	// neither a flag nor the configuration says otherwise.
	DefaultEventsWindow = "P7D"
)

// Config is the collection configuration stored in .repo-manage.yml at
// the collection root.
type Config struct {
	Version      string       `yaml:"version"`
	Org          string       `yaml:"org,omitempty"`
	Events       Events       `yaml:"events,omitempty"`
	PullRequests PullRequests `yaml:"pull_requests,omitempty"`
	Hooks        Hooks        `yaml:"hooks,omitempty"`
}

// Events configures the events command.
type Events struct {
	// NewerThan is an ISO 8601 duration such as "P7D". Events older
	// than this are not shown.
	NewerThan string `yaml:"newer_than,omitempty"`
}

// PullRequests configures the list-prs command.
type PullRequests struct {
	// ExcludeAuthors holds regular expressions. Pull requests whose
	// author matches one of them are hidden unless the command line
	// supplies its own exclusions.
	ExcludeAuthors []string `yaml:"exclude_authors,omitempty"`
}

// Hooks groups hook definitions by trigger.
type Hooks struct {
	PostClone []Hook `yaml:"post_clone,omitempty"`
}

// Hook is one post-clone action: copying a file into the fresh checkout
// or running a command inside it.
type Hook struct {
	Type    string            `yaml:"type"`
	From    string            `yaml:"from,omitempty"`
	To      string            `yaml:"to,omitempty"`
	Command string            `yaml:"command,omitempty"`
	Env     map[string]string `yaml:"env,omitempty"`
	WorkDir string            `yaml:"work_dir,omitempty"`
}

// LoadConfig reads the configuration from root. A missing file is not
// an error and yields the defaults.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{Version: CurrentVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration and fills in defaults.
func (c *Config) Validate() error {
	if c.Version == "" {
		c.Version = CurrentVersion
	}
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version %q (expected %q)", c.Version, CurrentVersion)
	}

	if c.Events.NewerThan != "" {
		if _, err := duration.Parse(c.Events.NewerThan); err != nil {
			return fmt.Errorf("events.newer_than: invalid ISO 8601 duration %q: %w", c.Events.NewerThan, err)
		}
	}

	for _, pattern := range c.PullRequests.ExcludeAuthors {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("pull_requests.exclude_authors: invalid pattern %q: %w", pattern, err)
		}
	}

	for i := range c.Hooks.PostClone {
		if err := c.Hooks.PostClone[i].Validate(); err != nil {
			return fmt.Errorf("hooks.post_clone[%d]: %w", i, err)
		}
	}
	return nil
}

// HasPostCloneHooks reports whether any post-clone hooks are configured.
func (c *Config) HasPostCloneHooks() bool {
	return c != nil && len(c.Hooks.PostClone) > 0
}

// Validate checks a single hook definition.
func (h *Hook) Validate() error {
	switch h.Type {
	case "copy":
		if h.From == "" || h.To == "" {
			return fmt.Errorf("copy hook requires both 'from' and 'to' fields")
		}
	case "command":
		if h.Command == "" {
			return fmt.Errorf("command hook requires 'command' field")
		}
	case "":
		return fmt.Errorf("hook type is required ('copy' or 'command')")
	default:
		return fmt.Errorf("unknown hook type: %s", h.Type)
	}
	return nil
}
