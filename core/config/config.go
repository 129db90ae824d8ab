package config

import (
	_ "embed"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/anmitsu/go-shlex"
	"github.com/go-playground/validator/v10"
	"sigs.k8s.io/yaml"
)

var (
	//go:embed default/config.yaml
	defaultConfigData []byte
)

const (
	ConfigurationName = "config.yaml"
)

type Configuration struct {
	// FollowIntervalMs is the delay between polls of a followed file.
	FollowIntervalMs int `json:"follow_interval_ms" validate:"gte=1"`
	// UniqCountWidth is the minimum width of the uniq -c count column.
	UniqCountWidth int `json:"uniq_count_width" validate:"gte=1,lte=20"`
	// LogLevel sets the diagnostic log verbosity.
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error"`

	// ToolArgs holds default arguments for each tool, keyed by tool name.
	ToolArgs map[string]string `json:"tool_args"`

	Shell Shell `json:"shell"`
}

type Shell struct {
	Prompt      string `json:"prompt" validate:"required"`
	HistoryFile string `json:"history_file"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	if err := validate.Struct(c); err != nil {
		return err
	}

	for tool, args := range c.ToolArgs {
		if _, err := shlex.Split(args, true); err != nil {
			return fmt.Errorf("tool_args: %s: %v", tool, err)
		}
	}

	return nil
}

// ValidateToolNames checks that every tool_args key is one of the known tools.
func (c *Configuration) ValidateToolNames(isKnown func(string) bool) error {
	var unknown []string
	for tool := range c.ToolArgs {
		if !isKnown(tool) {
			unknown = append(unknown, tool)
		}
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("tool_args: unknown tools: %s", strings.Join(unknown, ", "))
	}
	return nil
}

// FollowInterval returns the follow poll interval as a duration.
func (c *Configuration) FollowInterval() time.Duration {
	return time.Duration(c.FollowIntervalMs) * time.Millisecond
}

// DefaultArgs returns the configured default arguments for a tool, split
// using shell quoting rules.
func (c *Configuration) DefaultArgs(tool string) ([]string, error) {
	raw, ok := c.ToolArgs[tool]
	if !ok || strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	return shlex.Split(raw, true)
}

// Default returns a copy of the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigData, &out); err != nil {
		panic(err)
	}
	return &out
}
