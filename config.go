package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/xgb/xproto"
	"gopkg.in/yaml.v3"
)

// Config is the on-disk configuration. Every field is optional.
type Config struct {
	// Listen is the address of the introspection API.
	Listen string `yaml:"listen"`
	// Monitors, when set, replaces the geometry reported by the X
	// server.
	Monitors []Rect `yaml:"monitors"`
	// Bindings, when set, replaces the built-in key binding table.
	Bindings []BindingConfig `yaml:"bindings"`
}

// BindingConfig is the textual form of a Binding.
type BindingConfig struct {
	Mod    string   `yaml:"mod"`
	Key    string   `yaml:"key"`
	Action string   `yaml:"action"`
	Arg    int      `yaml:"arg"`
	Cmd    []string `yaml:"cmd"`
}

// LoadConfig reads the YAML file at path. A missing file yields an
// empty Config.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}
	defer file.Close()

	dec := yaml.NewDecoder(file)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	for i, r := range cfg.Monitors {
		if r.W <= 0 || r.H <= 0 {
			return Config{}, fmt.Errorf("%s: monitor %d: empty rectangle %dx%d", path, i, r.W, r.H)
		}
	}
	return cfg, nil
}

// KeyBindings resolves the configured bindings, falling back to
// DefaultBindings when none are configured.
func (cfg Config) KeyBindings() ([]Binding, error) {
	if len(cfg.Bindings) == 0 {
		return DefaultBindings(), nil
	}
	bindings := make([]Binding, 0, len(cfg.Bindings))
	for i, bc := range cfg.Bindings {
		b, err := bc.Binding()
		if err != nil {
			return nil, fmt.Errorf("binding %d: %w", i, err)
		}
		bindings = append(bindings, b)
	}
	return bindings, nil
}

// Binding resolves the modifier and action names of bc.
func (bc BindingConfig) Binding() (Binding, error) {
	if bc.Key == "" {
		return Binding{}, errors.New("missing key")
	}
	mod, err := parseModifiers(bc.Mod)
	if err != nil {
		return Binding{}, err
	}
	action, err := LookupAction(bc.Action)
	if err != nil {
		return Binding{}, err
	}
	return Binding{
		Mod:    mod,
		Keysym: normalizeKeysym(bc.Key),
		Name:   bc.Action,
		Action: action,
		Arg:    Arg{Int: bc.Arg, Cmd: bc.Cmd},
	}, nil
}

// normalizeKeysym lowercases single letters. Key presses are matched
// against the unshifted keysym, so "C" would never fire; Shift belongs
// in the modifiers.
func normalizeKeysym(key string) string {
	if len(key) == 1 && key[0] >= 'A' && key[0] <= 'Z' {
		return strings.ToLower(key)
	}
	return key
}

var modifierNames = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"ctrl":    xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"alt":     xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"super":   xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

// parseModifiers turns "Mod1+Shift" into a modifier mask. The empty
// string is no modifier at all.
func parseModifiers(s string) (uint16, error) {
	var mask uint16
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	for _, part := range strings.Split(s, "+") {
		m, ok := modifierNames[strings.ToLower(strings.TrimSpace(part))]
		if !ok {
			return 0, fmt.Errorf("unknown modifier %q", part)
		}
		mask |= m
	}
	return mask, nil
}
