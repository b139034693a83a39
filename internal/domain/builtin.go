package domain

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed builtin/*.yaml
var builtins embed.FS

// ErrUnknownBuiltin is returned by Builtin for a name with no embedded
// domain.
var ErrUnknownBuiltin = errors.New("domain: unknown builtin")

// Builtin returns the embedded domain with the given name.
func Builtin(name string) (*File, error) {
	data, err := builtins.ReadFile(path.Join("builtin", name+".yaml"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w %q (have %s)", ErrUnknownBuiltin, name, strings.Join(BuiltinNames(), ", "))
	}
	if err != nil {
		return nil, err
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("builtin %s: %w", name, err)
	}
	return f, nil
}

// BuiltinNames lists the embedded domains.
func BuiltinNames() []string {
	entries, err := builtins.ReadDir("builtin")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names
}
