package cli

import (
	"maps"
	"slices"
	"strings"

	"github.com/conneroisu/codex/pkg/codex/options"
)

// BuildArgs returns the arguments passed after the executable.
// Exported for testing purposes.
func (a *Adapter) BuildArgs() []string {
	return a.options.CommandArgs()
}

// BuildEnvironment overlays overlay onto base. Later keys replace earlier
// ones in place. The originator override and RUST_LOG defaults are applied
// unless overlay sets a non-empty value for them.
func BuildEnvironment(base []string, overlay map[string]string) []string {
	env := make([]string, 0, len(base)+len(overlay)+2)
	index := make(map[string]int, len(base)+len(overlay)+2)

	set := func(key, value string) {
		kv := key + "=" + value
		if i, ok := index[key]; ok {
			env[i] = kv

			return
		}
		index[key] = len(env)
		env = append(env, kv)
	}

	for _, kv := range base {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			// Windows keeps per-drive entries such as "=C:=C:\".
			env = append(env, kv)

			continue
		}
		set(key, value)
	}

	for _, key := range slices.Sorted(maps.Keys(overlay)) {
		set(key, overlay[key])
	}

	if overlay[options.EnvOriginatorOverride] == "" {
		set(options.EnvOriginatorOverride, options.DefaultOriginator)
	}
	if overlay[options.EnvRustLog] == "" {
		set(options.EnvRustLog, options.DefaultRustLog)
	}

	return env
}

func joinArgs(args []string) string {
	quoted := make([]string, len(args))
	for i, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\"'") {
			quoted[i] = "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"

			continue
		}
		quoted[i] = arg
	}

	return strings.Join(quoted, " ")
}
