package cli

import (
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/conneroisu/codex/pkg/codex/options"
)

func TestBuildArgs(t *testing.T) {
	t.Run("defaults to analytics flag", func(t *testing.T) {
		adapter := NewAdapter(nil)

		got := adapter.BuildArgs()
		want := []string{"app-server", "--analytics-default-enabled"}
		if !slices.Equal(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("omits analytics flag when disabled", func(t *testing.T) {
		disabled := false
		adapter := NewAdapter(&options.ClientOptions{
			AnalyticsDefaultEnabled: &disabled,
			Args:                    []string{"--listen", "stdio"},
		})

		got := adapter.BuildArgs()
		want := []string{"app-server", "--listen", "stdio"}
		if !slices.Equal(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})

	t.Run("appends extra args after the flag", func(t *testing.T) {
		adapter := NewAdapter(&options.ClientOptions{Args: []string{"-c", "model=o3"}})

		got := adapter.BuildArgs()
		want := []string{"app-server", "--analytics-default-enabled", "-c", "model=o3"}
		if !slices.Equal(got, want) {
			t.Errorf("Expected %v, got %v", want, got)
		}
	})
}

func TestCommandLine(t *testing.T) {
	path := "/opt/codex"
	adapter := NewAdapter(&options.ClientOptions{CodexPath: &path, Args: []string{"a b"}})

	got := adapter.CommandLine()
	if got != "/opt/codex app-server --analytics-default-enabled 'a b'" {
		t.Errorf("Unexpected command line %q", got)
	}
}

func TestBuildEnvironment(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		env := BuildEnvironment([]string{"HOME=/home/u", "RUST_LOG=trace"}, nil)

		assertEnv(t, env, "HOME", "/home/u")
		assertEnv(t, env, "CODEX_INTERNAL_ORIGINATOR_OVERRIDE", "codex_vscode")
		assertEnv(t, env, "RUST_LOG", "warn")
	})

	t.Run("caller values win", func(t *testing.T) {
		env := BuildEnvironment(
			[]string{"HOME=/home/u"},
			map[string]string{"RUST_LOG": "debug", "CODEX_INTERNAL_ORIGINATOR_OVERRIDE": "me", "HOME": "/tmp"},
		)

		assertEnv(t, env, "HOME", "/tmp")
		assertEnv(t, env, "RUST_LOG", "debug")
		assertEnv(t, env, "CODEX_INTERNAL_ORIGINATOR_OVERRIDE", "me")
	})

	t.Run("empty caller value falls back to default", func(t *testing.T) {
		env := BuildEnvironment(nil, map[string]string{"RUST_LOG": ""})

		assertEnv(t, env, "RUST_LOG", "warn")
	})

	t.Run("no duplicate keys", func(t *testing.T) {
		env := BuildEnvironment([]string{"A=1", "A=2"}, map[string]string{"A": "3"})

		count := 0
		for _, kv := range env {
			if strings.HasPrefix(kv, "A=") {
				count++
			}
		}
		if count != 1 {
			t.Errorf("Expected one A entry, got %d in %v", count, env)
		}
		assertEnv(t, env, "A", "3")
	})
}

func TestFindCLI(t *testing.T) {
	t.Run("uses explicit path verbatim", func(t *testing.T) {
		path := "/nonexistent/codex"
		adapter := NewAdapter(&options.ClientOptions{CodexPath: &path})
		adapter.lookPath = func(string) (string, error) {
			t.Fatal("lookPath should not be called")

			return "", nil
		}

		got, err := adapter.findCLI()
		if err != nil || got != path {
			t.Errorf("Expected %q, got %q (%v)", path, got, err)
		}
	})

	t.Run("searches PATH for bare names", func(t *testing.T) {
		adapter := NewAdapter(nil)
		adapter.lookPath = func(name string) (string, error) {
			if name != "codex" {
				t.Errorf("Expected lookup of codex, got %q", name)
			}

			return "", errors.New("missing")
		}

		if _, err := adapter.findCLI(); err == nil {
			t.Fatal("Expected error for missing binary")
		}
	})
}

func assertEnv(t *testing.T, env []string, key, want string) {
	t.Helper()

	var found []string
	for _, kv := range env {
		if k, v, ok := strings.Cut(kv, "="); ok && k == key {
			found = append(found, v)
		}
	}
	if len(found) != 1 || found[0] != want {
		t.Errorf("Expected %s=%s exactly once, got %v", key, want, found)
	}
}
