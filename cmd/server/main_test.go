package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestRootCommandHasServe(t *testing.T) {
	t.Parallel()

	root := rootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"serve", "version"} {
		found := false
		for _, name := range names {
			if name == want {
				found = true
			}
		}
		if !found {
			t.Errorf("command %q missing, have %v", want, names)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	root := rootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), version) {
		t.Errorf("output %q should contain version %q", out.String(), version)
	}
}

func TestServeFailsWithoutRegistryURL(t *testing.T) {
	// Not parallel: config.Load reads process environment.
	t.Setenv("CONFLUENCE_GATEWAY_REGISTRY_BASE_URL", "")

	root := rootCommand()
	root.SetArgs([]string{"serve"})
	if err := root.Execute(); err == nil {
		t.Fatal("serve should fail when registry base URL is unset")
	}
}
