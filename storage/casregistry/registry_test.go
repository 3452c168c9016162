package casregistry

import (
	"flag"
	"strings"
	"testing"

	"xdao.co/edsig/storage"
)

type stubCAS struct{ storage.CAS }

func stubBackend(name string, usage Usage, seen *map[string]string) Backend {
	return Backend{
		Name:          name,
		Usage:         usage,
		RegisterFlags: func(fs *flag.FlagSet) { fs.String(name+"-opt", "", "") },
		Open:          func() (storage.CAS, func() error, error) { return stubCAS{}, nil, nil },
		OpenConfig: func(cfg map[string]string) (storage.CAS, func() error, error) {
			*seen = cfg
			return stubCAS{}, nil, nil
		},
	}
}

func TestRegister_ValidatesBackend(t *testing.T) {
	if err := Register(Backend{}); err == nil {
		t.Fatalf("expected error for unnamed backend")
	}
	if err := Register(Backend{Name: "x-no-open", Usage: UsageCLI, RegisterFlags: func(*flag.FlagSet) {}}); err == nil {
		t.Fatalf("expected error for backend without Open")
	}
	var seen map[string]string
	b := stubBackend("test-dup", UsageCLI, &seen)
	if err := Register(b); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if err := Register(b); err == nil || !strings.Contains(err.Error(), "already registered") {
		t.Fatalf("expected duplicate registration error, got %v", err)
	}
}

func TestOpen_RespectsUsage(t *testing.T) {
	var seen map[string]string
	MustRegister(stubBackend("test-daemon-only", UsageDaemon, &seen))

	if _, _, err := Open("test-daemon-only", UsageCLI); err == nil {
		t.Fatalf("expected usage rejection")
	}
	if _, _, err := Open("test-daemon-only", UsageDaemon); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, _, err := Open("test-missing", UsageDaemon); err == nil {
		t.Fatalf("expected unknown backend error")
	}
	for _, n := range Names(UsageCLI) {
		if n == "test-daemon-only" {
			t.Fatalf("daemon-only backend listed for CLI usage")
		}
	}
}

func TestOpenWithConfig_PassesConfig(t *testing.T) {
	var seen map[string]string
	MustRegister(stubBackend("test-config", UsageCLI|UsageDaemon, &seen))

	if _, _, err := OpenWithConfig("test-config", UsageDaemon, map[string]string{"k": "v"}); err != nil {
		t.Fatalf("OpenWithConfig: %v", err)
	}
	if seen["k"] != "v" {
		t.Fatalf("config not passed through: %v", seen)
	}
	if _, _, err := OpenWithConfig("test-config", UsageDaemon, nil); err != nil {
		t.Fatalf("OpenWithConfig(nil): %v", err)
	}
	if seen == nil {
		t.Fatalf("expected nil config to be replaced by an empty map")
	}
}

func TestRegisterFlags_AllBackends(t *testing.T) {
	var seen map[string]string
	MustRegister(stubBackend("test-flags", UsageCLI, &seen))
	fs := flag.NewFlagSet("t", flag.ContinueOnError)
	RegisterFlags(fs, UsageCLI)
	if fs.Lookup("test-flags-opt") == nil {
		t.Fatalf("expected backend flag to be registered")
	}
}
