// Package config loads the edsig-hostd configuration file.
package config

import (
	"errors"
	"fmt"
	"net"
	"os"

	"gopkg.in/yaml.v3"

	"xdao.co/edsig/compliance"
	"xdao.co/edsig/contract"
	"xdao.co/edsig/internal/logging"
	"xdao.co/edsig/storage/casconfig"
)

const (
	HeadsMemory  = "memory"
	HeadsLevelDB = "leveldb"
)

// Config is the daemon configuration. JSON files are accepted too, since
// YAML is a superset.
//
//	listen: 127.0.0.1:7443
//	log: {level: info, format: json}
//	policy: strict
//	heads: {backend: leveldb, dir: /var/lib/edsig/heads}
//	cas:
//	  backends:
//	    - name: localfs
//	      config: {localfs-dir: /var/lib/edsig/cas}
//	serve_cas: true
//	archive: {export_on_exit: /var/lib/edsig/instances.tar}
type Config struct {
	Listen   string           `yaml:"listen"`
	Log      Log              `yaml:"log"`
	Policy   string           `yaml:"policy"`
	Heads    Heads            `yaml:"heads"`
	CAS      casconfig.Config `yaml:"cas"`
	ServeCAS bool             `yaml:"serve_cas"`
	SelfTest *SelfTest        `yaml:"self_test,omitempty"`
	Archive  Archive          `yaml:"archive"`
}

// Archive names snapshot bundles restored at startup and written on shutdown.
type Archive struct {
	Import       string `yaml:"import"`
	ExportOnExit string `yaml:"export_on_exit"`
}

type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Heads struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// SelfTest overrides the vector checked by verification_test.
type SelfTest struct {
	PublicKey string `yaml:"public_key"`
	Message   string `yaml:"message"`
	Signature string `yaml:"signature"`
}

// Default returns an in-memory configuration listening on localhost.
func Default() Config {
	return Config{
		Listen: "127.0.0.1:7443",
		Log:    Log{Level: "info", Format: "text"},
		Policy: "strict",
		Heads:  Heads{Backend: HeadsMemory},
		CAS: casconfig.Config{
			Backends: []casconfig.BackendConfig{{Name: "memory"}},
		},
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, errors.New("config: empty path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Listen); err != nil {
		return fmt.Errorf("config: listen: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("config: log.format: invalid %q", c.Log.Format)
	}
	if _, ok := compliance.ParseMode(c.Policy); !ok {
		return fmt.Errorf("config: policy: invalid %q", c.Policy)
	}
	switch c.Heads.Backend {
	case "", HeadsMemory:
	case HeadsLevelDB:
		if c.Heads.Dir == "" {
			return errors.New("config: heads.dir is required for leveldb")
		}
	default:
		return fmt.Errorf("config: heads.backend: invalid %q", c.Heads.Backend)
	}
	if err := c.CAS.Validate(); err != nil {
		return fmt.Errorf("config: cas: %w", err)
	}
	if c.SelfTest != nil {
		if _, err := c.ProgramOptions(); err != nil {
			return fmt.Errorf("config: self_test: %w", err)
		}
	}
	return nil
}

// Mode returns the verification policy. Call after Validate.
func (c Config) Mode() compliance.Mode {
	m, _ := compliance.ParseMode(c.Policy)
	return m
}

// ProgramOptions builds contract options from the policy and the optional
// self-test override. The override is fully validated here so a bad vector
// fails at startup rather than on a call.
func (c Config) ProgramOptions() (contract.Options, error) {
	opts := contract.Options{Mode: c.Mode()}
	if c.SelfTest == nil {
		return opts, nil
	}
	v, err := contract.ParseVector(c.SelfTest.PublicKey, c.SelfTest.Message, c.SelfTest.Signature)
	if err != nil {
		return opts, err
	}
	opts.Vector = &v
	if _, err := contract.NewProgram(opts); err != nil {
		return opts, err
	}
	return opts, nil
}
