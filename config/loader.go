package config

// loader.go - configuration loading from YAML files and environment
// variables.
//
// Precedence order (highest wins):
//   1. Positional port and CLI flags  (handled by cmd/root.go)
//   2. Environment variables          (LoadFromEnv)
//   3. YAML config file               (LoadFile)
//   4. Defaults                       (defaults.go)

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
)

// ── YAML file ────────────────────────────────────────────────────────

// File is the on-disk shape of a config file.  Pointer fields tell an
// absent key apart from an explicit zero, so only keys present in the
// file override.
type File struct {
	Port       *int        `yaml:"port,omitempty"`
	ChunkSize  *int        `yaml:"chunk_size,omitempty"`
	Backlog    *int        `yaml:"backlog,omitempty"`
	Sequential *bool       `yaml:"sequential,omitempty"`
	QuitMode   *string     `yaml:"quit_mode,omitempty"`
	Timeout    *int        `yaml:"timeout,omitempty"` // seconds
	Verbose    *int        `yaml:"verbose,omitempty"`
	Tunnel     *TunnelFile `yaml:"tunnel,omitempty"`
}

// TunnelFile is the "tunnel:" section of a config file.
type TunnelFile struct {
	Gateway       string `yaml:"gateway"` // [user@]host[:port]
	RemotePort    int    `yaml:"remote_port,omitempty"`
	RemoteBind    string `yaml:"remote_bind,omitempty"`
	SSHKey        string `yaml:"ssh_key,omitempty"`
	SSHAgent      bool   `yaml:"ssh_agent,omitempty"`
	StrictHostKey bool   `yaml:"strict_hostkey,omitempty"`
	KnownHosts    string `yaml:"known_hosts,omitempty"`
}

// LoadFile reads a YAML config file and overlays it onto cfg.  Unknown
// keys are rejected so that typos do not silently fall back to defaults.
func LoadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config file: %w", err)
	}
	var f File
	if err := yaml.UnmarshalWithOptions(data, &f, yaml.DisallowUnknownField()); err != nil {
		return fmt.Errorf("config file %s: %w", path, err)
	}
	return f.Apply(cfg)
}

// Apply overlays the keys present in f onto cfg.
func (f *File) Apply(cfg *Config) error {
	if f.Port != nil {
		cfg.Port = *f.Port
	}
	if f.ChunkSize != nil {
		cfg.ChunkSize = *f.ChunkSize
	}
	if f.Backlog != nil {
		cfg.Backlog = *f.Backlog
	}
	if f.Sequential != nil {
		cfg.Sequential = *f.Sequential
	}
	if f.QuitMode != nil {
		m, err := ParseQuitMode(*f.QuitMode)
		if err != nil {
			return fmt.Errorf("config file: %w", err)
		}
		cfg.QuitMode = m
	}
	if f.Timeout != nil {
		cfg.Timeout = secondsDuration(*f.Timeout)
	}
	if f.Verbose != nil {
		cfg.Verbose = *f.Verbose
	}
	if t := f.Tunnel; t != nil {
		cfg.TunnelSpec = t.Gateway
		cfg.RemotePort = t.RemotePort
		cfg.RemoteBindAddress = t.RemoteBind
		cfg.SSHKeyPath = t.SSHKey
		cfg.UseSSHAgent = t.SSHAgent
		cfg.StrictHostKey = t.StrictHostKey
		cfg.KnownHostsPath = t.KnownHosts
	}
	return nil
}

// Dump renders cfg in config-file form.
func Dump(cfg *Config) ([]byte, error) {
	quit := string(cfg.QuitMode)
	timeout := int(cfg.Timeout / time.Second)
	f := File{
		Port:       &cfg.Port,
		ChunkSize:  &cfg.ChunkSize,
		Backlog:    &cfg.Backlog,
		Sequential: &cfg.Sequential,
		QuitMode:   &quit,
		Timeout:    &timeout,
		Verbose:    &cfg.Verbose,
	}
	if cfg.TunnelSpec != "" {
		f.Tunnel = &TunnelFile{
			Gateway:       cfg.TunnelSpec,
			RemotePort:    cfg.RemotePort,
			RemoteBind:    cfg.RemoteBindAddress,
			SSHKey:        cfg.SSHKeyPath,
			SSHAgent:      cfg.UseSSHAgent,
			StrictHostKey: cfg.StrictHostKey,
			KnownHosts:    cfg.KnownHostsPath,
		}
	}
	return yaml.Marshal(&f)
}

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the ECHOSRV_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// EnvConfigFile names the variable that points at a config file.
const EnvConfigFile = "ECHOSRV_CONFIG"

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty
// env vars override the existing value.  This should be called BEFORE
// CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := envInt("ECHOSRV_PORT"); v > 0 {
		cfg.Port = v
	}
	if v := envInt("ECHOSRV_CHUNK_SIZE"); v > 0 {
		cfg.ChunkSize = v
	}
	if v := envInt("ECHOSRV_BACKLOG"); v > 0 {
		cfg.Backlog = v
	}
	if envBool("ECHOSRV_SEQUENTIAL") {
		cfg.Sequential = true
	}
	if v := os.Getenv("ECHOSRV_QUIT_MODE"); v != "" {
		if m, err := ParseQuitMode(v); err == nil {
			cfg.QuitMode = m
		} else {
			cfg.QuitMode = QuitMode(v) // rejected by Validate
		}
	}
	if v := envInt("ECHOSRV_TIMEOUT"); v > 0 {
		cfg.Timeout = secondsDuration(v)
	}

	// SSH reverse tunnel
	if v := os.Getenv("ECHOSRV_TUNNEL"); v != "" {
		cfg.TunnelSpec = v
	}
	if v := envInt("ECHOSRV_REMOTE_PORT"); v > 0 {
		cfg.RemotePort = v
	}
	if v := os.Getenv("ECHOSRV_REMOTE_BIND"); v != "" {
		cfg.RemoteBindAddress = v
	}
	if v := os.Getenv("ECHOSRV_SSH_KEY"); v != "" {
		cfg.SSHKeyPath = v
	}
	if envBool("ECHOSRV_SSH_AGENT") {
		cfg.UseSSHAgent = true
	}
	if envBool("ECHOSRV_STRICT_HOSTKEY") {
		cfg.StrictHostKey = true
	}
	if v := os.Getenv("ECHOSRV_KNOWN_HOSTS"); v != "" {
		cfg.KnownHostsPath = v
	}

	// Output
	if v := envInt("ECHOSRV_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
