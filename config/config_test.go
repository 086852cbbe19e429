package config

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	ncerr "echosrv/internal/errors"
)

// ── Defaults ─────────────────────────────────────────────────────────

func TestDefaults(t *testing.T) {
	want := &Config{
		Port:      56789,
		ChunkSize: 11,
		Backlog:   10,
		QuitMode:  QuitSession,
		Verbose:   1,
	}
	if diff := cmp.Diff(want, Defaults()); diff != "" {
		t.Errorf("Defaults() mismatch (-want +got):\n%s", diff)
	}
	if err := Defaults().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"56789", 56789, false},
		{"1", 1, false},
		{"65535", 65535, false},
		{" 8080 ", 8080, false},
		{"0", 0, true},
		{"65536", 0, true},
		{"-1", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePort(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePort(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestParsePort_ConfigError(t *testing.T) {
	_, err := ParsePort("echo")
	var ce *ncerr.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("want *ConfigError, got %T", err)
	}
	if ce.Field != "port" || ce.Hint == "" {
		t.Errorf("unexpected error fields: %+v", ce)
	}
}

// ── ParseQuitMode ────────────────────────────────────────────────────

func TestParseQuitMode(t *testing.T) {
	tests := []struct {
		input   string
		want    QuitMode
		wantErr bool
	}{
		{"session", QuitSession, false},
		{"server", QuitServer, false},
		{"SERVER", QuitServer, false},
		{"process", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseQuitMode(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// ── ParseTunnelSpec ──────────────────────────────────────────────────

func TestParseTunnelSpec(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantUser string
		wantHost string
		wantPort int
		wantErr  bool
	}{
		{"full", "admin@bastion.example.com:2222", "admin", "bastion.example.com", 2222, false},
		{"no port", "root@gateway", "root", "gateway", 22, false},
		{"no user", "jump-host:2200", "", "jump-host", 2200, false},
		{"host only", "gateway.local", "", "gateway.local", 22, false},
		{"bad port", "user@host:999999", "", "", 0, true},
		{"empty", "", "", "", 0, true},
		{"colon only", ":", "", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, host, port, err := ParseTunnelSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if user != tt.wantUser || host != tt.wantHost || port != tt.wantPort {
				t.Errorf("got (%q, %q, %d), want (%q, %q, %d)",
					user, host, port, tt.wantUser, tt.wantHost, tt.wantPort)
			}
		})
	}
}

func TestApplyTunnelSpec(t *testing.T) {
	cfg := Defaults()
	cfg.TunnelSpec = "ops@gw.example.com:2222"
	if err := cfg.ApplyTunnelSpec(); err != nil {
		t.Fatal(err)
	}
	if !cfg.TunnelEnabled || cfg.TunnelUser != "ops" || cfg.TunnelHost != "gw.example.com" || cfg.TunnelPort != 2222 {
		t.Errorf("tunnel fields not applied: %+v", cfg)
	}

	empty := Defaults()
	if err := empty.ApplyTunnelSpec(); err != nil || empty.TunnelEnabled {
		t.Errorf("empty spec should be a no-op, got err=%v enabled=%v", err, empty.TunnelEnabled)
	}

	bad := Defaults()
	bad.TunnelSpec = "user@host:0"
	var ce *ncerr.ConfigError
	if err := bad.ApplyTunnelSpec(); !errors.As(err, &ce) {
		t.Errorf("want ConfigError, got %v", err)
	}
}

func TestEffectiveRemotePort(t *testing.T) {
	cfg := Defaults()
	if got := cfg.EffectiveRemotePort(); got != DefaultPort {
		t.Errorf("got %d, want %d", got, DefaultPort)
	}
	cfg.RemotePort = 8080
	if got := cfg.EffectiveRemotePort(); got != 8080 {
		t.Errorf("got %d, want 8080", got)
	}
}

// ── Config.Validate ──────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	with := func(mut func(*Config)) Config {
		c := Defaults()
		mut(c)
		return *c
	}

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"defaults", *Defaults(), false},
		{"port zero", with(func(c *Config) { c.Port = 0 }), true},
		{"port too high", with(func(c *Config) { c.Port = 70000 }), true},
		{"chunk size one", with(func(c *Config) { c.ChunkSize = 1 }), false},
		{"chunk size zero", with(func(c *Config) { c.ChunkSize = 0 }), true},
		{"backlog zero", with(func(c *Config) { c.Backlog = 0 }), true},
		{"negative timeout", with(func(c *Config) { c.Timeout = -time.Second }), true},
		{"server quit", with(func(c *Config) { c.QuitMode = QuitServer }), false},
		{"bad quit", with(func(c *Config) { c.QuitMode = "process" }), true},
		{"sequential", with(func(c *Config) { c.Sequential = true }), false},
		// ── reverse tunnel ─────────────────────────────────────
		{
			name: "valid tunnel",
			cfg: with(func(c *Config) {
				c.TunnelEnabled, c.TunnelHost, c.RemotePort = true, "gw", 9000
			}),
			wantErr: false,
		},
		{
			name:    "tunnel no host",
			cfg:     with(func(c *Config) { c.TunnelEnabled = true }),
			wantErr: true,
		},
		{
			name: "tunnel bad remote port",
			cfg: with(func(c *Config) {
				c.TunnelEnabled, c.TunnelHost, c.RemotePort = true, "gw", 70000
			}),
			wantErr: true,
		},
		{
			name:    "remote port without tunnel",
			cfg:     with(func(c *Config) { c.RemotePort = 9000 }),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr = %v", err, tt.wantErr)
			}
		})
	}
}
