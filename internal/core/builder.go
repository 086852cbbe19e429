package core

import (
	"echosrv/config"
	"echosrv/internal/backoff"
	"echosrv/internal/capability"
	"echosrv/internal/metrics"
	"echosrv/internal/transport"
	"echosrv/tunnel"
	"echosrv/util"
)

// Build validates cfg and assembles the echo service from it.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ListenMode{
		Listener: buildListener(cfg, logger),
		Capability: &capability.Echo{
			Greeting:  config.Greeting,
			ChunkSize: cfg.ChunkSize,
			Timeout:   cfg.Timeout,
			Pool:      util.NewBufPool(cfg.ChunkSize),
		},
		Sequential: cfg.Sequential,
		QuitMode:   cfg.QuitMode,
		Logger:     logger,
		Metrics:    metrics.New(),
		Backoff:    backoff.Accept(),
	}, nil
}

// buildListener picks a local socket, or a gateway-side port forwarded
// over SSH when a tunnel is configured.
func buildListener(cfg *config.Config, logger *util.Logger) transport.Listener {
	if !cfg.TunnelEnabled {
		return &transport.TCPListener{Port: cfg.Port, Backlog: cfg.Backlog}
	}

	tun := tunnel.NewSSHTunnel(&tunnel.SSHConfig{
		User:          cfg.TunnelUser,
		Host:          cfg.TunnelHost,
		Port:          cfg.TunnelPort,
		KeyPath:       cfg.SSHKeyPath,
		PromptPass:    cfg.SSHPassword,
		UseAgent:      cfg.UseSSHAgent,
		StrictHostKey: cfg.StrictHostKey,
		KnownHosts:    cfg.KnownHostsPath,
		KeepAlive:     config.DefaultSSHKeepAlive,
	}, logger)

	return transport.NewSSHListener(tun, cfg.RemoteBindAddress, cfg.EffectiveRemotePort(), logger)
}
