package domain

// RuntimeInfo describes how validation would run on this machine.
type RuntimeInfo struct {
	Runtime     RuntimeID        `json:"runtime,omitempty"`
	Handle      *ValidatorHandle `json:"handle,omitempty"`
	InstallRoot string           `json:"install_root"`
	Installed   bool             `json:"installed"`
	Manifest    *InstallManifest `json:"manifest,omitempty"`
	Error       string           `json:"error,omitempty"`
}
