// Package effects implements the two-layer effect model: coarse io/cpu
// effects inferred from call-target name prefixes, and fine-grained
// capabilities declared on a function's effect clause. It also applies
// capability manifests and merges imported modules' effect signatures so
// cross-module effect use is caught locally.
package effects

import "sort"

// Capability is a fine-grained named permission refining an effect.
type Capability string

const (
	CapHTTP    Capability = "Http"
	CapSQL     Capability = "Sql"
	CapTime    Capability = "Time"
	CapFiles   Capability = "Files"
	CapSecrets Capability = "Secrets"
	CapAiModel Capability = "AiModel"
	CapCPU     Capability = "Cpu"
)

// Capabilities lists every known capability in stable order.
var Capabilities = []Capability{
	CapHTTP, CapSQL, CapTime, CapFiles, CapSecrets, CapAiModel, CapCPU,
}

// IsCapability reports whether the name is a known capability.
func IsCapability(name string) bool {
	for _, c := range Capabilities {
		if string(c) == name {
			return true
		}
	}
	return false
}

// Effect names at the coarse layer.
const (
	EffectIO  = "io"
	EffectCPU = "cpu"
)

// Signature is the externally visible effect surface of a function,
// as exported by its defining module.
type Signature struct {
	Effects      []string     `json:"effects"`
	Capabilities []Capability `json:"capabilities,omitempty"`
}

// HasEffect reports whether the signature declares the coarse effect.
func (s Signature) HasEffect(name string) bool {
	for _, e := range s.Effects {
		if e == name {
			return true
		}
	}
	return false
}

// sortedCaps returns the capability set as a deterministic slice.
func sortedCaps(set map[Capability]bool) []Capability {
	out := make([]Capability, 0, len(set))
	for c := range set {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
