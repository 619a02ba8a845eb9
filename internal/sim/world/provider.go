package world

import (
	"crypto/sha256"
	"encoding/hex"

	"ecosysx/internal/protocol"
)

const (
	providerName    = "ecosysx-go"
	providerVersion = "0.3.0"
	providerLicense = "MIT"
)

// BuildHash is a short deterministic identifier of this engine build,
// derived from the provider identity and the snapshot schema it emits.
func BuildHash() string {
	sum := sha256.Sum256([]byte(providerName + ":" + providerVersion + ":" + protocol.SchemaTag))
	return hex.EncodeToString(sum[:])[:16]
}

// Provider returns the static descriptor reported by the info op. It is
// independent of simulation state and callable before init.
func Provider() protocol.ProviderInfo {
	return protocol.ProviderInfo{
		Name:      providerName,
		Version:   providerVersion,
		License:   providerLicense,
		BuildHash: BuildHash(),
	}
}

func providerShort() protocol.ProviderInfo {
	return protocol.ProviderInfo{
		Name:    providerName,
		Version: providerVersion,
		License: providerLicense,
	}
}
