package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// ArtifactKeyOpts are the render settings that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format    string `json:"format"`
	Page      string `json:"page,omitempty"`
	DPI       int    `json:"dpi,omitempty"`
	Strict    bool   `json:"strict,omitempty"`
	AssetHash string `json:"assets,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// ArtifactKey keys one output format of a description.
	ArtifactKey(descHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

func (DefaultKeyer) ArtifactKey(descHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", descHash, opts)
}

// ScopedKeyer prefixes another keyer's keys, giving each scope its own
// namespace in a shared backend.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix. A nil inner keyer means the
// default one.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

func (k *ScopedKeyer) ArtifactKey(descHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(descHash, opts)
}

// hashKey returns prefix:sha256(json(parts)).
func hashKey(prefix string, parts ...any) string {
	data, _ := json.Marshal(parts)
	sum := sha256.Sum256(data)
	return fmt.Sprintf("%s:%s", prefix, hex.EncodeToString(sum[:]))
}

// Hash returns the hex SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
