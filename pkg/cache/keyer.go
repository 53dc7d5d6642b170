package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
)

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// LayoutKeyOpts identifies a layout computation beyond its input graph.
type LayoutKeyOpts struct {
	Algorithm string `json:"algorithm"`
	// Options is any JSON-serializable options struct.
	Options any `json:"options,omitempty"`
}

// Keyer generates cache keys.
type Keyer interface {
	// LayoutKey returns the key for a layout of the graph with the given hash.
	LayoutKey(graphHash string, opts LayoutKeyOpts) string
}

// DefaultKeyer generates unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<algorithm>:<digest>", where the digest covers
// the graph hash and the encoded options. Options that fail to encode fall
// back to the algorithm alone.
func (DefaultKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	h := sha256.New()
	h.Write([]byte(graphHash))
	h.Write([]byte{0})
	if enc, err := json.Marshal(opts.Options); err == nil {
		h.Write(enc)
	}
	return "layout:" + opts.Algorithm + ":" + hex.EncodeToString(h.Sum(nil))
}

// ScopedKeyer wraps a Keyer with a prefix, isolating namespaces that share
// a backend (for example two servers on different document roots).
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(graphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(graphHash, opts)
}
