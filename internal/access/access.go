// Package access resolves who is asking for a quote and which markup tier applies.
//
// The shared admin key is a stand-in for real authentication. It keeps
// casual viewers away from the tier selector and nothing more.
package access

import (
	"crypto/subtle"

	"github.com/Simplici0/ledwall/internal/pricing"
)

// Level is the access level of a caller.
type Level int

const (
	Standard Level = iota
	Privileged
)

func (l Level) String() string {
	if l == Privileged {
		return "privileged"
	}
	return "standard"
}

// Authenticator maps a credential to an access level.
type Authenticator interface {
	Authenticate(credential string) Level
}

// StaticKey grants Privileged to callers presenting one shared key.
type StaticKey struct {
	key []byte
}

// NewStaticKey returns an Authenticator for key. An empty key never matches.
func NewStaticKey(key string) *StaticKey {
	return &StaticKey{key: []byte(key)}
}

func (s *StaticKey) Authenticate(credential string) Level {
	if len(s.key) == 0 || credential == "" {
		return Standard
	}
	if subtle.ConstantTimeCompare(s.key, []byte(credential)) == 1 {
		return Privileged
	}
	return Standard
}

// Resolution is the outcome of applying the policy to one request.
type Resolution struct {
	Level        Level
	Tier         pricing.Tier
	RevealDetail bool
}

// Policy picks the markup tier for a caller.
type Policy struct {
	tiers pricing.TierTable
	// OpenTierSelection lets every caller choose a tier. Detail visibility still follows the level.
	OpenTierSelection bool
}

// NewPolicy returns a Policy over tiers with the tier selector gated to privileged callers.
func NewPolicy(tiers pricing.TierTable) *Policy {
	return &Policy{tiers: tiers}
}

// Tiers returns the tier table.
func (p *Policy) Tiers() pricing.TierTable {
	return p.tiers
}

// CanSelectTier reports whether a caller at level may pick a tier.
func (p *Policy) CanSelectTier(level Level) bool {
	return p.OpenTierSelection || level == Privileged
}

// Resolve returns the tier for requested. A Standard caller always gets the
// table default unless tier selection is open. Unknown tier names also fall
// back to the default.
func (p *Policy) Resolve(level Level, requested string) Resolution {
	res := Resolution{
		Level:        level,
		Tier:         p.tiers.Default(),
		RevealDetail: level == Privileged,
	}
	if !p.CanSelectTier(level) {
		return res
	}
	if tier, ok := p.tiers.Lookup(requested); ok {
		res.Tier = tier
	}
	return res
}
