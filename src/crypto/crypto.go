// Package crypto wraps the elliptic curve key agreement primitives used by the
// exchange simulator: the NIST curves from crypto/ecdh, X25519 from
// golang.org/x/crypto/curve25519 and secp256k1 from decred.
// This is used to avoid explicitly importing and using these packages throughout rplsim.
// Private scalars never leave this package: a KeyPair hands out its public
// half and derives shared secrets on request, nothing else.
package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/yggdrasil-network/rplsim/src/types"
)

// CurveID names one of the supported curves.
type CurveID string

const (
	P256      CurveID = "P-256"
	P384      CurveID = "P-384"
	P521      CurveID = "P-521"
	X25519    CurveID = "X25519"
	Secp256k1 CurveID = "secp256k1"
)

// DefaultCurve is used when no curve is configured.
const DefaultCurve = P256

// Curve generates key pairs whose secrets can only be combined with public
// keys from the same curve.
type Curve interface {
	ID() CurveID
	GenerateKey(rand io.Reader) (*KeyPair, error)
}

var curves = map[CurveID]Curve{}

var aliases = map[string]CurveID{}

func register(c Curve, names ...string) {
	curves[c.ID()] = c
	aliases[strings.ToLower(string(c.ID()))] = c.ID()
	for _, name := range names {
		aliases[name] = c.ID()
	}
}

// ParseCurve looks a curve up by its ID or a common alias such as
// "secp256r1" or "prime256v1". Matching is case-insensitive.
func ParseCurve(name string) (Curve, error) {
	if name == "" {
		return curves[DefaultCurve], nil
	}
	id, ok := aliases[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: unknown curve %q", types.ErrInvalidArgument, name)
	}
	return curves[id], nil
}

// Curves lists the IDs of every supported curve.
func Curves() []CurveID {
	ids := make([]CurveID, 0, len(curves))
	for id := range curves {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return ids[i] < ids[j]
	})
	return ids
}

////////////////////////////////////////////////////////////////////////////////

// Public keys

// PublicKey is the shareable half of a KeyPair, in the curve's standard
// encoding (uncompressed SEC 1 for the NIST curves, compressed SEC 1 for
// secp256k1, 32 raw bytes for X25519).
type PublicKey struct {
	curve CurveID
	raw   []byte
}

// NewPublicKey wraps an encoded public key. The encoding is not checked until
// the key is used in a derivation.
func NewPublicKey(curve CurveID, raw []byte) PublicKey {
	return PublicKey{curve: curve, raw: append([]byte(nil), raw...)}
}

func (k PublicKey) Curve() CurveID {
	return k.curve
}

// Bytes returns a copy of the encoded key.
func (k PublicKey) Bytes() []byte {
	return append([]byte(nil), k.raw...)
}

// String returns a hex representation of the key.
func (k PublicKey) String() string {
	return hex.EncodeToString(k.raw)
}

////////////////////////////////////////////////////////////////////////////////

// Key pairs

// secret is a private scalar bound to its curve.
type secret interface {
	agree(peer []byte) ([]byte, error)
	zero()
}

// noCopy makes go vet's copylocks check flag KeyPair values being copied.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// KeyPair owns a private key and its public counterpart. It must not be
// copied; pass it by pointer. Once generated it is safe for concurrent use
// until Destroy is called.
type KeyPair struct {
	noCopy noCopy
	public PublicKey
	secret secret
}

func newKeyPair(curve CurveID, pub []byte, s secret) *KeyPair {
	return &KeyPair{
		public: PublicKey{curve: curve, raw: pub},
		secret: s,
	}
}

// Curve returns the curve this key pair was generated on.
func (k *KeyPair) Curve() CurveID {
	return k.public.curve
}

// Public returns the public half of the key pair.
func (k *KeyPair) Public() PublicKey {
	return k.public
}

// SharedSecret runs Diffie-Hellman between this key pair's private key and
// the peer's public key. Errors wrap types.ErrCryptoFailure.
func (k *KeyPair) SharedSecret(peer PublicKey) (SharedSecret, error) {
	if k == nil || k.secret == nil {
		return nil, fmt.Errorf("%w: key pair has been destroyed", types.ErrCryptoFailure)
	}
	if peer.curve != k.public.curve {
		return nil, fmt.Errorf("%w: curve mismatch: %s private key with %s public key",
			types.ErrCryptoFailure, k.public.curve, peer.curve)
	}
	shared, err := k.secret.agree(peer.raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrCryptoFailure, k.public.curve, err)
	}
	return SharedSecret(shared), nil
}

// Destroy wipes the private key where the backend allows it. The key pair
// cannot derive secrets afterwards.
func (k *KeyPair) Destroy() {
	if k.secret != nil {
		k.secret.zero()
		k.secret = nil
	}
}

////////////////////////////////////////////////////////////////////////////////

// Shared secrets

// SharedSecret is the output of one derivation. It never prints its
// contents, so it is safe to pass to a logger by accident.
type SharedSecret []byte

// Equal compares two secrets in constant time.
func (s SharedSecret) Equal(other SharedSecret) bool {
	return subtle.ConstantTimeCompare(s, other) == 1
}

// Zero overwrites the secret in place.
func (s SharedSecret) Zero() {
	for i := range s {
		s[i] = 0
	}
}

func (s SharedSecret) String() string {
	return "[redacted]"
}

func (s SharedSecret) GoString() string {
	return "crypto.SharedSecret{[redacted]}"
}
