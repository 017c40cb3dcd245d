package crypto

import (
	"crypto/ecdh"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/curve25519"

	"github.com/yggdrasil-network/rplsim/src/types"
)

func init() {
	register(nistCurve{P256, ecdh.P256()}, "p256", "secp256r1", "prime256v1")
	register(nistCurve{P384, ecdh.P384()}, "p384", "secp384r1")
	register(nistCurve{P521, ecdh.P521()}, "p521", "secp521r1")
	register(x25519Curve{}, "curve25519")
	register(secp256k1Curve{}, "k256")
}

func generateError(id CurveID, err error) error {
	return fmt.Errorf("%w: generating %s key: %v", types.ErrCryptoFailure, id, err)
}

////////////////////////////////////////////////////////////////////////////////

// NIST curves (crypto/ecdh)

type nistCurve struct {
	id    CurveID
	curve ecdh.Curve
}

func (c nistCurve) ID() CurveID {
	return c.id
}

func (c nistCurve) GenerateKey(rand io.Reader) (*KeyPair, error) {
	priv, err := c.curve.GenerateKey(rand)
	if err != nil {
		return nil, generateError(c.id, err)
	}
	return newKeyPair(c.id, priv.PublicKey().Bytes(), &nistSecret{c.curve, priv}), nil
}

type nistSecret struct {
	curve ecdh.Curve
	priv  *ecdh.PrivateKey
}

func (s *nistSecret) agree(peer []byte) ([]byte, error) {
	pub, err := s.curve.NewPublicKey(peer)
	if err != nil {
		return nil, err
	}
	return s.priv.ECDH(pub)
}

// crypto/ecdh keeps the scalar unexported, dropping the reference is all we can do.
func (s *nistSecret) zero() {
	s.priv = nil
}

////////////////////////////////////////////////////////////////////////////////

// X25519 (golang.org/x/crypto/curve25519)

type x25519Curve struct{}

func (x25519Curve) ID() CurveID {
	return X25519
}

func (x25519Curve) GenerateKey(rand io.Reader) (*KeyPair, error) {
	s := &x25519Secret{}
	if _, err := io.ReadFull(rand, s.scalar[:]); err != nil {
		return nil, generateError(X25519, err)
	}
	pub, err := curve25519.X25519(s.scalar[:], curve25519.Basepoint)
	if err != nil {
		s.zero()
		return nil, generateError(X25519, err)
	}
	return newKeyPair(X25519, pub, s), nil
}

type x25519Secret struct {
	scalar [curve25519.ScalarSize]byte
}

// X25519 rejects low order points, which would otherwise give an all-zero secret.
func (s *x25519Secret) agree(peer []byte) ([]byte, error) {
	return curve25519.X25519(s.scalar[:], peer)
}

func (s *x25519Secret) zero() {
	for i := range s.scalar {
		s.scalar[i] = 0
	}
}

////////////////////////////////////////////////////////////////////////////////

// secp256k1 (decred)

type secp256k1Curve struct{}

func (secp256k1Curve) ID() CurveID {
	return Secp256k1
}

func (secp256k1Curve) GenerateKey(rand io.Reader) (*KeyPair, error) {
	priv, err := secp256k1.GeneratePrivateKeyFromRand(rand)
	if err != nil {
		return nil, generateError(Secp256k1, err)
	}
	return newKeyPair(Secp256k1, priv.PubKey().SerializeCompressed(), &secp256k1Secret{priv}), nil
}

type secp256k1Secret struct {
	priv *secp256k1.PrivateKey
}

func (s *secp256k1Secret) agree(peer []byte) ([]byte, error) {
	pub, err := secp256k1.ParsePubKey(peer)
	if err != nil {
		return nil, err
	}
	return secp256k1.GenerateSharedSecret(s.priv, pub), nil
}

func (s *secp256k1Secret) zero() {
	s.priv.Zero()
}
