package crypto

import (
	"bytes"
	"crypto/rand"
	"errors"
	"fmt"
	"testing"

	"github.com/yggdrasil-network/rplsim/src/types"
)

func generate(t *testing.T, c Curve) *KeyPair {
	t.Helper()
	k, err := c.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	return k
}

func TestSharedSecretSymmetry(t *testing.T) {
	for _, id := range Curves() {
		t.Run(string(id), func(t *testing.T) {
			c, err := ParseCurve(string(id))
			if err != nil {
				t.Fatal(err)
			}
			for i := 0; i < 8; i++ {
				a, b := generate(t, c), generate(t, c)
				ab, err := a.SharedSecret(b.Public())
				if err != nil {
					t.Fatal(err)
				}
				ba, err := b.SharedSecret(a.Public())
				if err != nil {
					t.Fatal(err)
				}
				if !bytes.Equal(ab, ba) {
					t.Fatal("shared secrets differ")
				}
				if !ab.Equal(ba) {
					t.Fatal("constant time comparison disagrees with bytes.Equal")
				}
			}
		})
	}
}

func TestKeysAreIndependent(t *testing.T) {
	for _, id := range Curves() {
		c, _ := ParseCurve(string(id))
		a, b := generate(t, c), generate(t, c)
		if bytes.Equal(a.Public().Bytes(), b.Public().Bytes()) {
			t.Fatalf("%s: two draws produced the same public key", id)
		}
		if a.Curve() != id || a.Public().Curve() != id {
			t.Fatalf("%s: key pair reports the wrong curve", id)
		}
	}
}

func TestDifferentPeersGiveDifferentSecrets(t *testing.T) {
	c, _ := ParseCurve("P-256")
	a, b, d := generate(t, c), generate(t, c), generate(t, c)
	ab, err := a.SharedSecret(b.Public())
	if err != nil {
		t.Fatal(err)
	}
	ad, err := a.SharedSecret(d.Public())
	if err != nil {
		t.Fatal(err)
	}
	if ab.Equal(ad) {
		t.Fatal("secrets with different peers should differ")
	}
}

func TestCurveMismatch(t *testing.T) {
	p256, _ := ParseCurve("P-256")
	x25519, _ := ParseCurve("X25519")
	a, b := generate(t, p256), generate(t, x25519)
	if _, err := a.SharedSecret(b.Public()); !errors.Is(err, types.ErrCryptoFailure) {
		t.Fatalf("expected a crypto failure, got %v", err)
	}
}

func TestMalformedPublicKey(t *testing.T) {
	tests := map[CurveID][]byte{
		P256:      {0x04, 0x01, 0x02},
		P384:      bytes.Repeat([]byte{0xff}, 97),
		X25519:    make([]byte, 32), // low order point
		Secp256k1: {0x05, 0x00},
	}
	for id, raw := range tests {
		c, _ := ParseCurve(string(id))
		k := generate(t, c)
		if _, err := k.SharedSecret(NewPublicKey(id, raw)); !errors.Is(err, types.ErrCryptoFailure) {
			t.Fatalf("%s: expected a crypto failure, got %v", id, err)
		}
	}
}

func TestDestroy(t *testing.T) {
	for _, id := range Curves() {
		c, _ := ParseCurve(string(id))
		a, b := generate(t, c), generate(t, c)
		a.Destroy()
		a.Destroy()
		if _, err := a.SharedSecret(b.Public()); !errors.Is(err, types.ErrCryptoFailure) {
			t.Fatalf("%s: destroyed key pair should not derive secrets", id)
		}
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("entropy exhausted")
}

func TestGenerateKeyEntropyFailure(t *testing.T) {
	c, _ := ParseCurve("X25519")
	if _, err := c.GenerateKey(failingReader{}); !errors.Is(err, types.ErrCryptoFailure) {
		t.Fatalf("expected a crypto failure, got %v", err)
	}
}

func TestParseCurve(t *testing.T) {
	tests := map[string]CurveID{
		"":           P256,
		"P-256":      P256,
		"prime256v1": P256,
		"SECP256R1":  P256,
		"p384":       P384,
		"secp521r1":  P521,
		"Curve25519": X25519,
		" x25519 ":   X25519,
		"secp256k1":  Secp256k1,
		"K256":       Secp256k1,
	}
	for name, want := range tests {
		c, err := ParseCurve(name)
		if err != nil {
			t.Fatalf("%q: %v", name, err)
		}
		if c.ID() != want {
			t.Fatalf("%q: expected %s, got %s", name, want, c.ID())
		}
	}
	if _, err := ParseCurve("brainpoolP256r1"); !errors.Is(err, types.ErrInvalidArgument) {
		t.Fatal("unknown curves should be rejected as invalid arguments")
	}
	if len(Curves()) != 5 {
		t.Fatalf("expected 5 curves, got %v", Curves())
	}
}

func TestSharedSecretIsRedacted(t *testing.T) {
	s := SharedSecret{0xde, 0xad, 0xbe, 0xef}
	for _, out := range []string{
		fmt.Sprint(s),
		fmt.Sprintf("%v %s %#v", s, s, s),
	} {
		if bytes.Contains([]byte(out), []byte("dead")) || bytes.Contains([]byte(out), []byte("222")) {
			t.Fatalf("secret leaked into %q", out)
		}
	}
	s.Zero()
	if !bytes.Equal(s, make([]byte, 4)) {
		t.Fatal("Zero should wipe the secret")
	}
}
