package crypto

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"fmt"

	"github.com/tarantool/go-state/hasher"
)

var (
	// ErrNoPrivateKey is returned by Sign when only a public key is configured.
	ErrNoPrivateKey = errors.New("private key is not set")
	// ErrNoPublicKey is returned by Verify when no public key is configured.
	ErrNoPublicKey = errors.New("public key is not set")
)

// RSAPSS signs and verifies with RSASSA-PSS over a SHA-256 digest.
// A reader that only verifies needs just the public key.
type RSAPSS struct {
	privateKey *rsa.PrivateKey
	publicKey  *rsa.PublicKey
	hasher     hasher.Hasher
}

var _ SignerVerifier = RSAPSS{} //nolint:exhaustruct

// NewRSAPSS creates a signer-verifier. Either key may be nil.
func NewRSAPSS(privKey *rsa.PrivateKey, pubKey *rsa.PublicKey) RSAPSS {
	if pubKey == nil && privKey != nil {
		pubKey = &privKey.PublicKey
	}

	return RSAPSS{
		privateKey: privKey,
		publicKey:  pubKey,
		hasher:     hasher.NewSHA256Hasher(),
	}
}

// Name implements SignerVerifier interface.
func (r RSAPSS) Name() string {
	return "RSASSA-PSS"
}

func (r RSAPSS) pssOptions() *rsa.PSSOptions {
	return &rsa.PSSOptions{
		SaltLength: rsa.PSSSaltLengthEqualsHash,
		Hash:       crypto.SHA256,
	}
}

// Sign generates SHA-256 digest and signs it using RSASSA-PSS.
func (r RSAPSS) Sign(data []byte) ([]byte, error) {
	if r.privateKey == nil {
		return nil, ErrNoPrivateKey
	}

	digest, err := r.hasher.Hash(data)
	if err != nil {
		return nil, fmt.Errorf("failed to get hash: %w", err)
	}

	signature, err := rsa.SignPSS(rand.Reader, r.privateKey, crypto.SHA256, digest, r.pssOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to sign: %w", err)
	}

	return signature, nil
}

// Verify compares data with signature.
func (r RSAPSS) Verify(data []byte, signature []byte) error {
	if r.publicKey == nil {
		return ErrNoPublicKey
	}

	digest, err := r.hasher.Hash(data)
	if err != nil {
		return fmt.Errorf("failed to get hash: %w", err)
	}

	err = rsa.VerifyPSS(r.publicKey, crypto.SHA256, digest, signature, r.pssOptions())
	if err != nil {
		return fmt.Errorf("failed to verify: %w", err)
	}

	return nil
}
