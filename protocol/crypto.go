package protocol

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/binary"
)

// Signer produces a signature over payload. Cryptographic key
// management is an external collaborator to this module; the core
// protocol only ever calls through this narrow interface.
type Signer interface {
	Sign(payload []byte) ([]byte, error)
}

// Verifier checks a signature over payload for a named agent.
type Verifier interface {
	Verify(agentID string, payload, signature []byte) error
}

// DeriveAgentID computes the did:swarm:<hex> identifier from a raw
// Ed25519 public key, per the swarm's identity scheme.
func DeriveAgentID(pubKey ed25519.PublicKey) string {
	sum := sha256.Sum256(pubKey)
	return "did:swarm:" + hex.EncodeToString(sum[:])
}

// Ed25519Signer is a reference Signer backed by the standard library's
// crypto/ed25519. Production key custody lives outside this module;
// this implementation exists for tests and local single-process runs.
type Ed25519Signer struct {
	key ed25519.PrivateKey
}

// NewEd25519Signer generates a fresh Ed25519 keypair-backed Signer.
func NewEd25519Signer() (*Ed25519Signer, ed25519.PublicKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return &Ed25519Signer{key: priv}, pub, nil
}

func (s *Ed25519Signer) Sign(payload []byte) ([]byte, error) {
	return ed25519.Sign(s.key, payload), nil
}

// Ed25519Verifier is a reference Verifier over a fixed set of known
// agent public keys.
type Ed25519Verifier struct {
	keys map[string]ed25519.PublicKey
}

// NewEd25519Verifier creates a Verifier over the given agentID->pubkey map.
func NewEd25519Verifier(keys map[string]ed25519.PublicKey) *Ed25519Verifier {
	return &Ed25519Verifier{keys: keys}
}

func (v *Ed25519Verifier) Verify(agentID string, payload, signature []byte) error {
	key, ok := v.keys[agentID]
	if !ok {
		return &InvalidSignatureError{Reason: "unknown agent: " + agentID}
	}
	if !ed25519.Verify(key, payload, signature) {
		return &InvalidSignatureError{Reason: "signature does not match"}
	}
	return nil
}

// ProofOfWork finds a nonce such that SHA-256(data || nonce) has at
// least difficulty leading zero bits.
func ProofOfWork(data []byte, difficulty uint32) (nonce uint64, hash [32]byte) {
	var buf [8]byte
	for {
		h := sha256.New()
		h.Write(data)
		binary.LittleEndian.PutUint64(buf[:], nonce)
		h.Write(buf[:])
		sum := h.Sum(nil)
		copy(hash[:], sum)
		if leadingZeroBits(hash) >= difficulty {
			return nonce, hash
		}
		nonce++
	}
}

// VerifyProofOfWork reports whether nonce solves the PoW puzzle for
// data at the given difficulty.
func VerifyProofOfWork(data []byte, nonce uint64, difficulty uint32) bool {
	var buf [8]byte
	h := sha256.New()
	h.Write(data)
	binary.LittleEndian.PutUint64(buf[:], nonce)
	h.Write(buf[:])
	var hash [32]byte
	copy(hash[:], h.Sum(nil))
	return leadingZeroBits(hash) >= difficulty
}

func leadingZeroBits(hash [32]byte) uint32 {
	var count uint32
	for _, b := range hash {
		if b == 0 {
			count += 8
			continue
		}
		count += uint32(leadingZerosByte(b))
		break
	}
	return count
}

func leadingZerosByte(b byte) int {
	n := 0
	for i := 7; i >= 0; i-- {
		if b&(1<<uint(i)) != 0 {
			break
		}
		n++
	}
	return n
}
