package ports

// SecurityPort protects requester PII at rest.
type SecurityPort interface {
	// Encrypt seals plaintext; every call uses a fresh nonce.
	Encrypt(plaintext []byte) ([]byte, error)
	// Decrypt opens a value produced by Encrypt and fails on tampering.
	Decrypt(ciphertext []byte) ([]byte, error)
	// Digest is a keyed, deterministic fingerprint used to look up encrypted
	// phone numbers by equality.
	Digest(data []byte) []byte
}
