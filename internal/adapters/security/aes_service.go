package security

import (
	"AidDesk/internal/core/ports"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/hkdf"
)

var _ ports.SecurityPort = (*aesService)(nil) // Ensure compliance

// Subkey labels. Changing either makes every stored row unreadable.
const (
	encryptionInfo = "aiddesk/field-encryption/v1"
	digestInfo     = "aiddesk/phone-digest/v1"
)

// aesService encrypts PII columns with AES-256-GCM and fingerprints phone
// variants with HMAC-SHA256. Both keys are derived from one master key.
type aesService struct {
	gcm       cipher.AEAD
	digestKey []byte
	log       zerolog.Logger
}

// NewAESService derives the field and digest keys from masterKey.
func NewAESService(masterKey []byte, baseLogger *zerolog.Logger) (ports.SecurityPort, error) {
	if len(masterKey) != 32 {
		return nil, errors.New("master key must be 32 bytes")
	}

	encKey, err := deriveKey(masterKey, encryptionInfo)
	if err != nil {
		return nil, err
	}
	digestKey, err := deriveKey(masterKey, digestInfo)
	if err != nil {
		return nil, err
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, fmt.Errorf("could not create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("could not create GCM: %w", err)
	}

	log := baseLogger.With().Str("component", "security_service").Logger()
	log.Info().Msg("Security service initialized")

	return &aesService{gcm: gcm, digestKey: digestKey, log: log}, nil
}

func deriveKey(master []byte, info string) ([]byte, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, master, nil, []byte(info)), key); err != nil {
		return nil, fmt.Errorf("could not derive %s key: %w", info, err)
	}
	return key, nil
}

// Encrypt returns nonce||ciphertext.
func (s *aesService) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, s.gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		s.log.Error().Err(err).Msg("Failed to generate nonce")
		return nil, fmt.Errorf("could not generate nonce: %w", err)
	}
	return s.gcm.Seal(nonce, nonce, plaintext, nil), nil
}

func (s *aesService) Decrypt(ciphertext []byte) ([]byte, error) {
	nonceSize := s.gcm.NonceSize()
	if len(ciphertext) < nonceSize {
		return nil, errors.New("ciphertext is too short")
	}

	nonce, sealed := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := s.gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		s.log.Warn().Err(err).Msg("Failed to decrypt column (tampered or wrong key?)")
		return nil, fmt.Errorf("could not decrypt: %w", err)
	}
	return plaintext, nil
}

func (s *aesService) Digest(data []byte) []byte {
	mac := hmac.New(sha256.New, s.digestKey)
	mac.Write(data)
	return mac.Sum(nil)
}
