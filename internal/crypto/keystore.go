package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"
	"runtime"

	"github.com/zalando/go-keyring"

	"iseesync/internal/logging"
)

const (
	keystoreService = "iseesync"
	keystoreUser    = "encryption-key"
)

// GenerateOrLoadKey returns the 32-byte AES-256 key from the system keychain,
// generating and storing a fresh one when none exists yet.
func GenerateOrLoadKey() ([]byte, error) {
	keyString, err := keyring.Get(keystoreService, keystoreUser)
	if err == nil && keyString != "" {
		return []byte(keyString), nil
	}

	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		logging.Warn().Err(err).Msg("keystore lookup failed")
	}

	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("failed to generate random key: %w", err)
	}

	if err := keyring.Set(keystoreService, keystoreUser, string(key)); err != nil {
		// Headless Linux boxes often have no secret service. The key then
		// only lives for this process, which forces ISEE_ENCRYPTION_KEY.
		logging.Warn().Err(err).Msg("failed to store key in keychain, key will be regenerated on next launch")

		if runtime.GOOS == "darwin" || runtime.GOOS == "windows" {
			return nil, fmt.Errorf("keychain storage required on %s: %w", runtime.GOOS, err)
		}
	}

	return key, nil
}

// DeleteKey removes the encryption key from the keychain.
func DeleteKey() error {
	return keyring.Delete(keystoreService, keystoreUser)
}

// IsKeyStored checks whether an encryption key exists in the keychain.
func IsKeyStored() bool {
	_, err := keyring.Get(keystoreService, keystoreUser)
	return err == nil
}
