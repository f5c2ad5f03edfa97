package common

import (
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"
)

// AddressLength is the decoded length of a holder address (ed25519 public key size)
const AddressLength = 32

// EncodeBytesToBase58 encodes bytes directly to base58
func EncodeBytesToBase58(bytes []byte) string {
	return base58.Encode(bytes)
}

// DecodeBase58ToBytes decodes base58 string to bytes
func DecodeBase58ToBytes(base58Str string) ([]byte, error) {
	bytes, err := base58.Decode(base58Str)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base58 string: %w", err)
	}
	return bytes, nil
}

// IsValidBase58 checks if a string is valid base58
func IsValidBase58(str string) bool {
	decoded, err := base58.Decode(str)
	return err == nil && len(decoded) > 0
}

// ValidateAddress checks that addr is base58 of exactly AddressLength bytes
func ValidateAddress(addr string) error {
	decoded, err := DecodeBase58ToBytes(addr)
	if err != nil {
		return err
	}
	if len(decoded) != AddressLength {
		return fmt.Errorf("address %s decodes to %d bytes, expected %d", addr, len(decoded), AddressLength)
	}
	return nil
}

// DeriveAddress produces a deterministic address from a label. Used for
// vault accounts that have no key pair of their own.
func DeriveAddress(label string) string {
	sum := sha256.Sum256([]byte(label))
	return EncodeBytesToBase58(sum[:])
}
