package encryption

import "errors"

var (
	// ErrTruncatedHeader is returned when a container is shorter than its salt and IV.
	ErrTruncatedHeader = errors.New("truncated header")
	// ErrDecryption is returned when ciphertext cannot be decrypted.
	// A wrong password and corrupted data are indistinguishable.
	ErrDecryption = errors.New("decryption failed (wrong password or corrupted data)")
	// ErrInvalidPadding is returned when PKCS7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when encrypted data length is not aligned with AES block size.
	ErrInvalidBlockSize = errors.New("ciphertext is not a multiple of block size")
	// ErrNoPassword is returned when no password source is available.
	ErrNoPassword = errors.New("no password available")
)
