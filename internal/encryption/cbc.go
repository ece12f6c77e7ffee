package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"
	"io"
)

// encryptCBC streams r through mode into w.
// Complete blocks are encrypted as soon as they are read; the trailing
// partial block is padded at end of input.
func encryptCBC(mode cipher.BlockMode, r io.Reader, w io.Writer) (int64, error) {
	bufp := bufferPool.Get().(*[]byte) //nolint:forcetypeassert
	defer bufferPool.Put(bufp)

	buf := *bufp
	pending := make([]byte, 0, chunkSize+aes.BlockSize)

	var read int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			read += int64(n)
			pending = append(pending, buf[:n]...)

			if full := len(pending) - len(pending)%aes.BlockSize; full > 0 {
				mode.CryptBlocks(pending[:full], pending[:full])

				if _, err := w.Write(pending[:full]); err != nil {
					return read, fmt.Errorf("writing encrypted block: %w", err)
				}

				pending = append(pending[:0], pending[full:]...)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return read, fmt.Errorf("reading input: %w", err)
		}
	}

	padded := pkcs7Pad(pending, aes.BlockSize)
	mode.CryptBlocks(padded, padded)

	if _, err := w.Write(padded); err != nil {
		return read, fmt.Errorf("writing final encrypted block: %w", err)
	}

	return read, nil
}

// decryptCBC streams the ciphertext in r through mode into w.
// The last block is always held back so its padding can be removed.
func decryptCBC(mode cipher.BlockMode, r io.Reader, w io.Writer) (int64, error) {
	bufp := bufferPool.Get().(*[]byte) //nolint:forcetypeassert
	defer bufferPool.Put(bufp)

	buf := *bufp
	pending := make([]byte, 0, chunkSize+2*aes.BlockSize)

	var written int64

	for {
		n, err := r.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)

			ready := len(pending) - len(pending)%aes.BlockSize
			if ready == len(pending) {
				ready -= aes.BlockSize
			}

			if ready > 0 {
				mode.CryptBlocks(pending[:ready], pending[:ready])

				if _, err := w.Write(pending[:ready]); err != nil {
					return written, fmt.Errorf("writing decrypted block: %w", err)
				}

				written += int64(ready)
				pending = append(pending[:0], pending[ready:]...)
			}
		}

		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return written, fmt.Errorf("reading input: %w", err)
		}
	}

	switch {
	case len(pending) == 0:
		return written, fmt.Errorf("%w: %w: empty ciphertext", ErrDecryption, ErrInvalidPadding)
	case len(pending) != aes.BlockSize:
		return written, fmt.Errorf("%w: %w", ErrDecryption, ErrInvalidBlockSize)
	}

	mode.CryptBlocks(pending, pending)

	unpadded, err := pkcs7Unpad(pending)
	if err != nil {
		return written, fmt.Errorf("%w: removing padding: %w", ErrDecryption, err)
	}

	if _, err := w.Write(unpadded); err != nil {
		return written, fmt.Errorf("writing final decrypted block: %w", err)
	}

	return written + int64(len(unpadded)), nil
}
