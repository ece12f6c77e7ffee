// Package encryption implements the vault container: a password-derived AES-256-CBC
// stream prefixed by its salt and IV.
//
// Layout:
//
//	offset 0   16 bytes  salt
//	offset 16  16 bytes  IV
//	offset 32  N bytes   ciphertext, PKCS#7 padded
//
// The container has no integrity tag. A wrong password is detected only through
// invalid padding in the final block, and cannot be told apart from corruption.
package encryption
