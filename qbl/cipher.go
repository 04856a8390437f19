package qbl

import (
	"crypto/aes"
	"crypto/cipher"
)

// BlockSize is the AES block size used by the qbl cipher layer.
const BlockSize = aes.BlockSize

// Every qbl file is encrypted with the same key and IV. Reusing the IV is
// required for compatibility with existing files.
var (
	cipherKey = [16]byte{0x30, 0x85, 0xc1, 0x24, 0x9a, 0x56, 0xb6, 0x30, 0x79, 0x67, 0x5c, 0x88, 0xc8, 0x8a, 0xdc, 0xba}
	cipherIV  = [16]byte{0xdf, 0x86, 0x4a, 0x53, 0xc4, 0x68, 0xc9, 0x8f, 0xb4, 0xa5, 0x61, 0xdc, 0x14, 0xff, 0x53, 0x57}
)

// Created once; cipher.Block is safe for concurrent use.
var cipherBlock = mustBlock()

func mustBlock() cipher.Block {
	b, err := aes.NewCipher(cipherKey[:])
	if err != nil {
		// aes.NewCipher only fails on key length.
		panic(err)
	}
	return b
}

// Decrypt decrypts an AES-128-CBC ciphertext and strips its PKCS7 padding.
func Decrypt(crypt []byte) ([]byte, error) {
	if len(crypt) == 0 || len(crypt)%BlockSize != 0 {
		return nil, NewError(KindCrypto, "QBL-CRYPTO-001", "ciphertext is not a positive multiple of the block size")
	}
	plain := make([]byte, len(crypt))
	iv := cipherIV
	cipher.NewCBCDecrypter(cipherBlock, iv[:]).CryptBlocks(plain, crypt)
	return unpad(plain)
}

// Encrypt pads lenxml with PKCS7 and encrypts it with AES-128-CBC.
// The output is deterministic for a given input.
func Encrypt(lenxml []byte) []byte {
	padded := pad(lenxml)
	iv := cipherIV
	cipher.NewCBCEncrypter(cipherBlock, iv[:]).CryptBlocks(padded, padded)
	return padded
}

// pad returns a new slice holding b followed by 1..BlockSize padding bytes.
func pad(b []byte) []byte {
	n := BlockSize - len(b)%BlockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

func unpad(b []byte) ([]byte, error) {
	n := int(b[len(b)-1])
	if n == 0 || n > BlockSize || n > len(b) {
		return nil, NewError(KindCrypto, "QBL-CRYPTO-002", "invalid PKCS7 padding")
	}
	for _, p := range b[len(b)-n:] {
		if int(p) != n {
			return nil, NewError(KindCrypto, "QBL-CRYPTO-002", "invalid PKCS7 padding")
		}
	}
	return b[:len(b)-n], nil
}
