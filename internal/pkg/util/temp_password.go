package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const tempPasswordAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789"

// GenerateTemporaryPassword gera a senha temporária enviada no
// provisionamento de acesso (alfabeto sem caracteres ambíguos).
func GenerateTemporaryPassword(length int) (string, error) {
	if length <= 0 {
		length = 10
	}

	out := make([]byte, length)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("failed to generate temporary password: %w", err)
		}
		out[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(out), nil
}
