package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashECompare(t *testing.T) {
	p := UsePassword()

	hash, err := p.Hash("Senha@123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$"))

	assert.NoError(t, p.Compare(hash, "Senha@123"))
	assert.Error(t, p.Compare(hash, "senha@123"))
	assert.Error(t, p.Compare(hash, ""))
}

func TestHashGeraSaltDistinto(t *testing.T) {
	p := UsePassword()

	h1, err := p.Hash("Senha@123")
	require.NoError(t, err)
	h2, err := p.Hash("Senha@123")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestCompareHashMalformado(t *testing.T) {
	p := UsePassword()
	assert.Error(t, p.Compare("nao-e-um-hash", "Senha@123"))
}

func TestGenerateTemporaryPassword(t *testing.T) {
	senha, err := GenerateTemporaryPassword(10)
	require.NoError(t, err)
	assert.Len(t, senha, 10)
	for _, c := range senha {
		assert.Contains(t, tempPasswordAlphabet, string(c))
	}

	// Tamanho inválido cai no padrão.
	senha, err = GenerateTemporaryPassword(0)
	require.NoError(t, err)
	assert.Len(t, senha, 10)
}
