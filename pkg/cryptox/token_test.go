package cryptox

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateTokenLengthAndUniqueness(t *testing.T) {
	t.Parallel()

	a, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.Len(t, a, 22)

	b, err := GenerateToken(TokenSize128)
	require.NoError(t, err)
	require.NotEqual(t, a, b)
}

func TestGenerateTokenRejectsNonPositiveSize(t *testing.T) {
	t.Parallel()

	_, err := GenerateToken(0)
	require.Error(t, err)
	_, err = GenerateToken(-1)
	require.Error(t, err)
}

func TestFingerprintTokenIsDeterministic(t *testing.T) {
	t.Parallel()

	fp := FingerprintToken("some-token")
	require.Equal(t, fp, FingerprintToken("some-token"))
	require.NotEqual(t, fp, FingerprintToken("other-token"))
	require.Len(t, fp, 43)
}
