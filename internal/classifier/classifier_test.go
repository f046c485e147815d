package classifier

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeResultDefaultsMissingSeverity(t *testing.T) {
	raw := `{"isBullying": true, "isDepressive": false, "explanation": "insulting language"}`

	result, err := decodeResult(raw)
	require.NoError(t, err)

	assert.True(t, result.IsBullying)
	require.NotNil(t, result.BullyingSeverity)
	assert.Equal(t, 0.5, *result.BullyingSeverity)

	assert.False(t, result.IsDepressive)
	assert.Nil(t, result.DepressiveSeverity)
}

func TestDecodeResultBothFlags(t *testing.T) {
	raw := `{
		"isBullying": true, "bullyingSeverity": 0.8,
		"isDepressive": true, "depressiveSeverity": 0.3,
		"explanation": "hostile and hopeless tone"
	}`

	result, err := decodeResult(raw)
	require.NoError(t, err)

	require.NotNil(t, result.BullyingSeverity)
	assert.Equal(t, 0.8, *result.BullyingSeverity)
	require.NotNil(t, result.DepressiveSeverity)
	assert.Equal(t, 0.3, *result.DepressiveSeverity)
	assert.Equal(t, "hostile and hopeless tone", result.Explanation)
}

func TestDecodeResultNegativeFlagsDropSeverity(t *testing.T) {
	// A severity on a negative flag is noise and gets cleared.
	raw := `{"isBullying": false, "bullyingSeverity": 0.9, "isDepressive": false, "explanation": "neutral"}`

	result, err := decodeResult(raw)
	require.NoError(t, err)
	assert.Nil(t, result.BullyingSeverity)
	assert.Nil(t, result.DepressiveSeverity)
}

func TestDecodeResultClampsSeverity(t *testing.T) {
	raw := `{"isBullying": true, "bullyingSeverity": 1.7, "isDepressive": true, "depressiveSeverity": -0.2, "explanation": "x"}`

	result, err := decodeResult(raw)
	require.NoError(t, err)
	assert.Equal(t, 1.0, *result.BullyingSeverity)
	assert.Equal(t, 0.0, *result.DepressiveSeverity)
}

func TestDecodeResultStripsMarkdownFence(t *testing.T) {
	raw := "```json\n{\"isBullying\": false, \"isDepressive\": true, \"depressiveSeverity\": 0.6, \"explanation\": \"withdrawn tone\"}\n```"

	result, err := decodeResult(raw)
	require.NoError(t, err)
	assert.True(t, result.IsDepressive)
	assert.Equal(t, 0.6, *result.DepressiveSeverity)
}

func TestDecodeResultMalformed(t *testing.T) {
	_, err := decodeResult("I think this looks fine to me.")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedOutput))
}
