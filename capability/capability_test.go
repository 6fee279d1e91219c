package capability

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSerialization(t *testing.T) {
	assert.True(t, Serialization())
}

func TestTokenizer_NeverPanics(t *testing.T) {
	// The probe converts any failure into false; a bogus encoding
	// must not panic or error.
	assert.NotPanics(t, func() {
		_ = Tokenizer("definitely_not_an_encoding")
	})
	assert.False(t, Tokenizer("definitely_not_an_encoding"))
}

func TestReport(t *testing.T) {
	report := Report()
	assert.Contains(t, report, "cpu")
	assert.Contains(t, report, "cores")
	assert.Contains(t, report, "simd")
	assert.Equal(t, true, report["serialization"])
}
