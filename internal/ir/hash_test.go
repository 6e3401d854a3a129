package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTriple(subject string) IRObject {
	return IRObject{
		"@type":     IRString("Triple"),
		"subject":   IRObject{"@type": IRString("NodeValue"), "variable": IRString(subject)},
		"predicate": IRObject{"@type": IRString("NodeValue"), "node": IRString("rdf:type")},
		"object":    IRObject{"@type": IRString("Value"), "node": IRString("@schema:Person")},
	}
}

func TestQueryHashDeterminism(t *testing.T) {
	h1, err := QueryHash(sampleTriple("X"))
	require.NoError(t, err)
	h2, err := QueryHash(sampleTriple("X"))
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "SHA-256 hex is 64 characters")
}

func TestQueryHashChangesWithContent(t *testing.T) {
	assert.NotEqual(t, MustQueryHash(sampleTriple("X")), MustQueryHash(sampleTriple("Y")))
}

func TestQueryHashIgnoresNormalisationForm(t *testing.T) {
	a := IRObject{"@type": IRString("Equals"), "name": IRString("Jose\u0301")}
	b := IRObject{"@type": IRString("Equals"), "name": IRString("Jos\u00e9")}

	assert.Equal(t, MustQueryHash(a), MustQueryHash(b))
}

func TestQueryHashDistinguishesDecimalText(t *testing.T) {
	a := IRObject{"v": IRDecimal("1.5")}
	b := IRObject{"v": IRDecimal("1.50")}

	assert.NotEqual(t, MustQueryHash(a), MustQueryHash(b))
}

func TestDomainSeparation(t *testing.T) {
	obj := IRObject{"X": IRString("Alice")}

	q, err := QueryHash(obj)
	require.NoError(t, err)
	b, err := BindingHash(obj)
	require.NoError(t, err)

	assert.NotEqual(t, q, b, "same payload hashed under different domains must differ")
}

func TestQueryHashRejectsNull(t *testing.T) {
	_, err := QueryHash(IRObject{"x": IRNull{}})
	assert.Error(t, err)

	assert.Panics(t, func() { MustQueryHash(IRObject{"x": IRNull{}}) })
}
