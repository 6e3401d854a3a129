package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalScalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"string", IRString("abc"), `"abc"`},
		{"plain string", "abc", `"abc"`},
		{"int", IRInt(42), `42`},
		{"negative int", IRInt(-1), `-1`},
		{"go int", 7, `7`},
		{"go int64", int64(8), `8`},
		{"decimal", IRDecimal("0.50"), `0.50`},
		{"true", IRBool(true), `true`},
		{"go bool", false, `false`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalEscaping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"quote", `a"b`, `"a\"b"`},
		{"backslash", `a\b`, `"a\\b"`},
		{"newline", "a\nb", `"a\nb"`},
		{"tab", "a\tb", `"a\tb"`},
		{"control", "a\x01b", `"a\u0001b"`},
		{"html kept", "<&>", `"<&>"`},
		{"line separator kept", "a\u2028b", "\"a\u2028b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(IRString(tt.in))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "é" as e + combining acute (NFD) and as the precomposed rune (NFC).
	nfd := IRObject{"name": IRString("e\u0301")}
	nfc := IRObject{"name": IRString("\u00e9")}

	a, err := MarshalCanonical(nfd)
	require.NoError(t, err)
	b, err := MarshalCanonical(nfc)
	require.NoError(t, err)

	assert.Equal(t, string(b), string(a))
}

func TestMarshalCanonicalNestedQuery(t *testing.T) {
	ast := IRObject{
		"@type": IRString("Triple"),
		"subject": IRObject{
			"@type":    IRString("NodeValue"),
			"variable": IRString("X"),
		},
		"predicate": IRObject{
			"@type": IRString("NodeValue"),
			"node":  IRString("rdf:type"),
		},
		"object": IRObject{
			"@type": IRString("Value"),
			"node":  IRString("@schema:Person"),
		},
	}

	got, err := MarshalCanonical(ast)
	require.NoError(t, err)
	assert.Equal(t,
		`{"@type":"Triple","object":{"@type":"Value","node":"@schema:Person"},"predicate":{"@type":"NodeValue","node":"rdf:type"},"subject":{"@type":"NodeValue","variable":"X"}}`,
		string(got))
}

func TestMarshalCanonicalGoContainers(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{"b": []any{1, "x"}, "a": true})
	require.NoError(t, err)
	assert.Equal(t, `{"a":true,"b":[1,"x"]}`, string(got))
}

func TestMarshalCanonicalRejects(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"nil", nil},
		{"IRNull", IRNull{}},
		{"null nested in array", IRArray{IRInt(1), IRNull{}}},
		{"null nested in object", IRObject{"x": IRNull{}}},
		{"float64", 1.5},
		{"bad decimal", IRDecimal("1.")},
		{"struct", struct{}{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.in)
			assert.Error(t, err)
		})
	}
}
