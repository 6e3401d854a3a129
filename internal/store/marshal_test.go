package store

import (
	"testing"

	"github.com/roach88/woql/internal/ir"
)

func TestMarshalAST_Canonical(t *testing.T) {
	ast := ir.IRObject{
		"@type": ir.IRString("Limit"),
		"query": ir.IRObject{"@type": ir.IRString("True")},
		"limit": ir.IRInt(10),
	}
	got, err := marshalAST(ast)
	if err != nil {
		t.Fatalf("marshalAST() failed: %v", err)
	}

	expected := `{"@type":"Limit","limit":10,"query":{"@type":"True"}}`
	if got != expected {
		t.Errorf("marshalAST() = %q, want %q", got, expected)
	}
}

func TestUnmarshalAST_KeepsDecimalText(t *testing.T) {
	obj, err := unmarshalAST(`{"@value":3.50}`)
	if err != nil {
		t.Fatalf("unmarshalAST() failed: %v", err)
	}
	if got := obj["@value"]; got != ir.IRDecimal("3.50") {
		t.Errorf("@value = %#v, want IRDecimal(\"3.50\")", got)
	}
}

func TestUnmarshalAST_Errors(t *testing.T) {
	for _, data := range []string{"", "[1]", "{"} {
		if _, err := unmarshalAST(data); err == nil {
			t.Errorf("unmarshalAST(%q) succeeded, want error", data)
		}
	}
}
