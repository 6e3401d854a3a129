package woql

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func atom(p string) PathAtom { return PathAtom{Predicate: p} }

func TestCompilePath(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want Pattern
	}{
		{"atom", "knows", atom("knows")},
		{"prefixed atom", "@schema:knows", atom("@schema:knows")},
		{"unicode predicate", "@schema:prénom", atom("@schema:prénom")},
		{"unicode inverse in sequence", "@schema:prénom <ex:名前", PathSeq{Steps: []Pattern{
			atom("@schema:prénom"), PathAtom{Predicate: "ex:名前", Inverse: true},
		}}},
		{"IRI punctuation", "http://ex.org/p?x=1;y=2", atom("http://ex.org/p?x=1;y=2")},
		{"forward marker", "knows>", atom("knows")},
		{"inverse", "<knows", PathAtom{Predicate: "knows", Inverse: true}},
		{"sequence with commas", "a,b,c", PathSeq{Steps: []Pattern{atom("a"), atom("b"), atom("c")}}},
		{"sequence with spaces", "a b", PathSeq{Steps: []Pattern{atom("a"), atom("b")}}},
		{"alternation", "a|b", PathAlt{Options: []Pattern{atom("a"), atom("b")}}},
		{"star", "a*", PathRepeat{Of: atom("a"), Min: 0, Max: -1}},
		{"plus", "a+", PathRepeat{Of: atom("a"), Min: 1, Max: -1}},
		{"bounded", "a{2,5}", PathRepeat{Of: atom("a"), Min: 2, Max: 5}},
		{"sequence binds tighter than alternation", "a,b|c", PathAlt{Options: []Pattern{
			PathSeq{Steps: []Pattern{atom("a"), atom("b")}},
			atom("c"),
		}}},
		{"group", "(a|b),c", PathSeq{Steps: []Pattern{
			PathAlt{Options: []Pattern{atom("a"), atom("b")}},
			atom("c"),
		}}},
		{"redundant group dropped", "((a))", atom("a")},
		{"nested sequence flattened", "a,(b,c)", PathSeq{Steps: []Pattern{atom("a"), atom("b"), atom("c")}}},
		{"nested alternation flattened", "a|(b|c)", PathAlt{Options: []Pattern{atom("a"), atom("b"), atom("c")}}},
		{"repeated group", "(a,b)+", PathRepeat{
			Of:  PathSeq{Steps: []Pattern{atom("a"), atom("b")}},
			Min: 1, Max: -1,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CompilePath(tt.src)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("CompilePath(%q) mismatch (-want +got):\n%s", tt.src, diff)
			}
		})
	}
}

func TestCompilePath_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unclosed group", "(a,b"},
		{"stray close", "a)"},
		{"empty group", "()"},
		{"dangling bar", "a|"},
		{"leading bar", "|a"},
		{"bad bound", "a{2}"},
		{"reversed bound", "a{5,2}"},
		{"negative bound", "a{-1,2}"},
		{"unterminated bound", "a{1,2"},
		{"stray brace", "a}"},
		{"invalid utf-8", "a\xffb"},
		{"bare inverse", "<"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CompilePath(tt.src)
			require.Error(t, err)
			assert.True(t, IsInvalidPathPattern(err), "got %v", err)
		})
	}
}

func TestDecompilePath(t *testing.T) {
	tests := []struct {
		name string
		p    Pattern
		want string
	}{
		{"atom", atom("a"), "a"},
		{"inverse", PathAtom{Predicate: "a", Inverse: true}, "<a"},
		{"sequence", PathSeq{Steps: []Pattern{atom("a"), atom("b")}}, "a,b"},
		{"alternation inside sequence", PathSeq{Steps: []Pattern{
			PathAlt{Options: []Pattern{atom("a"), atom("b")}}, atom("c"),
		}}, "(a|b),c"},
		{"sequence inside alternation", PathAlt{Options: []Pattern{
			PathSeq{Steps: []Pattern{atom("a"), atom("b")}}, atom("c"),
		}}, "a,b|c"},
		{"star", PathRepeat{Of: atom("a"), Min: 0, Max: -1}, "a*"},
		{"plus of group", PathRepeat{
			Of: PathSeq{Steps: []Pattern{atom("a"), atom("b")}}, Min: 1, Max: -1,
		}, "(a,b)+"},
		{"bounded", PathRepeat{Of: atom("a"), Min: 0, Max: 3}, "a{0,3}"},
		{"one to one is the atom", PathRepeat{Of: atom("a"), Min: 1, Max: 1}, "a"},
		{"open lower bound", PathRepeat{Of: atom("a"), Min: 2, Max: -1}, "a{2,2},a*"},
		{"nested sequence stays nested", PathSeq{Steps: []Pattern{
			atom("a"), PathSeq{Steps: []Pattern{atom("b"), atom("c")}},
		}}, "a,(b,c)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecompilePath(tt.p))
		})
	}
}

func TestPath_RoundTrip(t *testing.T) {
	sources := []string{
		"knows",
		"<knows",
		"knows+,(likes|<hates)",
		"(a|b)*,c{1,3}",
		"a,b|c,d",
		"((a,b)+|c)*",
		"@schema:parent{2,4},@schema:name",
		"@schema:prénom+|<ex:名前",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			first, err := CompilePath(src)
			require.NoError(t, err)

			text := DecompilePath(first)
			second, err := CompilePath(text)
			require.NoError(t, err)

			if diff := cmp.Diff(first, second); diff != "" {
				t.Errorf("recompiled %q differs (-first +second):\n%s", text, diff)
			}
		})
	}
}
