package woql

import "maps"

// Vocabulary supplies the prefix map and the well-known predicate table
// used when cleaning slot values. It is read-only while a query is built.
type Vocabulary struct {
	// Prefixes maps a prefix (without the colon) to its namespace IRI.
	Prefixes map[string]string

	// Predicates maps a bareword predicate to the IRI it stands for.
	Predicates map[string]string
}

// DefaultVocabulary returns the standard prefixes and well-known predicates.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		Prefixes: map[string]string{
			"rdf":  rdfNamespace,
			"rdfs": "http://www.w3.org/2000/01/rdf-schema#",
			"owl":  "http://www.w3.org/2002/07/owl#",
			"xsd":  xsdNamespace,
			"xdd":  xddNamespace,
		},
		Predicates: map[string]string{
			"type":          "rdf:type",
			"label":         "rdfs:label",
			"comment":       "rdfs:comment",
			"subClassOf":    "rdfs:subClassOf",
			"subPropertyOf": "rdfs:subPropertyOf",
			"domain":        "rdfs:domain",
			"range":         "rdfs:range",
			"sameAs":        "owl:sameAs",
		},
	}
}

// Merge returns v extended with other. Entries in other win.
func (v Vocabulary) Merge(other Vocabulary) Vocabulary {
	out := Vocabulary{
		Prefixes:   maps.Clone(v.Prefixes),
		Predicates: maps.Clone(v.Predicates),
	}
	if out.Prefixes == nil {
		out.Prefixes = make(map[string]string)
	}
	if out.Predicates == nil {
		out.Predicates = make(map[string]string)
	}
	maps.Copy(out.Prefixes, other.Prefixes)
	maps.Copy(out.Predicates, other.Predicates)
	return out
}
