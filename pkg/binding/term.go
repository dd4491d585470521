package binding

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

const xsd = "http://www.w3.org/2001/XMLSchema#"

const (
	XSDString  = xsd + "string"
	XSDDouble  = xsd + "double"
	XSDFloat   = xsd + "float"
	XSDDecimal = xsd + "decimal"
	XSDInteger = xsd + "integer"
)

var ErrNotNumeric = errors.New("term is not a numeric literal")

var numericTypes = func() map[string]bool {
	m := map[string]bool{XSDDouble: true, XSDFloat: true, XSDDecimal: true, XSDInteger: true}
	for _, local := range []string{
		"int", "long", "short", "byte",
		"nonNegativeInteger", "nonPositiveInteger", "positiveInteger", "negativeInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte",
	} {
		m[xsd+local] = true
	}
	return m
}()

type TermKind uint8

const (
	KindIRI TermKind = iota + 1
	KindLiteral
	KindBlank
)

// Term is an RDF node bound to a variable. Only the parts a similarity join
// looks at are modelled: the lexical value and, for literals, datatype and
// language tag.
type Term struct {
	Kind     TermKind `msgpack:"k"`
	Value    string   `msgpack:"v"`
	Datatype string   `msgpack:"dt,omitempty"`
	Lang     string   `msgpack:"lang,omitempty"`
}

func NewIRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

func NewBlank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// NewLiteral returns a plain xsd:string literal.
func NewLiteral(lex string) Term {
	return Term{Kind: KindLiteral, Value: lex, Datatype: XSDString}
}

func NewTypedLiteral(lex, datatype string) Term {
	return Term{Kind: KindLiteral, Value: lex, Datatype: datatype}
}

func NewDouble(f float64) Term {
	return NewTypedLiteral(strconv.FormatFloat(f, 'g', -1, 64), XSDDouble)
}

func NewInteger(i int64) Term {
	return NewTypedLiteral(strconv.FormatInt(i, 10), XSDInteger)
}

func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

func (t Term) IsNumeric() bool {
	return t.Kind == KindLiteral && numericTypes[t.Datatype]
}

// Float returns the numeric value of a typed numeric literal.
func (t Term) Float() (float64, error) {
	if !t.IsNumeric() {
		return 0, errors.Wrapf(ErrNotNumeric, "%s", t)
	}
	lex := strings.TrimSpace(t.Value)
	switch lex {
	case "INF", "+INF":
		lex = "+Inf"
	case "-INF":
		lex = "-Inf"
	}
	f, err := strconv.ParseFloat(lex, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrNotNumeric, "%s: %v", t, err)
	}
	return f, nil
}

func (t Term) Equal(other Term) bool {
	return t == other
}

func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		q := strconv.Quote(t.Value)
		if t.Lang != "" {
			return q + "@" + t.Lang
		}
		if t.Datatype == "" || t.Datatype == XSDString {
			return q
		}
		return q + "^^<" + t.Datatype + ">"
	}
	return "UNDEF"
}
