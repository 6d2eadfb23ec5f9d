package query

import (
	"fmt"
	"strings"

	"github.com/mgodwin/searchql/internal"
)

// Compile turns an Expr tree into a RediSearch query string.
// It is intentionally exported so callers can pre-view the query
// (handy for logging, telemetry, or offline explain).
func Compile(e Expr) string {
	sb := internal.GetBuilder()
	defer internal.PutBuilder(sb)
	e.compile(sb)
	return sb.String()
}

// -------------------------------------------------------------------
// node writers – kept in a central file so cross-node helpers don’t
// cause import cycles. Only expr.go’s structs know about these funcs.
// -------------------------------------------------------------------

func (n *match) compile(sb *strings.Builder) {
	fmt.Fprintf(sb, "%s:{%v}", fieldRef(n.f.Name), n.v)
}

func (n *in) compile(sb *strings.Builder) {
	sb.WriteString(fieldRef(n.f) + ":{")
	for i, v := range n.vs {
		if i > 0 {
			sb.WriteByte('|')
		}
		fmt.Fprint(sb, v)
	}
	sb.WriteByte('}')
}

func (n *rng) compile(sb *strings.Builder) {
	left, right := "(", ")"
	if n.inc {
		left, right = "[", "]"
	}
	fmt.Fprintf(sb, "%s:%s%v %v%s", fieldRef(n.f), left, n.lo, n.hi, right)
}

func (matchAll) compile(sb *strings.Builder) { sb.WriteByte('*') }

// Boolean renders its children bucketed by resolved occurrence, in the
// engine's evaluation order: musts space-joined, shoulds '|'-joined in one
// group, must-nots '-' prefixed. Insertion order is preserved inside each
// bucket, so compilation is deterministic.
func (b *Boolean) compile(sb *strings.Builder) {
	if len(b.children) == 0 {
		sb.WriteByte('*')
		return
	}

	var musts, shoulds, nots []Expr
	for _, c := range b.children {
		switch c.Occur.Resolve() {
		case OccurMust:
			musts = append(musts, c.Node)
		case OccurMustNot:
			nots = append(nots, c.Node)
		default:
			shoulds = append(shoulds, c.Node)
		}
	}

	sb.WriteByte('(')
	wrote := false
	sep := func() {
		if wrote {
			sb.WriteByte(' ')
		}
		wrote = true
	}

	for _, m := range musts {
		sep()
		m.compile(sb)
	}

	if len(shoulds) == 1 {
		sep()
		shoulds[0].compile(sb)
	} else if len(shoulds) > 1 {
		sep()
		sb.WriteByte('(')
		for i, s := range shoulds {
			if i > 0 {
				sb.WriteByte('|')
			}
			s.compile(sb)
		}
		sb.WriteByte(')')
	}

	for _, n := range nots {
		sep()
		sb.WriteString("-(")
		n.compile(sb)
		sb.WriteByte(')')
	}

	sb.WriteByte(')')
}
