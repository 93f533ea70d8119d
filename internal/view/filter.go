package view

import (
	"strconv"
	"strings"

	"tuiwbs/internal/model"
)

// filterNodes returns the subset of nodes satisfying every predicate
// (AND-combined). A node missing the filtered column's value is excluded
// from any predicate other than eq/ne, per 4.4.
func filterNodes(nodes []*model.Node, predicates []model.FilterPredicate) []*model.Node {
	if len(predicates) == 0 {
		return nodes
	}
	var out []*model.Node
	for _, n := range nodes {
		if matchesAll(n, predicates) {
			out = append(out, n)
		}
	}
	return out
}

func matchesAll(n *model.Node, predicates []model.FilterPredicate) bool {
	for _, pred := range predicates {
		if !matches(n, pred) {
			return false
		}
	}
	return true
}

func matches(n *model.Node, pred model.FilterPredicate) bool {
	value := cellValue(n, pred.Column)
	missing := value == ""

	switch pred.Op {
	case model.OpEq:
		lit := first(pred.Literal)
		return value == lit
	case model.OpNe:
		lit := first(pred.Literal)
		return value != lit
	case model.OpIn:
		if missing {
			return false
		}
		return contains(pred.Literal, value)
	case model.OpNotIn:
		if missing {
			return false
		}
		return !contains(pred.Literal, value)
	case model.OpContains:
		if missing {
			return false
		}
		return strings.Contains(strings.ToLower(value), strings.ToLower(first(pred.Literal)))
	case model.OpLt, model.OpLe, model.OpGt, model.OpGe:
		if missing {
			return false
		}
		return compareOp(value, first(pred.Literal), pred.Op)
	case model.OpBetween:
		if missing || len(pred.Literal) < 2 {
			return false
		}
		return value >= pred.Literal[0] && value <= pred.Literal[1]
	default:
		return false
	}
}

func compareOp(value, lit string, op model.FilterOp) bool {
	vn, vErr := strconv.ParseFloat(value, 64)
	ln, lErr := strconv.ParseFloat(lit, 64)
	if vErr == nil && lErr == nil {
		switch op {
		case model.OpLt:
			return vn < ln
		case model.OpLe:
			return vn <= ln
		case model.OpGt:
			return vn > ln
		case model.OpGe:
			return vn >= ln
		}
	}
	switch op {
	case model.OpLt:
		return value < lit
	case model.OpLe:
		return value <= lit
	case model.OpGt:
		return value > lit
	case model.OpGe:
		return value >= lit
	}
	return false
}

func first(lits []string) string {
	if len(lits) == 0 {
		return ""
	}
	return lits[0]
}

func contains(list []string, v string) bool {
	for _, l := range list {
		if l == v {
			return true
		}
	}
	return false
}
