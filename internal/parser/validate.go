package parser

import (
	"fmt"

	"tuiwbs/internal/model"
)

// ValidateDepends scans every node's depends list against the project's
// titles and appends a warning (never an error) for duplicate titles,
// references to a title that exists nowhere in the project, and
// dependency cycles. Per the dependency-references invariant, unmatched
// references are never fatal.
func ValidateDepends(p *model.Project) []model.ParseWarning {
	var warnings []model.ParseWarning

	nodes := p.AllNodes()
	byTitle := map[string][]*model.Node{}
	for _, n := range nodes {
		byTitle[n.Title] = append(byTitle[n.Title], n)
	}
	for title, ns := range byTitle {
		if len(ns) > 1 {
			warnings = append(warnings, model.ParseWarning{
				Kind: "DuplicateTitle", Message: fmt.Sprintf("title %q appears %d times", title, len(ns)),
			})
		}
	}

	for _, n := range nodes {
		for _, dep := range n.Depends {
			if _, ok := byTitle[dep]; !ok {
				warnings = append(warnings, model.ParseWarning{
					File: n.SourceFile, Kind: "UnresolvedDependency",
					Message: fmt.Sprintf("%q depends on unknown title %q", n.Title, dep),
				})
			}
		}
	}

	seen := map[string]int{} // 0=unvisited (absent), 1=in-progress, 2=done
	var visit func(n *model.Node, chain []string) bool
	visit = func(n *model.Node, chain []string) bool {
		if seen[n.ID] == 2 {
			return false
		}
		if seen[n.ID] == 1 {
			warnings = append(warnings, model.ParseWarning{
				File: n.SourceFile, Kind: "CircularDependency",
				Message: fmt.Sprintf("circular dependency involving %q", n.Title),
			})
			return true
		}
		seen[n.ID] = 1
		for _, dep := range n.Depends {
			targets := byTitle[dep]
			if len(targets) == 0 {
				continue
			}
			if visit(targets[0], append(chain, n.Title)) {
				seen[n.ID] = 2
				return true
			}
		}
		seen[n.ID] = 2
		return false
	}
	for _, n := range nodes {
		if seen[n.ID] == 0 {
			visit(n, nil)
		}
	}

	return warnings
}
