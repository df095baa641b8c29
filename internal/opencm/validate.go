package opencm

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// maxReportedCycles bounds cycle enumeration so validation stays near-linear
// even on dense graphs with many overlapping cycles.
const maxReportedCycles = 3

var modelIDPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Report is the outcome of one validation pass: the complete ordered list
// of blocking errors and advisory warnings found in the document.
type Report struct {
	Errors   []string
	Warnings []string
}

// OK reports whether the document may be parsed. Warnings never gate
// parsing; errors always do.
func (r Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks a decoded Document against the OpenCM format rules.
//
// It is a pure function: each call returns a fresh Report and leaks no
// state into the next call. It never returns a Go error; converting a
// failing Report into one is the caller's concern (see Load).
//
// If any required top-level field is missing, validation stops after
// reporting those errors, since the remaining structure cannot be safely
// inspected. All other checks run to completion so the Report carries
// every violation found in one pass.
func Validate(doc *Document) Report {
	var r Report

	checkRequiredFields(&r, doc)
	if len(r.Errors) > 0 {
		return r
	}

	checkModelSection(&r, doc.Model)
	checkVariables(&r, doc.Variables)
	checkEdges(&r, doc.Edges, doc.Variables)
	checkEquations(&r, doc.Equations, doc.Variables)

	if doc.Model.AllowCycles {
		r.Warnings = append(r.Warnings, "cyclic graph allowed: downstream evaluation requires an iterative solver")
	} else {
		checkAcyclicity(&r, doc.Edges)
	}

	if len(doc.Assumptions) == 0 {
		r.Warnings = append(r.Warnings, "no assumptions listed; models should be transparent about their assumptions")
	}

	return r
}

func checkRequiredFields(r *Report, doc *Document) {
	if doc.OpenCMVersion == nil {
		r.Errors = append(r.Errors, "missing required field: 'opencm_version'")
	} else if *doc.OpenCMVersion != SpecVersion {
		r.Warnings = append(r.Warnings, fmt.Sprintf("model uses OpenCM version %s, current is %s", *doc.OpenCMVersion, SpecVersion))
	}
	if doc.Model == nil {
		r.Errors = append(r.Errors, "missing required field: 'model'")
	}
	if doc.Variables == nil {
		r.Errors = append(r.Errors, "missing required field: 'variables'")
	}
	if doc.Edges == nil {
		r.Errors = append(r.Errors, "missing required field: 'edges'")
	}
}

func checkModelSection(r *Report, m *ModelSection) {
	if m.ID == "" {
		r.Errors = append(r.Errors, "missing required model field: 'model.id'")
	} else if !modelIDPattern.MatchString(m.ID) {
		r.Errors = append(r.Errors, fmt.Sprintf("model.id must be lowercase alphanumeric with underscores, got: %q", m.ID))
	}
	if m.Name == "" {
		r.Errors = append(r.Errors, "missing required model field: 'model.name'")
	}
	if m.Domain != "" && !knownKind(modelDomains, m.Domain) {
		r.Warnings = append(r.Warnings, fmt.Sprintf("unknown domain %q (valid: %s)", m.Domain, strings.Join(modelDomains, ", ")))
	}
}

func checkVariables(r *Report, variables map[string]VariableDef) {
	if len(variables) == 0 {
		r.Errors = append(r.Errors, "model must have at least one variable")
		return
	}

	// Sorted iteration keeps diagnostic order deterministic.
	names := make([]string, 0, len(variables))
	for name := range variables {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		def := variables[name]
		if def.Type != "" && !knownKind(variableKinds, def.Type) {
			r.Errors = append(r.Errors, fmt.Sprintf("variable %q has invalid type %q (valid: %s)", name, def.Type, strings.Join(variableKinds, ", ")))
		}
		if def.Domain != nil {
			if len(def.Domain) != 2 {
				r.Errors = append(r.Errors, fmt.Sprintf("variable %q domain must be [min, max], got %d values", name, len(def.Domain)))
			} else if def.Domain[0] >= def.Domain[1] {
				r.Errors = append(r.Errors, fmt.Sprintf("variable %q domain min (%v) must be < max (%v)", name, def.Domain[0], def.Domain[1]))
			}
		}
	}
}

func checkEdges(r *Report, edges []EdgeDef, variables map[string]VariableDef) {
	for i, e := range edges {
		if e.Source == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d missing 'source'", i))
		} else if _, ok := variables[e.Source]; !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d source %q not in variables", i, e.Source))
		}

		if e.Target == "" {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d missing 'target'", i))
		} else if _, ok := variables[e.Target]; !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d target %q not in variables", i, e.Target))
		}

		// Self-loops are rejected even when the graph as a whole is
		// allowed to be cyclic.
		if e.Source != "" && e.Source == e.Target {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d is a self-loop (%q -> %q)", i, e.Source, e.Target))
		}

		if e.Type != "" && !knownKind(edgeKinds, e.Type) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("edge %d has unknown type %q (valid: %s)", i, e.Type, strings.Join(edgeKinds, ", ")))
		}

		if e.Strength != nil && (*e.Strength < -1.0 || *e.Strength > 1.0) {
			r.Errors = append(r.Errors, fmt.Sprintf("edge %d strength must be in [-1, 1], got: %v", i, *e.Strength))
		}
	}
}

func checkEquations(r *Report, equations map[string]EquationDef, variables map[string]VariableDef) {
	if len(equations) == 0 {
		return
	}

	targets := make([]string, 0, len(equations))
	for target := range equations {
		targets = append(targets, target)
	}
	sort.Strings(targets)

	for _, target := range targets {
		if _, ok := variables[target]; !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("equation target %q not in variables", target))
		}
		// Bare-string equations are accepted without inspecting the
		// expression; correctness of the expression text is out of scope.
		eq := equations[target]
		if !eq.IsBare && eq.Type != "" && !knownKind(equationKinds, eq.Type) {
			r.Warnings = append(r.Warnings, fmt.Sprintf("equation for %q has unknown type %q (valid: %s)", target, eq.Type, strings.Join(equationKinds, ", ")))
		}
	}
}

func checkAcyclicity(r *Report, edges []EdgeDef) {
	cycles := findCycles(edges, maxReportedCycles)
	if len(cycles) == 0 {
		return
	}
	formatted := make([]string, len(cycles))
	for i, cyc := range cycles {
		formatted[i] = strings.Join(cyc, " -> ")
	}
	r.Errors = append(r.Errors, fmt.Sprintf("graph contains cycles: %s", strings.Join(formatted, "; ")))
}

// findCycles enumerates up to limit directed cycles in the edge set using a
// three-color depth-first traversal. Node state: white (unvisited), gray
// (on the current path), black (fully processed). A traversed edge into a
// gray node is a back edge; the cycle is the current path's suffix from
// that node, closed by repeating it.
//
// Traversal order is sorted on both roots and neighbors so the reported
// cycles are deterministic. Existence detection is O(V+E); each reported
// cycle adds at most O(V) for path reconstruction.
func findCycles(edges []EdgeDef, limit int) [][]string {
	adjacency := make(map[string][]string)
	nodes := make(map[string]bool)
	for _, e := range edges {
		if e.Source == "" || e.Target == "" {
			continue
		}
		adjacency[e.Source] = append(adjacency[e.Source], e.Target)
		nodes[e.Source] = true
		nodes[e.Target] = true
	}

	roots := make([]string, 0, len(nodes))
	for n := range nodes {
		roots = append(roots, n)
	}
	sort.Strings(roots)
	for _, neighbors := range adjacency {
		sort.Strings(neighbors)
	}

	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[string]int, len(nodes))
	var path []string
	var cycles [][]string

	var dfs func(node string)
	dfs = func(node string) {
		color[node] = gray
		path = append(path, node)

		for _, neighbor := range adjacency[node] {
			if len(cycles) >= limit {
				break
			}
			switch color[neighbor] {
			case gray:
				start := 0
				for i, n := range path {
					if n == neighbor {
						start = i
						break
					}
				}
				cycle := make([]string, 0, len(path)-start+1)
				cycle = append(cycle, path[start:]...)
				cycle = append(cycle, neighbor)
				cycles = append(cycles, cycle)
			case white:
				dfs(neighbor)
			}
		}

		path = path[:len(path)-1]
		color[node] = black
	}

	for _, root := range roots {
		if len(cycles) >= limit {
			break
		}
		if color[root] == white {
			dfs(root)
		}
	}
	return cycles
}
