package condition

// Eval parses and evaluates expr in one call against the given sections
// of a GlobalState. Most callers should prefer Parse once at load time
// and then Program.Eval repeatedly; Eval exists for one-off evaluation
// (tests and other one-off callers) where re-parsing
// cost doesn't matter.
func Eval(expr string, context, artifacts, quality map[string]any) (bool, error) {
	prog, err := Parse(expr)
	if err != nil {
		return false, err
	}
	return prog.Eval(context, artifacts, quality)
}

// Eval evaluates a previously parsed Program against the given sections.
func (pr *Program) Eval(context, artifacts, quality map[string]any) (bool, error) {
	return pr.root.evalBool(sections{context: context, artifacts: artifacts, quality: quality})
}
