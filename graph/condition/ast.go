package condition

// sections bundles the three readable GlobalState sections a condition
// may reference. Kept as three plain maps (rather than importing
// graph.GlobalState) so this package has no dependency on package graph —
// graph depends on condition, not the other way around.
type sections struct {
	context   map[string]any
	artifacts map[string]any
	quality   map[string]any
}

func (s sections) root(name string) (map[string]any, bool) {
	switch name {
	case "context":
		return s.context, true
	case "artifacts":
		return s.artifacts, true
	case "quality":
		return s.quality, true
	default:
		return nil, false
	}
}

// boolNode evaluates to a boolean: the top level of every condition and
// the operands of and/or/not.
type boolNode interface {
	evalBool(s sections) (bool, error)
}

// valueNode evaluates to an arbitrary value: literals and paths, used as
// the operands of comparisons and as bare truthy conditions.
type valueNode interface {
	evalValue(s sections) (any, error)
}

type orNode struct{ parts []boolNode }

func (n *orNode) evalBool(s sections) (bool, error) {
	for _, p := range n.parts {
		v, err := p.evalBool(s)
		if err != nil {
			return false, err
		}
		if v {
			return true, nil
		}
	}
	return false, nil
}

type andNode struct{ parts []boolNode }

func (n *andNode) evalBool(s sections) (bool, error) {
	for _, p := range n.parts {
		v, err := p.evalBool(s)
		if err != nil {
			return false, err
		}
		if !v {
			return false, nil
		}
	}
	return true, nil
}

type notNode struct{ inner boolNode }

func (n *notNode) evalBool(s sections) (bool, error) {
	v, err := n.inner.evalBool(s)
	if err != nil {
		return false, err
	}
	return !v, nil
}

// cmpNode is a comparison, an "is [not] None" check, or — when op is
// empty — a bare value used as a truthy condition.
type cmpNode struct {
	left  valueNode
	op    string // "", "==", "!=", "<", "<=", ">", ">=", "isNone", "isNotNone"
	right valueNode
}

func (n *cmpNode) evalBool(s sections) (bool, error) {
	lv, err := n.left.evalValue(s)
	if err != nil {
		return false, err
	}
	switch n.op {
	case "":
		return truthy(lv), nil
	case "isNone":
		return lv == nil, nil
	case "isNotNone":
		return lv != nil, nil
	}
	rv, err := n.right.evalValue(s)
	if err != nil {
		return false, err
	}
	return compare(lv, n.op, rv)
}

type literalNode struct{ val any }

func (n *literalNode) evalValue(sections) (any, error) { return n.val, nil }

type pathNode struct {
	root string
	keys []string
}

func (n *pathNode) evalValue(s sections) (any, error) {
	m, ok := s.root(n.root)
	if !ok {
		return nil, &SemanticError{Msg: "unknown path root " + n.root}
	}
	var cur any = m
	for _, key := range n.keys {
		asMap, ok := cur.(map[string]any)
		if !ok {
			return nil, nil
		}
		v, present := asMap[key]
		if !present {
			return nil, nil
		}
		cur = v
	}
	return cur, nil
}

type lenNode struct{ path *pathNode }

func (n *lenNode) evalValue(s sections) (any, error) {
	v, err := n.path.evalValue(s)
	if err != nil {
		return nil, err
	}
	return int64(length(v)), nil
}

func length(v any) int {
	switch t := v.(type) {
	case nil:
		return 0
	case string:
		return len(t)
	case map[string]any:
		return len(t)
	case []any:
		return len(t)
	default:
		return 0
	}
}

// truthy implements the bare-path/bare-literal condition semantics: nil
// and false and empty string and zero are falsy, everything else truthy.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}
