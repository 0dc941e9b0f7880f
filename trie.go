package routecore

// TrieNode is a generic prefix tree node keyed on path segments, carrying an
// optional value of type V plus children partitioned into literal,
// parameter, wildcard, and tail variants. A node has at most one parameter
// child and at most one wildcard child.
type TrieNode[V any] struct {
	value    V
	hasValue bool

	literalChildren map[Segment]*TrieNode[V]
	paramChild      *paramChild[V]
	wildcardChild   *TrieNode[V]
	tailChild       *tailChild[V]
	tailHasValue    bool
}

type paramChild[V any] struct {
	name string
	node *TrieNode[V]
}

type tailChild[V any] struct {
	name  string // empty for an unnamed tail
	value V
}

// TrieMatch is the result of a successful PathTrie lookup.
type TrieMatch[V any] struct {
	Value      V
	Parameters map[string]string
	Matched    NormalizedPath
	Remaining  NormalizedPath
}

// NewTrieNode constructs an empty trie root.
func NewTrieNode[V any]() *TrieNode[V] {
	return &TrieNode[V]{}
}

// Insert adds pattern -> value to the trie, creating intermediate nodes as
// needed. Fails with DuplicateRoute if a value is already registered at the
// pattern's terminal node, and with ParameterNameConflict if two inserted
// patterns disagree on the parameter/tail-capture name at the same depth.
func (n *TrieNode[V]) Insert(p Pattern, value V) error {
	node, err := n.descend(p.segments)
	if err != nil {
		return err
	}
	if node.hasVal() {
		return errDuplicateRoute("duplicate route for pattern: " + p.Source)
	}
	node.setVal(value)
	return nil
}

// descend walks (creating as needed) the node reached by following pattern
// segments. For a pattern ending in a tail segment, the returned node is the
// one holding the tailChild; callers must use hasVal/getVal/setVal, which
// transparently dispatch between the ordinary value slot and the tail
// child's value slot.
func (n *TrieNode[V]) descend(segs []PatternSegment) (*TrieNode[V], error) {
	cur := n
	for i, seg := range segs {
		last := i == len(segs)-1
		switch seg.Kind {
		case SegmentLiteral:
			if cur.literalChildren == nil {
				cur.literalChildren = make(map[Segment]*TrieNode[V])
			}
			child, ok := cur.literalChildren[seg.Literal]
			if !ok {
				child = &TrieNode[V]{}
				cur.literalChildren[seg.Literal] = child
			}
			cur = child

		case SegmentParameter:
			if cur.paramChild == nil {
				cur.paramChild = &paramChild[V]{name: seg.Name, node: &TrieNode[V]{}}
			} else if cur.paramChild.name != seg.Name {
				return nil, errParameterNameConflict(
					"parameter name conflict at same depth: " + cur.paramChild.name + " vs " + seg.Name)
			}
			cur = cur.paramChild.node

		case SegmentWildcard:
			if cur.wildcardChild == nil {
				cur.wildcardChild = &TrieNode[V]{}
			}
			cur = cur.wildcardChild

		case SegmentTail:
			if !last {
				return nil, errInvalidPattern("tail segment must be last")
			}
			if cur.tailChild == nil {
				cur.tailChild = &tailChild[V]{name: seg.Name}
			} else if cur.tailChild.name != seg.Name {
				return nil, errParameterNameConflict(
					"tail capture name conflict: " + cur.tailChild.name + " vs " + seg.Name)
			}
			return cur, nil
		}
	}
	return cur, nil
}

func (n *TrieNode[V]) hasVal() bool {
	if n.tailChild != nil {
		return n.tailHasValue
	}
	return n.hasValue
}

func (n *TrieNode[V]) getVal() V {
	if n.tailChild != nil {
		return n.tailChild.value
	}
	return n.value
}

func (n *TrieNode[V]) setVal(v V) {
	if n.tailChild != nil {
		n.tailChild.value = v
		n.tailHasValue = true
		return
	}
	n.value = v
	n.hasValue = true
}

// Lookup matches path against the trie. backtrack controls whether, after a
// higher-priority candidate (literal > parameter > wildcard > tail) fails to
// terminate in a value anywhere in its subtree, the next-priority candidate
// at the same node is tried. With backtrack disabled, only the single
// highest-priority existing candidate at each node is attempted.
func (n *TrieNode[V]) Lookup(path NormalizedPath, backtrack bool) (TrieMatch[V], bool) {
	v, params, matchedDepth, ok := n.lookup(path.segments, backtrack, 0)
	if !ok {
		var zero TrieMatch[V]
		return zero, false
	}
	if params == nil {
		params = map[string]string{}
	}
	return TrieMatch[V]{
		Value:      v,
		Parameters: params,
		Matched:    NormalizedPath{segments: path.segments[:matchedDepth]},
		Remaining:  NormalizedPath{segments: path.segments[matchedDepth:]},
	}, true
}

func (n *TrieNode[V]) lookup(segs []Segment, backtrack bool, depth int) (V, map[string]string, int, bool) {
	if len(segs) == 0 {
		return n.terminal(depth)
	}

	for _, candidate := range n.candidates(segs, backtrack, depth) {
		if v, params, matchedDepth, ok := candidate(); ok {
			return v, params, matchedDepth, ok
		}
		if !backtrack {
			break
		}
	}
	var zero V
	return zero, nil, depth, false
}

func (n *TrieNode[V]) terminal(depth int) (V, map[string]string, int, bool) {
	if n.hasValue {
		return n.value, map[string]string{}, depth, true
	}
	if n.tailChild != nil && n.tailHasValue {
		params := map[string]string{}
		if n.tailChild.name != "" {
			params[n.tailChild.name] = ""
		}
		return n.tailChild.value, params, depth, true
	}
	var zero V
	return zero, nil, depth, false
}

// candidates returns, in priority order (literal, parameter, wildcard,
// tail), a closure per existing candidate at this node for the next
// segment. Only candidates that actually exist are included, so callers
// wanting "no backtracking" behavior can simply try candidates[0] and stop.
func (n *TrieNode[V]) candidates(segs []Segment, backtrack bool, depth int) []func() (V, map[string]string, int, bool) {
	seg, rest := segs[0], segs[1:]
	var out []func() (V, map[string]string, int, bool)

	if child, ok := n.literalChildren[seg]; ok {
		out = append(out, func() (V, map[string]string, int, bool) {
			return child.lookup(rest, backtrack, depth+1)
		})
	}

	if n.paramChild != nil {
		pc := n.paramChild
		out = append(out, func() (V, map[string]string, int, bool) {
			v, params, matchedDepth, ok := pc.node.lookup(rest, backtrack, depth+1)
			if ok {
				if params == nil {
					params = map[string]string{}
				}
				params[pc.name] = string(seg)
			}
			return v, params, matchedDepth, ok
		})
	}

	if n.wildcardChild != nil {
		wc := n.wildcardChild
		out = append(out, func() (V, map[string]string, int, bool) {
			return wc.lookup(rest, backtrack, depth+1)
		})
	}

	if n.tailChild != nil && n.tailHasValue {
		tc := n.tailChild
		out = append(out, func() (V, map[string]string, int, bool) {
			params := map[string]string{}
			if tc.name != "" {
				params[tc.name] = joinSegments(segs)
			}
			return tc.value, params, depth, true
		})
	}

	return out
}

func joinSegments(segs []Segment) string {
	if len(segs) == 0 {
		return ""
	}
	out := string(segs[0])
	for _, s := range segs[1:] {
		out += "/" + string(s)
	}
	return out
}

// Attach splices sub's entire tree under prefix, rebasing every one of sub's
// entries. Fails with DuplicateRoute/ParameterNameConflict if rebasing would
// collide with an existing entry.
func (n *TrieNode[V]) Attach(prefix NormalizedPath, sub *TrieNode[V]) error {
	cur := n
	for _, seg := range prefix.segments {
		if cur.literalChildren == nil {
			cur.literalChildren = make(map[Segment]*TrieNode[V])
		}
		child, ok := cur.literalChildren[seg]
		if !ok {
			child = &TrieNode[V]{}
			cur.literalChildren[seg] = child
		}
		cur = child
	}
	return mergeNode(cur, sub)
}

func mergeNode[V any](dst, src *TrieNode[V]) error {
	if src.hasValue {
		if dst.hasValue {
			return errDuplicateRoute("attach: route collision")
		}
		dst.value = src.value
		dst.hasValue = true
	}

	for seg, child := range src.literalChildren {
		if dst.literalChildren == nil {
			dst.literalChildren = make(map[Segment]*TrieNode[V])
		}
		existing, ok := dst.literalChildren[seg]
		if !ok {
			dst.literalChildren[seg] = child
			continue
		}
		if err := mergeNode(existing, child); err != nil {
			return err
		}
	}

	if src.paramChild != nil {
		if dst.paramChild == nil {
			dst.paramChild = src.paramChild
		} else if dst.paramChild.name != src.paramChild.name {
			return errParameterNameConflict("attach: parameter name conflict")
		} else if err := mergeNode(dst.paramChild.node, src.paramChild.node); err != nil {
			return err
		}
	}

	if src.wildcardChild != nil {
		if dst.wildcardChild == nil {
			dst.wildcardChild = src.wildcardChild
		} else if err := mergeNode(dst.wildcardChild, src.wildcardChild); err != nil {
			return err
		}
	}

	if src.tailChild != nil && src.tailHasValue {
		if dst.tailChild != nil && dst.tailHasValue {
			return errDuplicateRoute("attach: tail route collision")
		}
		dst.tailChild = src.tailChild
		dst.tailHasValue = true
	}

	return nil
}
