package routecore

import (
	"sort"
	"strconv"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Method is an HTTP request method.
type Method string

// The method set the routing core understands (section 4.4).
const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodDelete  Method = "DELETE"
	MethodPatch   Method = "PATCH"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
	MethodConnect Method = "CONNECT"
)

// RouterEntry is the value stored at a trie's terminal node: a mapping from
// HTTP method to a handler value V, the middleware chain to wrap it with
// (captured at registration time from the enclosing Group), and a
// precomputed Allow header for fast 405 responses.
type RouterEntry[V any] struct {
	pattern     string
	methods     map[Method]V
	middleware  []Middleware
	allowHeader string
}

// Pattern returns the route pattern text this entry was registered under.
func (e *RouterEntry[V]) Pattern() string { return e.pattern }

// AllowHeader returns the precomputed, sorted, comma-joined Allow header
// value for this entry's registered methods. Grounded on the teacher's
// router.go routeMethods.updateAllowHeader(), which precomputes the same
// string once per mutation instead of rebuilding it on every 405.
func (e *RouterEntry[V]) AllowHeader() string { return e.allowHeader }

func (e *RouterEntry[V]) allowedMethods() []Method {
	out := make([]Method, 0, len(e.methods))
	for m := range e.methods {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (e *RouterEntry[V]) updateAllowHeader() {
	methods := e.allowedMethods()
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	e.allowHeader = strings.Join(names, ", ")
}

// LookupKind discriminates the three outcomes a Router lookup can produce.
// Implemented as a tagged struct rather than an interface hierarchy, per the
// design notes' instruction to avoid inheritance for the sealed
// Match/PathMiss/MethodMiss state.
type LookupKind uint8

const (
	LookupMatch LookupKind = iota
	LookupPathMiss
	LookupMethodMiss
)

// LookupResult is the outcome of Router.Lookup/LookupNormalized.
type LookupResult[V any] struct {
	Kind LookupKind

	// Populated when Kind == LookupMatch.
	Pattern    string
	Value      V
	Parameters map[string]string
	Matched    NormalizedPath
	Remaining  NormalizedPath
	Middleware []Middleware

	// Populated when Kind == LookupMethodMiss.
	Allowed     []Method
	AllowHeader string
}

// Router is a method-aware façade over a PathTrie of RouterEntry values. Its
// mutation operations (Add/Attach/SetFallback, and Add/Use on its Groups)
// are not safe during live serving — the expected lifecycle is "configure,
// then serve". The Router has no built-in snapshot swap for reloading
// routes while requests are in flight.
type Router[V any] struct {
	trie     *TrieNode[*RouterEntry[V]]
	cache    *NormalizationCache
	fallback *V
	autoHead bool
}

// Option configures a Router at construction time.
type Option func(*routerConfig)

type routerConfig struct {
	cacheCapacity int
	autoHead      bool
}

// WithCacheCapacity overrides the normalization cache's default capacity.
func WithCacheCapacity(n int) Option {
	return func(c *routerConfig) { c.cacheCapacity = n }
}

// WithAutoHead enables automatically registering HEAD whenever GET is
// registered, if HEAD was not registered explicitly for that pattern. Off by
// default per the routing core's open question on this behavior.
func WithAutoHead() Option {
	return func(c *routerConfig) { c.autoHead = true }
}

// New constructs an empty Router.
func New[V any](opts ...Option) *Router[V] {
	cfg := routerConfig{cacheCapacity: DefaultCacheCapacity}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Router[V]{
		trie:     NewTrieNode[*RouterEntry[V]](),
		cache:    NewNormalizationCache(cfg.cacheCapacity),
		autoHead: cfg.autoHead,
	}
}

// Group returns a view over the router prefixed with prefix, with no
// inherited middleware. Use Router.Root() to get a Group for "" that
// represents top-level registration.
func (r *Router[V]) Group(prefix string) *Group[V] {
	return &Group[V]{router: r, prefix: cleanPrefix(prefix)}
}

// Root returns the top-level Group (prefix "").
func (r *Router[V]) Root() *Group[V] { return r.Group("") }

// Add registers value under method+pattern at the router's root, with no
// per-path middleware.
func (r *Router[V]) Add(method Method, pattern string, value V) (*RouterEntry[V], error) {
	return r.Root().Add(method, pattern, value)
}

// SetFallback installs the handler value used when the router is invoked
// "as a handler" and no route matches (see App.serve in app.go); the
// routing middleware still reports PathMiss to its own caller regardless.
func (r *Router[V]) SetFallback(v V) { r.fallback = &v }

// Fallback returns the configured fallback value, if any.
func (r *Router[V]) Fallback() (V, bool) {
	if r.fallback == nil {
		var zero V
		return zero, false
	}
	return *r.fallback, true
}

// Attach splices sub's trie under prefix. sub's nodes are linked into r, not
// deep-copied, whether or not consume is set. If consume is true, sub's trie
// is cleared afterward and sub can no longer be used.
func (r *Router[V]) Attach(prefix string, sub *Router[V], consume bool) error {
	path, err := Normalize(prefix)
	if err != nil {
		return err
	}
	if err := r.trie.Attach(path, sub.trie); err != nil {
		return err
	}
	if consume {
		sub.trie = nil
	}
	return nil
}

// LookupNormalized performs a trie lookup against an already-normalized
// path. Used by routing middleware, which normalizes once via the cache and
// distinguishes InvalidPath (400) from a genuine PathMiss itself before
// ever calling into the router.
func (r *Router[V]) LookupNormalized(method Method, path NormalizedPath, backtrack bool) LookupResult[V] {
	match, ok := r.trie.Lookup(path, backtrack)
	if !ok {
		return LookupResult[V]{Kind: LookupPathMiss}
	}
	entry := match.Value
	value, has := entry.methods[method]
	if !has {
		return LookupResult[V]{
			Kind:        LookupMethodMiss,
			Allowed:     entry.allowedMethods(),
			AllowHeader: entry.allowHeader,
		}
	}
	return LookupResult[V]{
		Kind:       LookupMatch,
		Pattern:    entry.pattern,
		Value:      value,
		Parameters: match.Parameters,
		Matched:    match.Matched,
		Remaining:  match.Remaining,
		Middleware: entry.middleware,
	}
}

// Lookup normalizes rawPath (via the router's cache) and performs a trie
// lookup. A path that fails to normalize is reported as PathMiss; callers
// that need to distinguish InvalidPath from a genuine miss (the routing
// middleware does) should normalize themselves first and call
// LookupNormalized.
func (r *Router[V]) Lookup(method Method, rawPath string, backtrack bool) LookupResult[V] {
	path, err := r.cache.Normalize(rawPath)
	if err != nil {
		return LookupResult[V]{Kind: LookupPathMiss}
	}
	return r.LookupNormalized(method, path, backtrack)
}

// Cache exposes the router's normalization cache, e.g. for the routing
// middleware to reuse for its own pre-check.
func (r *Router[V]) Cache() *NormalizationCache { return r.cache }

// Group is a view over a Router that prepends a prefix to every subsequent
// Add/Use call and carries its own middleware snapshot. A route registered
// through a Group picks up that Group's middleware list as it stands at the
// moment of registration — matching the teacher's own Group/Use precedent
// (group.go, echo.go's e.add) rather than retroactively re-evaluating which
// `use` registrations apply at lookup time.
type Group[V any] struct {
	router     *Router[V]
	prefix     string
	middleware []Middleware
}

// Use appends middleware to the group, applying to every route subsequently
// added through this Group (or a child Group derived from it after this
// call).
func (g *Group[V]) Use(mw ...Middleware) {
	g.middleware = append(g.middleware, mw...)
}

// Group derives a child group with prefix appended and the parent's current
// middleware snapshot inherited.
func (g *Group[V]) Group(prefix string) *Group[V] {
	child := &Group[V]{
		router:     g.router,
		prefix:     joinPrefix(g.prefix, prefix),
		middleware: append([]Middleware(nil), g.middleware...),
	}
	return child
}

// Add parses method+pattern (prefixed by the group's prefix), registers
// value, and wraps it with the group's current middleware snapshot. Fails
// with DuplicateRoute if (pattern, method) is already registered,
// InvalidPattern for malformed patterns, or ParameterNameConflict on
// structural conflicts with an existing pattern.
func (g *Group[V]) Add(method Method, pattern string, value V) (*RouterEntry[V], error) {
	full := joinPrefix(g.prefix, pattern)
	p, err := ParsePattern(full)
	if err != nil {
		return nil, err
	}

	node, err := g.router.trie.descend(p.segments)
	if err != nil {
		return nil, err
	}

	var entry *RouterEntry[V]
	if node.hasVal() {
		entry = node.getVal()
	} else {
		entry = &RouterEntry[V]{pattern: full, methods: make(map[Method]V)}
		node.setVal(entry)
	}

	if _, exists := entry.methods[method]; exists {
		return nil, errDuplicateRoute("duplicate route: " + string(method) + " " + full)
	}
	entry.methods[method] = value
	entry.middleware = append([]Middleware(nil), g.middleware...)
	entry.updateAllowHeader()

	if g.router.autoHead && method == MethodGet {
		if _, exists := entry.methods[MethodHead]; !exists {
			entry.methods[MethodHead] = value
			entry.updateAllowHeader()
		}
	}

	return entry, nil
}

func (g *Group[V]) GET(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodGet, pattern, value)
}
func (g *Group[V]) HEAD(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodHead, pattern, value)
}
func (g *Group[V]) POST(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodPost, pattern, value)
}
func (g *Group[V]) PUT(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodPut, pattern, value)
}
func (g *Group[V]) DELETE(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodDelete, pattern, value)
}
func (g *Group[V]) PATCH(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodPatch, pattern, value)
}
func (g *Group[V]) OPTIONS(pattern string, value V) (*RouterEntry[V], error) {
	return g.Add(MethodOptions, pattern, value)
}

func cleanPrefix(prefix string) string {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix != "" && !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}
	return prefix
}

func joinPrefix(prefix, pattern string) string {
	prefix = cleanPrefix(prefix)
	if !strings.HasPrefix(pattern, "/") {
		pattern = "/" + pattern
	}
	if prefix == "" {
		return pattern
	}
	return prefix + pattern
}

// Reverse builds a URL path from a registered pattern by substituting
// ":name" and "*"/"**" placeholders with values, in the order they appear in
// the pattern. Grounded on the teacher's own route.go Reverse method, which
// hand-scans the pattern byte-by-byte; this implementation instead compiles
// the pattern into a fasttemplate template (one generated "{{pN}}" tag per
// parameter/wildcard/tail segment) and lets fasttemplate perform the actual
// substitution, rather than pre-substituting the values itself and handing
// fasttemplate an already-finished string with nothing left to do.
func Reverse(pattern string, values ...string) (string, error) {
	p, err := ParsePattern(pattern)
	if err != nil {
		return "", err
	}

	var tmpl strings.Builder
	tags := make([]string, 0, len(p.segments))
	for _, seg := range p.segments {
		tmpl.WriteByte('/')
		switch seg.Kind {
		case SegmentLiteral:
			tmpl.WriteString(string(seg.Literal))
		case SegmentParameter, SegmentWildcard, SegmentTail:
			tag := "p" + strconv.Itoa(len(tags))
			tmpl.WriteString("{{" + tag + "}}")
			tags = append(tags, tag)
		}
	}

	t, err := fasttemplate.NewTemplate(tmpl.String(), "{{", "}}")
	if err != nil {
		return "", err
	}

	substitutions := make(map[string]interface{}, len(tags))
	for i, tag := range tags {
		if i < len(values) {
			substitutions[tag] = values[i]
		} else {
			substitutions[tag] = ""
		}
	}
	return t.ExecuteString(substitutions), nil
}
