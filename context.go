package calculator

import "sort"

// Scope provides variable lookups to Evaluate and Simplify.
type Scope interface {
	// Get returns the node bound to a variable name, if any.
	Get(name string) (*Node, bool)
}

// Variables is a mutable variable binding store. Plotting binds its free
// variable in a Variables for the duration of the call.
type Variables interface {
	Scope
	// Set binds name to n, replacing any existing binding.
	Set(name string, n *Node)
	// Remove deletes the binding for name, if there is one.
	Remove(name string)
	// Contains reports whether name is bound.
	Contains(name string) bool
}

// Context is a set of variable bindings. It is not safe to use a Context
// concurrently.
type Context struct {
	names map[string]*Node
}

var _ Variables = (*Context)(nil)

// ContextOption is an option used when creating a context.
type ContextOption interface {
	ctxOption()
}

type (
	varopt struct {
		name string
		val  *Node
	}
	varsopt map[string]*Node
)

func (varopt) ctxOption()  {}
func (varsopt) ctxOption() {}

// SetVar sets the value of a variable in the context.
func SetVar(name string, val *Node) ContextOption {
	return varopt{name, val}
}

// SetVars sets the values of any number of variables in the context.
func SetVars(vars map[string]*Node) ContextOption {
	return varsopt(vars)
}

// NewContext creates a new context with the given bindings.
func NewContext(opts ...ContextOption) *Context {
	var ctx Context
	return ctx.Clone(opts...)
}

// Clone creates a copy of a context and applies options to it. Nodes are
// immutable, so the copy shares them with ctx, but changes to the bindings of
// either context are not seen by the other.
func (ctx *Context) Clone(opts ...ContextOption) *Context {
	n := Context{names: make(map[string]*Node, len(ctx.names))}
	for name, val := range ctx.names {
		n.names[name] = val
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		switch opt := opt.(type) {
		case varopt:
			n.names[opt.name] = opt.val
		case varsopt:
			for k, v := range opt {
				n.names[k] = v
			}
		default:
			panic("calculator: unknown option type")
		}
	}
	return &n
}

// Get returns the node bound to name.
func (ctx *Context) Get(name string) (*Node, bool) {
	n, ok := ctx.names[name]
	return n, ok
}

// Set binds name to n.
func (ctx *Context) Set(name string, n *Node) {
	if n == nil {
		panic("calculator: Set " + name + " to nil node")
	}
	if ctx.names == nil {
		ctx.names = make(map[string]*Node)
	}
	ctx.names[name] = n
}

// Remove deletes the binding for name.
func (ctx *Context) Remove(name string) {
	delete(ctx.names, name)
}

// Contains reports whether name is bound.
func (ctx *Context) Contains(name string) bool {
	_, ok := ctx.names[name]
	return ok
}

// Names returns the sorted names of all bound variables.
func (ctx *Context) Names() []string {
	r := make([]string, 0, len(ctx.names))
	for k := range ctx.names {
		r = append(r, k)
	}
	sort.Strings(r)
	return r
}

// Len returns the number of bound variables.
func (ctx *Context) Len() int {
	return len(ctx.names)
}
