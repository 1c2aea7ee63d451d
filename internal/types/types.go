// Package types represents BMinor's closed set of types and the operator
// compatibility tables that drive the semantic checker and IR generator.
//
// Grounded in original_source/Typesys.go: the Python original keeps a flat
// dict of (left, op, right) -> result tuples for binary operators and
// (op, operand) -> result for unary operators, plus string-prefix tricks for
// array types. We keep the same table-driven shape (spec §4.2 calls it out
// explicitly: "implemented as lookup in explicit tables") but back it with a
// structural Type value instead of bare strings, so array element types and
// function signatures carry real identity instead of being reparsed from a
// formatted string.
package types

import "fmt"

// Kind tags the primitive or composite shape of a Type.
type Kind int

const (
	Invalid Kind = iota
	Integer
	Float
	Boolean
	Char
	String
	Void
	Array
	Function
)

// Type is a tagged value from BMinor's closed type set (spec §3.1).
// Equality is structural identity: is_compatible(a, b) == Equal(a, b), with
// no implicit conversions anywhere in the language.
type Type struct {
	Kind   Kind
	Elem   *Type   // set when Kind == Array: the element type.
	Len    int     // set when Kind == Array: the array's declared length.
	Params []*Type // set when Kind == Function: parameter types, in order.
	Result *Type   // set when Kind == Function: the return type.
}

// Predefined primitive singletons. Safe to compare by Equal, never by
// pointer identity, since the checker and parser may each construct their
// own *Type for the same primitive.
var (
	Int    = &Type{Kind: Integer}
	Flt    = &Type{Kind: Float}
	Bool   = &Type{Kind: Boolean}
	Chr    = &Type{Kind: Char}
	Str    = &Type{Kind: String}
	VoidTy = &Type{Kind: Void}
)

// NewArray returns the type "array[n] of elem".
func NewArray(elem *Type, n int) *Type {
	return &Type{Kind: Array, Elem: elem, Len: n}
}

// NewFunction returns the type of a function taking params and returning result.
func NewFunction(params []*Type, result *Type) *Type {
	return &Type{Kind: Function, Params: params, Result: result}
}

// Equal reports whether a and b are the identical type. There is no
// coercion: is_compatible(a, b) is exactly this function (spec §3.1, §8).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case Array:
		return a.Len == b.Len && Equal(a.Elem, b.Elem)
	case Function:
		if !Equal(a.Result, b.Result) || len(a.Params) != len(b.Params) {
			return false
		}
		for i := range a.Params {
			if !Equal(a.Params[i], b.Params[i]) {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Compatible is is_compatible(a, b): strict equality, never coercion.
func Compatible(a, b *Type) bool { return Equal(a, b) }

// IsArray reports whether t is an array type.
func IsArray(t *Type) bool { return t != nil && t.Kind == Array }

// ElementType returns the element type of an array type, or nil if t is not
// an array.
func ElementType(t *Type) *Type {
	if !IsArray(t) {
		return nil
	}
	return t.Elem
}

// String renders a human-readable name, used in diagnostics.
func (t *Type) String() string {
	if t == nil {
		return "<unknown>"
	}
	switch t.Kind {
	case Integer:
		return "integer"
	case Float:
		return "float"
	case Boolean:
		return "boolean"
	case Char:
		return "char"
	case String:
		return "string"
	case Void:
		return "void"
	case Array:
		return fmt.Sprintf("array[%d] of %s", t.Len, t.Elem)
	case Function:
		return fmt.Sprintf("function(%v) -> %s", t.Params, t.Result)
	default:
		return "<invalid>"
	}
}

// binKey indexes the binary operator compatibility table.
type binKey struct {
	L  Kind
	Op string
	R  Kind
}

// binOps is the exhaustive binary operator table from spec §4.2.
var binOps = map[binKey]*Type{
	{Integer, "+", Integer}: Int, {Integer, "-", Integer}: Int,
	{Integer, "*", Integer}: Int, {Integer, "/", Integer}: Int, {Integer, "%", Integer}: Int,
	{Integer, "<", Integer}: Bool, {Integer, "<=", Integer}: Bool,
	{Integer, ">", Integer}: Bool, {Integer, ">=", Integer}: Bool,
	{Integer, "==", Integer}: Bool, {Integer, "!=", Integer}: Bool,

	{Float, "+", Float}: Flt, {Float, "-", Float}: Flt,
	{Float, "*", Float}: Flt, {Float, "/", Float}: Flt,
	{Float, "<", Float}: Bool, {Float, "<=", Float}: Bool,
	{Float, ">", Float}: Bool, {Float, ">=", Float}: Bool,
	{Float, "==", Float}: Bool, {Float, "!=", Float}: Bool,

	{Boolean, "&&", Boolean}: Bool, {Boolean, "||", Boolean}: Bool,
	{Boolean, "==", Boolean}: Bool, {Boolean, "!=", Boolean}: Bool,

	{Char, "<", Char}: Bool, {Char, "<=", Char}: Bool,
	{Char, ">", Char}: Bool, {Char, ">=", Char}: Bool,
	{Char, "==", Char}: Bool, {Char, "!=", Char}: Bool,

	{String, "+", String}: Str,
	{String, "<", String}: Bool, {String, "<=", String}: Bool,
	{String, ">", String}: Bool, {String, ">=", String}: Bool,
	{String, "==", String}: Bool, {String, "!=", String}: Bool,
}

// unKey indexes the unary operator compatibility table.
type unKey struct {
	Op string
	X  Kind
}

var unOps = map[unKey]*Type{
	{"+", Integer}: Int, {"-", Integer}: Int, {"^", Integer}: Int,
	{"++", Integer}: Int, {"--", Integer}: Int,
	{"+", Float}: Flt, {"-", Float}: Flt, {"++", Float}: Flt, {"--", Float}: Flt,
	{"!", Boolean}: Bool,
}

// CheckBinOp returns the result type of l `op` r, or nil if the table has no
// entry for that combination ("unsupported" sentinel in spec §4.2).
func CheckBinOp(op string, l, r *Type) *Type {
	if l == nil || r == nil {
		return nil
	}
	return binOps[binKey{l.Kind, op, r.Kind}]
}

// CheckUnaryOp returns the result type of `op` x, or nil if unsupported.
func CheckUnaryOp(op string, x *Type) *Type {
	if x == nil {
		return nil
	}
	return unOps[unKey{op, x.Kind}]
}
