package form

// Span-less constructors for building forms by hand (bootstrap code, tests).

func Sym(name string) *Symbol {
	return NewSymbol(name, ZeroSpan())
}

func Int(value int64) *IntLiteral {
	return NewIntLiteral(value, ZeroSpan())
}

func Flt(value float64) *FloatLiteral {
	return NewFloatLiteral(value, ZeroSpan())
}

func Str(value string) *StringLiteral {
	return NewStringLiteral(value, ZeroSpan())
}

func Bool(value bool) *BoolLiteral {
	return NewBoolLiteral(value, ZeroSpan())
}

func L(items ...Form) *List {
	return NewList(items, ZeroSpan())
}

func V(items ...Form) *Vector {
	return NewVector(items, ZeroSpan())
}
