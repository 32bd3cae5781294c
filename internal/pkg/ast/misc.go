package ast

type Identifier string

// TypeIdentifier names an inductive type or an opaque type variable.
type TypeIdentifier string

type ConstructorIdentifier string

type FunctionIdentifier string

func (i Identifier) String() string {
	return string(i)
}

func (t TypeIdentifier) String() string {
	return string(t)
}

func (c ConstructorIdentifier) String() string {
	return string(c)
}

func (f FunctionIdentifier) String() string {
	return string(f)
}
