package models

import (
	"strings"
)

// TypeKind is the discriminator written to the serialized form of a Type.
type TypeKind string

const (
	TypeIntrinsic    TypeKind = "intrinsic"
	TypeReference    TypeKind = "reference"
	TypeArray        TypeKind = "array"
	TypePointer      TypeKind = "pointer"
	TypeMap          TypeKind = "map"
	TypeChannel      TypeKind = "channel"
	TypeFunction     TypeKind = "function"
	TypeTuple        TypeKind = "tuple"
	TypeUnion        TypeKind = "union"
	TypeIntersection TypeKind = "intersection"
	TypeReflection   TypeKind = "reflection"
	TypeUnknown      TypeKind = "unknown"
)

// Type is an immutable description of a resolved type expression. The same
// value may be shared by any number of reflections; operations that "change" a
// type return a new value.
type Type interface {
	Kind() TypeKind
	String() string
	ToObject() *TypeObject
}

type IntrinsicType struct {
	Name string
}

func (t IntrinsicType) Kind() TypeKind { return TypeIntrinsic }
func (t IntrinsicType) String() string { return t.Name }
func (t IntrinsicType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeIntrinsic, Name: t.Name}
}

// ReferenceType points at a named type. TargetID is 0 until the resolve phase
// links it to a reflection of the converted project.
type ReferenceType struct {
	Name          string
	Package       string
	TypeArguments []Type
	TargetID      int
	// External marks references to types declared outside the converted package.
	External bool
}

func (t ReferenceType) Kind() TypeKind { return TypeReference }

func (t ReferenceType) String() string {
	var sb strings.Builder
	if t.External && t.Package != "" {
		sb.WriteString(t.Package)
		sb.WriteByte('.')
	}
	sb.WriteString(t.Name)
	if len(t.TypeArguments) > 0 {
		sb.WriteByte('[')
		sb.WriteString(joinTypes(t.TypeArguments, ", "))
		sb.WriteByte(']')
	}
	return sb.String()
}

func (t ReferenceType) ToObject() *TypeObject {
	return &TypeObject{
		Type:          TypeReference,
		Name:          t.Name,
		Package:       t.Package,
		Target:        t.TargetID,
		External:      t.External,
		TypeArguments: objects(t.TypeArguments),
	}
}

// WithTarget returns a copy of t linked to the reflection with the given ID.
func (t ReferenceType) WithTarget(id int) ReferenceType {
	out := t
	out.TargetID = id
	out.TypeArguments = append([]Type(nil), t.TypeArguments...)
	return out
}

// ArrayType covers slices (Length == "") and fixed-size arrays.
type ArrayType struct {
	Element Type
	Length  string
}

func (t ArrayType) Kind() TypeKind { return TypeArray }
func (t ArrayType) String() string { return "[" + t.Length + "]" + typeString(t.Element) }
func (t ArrayType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeArray, Length: t.Length, Element: object(t.Element)}
}

type PointerType struct {
	Target Type
}

func (t PointerType) Kind() TypeKind { return TypePointer }
func (t PointerType) String() string { return "*" + typeString(t.Target) }
func (t PointerType) ToObject() *TypeObject {
	return &TypeObject{Type: TypePointer, Element: object(t.Target)}
}

type MapType struct {
	Key   Type
	Value Type
}

func (t MapType) Kind() TypeKind { return TypeMap }
func (t MapType) String() string {
	return "map[" + typeString(t.Key) + "]" + typeString(t.Value)
}
func (t MapType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeMap, Key: object(t.Key), Element: object(t.Value)}
}

// ChanDir is the direction of a channel type: "", "send" or "recv".
type ChanDir string

const (
	ChanBoth ChanDir = ""
	ChanSend ChanDir = "send"
	ChanRecv ChanDir = "recv"
)

type ChannelType struct {
	Element Type
	Dir     ChanDir
}

func (t ChannelType) Kind() TypeKind { return TypeChannel }
func (t ChannelType) String() string {
	switch t.Dir {
	case ChanSend:
		return "chan<- " + typeString(t.Element)
	case ChanRecv:
		return "<-chan " + typeString(t.Element)
	}
	return "chan " + typeString(t.Element)
}
func (t ChannelType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeChannel, Direction: string(t.Dir), Element: object(t.Element)}
}

type FunctionType struct {
	Params   []Type
	Results  []Type
	Variadic bool
}

func (t FunctionType) Kind() TypeKind { return TypeFunction }

func (t FunctionType) String() string {
	params := make([]string, len(t.Params))
	for i, p := range t.Params {
		params[i] = typeString(p)
		if t.Variadic && i == len(t.Params)-1 {
			if arr, ok := p.(ArrayType); ok {
				params[i] = "..." + typeString(arr.Element)
			}
		}
	}
	s := "func(" + strings.Join(params, ", ") + ")"
	switch len(t.Results) {
	case 0:
		return s
	case 1:
		return s + " " + typeString(t.Results[0])
	}
	return s + " (" + joinTypes(t.Results, ", ") + ")"
}

func (t FunctionType) ToObject() *TypeObject {
	return &TypeObject{
		Type:     TypeFunction,
		Params:   objects(t.Params),
		Results:  objects(t.Results),
		Variadic: t.Variadic,
	}
}

type TupleElement struct {
	Name string
	Type Type
}

// TupleType describes multiple results of a signature.
type TupleType struct {
	Elements []TupleElement
}

func (t TupleType) Kind() TypeKind { return TypeTuple }

func (t TupleType) String() string {
	parts := make([]string, len(t.Elements))
	for i, e := range t.Elements {
		if e.Name != "" {
			parts[i] = e.Name + " " + typeString(e.Type)
		} else {
			parts[i] = typeString(e.Type)
		}
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func (t TupleType) ToObject() *TypeObject {
	obj := &TypeObject{Type: TypeTuple}
	for _, e := range t.Elements {
		el := object(e.Type)
		if el != nil && e.Name != "" {
			el.Label = e.Name
		}
		obj.Elements = append(obj.Elements, el)
	}
	return obj
}

type UnionTerm struct {
	// Tilde marks an approximation term such as ~int.
	Tilde bool
	Type  Type
}

// UnionType describes a type-set constraint like ~int | ~string.
type UnionType struct {
	Terms []UnionTerm
}

func (t UnionType) Kind() TypeKind { return TypeUnion }

func (t UnionType) String() string {
	parts := make([]string, len(t.Terms))
	for i, term := range t.Terms {
		parts[i] = typeString(term.Type)
		if term.Tilde {
			parts[i] = "~" + parts[i]
		}
	}
	return strings.Join(parts, " | ")
}

func (t UnionType) ToObject() *TypeObject {
	obj := &TypeObject{Type: TypeUnion}
	for _, term := range t.Terms {
		el := object(term.Type)
		if el != nil {
			el.Tilde = term.Tilde
		}
		obj.Elements = append(obj.Elements, el)
	}
	return obj
}

// IntersectionType describes an interface whose type set is constrained by
// several elements, each written on its own line.
type IntersectionType struct {
	Types []Type
}

func (t IntersectionType) Kind() TypeKind { return TypeIntersection }
func (t IntersectionType) String() string { return joinTypes(t.Types, "; ") }
func (t IntersectionType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeIntersection, Elements: objects(t.Types)}
}

// ReflectionType wraps an anonymous struct or interface literal whose members
// are described by a TypeLiteral declaration.
type ReflectionType struct {
	Declaration *Reflection
}

func (t ReflectionType) Kind() TypeKind { return TypeReflection }

func (t ReflectionType) String() string {
	if t.Declaration == nil {
		return "struct{}"
	}
	return t.Declaration.Name
}

func (t ReflectionType) ToObject() *TypeObject {
	obj := &TypeObject{Type: TypeReflection}
	if t.Declaration != nil {
		obj.Name = t.Declaration.Name
		obj.Target = t.Declaration.ID
	}
	return obj
}

// UnknownType keeps the checker's spelling of a type no converter understood.
type UnknownType struct {
	Name string
}

func (t UnknownType) Kind() TypeKind { return TypeUnknown }
func (t UnknownType) String() string { return t.Name }
func (t UnknownType) ToObject() *TypeObject {
	return &TypeObject{Type: TypeUnknown, Name: t.Name}
}

func typeString(t Type) string {
	if t == nil {
		return "?"
	}
	return t.String()
}

func joinTypes(ts []Type, sep string) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = typeString(t)
	}
	return strings.Join(parts, sep)
}

func object(t Type) *TypeObject {
	if t == nil {
		return nil
	}
	return t.ToObject()
}

func objects(ts []Type) []*TypeObject {
	if len(ts) == 0 {
		return nil
	}
	out := make([]*TypeObject, len(ts))
	for i, t := range ts {
		out[i] = object(t)
	}
	return out
}

// MapReferences returns t with every reference type, at any depth, replaced by
// fn's result. Values are rebuilt rather than modified, so shared types are
// never changed in place.
func MapReferences(t Type, fn func(ReferenceType) ReferenceType) Type {
	switch tt := t.(type) {
	case ReferenceType:
		out := tt
		out.TypeArguments = mapAll(tt.TypeArguments, fn)
		return fn(out)
	case ArrayType:
		return ArrayType{Element: MapReferences(tt.Element, fn), Length: tt.Length}
	case PointerType:
		return PointerType{Target: MapReferences(tt.Target, fn)}
	case MapType:
		return MapType{Key: MapReferences(tt.Key, fn), Value: MapReferences(tt.Value, fn)}
	case ChannelType:
		return ChannelType{Element: MapReferences(tt.Element, fn), Dir: tt.Dir}
	case FunctionType:
		return FunctionType{Params: mapAll(tt.Params, fn), Results: mapAll(tt.Results, fn), Variadic: tt.Variadic}
	case TupleType:
		out := TupleType{Elements: make([]TupleElement, len(tt.Elements))}
		for i, e := range tt.Elements {
			out.Elements[i] = TupleElement{Name: e.Name, Type: MapReferences(e.Type, fn)}
		}
		return out
	case UnionType:
		out := UnionType{Terms: make([]UnionTerm, len(tt.Terms))}
		for i, term := range tt.Terms {
			out.Terms[i] = UnionTerm{Tilde: term.Tilde, Type: MapReferences(term.Type, fn)}
		}
		return out
	case IntersectionType:
		return IntersectionType{Types: mapAll(tt.Types, fn)}
	}
	return t
}

func mapAll(ts []Type, fn func(ReferenceType) ReferenceType) []Type {
	if len(ts) == 0 {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = MapReferences(t, fn)
	}
	return out
}
