package models

import (
	"encoding/json"
	"io"
)

// TypeObject is the plain serializable form of a Type. Type holds the
// discriminator; the other fields are set depending on it.
type TypeObject struct {
	Type          TypeKind      `json:"type"`
	Name          string        `json:"name,omitempty"`
	Package       string        `json:"package,omitempty"`
	Target        int           `json:"target,omitempty"`
	External      bool          `json:"external,omitempty"`
	Label         string        `json:"label,omitempty"`
	Tilde         bool          `json:"tilde,omitempty"`
	Length        string        `json:"length,omitempty"`
	Direction     string        `json:"direction,omitempty"`
	Variadic      bool          `json:"variadic,omitempty"`
	Key           *TypeObject   `json:"key,omitempty"`
	Element       *TypeObject   `json:"element,omitempty"`
	TypeArguments []*TypeObject `json:"typeArguments,omitempty"`
	Params        []*TypeObject `json:"params,omitempty"`
	Results       []*TypeObject `json:"results,omitempty"`
	Elements      []*TypeObject `json:"elements,omitempty"`
}

// ReflectionObject is the plain serializable form of a Reflection.
type ReflectionObject struct {
	ID            int                 `json:"id"`
	Name          string              `json:"name"`
	Kind          ReflectionKind      `json:"kind"`
	Flags         Flags               `json:"flags"`
	Comment       string              `json:"comment,omitempty"`
	Sources       []Source            `json:"sources,omitempty"`
	Type          *TypeObject         `json:"type,omitempty"`
	DefaultValue  string              `json:"defaultValue,omitempty"`
	Receiver      *ReflectionObject   `json:"receiver,omitempty"`
	ExtendedTypes []*TypeObject       `json:"extendedTypes,omitempty"`
	ExtendedBy    []*TypeObject       `json:"extendedBy,omitempty"`
	Groups        []Group             `json:"groups,omitempty"`
	Children      []*ReflectionObject `json:"children,omitempty"`
}

// ProjectObject is the serializable form of a whole Project.
type ProjectObject struct {
	ReflectionObject
	DanglingReferences []string `json:"danglingReferences,omitempty"`
}

// ToObject converts p into nested plain objects.
func ToObject(p *Project) *ProjectObject {
	return &ProjectObject{
		ReflectionObject:   *ReflectionToObject(p.Root),
		DanglingReferences: p.DanglingReferences(),
	}
}

// ReflectionToObject converts r and everything it owns.
func ReflectionToObject(r *Reflection) *ReflectionObject {
	if r == nil {
		return nil
	}
	obj := &ReflectionObject{
		ID:            r.ID,
		Name:          r.Name,
		Kind:          r.Kind,
		Flags:         r.Flags,
		Comment:       r.Comment,
		Sources:       r.Sources,
		Type:          object(r.Type),
		DefaultValue:  r.DefaultValue,
		Receiver:      ReflectionToObject(r.Receiver),
		ExtendedTypes: objects(r.ExtendedTypes),
		ExtendedBy:    objects(r.ExtendedBy),
		Groups:        r.Groups,
	}
	for _, c := range r.Children {
		obj.Children = append(obj.Children, ReflectionToObject(c))
	}
	return obj
}

// WriteJSON writes the serializable form of p as indented JSON.
func WriteJSON(w io.Writer, p *Project) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(ToObject(p))
}
