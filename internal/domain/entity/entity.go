// Package entity enumerates the searchable document types.
package entity

// Type is the kind of a searchable entity.
type Type string

// Entity type constants.
const (
	Board Type = "board"
	List  Type = "list"
	Card  Type = "card"
)

// IsValid checks if the type is one of the supported values.
func (t Type) IsValid() bool {
	return t == Board || t == List || t == Card
}
