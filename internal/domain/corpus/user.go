package corpus

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/boardsearch/internal/domain"
)

// User is the minimal identity projection needed to render assignees.
type User struct {
	id        string
	username  string
	firstName string
	lastName  string
}

// NewUser validates and creates a User.
func NewUser(id, username, firstName, lastName string) (User, error) {
	if err := validateID("user id", id); err != nil {
		return User{}, err
	}
	if strings.TrimSpace(username) == "" {
		return User{}, fmt.Errorf("%w: username is required", domain.ErrValidation)
	}
	return User{id: id, username: username, firstName: firstName, lastName: lastName}, nil
}

// ReconstructUser creates a User without validation (storage hydration).
func ReconstructUser(id, username, firstName, lastName string) User {
	return User{id: id, username: username, firstName: firstName, lastName: lastName}
}

// ID returns the user identifier.
func (u *User) ID() string { return u.id }

// Username returns the login name.
func (u *User) Username() string { return u.username }

// FirstName returns the given name.
func (u *User) FirstName() string { return u.firstName }

// LastName returns the family name.
func (u *User) LastName() string { return u.lastName }

// DisplayName is "First Last", falling back to the username.
func (u *User) DisplayName() string {
	if n := strings.TrimSpace(u.firstName + " " + u.lastName); n != "" {
		return n
	}
	return u.username
}
