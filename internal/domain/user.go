package domain

import "time"

// User is the per-user aggregate. Characters are embedded and rewritten
// together whenever any one of them changes.
type User struct {
	ID         string      `json:"user_id"`
	Username   string      `json:"username"`
	Characters []Character `json:"characters"`
	UpdatedAt  time.Time   `json:"updated_at,omitempty"`
}

// Character is a player persona owned by a user.
type Character struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Race      string    `json:"race,omitempty"`
	Balance   Currency  `json:"money"`
	Inventory Inventory `json:"inventory"`
}

// FindCharacter returns a pointer into u.Characters so callers mutate in place.
func (u *User) FindCharacter(characterID string) (*Character, bool) {
	for i := range u.Characters {
		if u.Characters[i].ID == characterID {
			return &u.Characters[i], true
		}
	}
	return nil, false
}

// Clone deep-copies the user so a snapshot can be mutated without aliasing.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	out := *u
	out.Characters = make([]Character, len(u.Characters))
	for i, c := range u.Characters {
		c.Inventory = c.Inventory.Clone()
		out.Characters[i] = c
	}
	return &out
}
