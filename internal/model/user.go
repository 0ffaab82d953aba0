package model

// User is a stable logical participant identity. A user may hold any number
// of live connections at once; role flags and score survive a full disconnect.
type User struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	IsPlayer    bool   `json:"isPlayer"`
	IsNarrator  bool   `json:"isNarrator"`
	IsAdmin     bool   `json:"isAdmin"`
	IsHost      bool   `json:"isHost"`
	Score       int    `json:"score"`

	// Connected mirrors the live connection count. Persisted snapshots
	// always carry it as false; roster broadcasts carry the live value.
	Connected bool `json:"connected"`
}

// UserToggles is a partial role-flag update. Nil fields are left untouched.
type UserToggles struct {
	IsPlayer   *bool `json:"isPlayer,omitempty"`
	IsNarrator *bool `json:"isNarrator,omitempty"`
	IsAdmin    *bool `json:"isAdmin,omitempty"`
	IsHost     *bool `json:"isHost,omitempty"`
}

func (u *User) Clone() *User {
	c := *u
	return &c
}
