package model

// RoomSnapshot is the persisted blob for one room: everything that must
// survive a process restart. Live round state and the history ledger are
// process-lifetime by design; the reveal map is kept separate from the
// question list so the persisted layout round-trips field for field.
type RoomSnapshot struct {
	Users     map[string]*User `json:"users"`
	Questions []*Question      `json:"questions"`
	Topics    []string         `json:"topics"`
	Reveal    map[string]bool  `json:"reveal"`
}
