package domain

// Identity is the shared secret dealt to non-impostor players: a famous
// footballer pulled from the identity pool.
type Identity struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Team        string `json:"team,omitempty"`
	Position    string `json:"position,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	Thumb       string `json:"thumb,omitempty"`
}
