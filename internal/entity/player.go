package entity

const DefaultAvatar = "avatar-1"

// Player is one participant record. Records are never deleted, only
// flagged via IsConnected, so final scores survive disconnects.
type Player struct {
	Address     string `json:"address"`
	Name        string `json:"name"`
	Avatar      string `json:"avatar,omitempty"`
	IsHost      bool   `json:"is_host"`
	Score       int    `json:"score"`
	HasGuessed  bool   `json:"has_guessed"`
	HasVoted    bool   `json:"has_voted"`
	IsConnected bool   `json:"is_connected"`
}

func NewPlayer(address, name, avatar string, isHost bool) *Player {
	if avatar == "" {
		avatar = DefaultAvatar
	}

	return &Player{
		Address:     address,
		Name:        name,
		Avatar:      avatar,
		IsHost:      isHost,
		IsConnected: true,
	}
}
