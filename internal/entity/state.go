package entity

const (
	PhaseLobby         = "LOBBY"
	PhaseWordSelection = "WORD_SELECTION"
	PhaseDrawing       = "DRAWING"
	PhaseGuessing      = "GUESSING" // legacy vote mode, kept for wire compatibility
	PhaseTurnResults   = "TURN_RESULTS"
	PhaseResults       = "RESULTS"
)

type Settings struct {
	Rounds   int `json:"rounds"`
	DrawTime int `json:"draw_time"`
}

// State is the canonical session aggregate. The host owns the single
// mutable instance; clients only ever hold wholesale-replaced copies.
type State struct {
	Phase       string        `json:"phase"`
	Players     []*Player     `json:"players"`
	Round       int           `json:"round"`
	Timer       int           `json:"timer"`
	Drawer      string        `json:"drawer,omitempty"`
	WordChoices []string      `json:"word_choices,omitempty"`
	Word        string        `json:"word,omitempty"`
	Hint        string        `json:"hint,omitempty"`
	Chat        []ChatMessage `json:"chat"`
	Drawings    []Drawing     `json:"drawings,omitempty"`
	Settings    Settings      `json:"settings"`
}

func NewState(settings Settings) *State {
	return &State{
		Phase:    PhaseLobby,
		Round:    1,
		Settings: settings,
	}
}

func (that *State) FindPlayer(address string) *Player {
	for _, player := range that.Players {
		if player.Address == address {
			return player
		}
	}

	return nil
}

func (that *State) HostPlayer() *Player {
	for _, player := range that.Players {
		if player.IsHost {
			return player
		}
	}

	return nil
}

func (that *State) IsDrawer(address string) bool {
	return that.Drawer != "" && that.Drawer == address
}

// AllNonDrawersGuessed reports whether every connected non-drawer has
// guessed correctly this turn.
func (that *State) AllNonDrawersGuessed() bool {
	guessers := 0
	for _, player := range that.Players {
		if player.Address == that.Drawer || !player.IsConnected {
			continue
		}

		guessers++
		if !player.HasGuessed {
			return false
		}
	}

	return guessers > 0
}

func (that *State) ResetGuesses() {
	for _, player := range that.Players {
		player.HasGuessed = false
	}
}

// Clone - deep copy, so a broadcast snapshot can never alias host-owned memory.
func (that *State) Clone() *State {
	clone := *that

	clone.Players = make([]*Player, len(that.Players))
	for i, player := range that.Players {
		copied := *player
		clone.Players[i] = &copied
	}

	clone.WordChoices = append([]string(nil), that.WordChoices...)
	clone.Chat = append([]ChatMessage(nil), that.Chat...)
	clone.Drawings = append([]Drawing(nil), that.Drawings...)

	return &clone
}

// Redact - the per-recipient masked view of the state. Non-drawers never
// see the word choices during selection nor the secret word while a turn
// is live; the drawer and the host always see the true values. The word
// is revealed to everyone once the turn is over.
func (that *State) Redact(viewer string) *State {
	masked := that.Clone()

	host := that.HostPlayer()
	privileged := that.IsDrawer(viewer) || (host != nil && host.Address == viewer)
	if privileged {
		return masked
	}

	masked.WordChoices = nil

	switch that.Phase {
	case PhaseTurnResults, PhaseResults:
		// word is revealed with the turn results
	default:
		masked.Word = ""
	}

	return masked
}
