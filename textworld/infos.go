package textworld

// RequestedInfo selects the auxiliary fields the backend returns with
// every observation. The comments give the handicap level each field
// belongs to.
type RequestedInfo struct {
	MaxScore bool `json:"max_score"` // 0
	Won      bool `json:"won"`
	Lost     bool `json:"lost"`

	Description bool `json:"description"` // 1
	Inventory   bool `json:"inventory"`
	Objective   bool `json:"objective"`

	Verbs            bool `json:"verbs"` // 2
	CommandTemplates bool `json:"command_templates"`

	Entities bool `json:"entities"` // 3

	Extras []string `json:"extras"` // 4

	AdmissibleCommands bool `json:"admissible_commands"` // 5
}

// DefaultRequestedInfo asks for everything up to handicap 4 except the
// entity list. Admissible commands are never requested so the agent has
// to build its own candidates.
func DefaultRequestedInfo() RequestedInfo {
	return RequestedInfo{
		MaxScore:         true,
		Won:              true,
		Lost:             true,
		Description:      true,
		Inventory:        true,
		Objective:        true,
		Verbs:            true,
		CommandTemplates: true,
		Entities:         false,
		Extras:           []string{"walkthrough"},

		AdmissibleCommands: false,
	}
}

func (r RequestedInfo) isZero() bool {
	return !r.MaxScore && !r.Won && !r.Lost && !r.Description && !r.Inventory &&
		!r.Objective && !r.Verbs && !r.CommandTemplates && !r.Entities &&
		len(r.Extras) == 0 && !r.AdmissibleCommands
}
