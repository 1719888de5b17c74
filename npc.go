package server

// npcState is a friendly, non-combat character placed by a scene. Talking to
// one plays its dialogue cutscene; quest offers ride on dialogue choices.
type npcState struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Position    Vec3    `json:"position"`
	Heading     float64 `json:"heading"`
	Dialogue    string  `json:"-"`
	OffersQuest string  `json:"-"`
}

const interactRange = 2.5
