// Package cutscene plays dialogue graphs. Exactly one cutscene is active at a
// time; while one plays, the director suspends the gameplay tick and only the
// graph advances.
package cutscene

import (
	"duskhollow/server/internal/content"
)

type State string

const (
	StateIdle    State = "idle"
	StatePlaying State = "playing"
)

// Node is the presentation snapshot of the current dialogue node.
type Node struct {
	Speaker  string   `json:"speaker"`
	Text     string   `json:"text"`
	Portrait string   `json:"portrait,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// Player walks one cutscene graph at a time. Choice side-effects are opaque
// strings drained by the caller; the player itself never reaches into scene
// or UI state.
type Player struct {
	catalog map[string]content.Cutscene

	state     State
	active    content.Cutscene
	nodeIndex int
	remaining int // countdown for dialogue-less timed scenes
	onFinish  func()
	effects   []string
}

func NewPlayer(defs []content.Cutscene) *Player {
	p := &Player{
		catalog: make(map[string]content.Cutscene, len(defs)),
		state:   StateIdle,
	}
	for _, def := range defs {
		p.catalog[def.ID] = def
	}
	return p
}

func (p *Player) State() State  { return p.state }
func (p *Player) Playing() bool { return p.state == StatePlaying }

// ActiveID returns the id of the cutscene currently playing, if any.
func (p *Player) ActiveID() string {
	if p.state != StatePlaying {
		return ""
	}
	return p.active.ID
}

// Play starts a cutscene. Unknown ids and play requests while another scene
// is active are rejected. onFinish fires exactly once when the scene stops.
func (p *Player) Play(id string, onFinish func()) bool {
	if p.state == StatePlaying {
		return false
	}
	def, ok := p.catalog[id]
	if !ok {
		return false
	}
	p.active = def
	p.nodeIndex = 0
	p.onFinish = onFinish
	p.state = StatePlaying
	if len(def.Nodes) == 0 {
		// Timed beat with no dialogue: schedule the automatic stop.
		p.remaining = def.DurationTicks
	} else {
		p.remaining = 0
	}
	return true
}

// Tick advances timed scenes. Dialogue scenes wait for Advance/SelectChoice.
func (p *Player) Tick() {
	if p.state != StatePlaying || len(p.active.Nodes) > 0 {
		return
	}
	if p.remaining > 0 {
		p.remaining--
	}
	if p.remaining == 0 {
		p.Stop()
	}
}

// Advance follows the current node's single successor link, or stops the
// cutscene if there is none. It is a no-op while the node presents choices.
func (p *Player) Advance() bool {
	node, ok := p.currentNode()
	if !ok {
		return false
	}
	if len(node.Choices) > 0 {
		return false
	}
	return p.follow(node.Next)
}

// SelectChoice picks a choice on the current node, records its side-effect,
// and follows its link. An out-of-range index is a no-op.
func (p *Player) SelectChoice(index int) bool {
	node, ok := p.currentNode()
	if !ok {
		return false
	}
	if index < 0 || index >= len(node.Choices) {
		return false
	}
	choice := node.Choices[index]
	if choice.Effect != "" {
		p.effects = append(p.effects, choice.Effect)
	}
	return p.follow(choice.Next)
}

// Skip ends the active cutscene early. Non-skippable scenes reject it.
func (p *Player) Skip() bool {
	if p.state != StatePlaying || !p.active.Skippable {
		return false
	}
	p.Stop()
	return true
}

// Stop resets to Idle and invokes the completion callback exactly once.
func (p *Player) Stop() {
	if p.state != StatePlaying {
		return
	}
	p.state = StateIdle
	finish := p.onFinish
	p.onFinish = nil
	if finish != nil {
		finish()
	}
}

// TakeEffects drains the side-effects selected since the last call.
func (p *Player) TakeEffects() []string {
	effects := p.effects
	p.effects = nil
	return effects
}

// Current returns the presentation state of the active node for the UI.
func (p *Player) Current() (Node, bool) {
	node, ok := p.currentNode()
	if !ok {
		return Node{}, false
	}
	out := Node{Speaker: node.Speaker, Text: node.Text, Portrait: node.Portrait}
	for _, choice := range node.Choices {
		out.Choices = append(out.Choices, choice.Text)
	}
	return out, true
}

func (p *Player) currentNode() (content.DialogueNode, bool) {
	if p.state != StatePlaying || p.nodeIndex >= len(p.active.Nodes) {
		return content.DialogueNode{}, false
	}
	return p.active.Nodes[p.nodeIndex], true
}

func (p *Player) follow(next string) bool {
	if next == "" {
		p.Stop()
		return true
	}
	for i, node := range p.active.Nodes {
		if node.ID == next {
			p.nodeIndex = i
			return true
		}
	}
	// Broken link; validated catalogs never hit this.
	p.Stop()
	return true
}
