package tagplay

import (
	"encoding/json"
	"fmt"
)

// scriptStep represents a single action in a playback script.
type scriptStep struct {
	Action string `json:"action"`
	Sprite string `json:"sprite,omitempty"`
	Tag    string `json:"tag,omitempty"`
	Sheet  string `json:"sheet,omitempty"`
	Frames int    `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a playback script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

// Script sequences sprite actions across stage updates, one step per
// update. Attach to a Stage via SetScript.
//
//	{"steps": [
//	  {"action": "start", "sprite": "hero"},
//	  {"action": "wait", "frames": 30},
//	  {"action": "release", "sprite": "hero"},
//	  {"action": "start_tag", "sprite": "hero", "tag": "hero_Cast"},
//	  {"action": "link", "sprite": "hero", "sheet": "hero_alt"}
//	]}
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	err       error
}

// LoadScript parses a JSON playback script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("parse playback script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("parse playback script: no steps")
	}
	for i, st := range f.Steps {
		switch st.Action {
		case "start", "release", "start_tag", "link", "wait":
		default:
			return nil, fmt.Errorf("parse playback script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether all steps have run.
func (r *Script) Done() bool {
	return r.done
}

// Err returns the first error a step produced. The script stops on error.
func (r *Script) Err() error {
	return r.err
}

// step runs one step. Called from Stage.Update.
func (r *Script) step(s *Stage) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	if err := r.run(s, st); err != nil {
		r.err = fmt.Errorf("script step %d (%s): %w", r.cursor-1, st.Action, err)
		r.done = true
		debugf("%v", r.err)
		return
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Script) run(s *Stage, st scriptStep) error {
	if st.Action == "wait" {
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this update counts as one
		}
		return nil
	}
	sp := s.Sprite(st.Sprite)
	if sp == nil {
		return fmt.Errorf("no sprite %q on stage", st.Sprite)
	}
	var err error
	switch st.Action {
	case "start":
		_, err = sp.Start()
	case "release":
		_, err = sp.Release()
	case "start_tag":
		_, err = sp.StartTag(st.Tag)
	case "link":
		_, err = sp.Link(st.Sheet, nil)
	}
	return err
}
