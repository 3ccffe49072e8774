// Command tagview previews tag playback for a spritesheet in the terminal.
//
//	tagview -dir assets -sheet snowflake -root white -tags Start,Idle
//
// Space releases the sprite to its next tag. q, Esc or Ctrl-C quits.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/phanxgames/tagplay"
)

const (
	tickMs     = 16
	maxLog     = 8
	sampleRate = beep.SampleRate(44100)
)

type viewer struct {
	screen tcell.Screen
	stage  *tagplay.Stage
	sprite *tagplay.Sprite

	eventLog  []string
	audioInit bool
}

func main() {
	dir := flag.String("dir", ".", "directory holding spritesheets")
	sheet := flag.String("sheet", "", "spritesheet to preview (extension optional)")
	root := flag.String("root", "", "tag root shared by every token")
	tags := flag.String("tags", "", "comma-separated tag tokens to play in order")
	persist := flag.String("persist", "", "comma-separated tokens for the persist queue")
	random := flag.Bool("random", false, "shuffle the tag queue")
	config := flag.String("config", "", "ini file with a [playback] section")
	withBeep := flag.Bool("beep", false, "play a tone whenever a tag starts")
	flag.Parse()

	if *sheet == "" {
		fmt.Fprintln(os.Stderr, "tagview: -sheet is required")
		os.Exit(2)
	}

	cfg := tagplay.DefaultConfig()
	if *config != "" {
		data, err := os.ReadFile(*config)
		if err != nil {
			log.Fatalf("tagview: %v", err)
		}
		if cfg, err = tagplay.LoadConfig(data); err != nil {
			log.Fatalf("tagview: %v", err)
		}
	}

	queue := tagplay.NewTagQueue(*root, splitTokens(*tags)...)
	if *random {
		queue.Randomize(false)
	}
	var persistQueue *tagplay.TagQueue
	if *persist != "" {
		persistQueue = tagplay.NewTagQueue(*root, splitTokens(*persist)...)
	}

	sprite, err := tagplay.NewSprite(*sheet, tagplay.NewFSSource(os.DirFS(*dir)), *sheet, queue, persistQueue)
	if err != nil {
		log.Fatalf("tagview: %v", err)
	}

	v, err := newViewer(sprite, *withBeep)
	if err != nil {
		log.Fatalf("tagview: %v", err)
	}
	if err := v.stage.ApplyConfig(cfg); err != nil {
		v.screen.Fini()
		log.Fatalf("tagview: %v", err)
	}
	v.run()
}

func splitTokens(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func newViewer(sprite *tagplay.Sprite, withBeep bool) (*viewer, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}

	v := &viewer{screen: screen, stage: tagplay.NewStage(), sprite: sprite}
	if withBeep {
		if err := v.initAudio(); err != nil {
			// Non-fatal, the preview runs without sound
			log.Printf("Audio initialization failed: %v", err)
		}
	}
	v.stage.SetEventSink(tagplay.EventSinkFunc(v.onEvent))
	v.stage.Add(sprite)
	return v, nil
}

func (v *viewer) initAudio() error {
	err := speaker.Init(sampleRate, sampleRate.N(time.Second/10))
	if err == nil {
		v.audioInit = true
	}
	return err
}

func (v *viewer) playCue() {
	if !v.audioInit {
		return
	}
	sine, err := generators.SineTone(sampleRate, 660)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(40*time.Millisecond), sine))
}

func (v *viewer) onEvent(e tagplay.PlaybackEvent) {
	line := fmt.Sprintf("%s %s", e.Type, e.Tag)
	if e.Duration > 0 {
		line += fmt.Sprintf(" (%.2fs)", e.Duration)
	}
	if e.Err != nil {
		line += ": " + e.Err.Error()
	}
	if len(v.eventLog) >= maxLog {
		copy(v.eventLog, v.eventLog[1:])
		v.eventLog = v.eventLog[:maxLog-1]
	}
	v.eventLog = append(v.eventLog, line)

	if e.Type == tagplay.EventTagStarted {
		v.playCue()
	}
}

func (v *viewer) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (v *viewer) draw() {
	v.screen.Clear()
	title := tcell.StyleDefault.Bold(true)
	label := tcell.StyleDefault.Foreground(tcell.ColorGray)
	value := tcell.StyleDefault.Foreground(tcell.ColorGreen)

	s := v.sprite
	v.text(0, 0, "tagview - space: release  q: quit", title)
	rows := [][2]string{
		{"sheet", s.Sheet()},
		{"tag", s.Tag()},
		{"frame", fmt.Sprintf("%s [%d/%d]", s.FrameID(), s.FrameIndex(), s.Catalog().Len(s.Tag()))},
		{"mode", s.Mode().String()},
		{"state", s.State().String()},
	}
	if q := s.Queue(); q != nil {
		rows = append(rows, [2]string{"queue", strings.Join(q.CurTags(), " ")})
	}
	for i, row := range rows {
		v.text(1, 2+i, fmt.Sprintf("%-6s", row[0]), label)
		v.text(8, 2+i, row[1], value)
	}

	y := 3 + len(rows)
	for i, line := range v.eventLog {
		v.text(1, y+i, line, tcell.StyleDefault)
	}
	v.screen.Show()
}

// handleEvent returns false when the viewer should exit.
func (v *viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
		if ev.Key() == tcell.KeyRune && ev.Rune() == ' ' {
			if _, err := v.sprite.Release(); err != nil {
				v.onEvent(tagplay.PlaybackEvent{Type: tagplay.EventHalted, Tag: v.sprite.Tag(), Err: err})
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) run() {
	defer v.screen.Fini()

	if _, err := v.sprite.Start(); err != nil {
		v.onEvent(tagplay.PlaybackEvent{Type: tagplay.EventHalted, Err: err})
	}

	ticker := time.NewTicker(tickMs * time.Millisecond)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			eventChan <- v.screen.PollEvent()
		}
	}()

	last := time.Now()
	for {
		select {
		case ev := <-eventChan:
			if ev == nil || !v.handleEvent(ev) {
				return
			}
		case now := <-ticker.C:
			v.stage.Update(now.Sub(last).Seconds())
			last = now
			v.draw()
		}
	}
}
