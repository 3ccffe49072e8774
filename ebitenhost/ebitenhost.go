// Package ebitenhost drives a tagplay Stage from an Ebitengine game loop.
//
//	stage := tagplay.NewStage()
//	// ... add and start sprites ...
//	err := ebitenhost.Run(stage, ebitenhost.RunConfig{
//		Title: "Preview", Width: 320, Height: 240, Overlay: true,
//	})
//
// Each ebiten tick advances the stage by 1/TPS seconds. Drawing frames is
// left to the caller (see Game.OnDraw); the optional overlay prints each
// sprite's tag and frame identifier.
package ebitenhost

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/phanxgames/tagplay"
)

// RunConfig configures the window created by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Overlay prints sprite playback state in the top-left corner.
	Overlay bool
}

// Game implements ebiten.Game around a Stage.
type Game struct {
	stage *tagplay.Stage
	cfg   RunConfig

	// OnUpdate, if set, runs before the stage advances. Returning an error
	// stops the game.
	OnUpdate func(dt float64) error
	// OnDraw, if set, renders the stage before the overlay.
	OnDraw func(screen *ebiten.Image, stage *tagplay.Stage)
}

// NewGame wraps stage for use with ebiten.RunGame.
func NewGame(stage *tagplay.Stage, cfg RunConfig) *Game {
	return &Game{stage: stage, cfg: cfg}
}

// Update advances the stage by one tick.
func (g *Game) Update() error {
	dt := 1.0 / float64(ebiten.TPS())
	if g.OnUpdate != nil {
		if err := g.OnUpdate(dt); err != nil {
			return err
		}
	}
	g.stage.Update(dt)
	return nil
}

// Draw calls OnDraw and prints the overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.OnDraw != nil {
		g.OnDraw(screen, g.stage)
	}
	if g.cfg.Overlay {
		ebitenutil.DebugPrint(screen, Overlay(g.stage))
	}
}

// Layout returns the configured logical size, or the outside size when
// none is set.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.cfg.Width > 0 && g.cfg.Height > 0 {
		return g.cfg.Width, g.cfg.Height
	}
	return outsideWidth, outsideHeight
}

// Overlay formats one line per sprite: name, tag, frame identifier, state.
func Overlay(stage *tagplay.Stage) string {
	var b strings.Builder
	for _, s := range stage.Sprites() {
		fmt.Fprintf(&b, "%s: %s [%s] %s\n", s.Name(), s.Tag(), s.FrameID(), s.State())
	}
	return b.String()
}

// Run opens a window and runs the stage until the window closes.
func Run(stage *tagplay.Stage, cfg RunConfig) error {
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	return ebiten.RunGame(NewGame(stage, cfg))
}
