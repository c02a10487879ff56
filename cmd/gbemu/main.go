// Command gbemu is the windowed front end: it drives the core in real time,
// uploads completed frames to the screen, and reads keyboard state into
// joypad events.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/urfave/cli"

	"github.com/pixelforge/dmgcore/internal/input"
	"github.com/pixelforge/dmgcore/internal/logging"
	"github.com/pixelforge/dmgcore/internal/system"
)

const sampleRate = 48000

func main() {
	app := cli.NewApp()
	app.Name = "gbemu"
	app.Usage = "gbemu [options] <ROM file>"
	app.Description = "Run a Game Boy ROM in a window"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "scale", Value: 3, Usage: "integer upscaling factor"},
		cli.StringFlag{Name: "title", Value: "gbemu", Usage: "window title"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbemu failed", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logging.Setup(c.Bool("debug"))

	if c.NArg() < 1 {
		cli.ShowAppHelp(c)
		return fmt.Errorf("missing ROM path")
	}
	romPath := c.Args().Get(0)

	m, err := system.Load(romPath)
	if err != nil {
		return fmt.Errorf("loading ROM: %w", err)
	}
	defer func() {
		if err := m.Close(); err != nil {
			slog.Error("failed to write save sidecar", "error", err)
		}
	}()

	scale := c.Int("scale")
	if scale <= 0 {
		scale = 1
	}
	ebiten.SetWindowTitle(c.String("title"))
	ebiten.SetWindowSize(160*scale, 144*scale)

	g := &game{m: m, audioCtx: audio.NewContext(sampleRate)}
	g.audioPlayer, _ = g.audioCtx.NewPlayer(silentStream{})
	if g.audioPlayer != nil {
		g.audioPlayer.Play()
	}

	return ebiten.RunGame(g)
}

// silentStream backs the ebiten audio player. The APU is a register-only
// stub (no channel synthesis), so the host audio path exists to exercise
// the boundary but only ever plays silence.
type silentStream struct{}

func (silentStream) Read(p []byte) (int, error) {
	for i := range p {
		p[i] = 0
	}
	return len(p), nil
}

type game struct {
	m   *system.Machine
	tex *ebiten.Image

	frame [160 * 144 * 3]byte

	audioCtx    *audio.Context
	audioPlayer *audio.Player
}

var keymap = map[ebiten.Key]input.Key{
	ebiten.KeyArrowRight: input.Right,
	ebiten.KeyArrowLeft:  input.Left,
	ebiten.KeyArrowUp:    input.Up,
	ebiten.KeyArrowDown:  input.Down,
	ebiten.KeyZ:          input.A,
	ebiten.KeyX:          input.B,
	ebiten.KeyC:          input.Select,
	ebiten.KeyV:          input.Start,
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyQ) && (ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight)) {
		return ebiten.Termination
	}

	for ek, gk := range keymap {
		if inpututil.IsKeyJustPressed(ek) {
			g.m.PressKey(gk)
		} else if inpututil.IsKeyJustReleased(ek) {
			g.m.ReleaseKey(gk)
		}
	}

	// Held Space fast-forwards by running extra frames per Update call;
	// ebiten already paces Update to its tick rate (default 60Hz) so one
	// frame per call tracks real time.
	framesThisUpdate := 1
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		framesThisUpdate = 4
	}

	for n := 0; n < framesThisUpdate; n++ {
		for done := false; !done; {
			g.m.Step()
			select {
			case f := <-g.m.Frames:
				g.frame = f
				done = true
			default:
			}
		}
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.tex == nil {
		g.tex = ebiten.NewImage(160, 144)
	}
	pix := make([]byte, 160*144*4)
	for i := 0; i < 160*144; i++ {
		pix[i*4+0] = g.frame[i*3+0]
		pix[i*4+1] = g.frame[i*3+1]
		pix[i*4+2] = g.frame[i*3+2]
		pix[i*4+3] = 0xFF
	}
	g.tex.WritePixels(pix)
	screen.DrawImage(g.tex, nil)
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) { return 160, 144 }
