// Command gbrun drives the core headlessly for a fixed number of frames,
// useful for test-ROM harnesses and CI: it can dump the last frame as a PNG
// and assert its CRC32 against an expected value.
package main

import (
	"fmt"
	"hash/crc32"
	"image"
	"image/png"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/urfave/cli"

	"github.com/pixelforge/dmgcore/internal/logging"
	"github.com/pixelforge/dmgcore/internal/system"
)

func main() {
	app := cli.NewApp()
	app.Name = "gbrun"
	app.Usage = "gbrun [options] <ROM file>"
	app.Description = "Run a Game Boy ROM headlessly for a fixed number of frames"
	app.Flags = []cli.Flag{
		cli.IntFlag{Name: "frames", Value: 60, Usage: "number of frames to run"},
		cli.StringFlag{Name: "outpng", Usage: "write the last completed frame to PNG at this path"},
		cli.StringFlag{Name: "expect", Usage: "assert the final frame's CRC32 (hex, with or without 0x)"},
		cli.BoolFlag{Name: "debug", Usage: "enable debug-level logging"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("gbrun failed", "error", err)
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

	frames := c.Int("frames")
	if frames <= 0 {
		frames = 1
	}

	var last [160 * 144 * 3]byte
	start := time.Now()
	completed := 0
	for completed < frames {
		m.Step()
		select {
		case f := <-m.Frames:
			last = f
			completed++
		default:
		}
	}
	elapsed := time.Since(start)

	crc := crc32.ChecksumIEEE(last[:])
	slog.Info("headless run complete",
		"frames", completed,
		"elapsed", elapsed.Truncate(time.Millisecond),
		"fps", float64(completed)/elapsed.Seconds(),
		"crc32", fmt.Sprintf("%08x", crc))

	if path := c.String("outpng"); path != "" {
		if err := writePNG(last, path); err != nil {
			return fmt.Errorf("writing PNG: %w", err)
		}
	}

	if want := c.String("expect"); want != "" {
		want = strings.TrimPrefix(strings.ToLower(want), "0x")
		got := fmt.Sprintf("%08x", crc)
		if got != want {
			return fmt.Errorf("frame checksum mismatch: got %s, want %s", got, want)
		}
	}
	return nil
}

func writePNG(rgb [160 * 144 * 3]byte, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, 160, 144))
	for i := 0; i < 160*144; i++ {
		img.Pix[i*4+0] = rgb[i*3+0]
		img.Pix[i*4+1] = rgb[i*3+1]
		img.Pix[i*4+2] = rgb[i*3+2]
		img.Pix[i*4+3] = 0xFF
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
