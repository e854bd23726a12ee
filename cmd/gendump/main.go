package main

import (
	"errors"
	"log/slog"
	"os"

	"github.com/urfave/cli"

	"github.com/valerio/framedbg/framedbg/bit"
	"github.com/valerio/framedbg/framedbg/dump"
	"github.com/valerio/framedbg/framedbg/dump/dumptest"
	"github.com/valerio/framedbg/framedbg/gs"
)

func main() {
	app := cli.NewApp()
	app.Name = "gendump"
	app.Description = "Writes a synthetic GS frame dump"
	app.Usage = "gendump [options] <output file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "out",
			Usage: "Output path; .sz and .zip select the container",
		},
		cli.IntFlag{
			Name:  "sprites",
			Usage: "Number of sprites to draw",
			Value: 8,
		},
	}
	app.Action = generate

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error generating dump", "error", err)
		os.Exit(1)
	}
}

func generate(c *cli.Context) error {
	out := c.String("out")
	if out == "" {
		if c.NArg() == 0 {
			cli.ShowAppHelp(c)
			return errors.New("no output path provided")
		}
		out = c.Args().Get(0)
	}
	sprites := c.Int("sprites")
	if sprites < 0 {
		return errors.New("--sprites must not be negative")
	}

	d := build(sprites)
	if err := dump.Save(out, d); err != nil {
		return err
	}
	slog.Info("Frame dump written",
		"path", out,
		"container", dump.ContainerForPath(out),
		"packets", d.PacketCount(),
		"writes", d.CommandCount())
	return nil
}

// build produces a frame that uploads a small checkerboard with an image
// transfer and then draws overlapping sprites through all three paths,
// alternating contexts and alpha settings.
func build(sprites int) *dump.FrameDump {
	w := dumptest.W

	b := dumptest.New().Snapshot(func(s *dump.InitialSnapshot) {
		s.Registers[gs.ALPHA_1] = 0x44 // (Cs - Cd) * As + Cd
		s.Registers[gs.ALPHA_2] = 0x44
		s.SMODE2 = 1
	})

	b.Packet(dump.PathGIF, upload()...)

	paths := []uint32{dump.PathVU1, dump.PathVIF1, dump.PathGIF}
	for i := 0; i < sprites; i++ {
		x, y := (i*6)%56, (i*4)%56
		ctx := uint64(i & 1)
		prim := bit.Insert(uint64(gs.PrimSprite), 9, 1, ctx)
		if i%3 == 0 {
			prim = bit.Set(6, prim) // ABE
		}
		alpha := uint8(0x80)
		if i%4 == 3 {
			alpha = 0x20
		}

		b.Packet(paths[i%len(paths)],
			w(gs.PRIM, prim),
			w(gs.TEST_1+uint8(ctx), testFor(i)),
			w(gs.RGBAQ, dumptest.RGBA(uint8(40*i), uint8(255-20*i), 0x80, alpha)),
			w(gs.XYZ2, dumptest.XYZ(x, y, uint32(i))),
			w(gs.XYZ2, dumptest.XYZ(x+8, y+8, uint32(i))),
		)
	}

	b.Packet(dump.PathVIF1, w(gs.FINISH, 0))
	return b.Build()
}

// testFor enables the alpha test on every fourth sprite, which hides the
// translucent ones unless alpha testing is toggled off.
func testFor(i int) uint64 {
	if i%4 != 3 {
		return 0
	}
	// ATE, GEQUAL, AREF 0x40, KEEP
	v := bit.Set(0, 0)
	v = bit.Insert(v, 1, 3, gs.AlphaTestGEqual)
	v = bit.Insert(v, 4, 8, 0x40)
	return bit.Insert(v, 12, 2, gs.AlphaFailKeep)
}

// upload sends an 8x8 checkerboard to the top left corner of the frame.
func upload() []gs.RegisterWrite {
	w := dumptest.W
	writes := []gs.RegisterWrite{
		w(gs.BITBLTBUF, 1<<48), // DBP 0, DBW 1
		w(gs.TRXPOS, 0),        // destination (0, 0)
		w(gs.TRXREG, 8|8<<32),  // 8x8
		w(gs.TRXDIR, gs.TransferHostToLocal),
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x += 2 {
			writes = append(writes, w(gs.HWREG, dumptest.Pixels(checker(x, y), checker(x+1, y))))
		}
	}
	return writes
}

func checker(x, y int) gs.Color {
	if (x+y)%2 == 0 {
		return gs.Color{R: 255, G: 255, B: 255, A: 0x80}
	}
	return gs.Color{A: 0x80}
}
