// cartool is a CLI utility for inspecting and converting car resources.
package main

import (
	"flag"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/carmaload/internal/config"
	"github.com/Faultbox/carmaload/internal/logger"
	"github.com/Faultbox/carmaload/pkg/brender"
	"github.com/Faultbox/carmaload/pkg/car"
)

func main() {
	config.ParseFlags()
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "info":
		err = cmdInfo(cfg, args)
	case "tree":
		err = cmdTree(args)
	case "dump":
		err = cmdDump(cfg, args)
	case "convert":
		err = cmdConvert(cfg, args)
	case "export":
		err = cmdExport(cfg, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		logger.Error("command failed", zap.String("command", command), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`cartool - car resource utility

Usage:
  cartool [flags] <command> [options]

Commands:
  info <car>                    Show a summary of a car
  tree <file.ACT>               Print the actor hierarchies of an actor file
  dump [-desc] <car>            Dump a loaded car (and its description)
  convert <file.PIX> [output]   Convert pixelmaps to PNG using the palette
  export <car> [output]         Export a car as glTF

A <car> is a description path relative to the data directory, or just
the car name (EAGLE resolves to CARS/EAGLE.ENC).

Flags:
  -config <file>   Config file (default ./cartool.yaml)
  -data <dir>      Game data directory
  -palette <name>  Palette file name
  -exact-case      Match file names case-sensitively
  -binary, -text   Export .glb or .gltf
  -out <dir>       Output directory
  -debug           Enable debug logging
  -log-file <f>    Also write JSON logs to a file

Examples:
  cartool -data /games/carma/DATA info EAGLE
  cartool tree DATA/ACTORS/EAGLE.ACT
  cartool convert DATA/PIXELMAP/EAGLE.PIX ./png
  cartool -text export CARS/EAGLE.ENC eagle.gltf`)
}

func loadCar(cfg *config.Config, name string) (*car.Car, error) {
	loader := &car.Loader{
		FS:     os.DirFS(cfg.Data.Root),
		Layout: cfg.Data.Layout,
	}
	return loader.Load(filepath.ToSlash(name))
}

func cmdInfo(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cartool info <car>")
	}

	c, err := loadCar(cfg, args[0])
	if err != nil {
		return err
	}
	d := c.Description
	m := d.Mechanics

	fmt.Printf("Car:       %s\n", c.Name)
	fmt.Printf("Actors:    %d nodes, root %s\n", len(c.Actors.Nodes), c.Actors.RootNode().Name)
	fmt.Printf("Models:    %d\n", len(c.Models))
	fmt.Printf("Materials: %d\n", len(c.Materials))
	fmt.Printf("Textures:  %d\n", len(c.Textures))
	fmt.Println()
	fmt.Println("Levels of detail:")
	for _, a := range d.Actors {
		fmt.Printf("  %-4d %s\n", a.LOD, a.File)
	}
	fmt.Println()
	fmt.Printf("Mechanics: version %d\n", m.Version)
	fmt.Printf("  Mass:      %g t\n", m.Mass)
	fmt.Printf("  Gears:     %d (red line %g)\n", m.Gears, m.RedLineSpeed)
	fmt.Printf("  Driven:    %s\n", strings.Join(d.DrivenWheels, ", "))
	fmt.Printf("  Steerable: %s\n", strings.Join(d.SteerableWheels, ", "))
	return nil
}

func cmdTree(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cartool tree <file.ACT>")
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	trees, err := brender.LoadActors(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	for i, t := range trees {
		if i > 0 {
			fmt.Println()
		}
		if err := t.Format(os.Stdout); err != nil {
			return err
		}
	}
	fmt.Fprintf(os.Stderr, "\n(%d actor trees)\n", len(trees))
	return nil
}

func cmdDump(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dump", flag.ExitOnError)
	desc := fs.Bool("desc", false, "Also dump every description field")
	fs.Parse(args)

	if fs.NArg() < 1 {
		return fmt.Errorf("usage: cartool dump [-desc] <car>")
	}

	c, err := loadCar(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	if err := c.Dump(os.Stdout); err != nil {
		return err
	}
	if *desc {
		c.DumpDescription(os.Stdout)
	}
	return nil
}

func cmdConvert(cfg *config.Config, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: cartool convert <file.PIX> [output_dir]")
	}
	outputDir := cfg.Export.OutputDir
	if len(args) > 1 {
		outputDir = args[1]
	}

	data := os.DirFS(cfg.Data.Root)
	lay := cfg.Data.Layout
	palName, err := car.Resolve(data, path.Join(lay.PaletteDir, lay.Palette), lay.IgnoreCase)
	if err != nil {
		return err
	}
	pals, err := brender.LoadPixelMapsFile(data, palName)
	if err != nil {
		return err
	}
	if len(pals) == 0 {
		return fmt.Errorf("%w: %s", car.ErrNoPalette, palName)
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	pms, err := brender.LoadPixelMaps(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}
	for _, pm := range pms {
		rgba, err := brender.Remap(pm, pals[0])
		if err != nil {
			return fmt.Errorf("remapping %s: %w", pm.Name, err)
		}
		outputPath := filepath.Join(outputDir, strings.TrimSuffix(pm.Name, path.Ext(pm.Name))+".png")
		if err := writePNG(outputPath, rgba); err != nil {
			return err
		}
		fmt.Printf("Converted: %s (%dx%d)\n", outputPath, pm.Width, pm.Height)
	}
	return nil
}

func writePNG(name string, pm *brender.PixelMap) (err error) {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return brender.WritePNG(f, pm)
}

func cmdExport(cfg *config.Config, args []string) (err error) {
	if len(args) < 1 {
		return fmt.Errorf("usage: cartool export <car> [output]")
	}

	c, err := loadCar(cfg, args[0])
	if err != nil {
		return err
	}

	ext := ".gltf"
	if cfg.Export.Binary {
		ext = ".glb"
	}
	outputPath := filepath.Join(cfg.Export.OutputDir, c.Name+ext)
	if len(args) > 1 {
		outputPath = args[1]
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if err := c.ExportGLTF(f, cfg.Export.Binary); err != nil {
		return err
	}

	fmt.Printf("Exported: %s\n", outputPath)
	return nil
}
