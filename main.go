//go:build !js

package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/seqsense/pcscatter/config"
	"github.com/seqsense/pcscatter/ingest"
	"github.com/seqsense/pcscatter/internal/logging"
	"github.com/seqsense/pcscatter/scene"
)

// Outside the browser, pcscatter summarizes a point file and optionally
// converts it to PCD.
func main() {
	output := flag.String("o", "", "write the points as PCD to the file")
	configPath := flag.String("config", "", "configuration YAML")
	verbose := flag.Bool("v", false, "verbose log")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] input\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logging.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}
	if err := convert(flag.Arg(0), *output, *configPath); err != nil {
		logging.Logger().Error("failed", "error", err)
		os.Exit(1)
	}
}

func convert(input, output, configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		b, err := os.ReadFile(configPath)
		if err != nil {
			return err
		}
		if cfg, err = config.Parse(b); err != nil {
			return err
		}
	}

	f, err := os.Open(input)
	if err != nil {
		return err
	}
	defer f.Close()

	s := scene.New(cfg)
	points, err := ingest.ParseAny(f, s.Palette())
	if err != nil {
		return err
	}
	if err := s.SetPoints(points); err != nil {
		return err
	}
	for _, e := range s.Styles() {
		fmt.Printf("%s\t%s\t%s\n", e.Label, e.Color, e.Shape)
	}

	if output == "" {
		return nil
	}
	w, err := os.Create(output)
	if err != nil {
		return err
	}
	if err := s.ExportPCD(w); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
