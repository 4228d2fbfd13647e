//go:build !js

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/seqsense/pcgol/pc"
)

func TestConvert(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "points.csv")
	output := filepath.Join(dir, "points.pcd")
	if err := os.WriteFile(input, []byte("0,0,0,A,\n1,1,1,A,\n0,5,0,B,x\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := convert(input, output, ""); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(output)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	pp, err := pc.Unmarshal(f)
	if err != nil {
		t.Fatal(err)
	}
	if pp.Points != 3 {
		t.Errorf("Expected 3 points, got %d", pp.Points)
	}
}

func TestConvert_BadConfig(t *testing.T) {
	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(cfg, []byte("camera:\n  fov: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := convert(filepath.Join(dir, "none.csv"), "", cfg); err == nil {
		t.Error("Expected config error")
	}
}
