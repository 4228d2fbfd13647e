package main

import (
	"bytes"
	"io"
	"strings"

	"github.com/seqsense/pcscatter/blob"
	"github.com/seqsense/pcscatter/cloud"
	"github.com/seqsense/pcscatter/ingest"
	"github.com/seqsense/pcscatter/scene"
	"github.com/seqsense/pcscatter/style"
)

// importPoints reads points from a string or a Blob.
func importPoints(src interface{}, palette style.Palette) ([]cloud.Point, error) {
	var r io.Reader
	if str, ok := src.(string); ok {
		r = strings.NewReader(str)
	} else {
		bj, err := blob.JS(src)
		if err != nil {
			return nil, err
		}
		if r, err = bj.Reader(); err != nil {
			return nil, err
		}
	}
	return ingest.ParseAny(r, palette)
}

func exportPCD(s *scene.Scene) (blob.Blob, error) {
	var buf bytes.Buffer
	if err := s.ExportPCD(&buf); err != nil {
		return blob.Blob{}, err
	}
	return blob.New(buf.Bytes(), "application/x-pcd"), nil
}
