// Package exporter runs a complete export pass: load a glTF document,
// build the scene records, validate them and write the XML description.
package exporter

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/taigrr/sceneport/pkg/gltfscene"
	"github.com/taigrr/sceneport/pkg/scene"
	"github.com/taigrr/sceneport/pkg/xmlscene"
)

// Stdout is the output name that writes to standard output.
const Stdout = "-"

// Exporter converts documents with a fixed set of options.
type Exporter struct {
	opts gltfscene.Options
	log  *zap.Logger

	// Stdout receives the document when the output is "-".
	Stdout io.Writer
}

// New returns an exporter. A nil logger discards output.
func New(opts gltfscene.Options, log *zap.Logger) *Exporter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Exporter{opts: opts, log: log, Stdout: os.Stdout}
}

// OutputPath returns input with its extension replaced by .xml.
func OutputPath(input string) string {
	return strings.TrimSuffix(input, filepath.Ext(input)) + ".xml"
}

// Export converts input and writes the result to output. An empty output
// uses OutputPath(input). The file is truncated and rewritten in full.
func (e *Exporter) Export(input, output string) (*scene.Scene, error) {
	start := time.Now()
	if output == "" {
		output = OutputPath(input)
	}

	s, err := gltfscene.Load(input, e.opts, e.log)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", input, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("validate %s: %w", input, err)
	}

	if output == Stdout {
		err = xmlscene.NewEncoder(e.Stdout, xmlscene.WithLogger(e.log)).Encode(s)
	} else {
		err = xmlscene.WriteFile(output, s, xmlscene.WithLogger(e.log))
	}
	if err != nil {
		return nil, err
	}

	e.log.Info("exported",
		zap.String("input", input),
		zap.String("output", output),
		zap.Int("cameras", len(s.Cameras)),
		zap.Int("lights", len(s.Lights)),
		zap.Int("meshes", len(s.Meshes)),
		zap.Int("triangles", s.TriangleCount()),
		zap.Duration("elapsed", time.Since(start)))
	return s, nil
}
