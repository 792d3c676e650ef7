package main

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/taigrr/sceneport/pkg/scene"
	"github.com/taigrr/sceneport/pkg/xmlscene"
)

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <scene.xml>",
		Short: "Summarize an exported scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := xmlscene.ReadFile(args[0])
			if err != nil {
				return err
			}
			if err := s.Validate(); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			printSummary(termenv.NewOutput(cmd.OutOrStdout()), args[0], s)
			return nil
		},
	}
}

// printSummary writes a short report of s. Colors follow the output's
// detected profile, so piped output stays plain.
func printSummary(out *termenv.Output, name string, s *scene.Scene) {
	heading := func(text string) termenv.Style {
		return out.String(text).Bold().Foreground(out.Color("12"))
	}
	dim := func(text string) termenv.Style {
		return out.String(text).Faint()
	}

	fmt.Fprintln(out, heading(name))
	row(out, "cameras", len(s.Cameras))
	for _, c := range s.Cameras {
		fmt.Fprintf(out, "    #%d %dx%d x%d  %s\n", c.ID, c.Resolution.Width, c.Resolution.Height, c.NumSamples, dim(c.ImageName))
	}

	row(out, "lights", len(s.Lights))
	kinds := map[scene.LightKind]int{}
	for _, l := range s.Lights {
		kinds[l.Kind()]++
	}
	for _, k := range []scene.LightKind{scene.LightPoint, scene.LightDirectional, scene.LightSpot} {
		if n := kinds[k]; n > 0 {
			label := k.String()
			if k == scene.LightSpot {
				label += " (not exported)"
			}
			fmt.Fprintf(out, "    %-24s %d\n", label, n)
		}
	}

	row(out, "materials", len(s.Materials))
	row(out, "vertices", len(s.Vertices))
	row(out, "texture coordinates", len(s.TexCoords))
	row(out, "meshes", len(s.Meshes))
	for _, m := range s.Meshes {
		shading := "flat"
		if m.Smooth {
			shading = "smooth"
		}
		fmt.Fprintf(out, "    #%d material %d  %d faces  %s\n", m.ID, m.Material, len(m.Faces), dim(shading))
	}
	row(out, "triangles", s.TriangleCount())
}

func row(w io.Writer, label string, n int) {
	fmt.Fprintf(w, "  %-26s %d\n", label, n)
}
