// sceneport - glTF to ray tracer scene exporter
// Converts .glb and .gltf documents into the XML scene description read by
// the ray tracer: cameras, lights, Phong materials, vertex data and meshes.
//
// Commands:
//
//	export  - Convert a document once
//	watch   - Re-export whenever the document changes
//	inspect - Summarize an exported scene file
//	config  - Print or save the effective configuration
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/taigrr/sceneport/internal/config"
	"github.com/taigrr/sceneport/internal/logger"
	"github.com/taigrr/sceneport/internal/watch"
	"github.com/taigrr/sceneport/pkg/exporter"
)

var version = "dev"

// app carries state shared by the subcommands.
type app struct {
	flags config.Flags
	cfg   *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{}
	if err := fang.Execute(ctx, a.rootCmd(), fang.WithVersion(version)); err != nil {
		logger.Sync()
		os.Exit(1)
	}
	logger.Sync()
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sceneport",
		Short: "Export glTF scenes to ray tracer XML",
		Long: "sceneport converts .glb and .gltf documents into the XML scene description\n" +
			"read by the ray tracer. Settings come from defaults, then a config file\n" +
			"(./sceneport.yaml, ./sceneport.toml or the user config directory), then flags.",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
	}
	a.flags.RegisterGlobal(root.PersistentFlags())

	root.AddCommand(a.exportCmd(), a.watchCmd(), inspectCmd(), a.configCmd())
	return root
}

// setup loads configuration and initializes logging.
func (a *app) setup() error {
	cfg, err := config.Load(&a.flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) newExporter() (*exporter.Exporter, error) {
	opts, err := a.cfg.Options()
	if err != nil {
		return nil, err
	}
	return exporter.New(opts, logger.Log), nil
}

func (a *app) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export <model.glb|model.gltf>",
		Short: "Convert a document to a scene file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.newExporter()
			if err != nil {
				return err
			}
			exp.Stdout = cmd.OutOrStdout()
			_, err = exp.Export(args[0], output)
			return err
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output path ("-" for stdout, default <input>.xml)`)
	a.flags.RegisterExport(cmd.Flags())
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "watch <model.glb|model.gltf>",
		Short: "Re-export a document whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			exp, err := a.newExporter()
			if err != nil {
				return err
			}
			input := args[0]
			logger.Log.Info("watching", zap.String("input", input))
			return watch.New(input, logger.Log).Run(cmd.Context(), func() error {
				_, err := exp.Export(input, output)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output path (default <input>.xml)")
	a.flags.RegisterExport(cmd.Flags())
	return cmd
}

func (a *app) configCmd() *cobra.Command {
	var (
		save   bool
		to     string
		asTOML bool
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or save the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !save {
				data, err := a.cfg.Marshal(asTOML)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := to
			var err error
			if path == "" {
				path, err = a.cfg.Save()
			} else {
				err = a.cfg.SaveTo(path)
			}
			if err != nil {
				return err
			}
			logger.Log.Info("config saved", zap.String("path", path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&save, "save", false, "Write the configuration instead of printing it")
	cmd.Flags().StringVar(&to, "to", "", "Destination for --save (.yaml or .toml, default user config directory)")
	cmd.Flags().BoolVar(&asTOML, "toml", false, "Print as TOML instead of YAML")
	a.flags.RegisterExport(cmd.Flags())
	return cmd
}
