/*
Folio renders the ambient scenes of a portfolio page, either in a window or
headless into PNG snapshots.
*/
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/spaghettifunk/folio/engine"
	"github.com/spaghettifunk/folio/engine/core"
	"github.com/spaghettifunk/folio/engine/math"
	"github.com/spaghettifunk/folio/portfolio"
)

type rootFlags struct {
	configPath string
	logLevel   string
	content    string
	seed       uint64
	width      uint32
	height     uint32
	pixelRatio float32
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		// capture sigterm and other system call here
		<-sigCh
		cancel()
	}()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:          "folio",
		Short:        "Ambient 3D scenes for a portfolio page",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&flags.configPath, "config", "c", "folio.toml", "TOML configuration file")
	pf.StringVar(&flags.logLevel, "log-level", "", "debug, info, warn, error or fatal")
	pf.StringVar(&flags.content, "content", "", "content file replacing the built-in one")
	pf.Uint64Var(&flags.seed, "seed", 0, "seed for scene placement, 0 picks one")
	pf.Uint32Var(&flags.width, "width", 0, "viewport width")
	pf.Uint32Var(&flags.height, "height", 0, "viewport height")
	pf.Float32Var(&flags.pixelRatio, "pixel-ratio", 0, "device pixel ratio, 0 asks the platform")

	root.AddCommand(
		newRunCommand(flags),
		newSnapshotCommand(flags),
		newValidateCommand(flags),
		newContactCommand(flags),
	)
	return root
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, flags *rootFlags) (*engine.ApplicationConfig, error) {
	config, err := engine.LoadApplicationConfig(flags.configPath)
	if err != nil {
		return nil, err
	}
	changed := cmd.Flags().Changed
	if changed("log-level") {
		config.LogLevel = flags.logLevel
	}
	if changed("content") {
		config.ContentPath = flags.content
	}
	if changed("seed") {
		config.Seed = flags.seed
	}
	if changed("width") {
		config.StartWidth = flags.width
	}
	if changed("height") {
		config.StartHeight = flags.height
	}
	if changed("pixel-ratio") {
		config.PixelRatio = flags.pixelRatio
	}
	core.SetLogLevel(core.ParseLogLevel(config.LogLevel))
	return config, config.Validate()
}

func newRunCommand(flags *rootFlags) *cobra.Command {
	var watch bool
	var backend string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Open the page in a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("watch") {
				config.Watch = watch
			}
			if cmd.Flags().Changed("backend") {
				config.Backend = engine.Backend(backend)
			}

			game := portfolio.NewPortfolioGame(cmd.Context(), config)
			e, err := engine.New(game.Game)
			if err != nil {
				return err
			}
			if err := e.Initialize(); err != nil {
				return err
			}
			runErr := e.Run(cmd.Context())
			if err := e.Shutdown(); err != nil && runErr == nil {
				runErr = err
			}
			return runErr
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "reload the content file when it changes")
	cmd.Flags().StringVar(&backend, "backend", string(engine.BackendOpenGL), "opengl or headless")
	return cmd
}

func newSnapshotCommand(flags *rootFlags) *cobra.Command {
	var out string
	var frames int
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Render every section headless into PNG files",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("out") {
				config.OutputDir = out
			}
			if cmd.Flags().Changed("frames") {
				config.Frames = frames
			}
			content, err := portfolio.LoadContent(config.ContentPath)
			if err != nil {
				return err
			}
			ratio := config.PixelRatio
			if ratio <= 0 {
				ratio = 1
			}
			paths, err := portfolio.Snapshot(cmd.Context(), content, portfolio.SnapshotOptions{
				Width:      config.StartWidth,
				Height:     config.StartHeight,
				PixelRatio: ratio,
				Frames:     config.Frames,
				Seed:       config.Seed,
				OutputDir:  config.OutputDir,
			})
			for _, p := range paths {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output directory")
	cmd.Flags().IntVarP(&frames, "frames", "n", 0, "frames rendered before each capture")
	return cmd
}

func newValidateCommand(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the configuration, the content and every section scene",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			content, err := portfolio.LoadContent(config.ContentPath)
			if err != nil {
				return err
			}
			rng := math.NewRandom(config.Seed)
			var errs []error
			for _, section := range portfolio.NewSections(content) {
				d := section.Descriptor(rng)
				if d == nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s static\n", section.ID())
					continue
				}
				if err := d.Validate(); err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%-14s FAIL %s\n", section.ID(), err)
					errs = append(errs, fmt.Errorf("%s: %w", section.ID(), err))
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%-14s ok (%d objects)\n", section.ID(), len(d.Objects))
			}
			return errors.Join(errs...)
		},
	}
}

func newContactCommand(flags *rootFlags) *cobra.Command {
	var name, email, message string
	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Print the mailto link the contact form would open",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			content, err := portfolio.LoadContent(config.ContentPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), portfolio.ComposeMailLink(content.Profile.Email, name, email, message))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "your name")
	cmd.Flags().StringVar(&email, "email", "", "your email")
	cmd.Flags().StringVar(&message, "message", "", "message body")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("message")
	return cmd
}
