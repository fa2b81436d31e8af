// Package cli implements the v2i command surface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/v2i-cli/v2i/internal/bootstrap"
	"github.com/v2i-cli/v2i/internal/config"
	"github.com/v2i-cli/v2i/internal/optimize"
	"github.com/v2i-cli/v2i/internal/pipeline"
	"github.com/v2i-cli/v2i/internal/source"
)

// Version is stamped at build time.
var Version = "dev"

// exit codes
const (
	exitOK          = 0
	exitError       = 1
	exitInterrupted = 130
)

type runFlags struct {
	clipboard bool
	clean     bool
	open      bool
	info      bool
	check     bool
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	var flags runFlags

	opts, err := config.Load(context.Background())
	if err != nil {
		printError(err.Error())
		return exitError
	}

	root := &cobra.Command{
		Use:     "v2i [source]",
		Short:   "Convert videos/GIFs to images for LLM prompts",
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		Example: `  v2i                           Extract frames from clipboard (default)
  v2i video.mp4                 Extract from local video
  v2i animation.gif             Extract from local GIF
  v2i https://example.com/v.mp4 Extract from URL

Tip: Copy a GIF, run 'v2i', then drag frames into your prompt!`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			src := ""
			if len(args) == 1 && !flags.clipboard {
				src = args[0]
			}
			return run(cmd.Context(), opts, flags, src)
		},
	}

	root.Flags().IntVarP(&opts.Frames, "frames", "n", opts.Frames, "number of frames to extract")
	root.Flags().StringVarP(&opts.OutputDir, "output", "o", opts.OutputDir, "output directory")
	root.Flags().IntVarP(&opts.MaxSize, "max-size", "s", opts.MaxSize, "max dimension in pixels")
	root.Flags().StringVarP(&opts.Format, "format", "f", opts.Format, "output format (jpg, png, webp)")
	root.Flags().IntVarP(&opts.Quality, "quality", "q", opts.Quality, "JPEG/WebP quality 1-100")
	root.Flags().BoolVar(&flags.clipboard, "clipboard", false, "read the source from the clipboard")
	root.Flags().BoolVar(&flags.clean, "clean", false, "remove previous frames before extracting")
	root.Flags().BoolVar(&flags.open, "open", false, "open output folder after extraction")
	root.Flags().BoolVar(&flags.info, "info", false, "show media info without extracting")
	root.Flags().BoolVar(&flags.check, "check", false, "check system dependencies")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			fmt.Fprintln(os.Stderr, "\nCancelled")
			return exitInterrupted
		}
		printError(err.Error())
		return exitError
	}
	return exitOK
}

// run is the main extraction workflow.
func run(ctx context.Context, opts *config.Options, flags runFlags, src string) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	logger := opts.NewLogger()
	slog.SetDefault(logger)

	deps := bootstrap.NewDependencies(opts, logger)

	if flags.check {
		return runCheck(deps)
	}

	resolved, err := deps.Resolver.Resolve(ctx, src)
	if err != nil {
		return err
	}
	// Downloaded and clipboard-exported sources are ours to delete; a user's
	// own file never is. Cleanup runs on every exit path.
	if resolved.Temp {
		defer source.RemoveTempSource(resolved.Path)
	}

	info, err := deps.Pipeline.Probe(ctx, resolved.Path)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s %s\n", blue("Source:"), info, dim("("+string(resolved.Origin)+")"))

	if flags.info {
		printInfo(resolved.Path, info)
		return nil
	}

	requested := opts.Frames
	if info.FrameCount > 0 && info.FrameCount < requested {
		requested = info.FrameCount
	}
	if info.Duration > 0 {
		interval := info.Duration / float64(requested)
		fmt.Printf("%s %d frames %s\n", blue("Extracting:"), requested, dim(fmt.Sprintf("(1 every %.1fs)", interval)))
	} else {
		fmt.Printf("%s %d frames\n", blue("Extracting:"), requested)
	}

	result, err := deps.Pipeline.Run(ctx, pipeline.Request{
		SourcePath:  resolved.Path,
		Frames:      opts.Frames,
		OutputDir:   opts.OutputDir,
		MaxSize:     opts.MaxSize,
		Format:      optimize.OutputFormat(opts.Format),
		Quality:     opts.Quality,
		CleanOutput: flags.clean,
	})
	if err != nil {
		return err
	}

	printResult(result)

	if flags.open {
		openFolder(result.OutputDir)
	}
	return nil
}

// printResult reports the saved frames and their sizes.
func printResult(result *pipeline.Result) {
	fmt.Printf("%s Saved %d frames to %s/\n", green("✓"), len(result.Frames), result.OutputDir)
	fmt.Printf("   Total size: %s\n\n", optimize.FormatSize(result.TotalSize))

	for _, frame := range result.Frames {
		size := optimize.FormatSize(optimize.FileSize(frame.Path))
		fmt.Printf("   %s %s\n", dim(filepath.Base(frame.Path)), dim("("+size+")"))
	}

	fmt.Println()
	fmt.Println(dim("Tip: Drag these into your prompt, or paste the paths above"))
}

func printError(msg string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", redBold("Error:"), msg)
}
