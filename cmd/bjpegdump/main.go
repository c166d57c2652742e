// Command bjpegdump decodes one or more JPEG files and prints a summary of
// their marker segments, reconstructed dimensions, and any embedded
// metadata it found, optionally writing each decoded raster out as a PPM.
//
// File-system traversal and flag parsing are collaborator concerns spec.md
// specifies only at the interface level; this command is that collaborator,
// built with github.com/spf13/cobra the way the rest of the retrieval pack's
// CLI tools are.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	jpeg "github.com/kvistgaard/bjpeg"
	"github.com/kvistgaard/bjpeg/internal/jlog"
	"github.com/kvistgaard/bjpeg/internal/ppm"
)

var (
	flagWarn     bool
	flagMarkers  bool
	flagMcu      bool
	flagOutDir   string
	flagLogFile  string
)

func main() {
	root := &cobra.Command{
		Use:   "bjpegdump <file-or-directory>...",
		Short: "Decode JPEG files and report their structure and metadata",
		Args:  cobra.MinimumNArgs(1),
		RunE:  run,
	}
	root.Flags().BoolVar(&flagWarn, "warn", false, "log non-fatal inconsistencies")
	root.Flags().BoolVar(&flagMarkers, "markers", false, "log every marker segment as it is parsed")
	root.Flags().BoolVar(&flagMcu, "mcu", false, "log every MCU as it is reconstructed")
	root.Flags().StringVar(&flagOutDir, "out", "", "directory to write decoded rasters as PPM (P3)")
	root.Flags().StringVar(&flagLogFile, "log-file", "", "rotate diagnostics into this file instead of stderr")

	if err := root.Execute(); err != nil {
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	var logger *jlog.Logger
	if flagLogFile != "" {
		logger = jlog.NewRotatingFile(flagLogFile, 10, 3, 28)
	} else {
		logger = jlog.New(os.Stderr)
	}

	ctl := &jpeg.Control{Warn: flagWarn, Markers: flagMarkers, Mcu: flagMcu, Logger: logger}

	errored := 0
	for _, path := range files {
		if err := decodeOne(path, ctl); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			errored++
		}
	}

	fmt.Printf("%d files, %d with errors\n", len(files), errored)
	if errored > 0 {
		return fmt.Errorf("%d of %d files failed to decode", errored, len(files))
	}
	return nil
}

// collectFiles expands args (files or directories) into a lexicographically
// sorted list of paths. Files named directly are kept whatever their
// extension; directories are walked recursively for .jpg/.jpeg files.
func collectFiles(args []string) ([]string, error) {
	var out []string
	for _, a := range args {
		info, err := os.Stat(a)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, a)
			continue
		}
		err = filepath.Walk(a, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if fi.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext == ".jpg" || ext == ".jpeg" {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(out)
	return out, nil
}

func decodeOne(path string, ctl *jpeg.Control) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	res, err := jpeg.Decode(data, ctl)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %dx%d, %d markers, %d comments, errors=%d warnings=%d\n",
		path, res.Report.Frame.Width, res.Report.Frame.Height, len(res.Report.Markers),
		len(res.Report.Comments), res.Logger.ErrorCount(), res.Logger.WarnCount())

	if flagOutDir != "" && res.Raster != nil {
		if err := os.MkdirAll(flagOutDir, 0o755); err != nil {
			return err
		}
		base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		out, err := os.Create(filepath.Join(flagOutDir, base+".ppm"))
		if err != nil {
			return err
		}
		defer out.Close()
		if err := ppm.Write(out, res.Raster.Width, res.Raster.Height, res.Raster.Pix); err != nil {
			return err
		}
	}
	return nil
}
