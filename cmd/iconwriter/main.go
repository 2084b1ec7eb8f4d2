// iconwriter renders artwork into multi-resolution icon files: .ico, .icns,
// PNG sequences, or the full set each desktop platform expects.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/ioutil"
	"os"
	"strconv"
	"strings"

	"git.sr.ht/~jackmordaunt/iconwriter"
	"git.sr.ht/~jackmordaunt/iconwriter/resample"
	"git.sr.ht/~jackmordaunt/iconwriter/sink"
)

var (
	srcFlag       = flag.String("src", "", "path to the source artwork")
	autoFlag      = flag.Bool("auto", false, "search the working tree for icon.svg or icon.png when -src is empty")
	formatFlag    = flag.String("format", "ico", "icon format: ico, icns or png")
	sizesFlag     = flag.String("sizes", "", "comma separated sizes, eg 16,32,48")
	filterFlag    = flag.String("filter", "lanczos", "resampling filter")
	outFlag       = flag.String("out", "", "output path")
	archiveFlag   = flag.String("archive", "dir", "how multi-file output is stored: dir, tar or iso")
	platformsFlag = flag.String("platforms", "", "comma separated platforms to bundle icons for: windows, darwin, linux")
	nameFlag      = flag.String("name", "icon", "base name of bundled icon files")
	manifestFlag  = flag.String("manifest", "", "windows application manifest to compile into the .syso")
	archFlag      = flag.String("arch", "amd64", "architecture of the windows .syso")
	convertFlag   = flag.Bool("convert", false, "with -format=icns, derive every icon type from a single 1024px render")
)

const usageStr = `iconwriter renders artwork into multi-resolution icons.

Usage:

    iconwriter -format=ico -out=app.ico [-sizes=16,32,48,256] -src=icon.svg
    iconwriter -format=icns -out=app.icns -src=icon.png
    iconwriter -format=png -archive=dir -out=icons -src=icon.svg
    iconwriter -platforms=windows,darwin,linux -out=dist -auto

Sources may be SVG, PNG, JPEG, GIF, BMP, TIFF or WEBP. Without -src the
source is read from stdin, unless -auto is given.

Single-file formats are written to stdout when -out is empty. Multi-file
output (png sequences, platform bundles) goes to a directory, or to a tar
or iso image with -archive.
`

var ErrNoOutput = errors.New("main: -out is required for directory output")

func main() {
	flag.Usage = func() {
		os.Stderr.WriteString(usageStr)
		fmt.Fprintf(os.Stderr, "\nFilters: %s\n\nFlags:\n", strings.Join(resample.Names(), ", "))
		flag.PrintDefaults()
	}
	flag.Parse()
	if err := main1(os.Stdout, os.Stderr); err != nil {
		os.Stderr.WriteString("error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// main1 runs the command. Icon data goes to stdout when -out is empty, so
// every message is written to stderr.
func main1(stdout, stderr io.Writer) error {
	if flag.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", flag.Args())
	}
	filter, ok := resample.Lookup(*filterFlag)
	if !ok {
		return fmt.Errorf("unknown filter %q, want one of %v", *filterFlag, resample.Names())
	}
	src, err := load(*srcFlag, *autoFlag, stderr)
	if err != nil {
		return fmt.Errorf("loading source: %w", err)
	}
	if *platformsFlag != "" {
		return bundle(src, filter, stdout, stderr)
	}
	format, err := iconwriter.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}
	sizes, err := parseSizes(*sizesFlag, format)
	if err != nil {
		return err
	}
	warnUpscale(stderr, src, sizes)
	if format == iconwriter.FormatICNS && *convertFlag {
		return writeFile(*outFlag, stdout, func(w io.Writer) error {
			return iconwriter.ConvertICNS(w, src, filter)
		})
	}
	icon := iconwriter.New(len(sizes), format)
	if err := icon.AddSizes(src, filter, sizes...); err != nil {
		return fmt.Errorf("rasterizing: %w", err)
	}
	if format == iconwriter.FormatPNGSequence {
		return store(stdout, func(s sink.Sink) error {
			return icon.Export(s, nil, nil)
		})
	}
	return writeFile(*outFlag, stdout, func(w io.Writer) error {
		return icon.Write(w, nil, nil)
	})
}

// bundle packs the icons of every requested platform.
func bundle(src *iconwriter.Source, filter resample.Filter, stdout, stderr io.Writer) error {
	var platforms []iconwriter.Platform
	for _, s := range strings.Split(*platformsFlag, ",") {
		p, err := iconwriter.ParsePlatform(strings.TrimSpace(s))
		if err != nil {
			return err
		}
		platforms = append(platforms, p)
	}
	md := iconwriter.MetaData{Name: *nameFlag}
	md.Windows.Arch = *archFlag
	if *manifestFlag != "" {
		by, err := ioutil.ReadFile(*manifestFlag)
		if err != nil {
			return fmt.Errorf("reading manifest: %w", err)
		}
		md.Windows.Manifest = by
	}
	warnUpscale(stderr, src, iconwriter.DefaultPolicy.Sizes())
	artifacts, err := iconwriter.Pack(src, filter, md, platforms...)
	if err != nil {
		return err
	}
	for _, a := range artifacts {
		fmt.Fprintf(stderr, "%s: %s (%d bytes)\n", a.Platform, a.Name, len(a.Data))
	}
	return store(stdout, func(s sink.Sink) error {
		return iconwriter.Store(s, artifacts)
	})
}

// parseSizes reads the -sizes flag, defaulting to the sizes that suit format.
func parseSizes(s string, format iconwriter.Format) ([]int, error) {
	if s == "" {
		switch format {
		case iconwriter.FormatICNS:
			return iconwriter.DefaultPolicy.Sizes(), nil
		case iconwriter.FormatPNGSequence:
			return iconwriter.LinuxSizes, nil
		}
		return iconwriter.WindowsSizes, nil
	}
	var sizes []int
	for _, field := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("parsing size %q: %w", field, err)
		}
		sizes = append(sizes, n)
	}
	return sizes, nil
}

// warnUpscale notes when raster artwork is smaller than the largest size it
// is rendered at.
func warnUpscale(stderr io.Writer, src *iconwriter.Source, sizes []int) {
	if src.IsVector() {
		return
	}
	w, h := src.Dimensions()
	for _, size := range sizes {
		if float64(size) > w || float64(size) > h {
			fmt.Fprintf(stderr, "warning: source is %vx%v, upscaling to %dx%d\n", w, h, size, size)
			return
		}
	}
}

// writeFile runs write against the file at path, or stdout if path is empty.
// The file is only created once write has succeeded.
func writeFile(path string, stdout io.Writer, write func(w io.Writer) error) error {
	if path == "" {
		return write(stdout)
	}
	buf := bytes.NewBuffer(nil)
	if err := write(buf); err != nil {
		return err
	}
	f, err := sink.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, buf); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}

// store runs put against the sink selected by -archive.
func store(stdout io.Writer, put func(s sink.Sink) error) error {
	switch *archiveFlag {
	case "dir":
		if *outFlag == "" {
			return ErrNoOutput
		}
		return put(sink.Dir{Root: *outFlag})
	case "tar":
		return writeFile(*outFlag, stdout, func(w io.Writer) error {
			tw := sink.NewTar(w)
			if err := put(tw); err != nil {
				return err
			}
			return tw.Close()
		})
	case "iso":
		return writeFile(*outFlag, stdout, func(w io.Writer) error {
			iso, err := sink.NewISO(w, strings.ToUpper(*nameFlag))
			if err != nil {
				return err
			}
			if err := put(iso); err != nil {
				iso.Close()
				return err
			}
			return iso.Close()
		})
	}
	return fmt.Errorf("unknown archive %q, want dir, tar or iso", *archiveFlag)
}
