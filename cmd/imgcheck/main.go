// Command imgcheck runs untrusted image files through the validation layer
// and reports a verdict per file. It exits nonzero if any input is refused,
// and can optionally keep serving its counters over HTTP afterwards.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/safemedia/imageguard/pkg/imageguard"
	"github.com/safemedia/imageguard/pkg/limits"
	"github.com/safemedia/imageguard/pkg/metrics"
)

func main() {
	var (
		listen    = flag.String("listen", "", "address to serve /metrics and /healthz on after processing (optional)")
		format    = flag.String("format", "", "force a format instead of sniffing: gif, png or header")
		maxWidth  = flag.Int("max-width", 0, "override the canvas width ceiling")
		maxHeight = flag.Int("max-height", 0, "override the canvas height ceiling")
		maxFrames = flag.Int("max-frames", 0, "override the frame count ceiling")
	)
	flag.Parse()

	files := flag.Args()
	if len(files) == 0 {
		log.Fatal("usage: imgcheck [flags] <image-file>...")
	}

	lim := limits.Default()
	if *maxWidth > 0 {
		lim.MaxWidth = *maxWidth
	}
	if *maxHeight > 0 {
		lim.MaxHeight = *maxHeight
	}
	if *maxFrames > 0 {
		lim.MaxFrames = *maxFrames
	}

	reg := metrics.New()
	guard, err := imageguard.NewInstrumented(lim, reg)
	if err != nil {
		log.Fatalf("Invalid limits: %v", err)
	}

	refused := 0
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", path, err)
		}

		res, err := decode(guard, *format, data)
		if err != nil {
			refused++
			var gerr *imageguard.Error
			if errors.As(err, &gerr) {
				fmt.Printf("%s: REFUSED (%s/%s): %v\n", path, gerr.Format, gerr.Kind, err)
			} else {
				fmt.Printf("%s: REFUSED: %v\n", path, err)
			}
			continue
		}
		fmt.Printf("%s: OK %s %dx%d (%d frames)\n", path, res.Format, res.Width, res.Height, res.FrameCount)
	}
	fmt.Printf("Processed %d files, refused %d\n", len(files), refused)

	if *listen != "" {
		log.Printf("Serving metrics on %s (instance %s)", *listen, reg.Instance())
		log.Fatal(http.ListenAndServe(*listen, reg.Handler()))
	}
	if refused > 0 {
		os.Exit(1)
	}
}

func decode(g *imageguard.Guard, format string, data []byte) (*imageguard.Result, error) {
	switch format {
	case "":
		return g.Decode(data)
	case "gif":
		return g.DecodeGIF(data)
	case "png":
		return g.DecodePNG(data)
	case "header":
		return g.ValidateHeader(data)
	default:
		return nil, fmt.Errorf("unknown -format %q", format)
	}
}
