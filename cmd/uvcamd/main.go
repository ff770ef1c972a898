package main

import (
	"net/http"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/honulabs/uvcam"
	"github.com/honulabs/uvcam/internal/logging"
	"github.com/honulabs/uvcam/internal/v4l2"
)

// Populated via -ldflags="-X ...". See Makefile.
var GitRevisionId string
var GitTag string

var log = logging.DefaultLogger.WithTag("uvcamd")

var (
	flagInput        string
	flagWidth        int
	flagHeight       int
	flagRate         int
	flagMaxFrameSize int
	flagListen       string
	flagHelp         bool
	flagVersion      bool
)

func init() {
	flag.StringVarP(&flagInput, "input", "i", "/dev/video0", "Video capture device")
	flag.IntVarP(&flagWidth, "width", "x", 640, "Video width")
	flag.IntVarP(&flagHeight, "height", "y", 480, "Video height")
	flag.IntVarP(&flagRate, "rate", "r", 30, "Frame rate, in frames per second")
	flag.IntVarP(&flagMaxFrameSize, "max-frame", "m", uvcam.DefaultMaxFrameSize, "Transport buffer capacity, in bytes")
	flag.StringVarP(&flagListen, "listen", "l", ":8080", "HTTP listen address")

	flag.BoolVarP(&flagHelp, "help", "h", false, "Print usage information and exit")
	flag.BoolVarP(&flagVersion, "version", "v", false, "Print version information and exit")
}

func main() {
	flag.Parse()

	if flagHelp {
		help()
		os.Exit(0)
	}
	if flagVersion {
		version()
		os.Exit(0)
	}

	session := uvcam.NewSession(uvcam.SessionConfig{
		Camera:       v4l2.New(flagInput),
		MaxFrameSize: flagMaxFrameSize,
	})

	// Advertise the capability catalog, descriptor style.
	log.Info("====== stream configuration ======")
	for _, fc := range uvcam.DefaultCapabilities {
		log.Info("format: %v", fc.Format)
		for i, fr := range fc.Frames {
			log.Info("\tframe(%d) = %v", i+1, fr)
		}
	}

	http.Handle("/stream", &streamServer{session: session})
	log.Info("listening on %s", flagListen)
	log.Fatal(http.ListenAndServe(flagListen, nil))
}
