// Command vexplore loads a vector store from disk and prints the canonical
// dataset as JSON on stdout.
//
//	vexplore [-type auto|faiss|chroma] [-max N] [-pretty] [-v] PATH
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	vexplore "github.com/hupe1980/vexplore"
	"github.com/hupe1980/vexplore/codec"
	"github.com/hupe1980/vexplore/model"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "vexplore: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	storeType := flag.String("type", "auto", "store type: auto, faiss or chroma")
	maxRecords := flag.Int("max", vexplore.DefaultMaxRecords, "maximum records to extract")
	pretty := flag.Bool("pretty", false, "indent the JSON output")
	verbose := flag.Bool("v", false, "log progress to stderr")
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		return fmt.Errorf("expected exactly one PATH argument")
	}
	path := flag.Arg(0)

	logger := vexplore.NoopLogger()
	if *verbose {
		logger = vexplore.NewTextLogger(slog.LevelDebug)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := []vexplore.Option{
		vexplore.WithMaxRecords(*maxRecords),
		vexplore.WithLogger(logger),
	}

	var (
		ds  *model.Dataset
		err error
	)
	switch *storeType {
	case "auto":
		ds, err = vexplore.Extract(ctx, path, opts...)
	case "faiss":
		ds, err = vexplore.ExtractFAISS(ctx, path, opts...)
	case "chroma":
		ds, err = vexplore.ExtractChroma(ctx, path, opts...)
	default:
		return fmt.Errorf("unknown store type %q", *storeType)
	}
	if err != nil {
		return err
	}

	var body []byte
	if *pretty {
		body, err = json.MarshalIndent(ds, "", "  ")
	} else {
		body, err = codec.Default.Marshal(ds)
	}
	if err != nil {
		return err
	}

	if _, err := os.Stdout.Write(append(body, '\n')); err != nil {
		return err
	}
	return nil
}
