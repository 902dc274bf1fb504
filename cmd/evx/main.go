// Command evx inspects values built from JSON input.  It reads a JSON
// document from a file or stdin, converts it to a value, and prints the
// value's type, debug form, and serialized size.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/evx-dev/evx"
	"github.com/evx-dev/evx/protoval"
	"go.uber.org/zap"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

func main() {
	var (
		legacy  = flag.Bool("legacy", false, "wrap containers as message-backed values instead of parsed ones")
		verbose = flag.Bool("v", false, "verbose logging")
	)
	flag.Parse()

	cfg := zap.NewProductionConfig()
	if *verbose {
		cfg = zap.NewDevelopmentConfig()
	}
	logger, err := cfg.Build()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(logger, flag.Arg(0), *legacy); err != nil {
		logger.Fatal("inspect failed", zap.Error(err))
	}
}

func run(logger *zap.Logger, path string, legacy bool) error {
	var r io.Reader = os.Stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}

	var j structpb.Value
	if err := protojson.Unmarshal(data, &j); err != nil {
		return fmt.Errorf("parsing JSON: %w", err)
	}

	ctx := evx.NewContext()
	var v evx.Value
	if legacy {
		v, err = protoval.Wrap(ctx, &j)
	} else {
		v, err = evx.FromJSON(ctx, &j)
	}
	if err != nil {
		return err
	}
	logger.Debug("value built",
		zap.String("kind", v.Kind().String()),
		zap.Bool("legacy", v.Kind().IsComposite() && evx.IsLegacyBacked(v)))

	fmt.Printf("type: %s\n", v.Type())
	fmt.Printf("value: %s\n", v.DebugString())
	fmt.Printf("hash: %#x\n", v.Hash())
	if size, err := v.SerializedSize(); err == nil {
		fmt.Printf("serialized size: %d\n", size)
	} else {
		logger.Debug("size unavailable", zap.Error(err))
	}
	return nil
}
