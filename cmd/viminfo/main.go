// viminfo inspects VIM documents.
//
// Usage:
//
//	viminfo [flags] <command> <file>
//
// <file> is a local path or an s3://bucket/key URL. Compressed documents
// are detected and unpacked.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/pflag"

	"github.com/hupe1980/vimgo"
	"github.com/hupe1980/vimgo/blobstore"
	"github.com/hupe1980/vimgo/blobstore/s3"
	"github.com/hupe1980/vimgo/codec"
	"github.com/hupe1980/vimgo/document"
)

// errUsage marks errors caused by bad arguments; they exit with status 2.
var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if errors.Is(err, errUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

type env struct {
	out          io.Writer
	json         bool
	skipGeometry bool
	strict       bool
	format       string
	limit        int
	verbose      bool
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	e := &env{out: stdout}

	flagSet := pflag.NewFlagSet("viminfo", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.BoolVar(&e.json, "json", false, "print machine-readable JSON")
	flagSet.BoolVar(&e.skipGeometry, "skip-geometry", false, "do not load the geometry buffer")
	flagSet.BoolVar(&e.strict, "strict", false, "validate: reject relations equal to the related row count")
	flagSet.StringVar(&e.format, "format", "json", "schema: output codec ("+strings.Join(codec.Names, ", ")+")")
	flagSet.IntVarP(&e.limit, "limit", "n", 0, "nodes: print at most n nodes (0 = all)")
	flagSet.BoolVarP(&e.verbose, "verbose", "v", false, "log load progress to stderr")
	flagSet.Usage = func() { printHelp(stderr, flagSet) }

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return fmt.Errorf("%w: %w", errUsage, err)
	}

	rest := flagSet.Args()
	if len(rest) != 2 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("%w: expected <command> <file>", errUsage)
	}
	cmd, ok := lookupCommand(rest[0])
	if !ok {
		return fmt.Errorf("%w: unknown command %q", errUsage, rest[0])
	}

	store, name, err := resolve(ctx, rest[1])
	if err != nil {
		return err
	}

	opts := []vimgo.Option{vimgo.WithLoadOptions(document.LoadOptions{SkipGeometry: e.skipGeometry})}
	if e.verbose {
		opts = append(opts, vimgo.WithLogger(vimgo.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))))
	}
	doc, err := vimgo.Open(ctx, store, name, opts...)
	if err != nil {
		return err
	}

	return cmd.Run(ctx, e, &source{store: store, name: name, doc: doc})
}

// resolve maps a path or s3:// URL to a store and a blob name.
func resolve(ctx context.Context, target string) (blobstore.BlobStore, string, error) {
	if rest, ok := strings.CutPrefix(target, "s3://"); ok {
		bucket, key, ok := strings.Cut(rest, "/")
		if !ok || bucket == "" || key == "" {
			return nil, "", fmt.Errorf("%w: malformed S3 URL %q", errUsage, target)
		}
		store, err := s3.New(ctx, bucket)
		if err != nil {
			return nil, "", err
		}
		return store, key, nil
	}
	dir, name := splitPath(target)
	return blobstore.NewLocalStore(dir), name, nil
}

func splitPath(p string) (string, string) {
	i := strings.LastIndexAny(p, `/\`)
	if i < 0 {
		return ".", p
	}
	if i == 0 {
		return p[:1], p[1:]
	}
	return p[:i], p[i+1:]
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, "viminfo inspects VIM documents.\n\nUsage:\n  viminfo [flags] <command> <file>\n\nCommands:\n")
	for _, c := range commands {
		fmt.Fprintf(w, "  %-10s %s\n", c.Name, c.Summary)
	}
	fmt.Fprintf(w, "\nFlags:\n%s", flagSet.FlagUsages())
}
