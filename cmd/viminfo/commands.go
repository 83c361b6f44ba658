package main

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/hupe1980/vimgo/blobstore"
	"github.com/hupe1980/vimgo/codec"
	"github.com/hupe1980/vimgo/column"
	"github.com/hupe1980/vimgo/document"
	"github.com/hupe1980/vimgo/math3d"
	"github.com/hupe1980/vimgo/scene"
	"github.com/hupe1980/vimgo/schema"
)

type source struct {
	store blobstore.BlobStore
	name  string
	doc   *document.Document
}

// Command is one viminfo subcommand.
type Command struct {
	Name    string
	Summary string
	Run     func(ctx context.Context, e *env, src *source) error
}

var commands = []*Command{
	{Name: "info", Summary: "header, sizes and buffer counts", Run: runInfo},
	{Name: "tables", Summary: "entity tables with row and column counts", Run: runTables},
	{Name: "validate", Summary: "check relations and object-model column kinds", Run: runValidate},
	{Name: "nodes", Summary: "expanded scene nodes", Run: runNodes},
	{Name: "schema", Summary: "export the table schema (--format)", Run: runSchema},
	{Name: "assets", Summary: "asset sizes and blake3 digests", Run: runAssets},
}

func lookupCommand(name string) (*Command, bool) {
	for _, c := range commands {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

func (e *env) printJSON(v any) error {
	data, err := codec.Indent(codec.GoJSON{}, v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(e.out, "%s\n", data)
	return err
}

type infoReport struct {
	Name       string   `json:"name"`
	Size       int64    `json:"size"`
	Header     string   `json:"header"`
	Mode       string   `json:"mode"`
	Tables     int      `json:"tables"`
	Strings    int      `json:"strings"`
	Nodes      int      `json:"nodes"`
	Geometries int      `json:"geometries"`
	Vertices   int      `json:"vertices"`
	Assets     int      `json:"assets"`
	Skipped    []string `json:"skipped,omitempty"`
}

func runInfo(ctx context.Context, e *env, src *source) error {
	size, err := blobSize(ctx, src)
	if err != nil {
		return err
	}
	doc := src.doc
	r := infoReport{
		Name:    src.name,
		Size:    size,
		Header:  doc.Header().String(),
		Mode:    scene.ModeFor(doc.Header()).String(),
		Tables:  len(doc.Tables()),
		Strings: doc.StringTable().Len(),
		Nodes:   len(doc.Nodes()),
		Assets:  len(doc.Assets()),
		Skipped: doc.Skipped(),
	}
	g, err := doc.Geometry()
	switch {
	case err == nil:
		r.Geometries = g.NumMeshes()
		r.Vertices = g.NumVertices()
	case !errors.Is(err, document.ErrGeometryNotLoaded):
		return err
	}

	if e.json {
		return e.printJSON(r)
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "name:\t%s\n", r.Name)
	fmt.Fprintf(tw, "size:\t%s\n", humanize.Bytes(uint64(r.Size)))
	fmt.Fprintf(tw, "header:\t%s\n", r.Header)
	fmt.Fprintf(tw, "mode:\t%s\n", r.Mode)
	fmt.Fprintf(tw, "tables:\t%d\n", r.Tables)
	fmt.Fprintf(tw, "strings:\t%s\n", humanize.Comma(int64(r.Strings)))
	fmt.Fprintf(tw, "nodes:\t%s\n", humanize.Comma(int64(r.Nodes)))
	fmt.Fprintf(tw, "geometries:\t%s\n", humanize.Comma(int64(r.Geometries)))
	fmt.Fprintf(tw, "vertices:\t%s\n", humanize.Comma(int64(r.Vertices)))
	fmt.Fprintf(tw, "assets:\t%d\n", r.Assets)
	for _, s := range r.Skipped {
		fmt.Fprintf(tw, "skipped:\t%s\n", s)
	}
	return tw.Flush()
}

func blobSize(ctx context.Context, src *source) (int64, error) {
	b, err := src.store.Open(ctx, src.name)
	if err != nil {
		return 0, err
	}
	defer func() { _ = b.Close() }()
	return b.Size(), nil
}

type tableReport struct {
	Name       string `json:"name"`
	Rows       int    `json:"rows"`
	Index      int    `json:"index"`
	Numeric    int    `json:"numeric"`
	String     int    `json:"string"`
	Properties int    `json:"properties"`
}

func runTables(_ context.Context, e *env, src *source) error {
	var rows []tableReport
	for _, t := range src.doc.Tables() {
		rows = append(rows, tableReport{
			Name:       t.Name(),
			Rows:       t.NumRows(),
			Index:      len(t.ColumnsOf(column.Index)),
			Numeric:    len(t.ColumnsOf(column.Numeric)),
			String:     len(t.ColumnsOf(column.String)),
			Properties: len(t.Properties()),
		})
	}
	if e.json {
		return e.printJSON(rows)
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TABLE\tROWS\tINDEX\tNUMERIC\tSTRING\tPROPS\t")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%d\t\n", r.Name, humanize.Comma(int64(r.Rows)), r.Index, r.Numeric, r.String, r.Properties)
	}
	return tw.Flush()
}

type validateReport struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// errInvalid is returned by validate so the process exits non-zero.
var errInvalid = errors.New("document is invalid")

func runValidate(_ context.Context, e *env, src *source) error {
	var problems []error
	relations := src.doc.ValidateRelations
	if e.strict {
		relations = src.doc.ValidateRelationsStrict
	}
	if err := relations(); err != nil {
		problems = append(problems, err)
	}
	if err := schema.ValidateObjectModel(src.doc); err != nil {
		problems = append(problems, unjoin(err)...)
	}

	r := validateReport{Valid: len(problems) == 0}
	for _, p := range problems {
		r.Errors = append(r.Errors, p.Error())
	}
	if e.json {
		if err := e.printJSON(r); err != nil {
			return err
		}
	} else if r.Valid {
		fmt.Fprintln(e.out, "ok")
	} else {
		for _, msg := range r.Errors {
			fmt.Fprintln(e.out, msg)
		}
	}
	if !r.Valid {
		return fmt.Errorf("%w: %d problem(s)", errInvalid, len(problems))
	}
	return nil
}

func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}

type nodeReport struct {
	Index     int              `json:"index"`
	Source    int              `json:"source"`
	Geometry  int32            `json:"geometry"`
	Element   int32            `json:"element"`
	Transform math3d.Matrix4x4 `json:"transform"`
}

func runNodes(ctx context.Context, e *env, src *source) error {
	sc, err := scene.LoadScene(ctx, src.doc)
	if err != nil {
		return err
	}
	nodes := sc.Nodes
	if e.limit > 0 && e.limit < len(nodes) {
		nodes = nodes[:e.limit]
	}

	if e.json {
		out := make([]nodeReport, len(nodes))
		for i, n := range nodes {
			out[i] = nodeReport{
				Index:     n.Index,
				Source:    n.Source,
				Geometry:  n.Geometry,
				Element:   n.Element,
				Transform: n.Transform,
			}
		}
		return e.printJSON(out)
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "INDEX\tSOURCE\tGEOMETRY\tELEMENT\tTRANSLATION")
	for _, n := range nodes {
		t := n.Transform.Translation()
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t(%g, %g, %g)\n", n.Index, n.Source, n.Geometry, n.Element, t.X, t.Y, t.Z)
	}
	if len(nodes) < len(sc.Nodes) {
		fmt.Fprintf(tw, "...\t%d more\n", len(sc.Nodes)-len(nodes))
	}
	return tw.Flush()
}

func runSchema(_ context.Context, e *env, src *source) error {
	c, ok := codec.ByName(e.format)
	if !ok {
		return fmt.Errorf("%w: unknown format %q", errUsage, e.format)
	}
	return schema.ExportIndent(e.out, schema.FromDocument(src.doc), c)
}

func runAssets(ctx context.Context, e *env, src *source) error {
	digests, err := schema.AssetDigests(ctx, src.doc, runtime.GOMAXPROCS(0))
	if err != nil {
		return err
	}
	if e.json {
		return e.printJSON(digests)
	}
	tw := tabwriter.NewWriter(e.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ASSET\tSIZE\tBLAKE3")
	for _, d := range digests {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Name, humanize.Bytes(uint64(d.Size)), d.Digest)
	}
	return tw.Flush()
}
