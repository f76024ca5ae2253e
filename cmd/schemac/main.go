package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/wippyai/schemac"
	"github.com/wippyai/schemac/codec"
	"github.com/wippyai/schemac/features"
)

type options struct {
	schemaFile string
	valuesFile string
	jsonOut    bool
	plan       bool
	describe   bool
	color      bool
}

func main() {
	var (
		schemaFile  = flag.String("schema", "", "Path to schema file (YAML or JSON)")
		valuesFile  = flag.String("values", "", "JSON object of field values to encode (optional)")
		jsonOut     = flag.Bool("json", false, "Print the persisted manifest as JSON and exit")
		plan        = flag.Bool("plan", false, "Show the resolved capability plan")
		describe    = flag.Bool("describe", false, "Show per-element pack/unpack operations")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Verbose development logging")
		noColor     = flag.Bool("no-color", false, "Disable colored output")
	)
	flag.Parse()

	if *schemaFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: schemac -schema <file.yaml> [-plan] [-describe] [-values values.json]")
		fmt.Fprintln(os.Stderr, "       schemac -schema <file.yaml> -json")
		fmt.Fprintln(os.Stderr, "       schemac -schema <file.yaml> -i  (interactive mode)")
		os.Exit(1)
	}

	logger, err := newLogger(*verbose)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync() //nolint:errcheck
	schemac.SetLogger(logger)
	features.SetLogger(logger.Named("features"))
	codec.SetLogger(logger.Named("codec"))

	if *interactive {
		if err := runInteractive(*schemaFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	opts := options{
		schemaFile: *schemaFile,
		valuesFile: *valuesFile,
		jsonOut:    *jsonOut,
		plan:       *plan,
		describe:   *describe,
		color:      !*noColor && term.IsTerminal(int(os.Stdout.Fd())),
	}
	if err := run(os.Stdout, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func run(w io.Writer, opts options) error {
	art, err := schemac.CompileFile(opts.schemaFile)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}

	if opts.jsonOut {
		data, err := art.ManifestJSON()
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}

	st := newStyles(opts.color)
	s := art.Schema

	fmt.Fprintf(w, "%s %s\n", st.title.Render("schemac"), s.Name)
	if s.Scope != "" {
		fmt.Fprintf(w, "Scope: %s\n", s.Scope)
	}
	fmt.Fprintf(w, "Fields: %d\n", len(s.Fields))
	fmt.Fprintf(w, "Words: %d\n\n", art.WordCount)

	rows := make([][]string, 0, len(art.Slots))
	for _, sl := range art.Slots {
		f, _ := s.Field(sl.FieldKey)
		rows = append(rows, []string{
			sl.FieldKey,
			strconv.Itoa(sl.ElementIndex),
			f.Type.String(),
			strconv.Itoa(sl.WordIndex),
			strconv.Itoa(sl.BitOffset),
			strconv.Itoa(sl.BitLength),
		})
	}
	fmt.Fprintln(w, st.section.Render("Storage layout"))
	fmt.Fprintln(w, st.table([]string{"FIELD", "ELEM", "TYPE", "WORD", "OFFSET", "BITS"}, rows))

	if len(art.RefStores) > 0 {
		fmt.Fprintf(w, "\n%s\n", st.section.Render("Reference stores"))
		for _, d := range art.RefStores {
			fmt.Fprintf(w, "  %s\n", st.field.Render(d.String()))
		}
	}

	if opts.plan {
		fmt.Fprintf(w, "\n%s\n", st.section.Render("Capability plan"))
		fmt.Fprintln(w, art.Plan.String())
		if len(art.Plan.AutoEnabled) > 0 {
			fmt.Fprintf(w, "auto-enabled: %v\n", art.Plan.AutoEnabled)
		}
		fmt.Fprintf(w, "interfaces: %v\n", art.Plan.Interfaces)
	}

	if opts.describe {
		ops := art.Codec.Describe()
		rows := make([][]string, 0, len(ops))
		for _, op := range ops {
			rows = append(rows, []string{
				op.Field,
				strconv.Itoa(op.Element),
				strconv.Itoa(op.Word),
				strconv.Itoa(op.Offset),
				strconv.Itoa(op.Bits),
				op.Conversion,
				op.Mask,
			})
		}
		fmt.Fprintf(w, "\n%s\n", st.section.Render("Codec operations"))
		fmt.Fprintln(w, st.table([]string{"FIELD", "ELEM", "WORD", "OFFSET", "BITS", "CONVERSION", "MASK"}, rows))
	}

	if opts.valuesFile != "" {
		if err := encodeValues(w, st, art, opts.valuesFile); err != nil {
			return err
		}
	}

	return nil
}

func encodeValues(w io.Writer, st styles, art *schemac.Artifact, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read values: %w", err)
	}

	// UseNumber keeps integers wider than 53 bits exact
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var values map[string]any
	if err := dec.Decode(&values); err != nil {
		return fmt.Errorf("decode values: %w", err)
	}

	words, err := art.Codec.Encode(values)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	fmt.Fprintf(w, "\n%s\n", st.section.Render("Encoded words"))
	for i, word := range words {
		fmt.Fprintf(w, "  [%d] %s\n", i, st.value.Render(word.Hex()))
	}

	decoded, err := art.Codec.Decode(words)
	if err != nil {
		return fmt.Errorf("decode: %w", err)
	}
	keys := make([]string, 0, len(decoded))
	for k := range decoded {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintf(w, "\n%s\n", st.section.Render("Decoded"))
	for _, k := range keys {
		fmt.Fprintf(w, "  %s = %v\n", st.field.Render(k), decoded[k])
	}
	return nil
}

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	field   lipgloss.Style
	value   lipgloss.Style
	header  lipgloss.Style
	border  lipgloss.Style
}

func newStyles(color bool) styles {
	if !color {
		plain := lipgloss.NewStyle()
		return styles{title: plain, section: plain, field: plain, value: plain, header: plain, border: plain}
	}
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1),
		section: lipgloss.NewStyle().Bold(true).Underline(true),
		field:   lipgloss.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")),
		header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		border:  lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
}

func (s styles) table(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.header.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.String()
}
