package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/wippyai/dwarfread/internal/sectionbuf"
	"github.com/wippyai/dwarfread/reader"
	"github.com/wippyai/dwarfread/section"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// env is the state shared by every command after flag parsing.
type env struct {
	log *zap.Logger
	cfg Config
}

func newApp() *cli.App {
	e := &env{log: zap.NewNop(), cfg: defaultConfig()}

	sectionFlag := &cli.StringFlag{Name: "section", Aliases: []string{"s"}, Value: ".debug_str", Usage: "section to read"}

	return &cli.App{
		Name:  "dwarfdump",
		Usage: "inspect DWARF sections in ELF and WebAssembly files",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Usage: "YAML file with decoding defaults"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "debug logging"},
			&cli.StringFlag{Name: "endian", Usage: "override byte order: little, big, native"},
			&cli.IntFlag{Name: "offset-width", Usage: "offset width in bits: 32 or 64"},
			&cli.UintFlag{Name: "address-size", Usage: "address width in bytes (default from container)"},
			&cli.StringFlag{Name: "format", Usage: "unit format for word/offset reads: dwarf32 or dwarf64"},
			&cli.StringFlag{Name: "prefix", Usage: "section name prefix to load"},
		},
		Before: e.setup,
		After: func(*cli.Context) error {
			_ = e.log.Sync()
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:      "sections",
				Usage:     "list debug sections",
				ArgsUsage: "FILE",
				Action:    e.sections,
			},
			{
				Name:      "strings",
				Usage:     "list null-terminated strings with their offsets",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{sectionFlag},
				Action:    e.listStrings,
			},
			{
				Name:      "read",
				Usage:     "decode values at an offset",
				ArgsUsage: "FILE",
				Flags: []cli.Flag{
					sectionFlag,
					&cli.StringFlag{Name: "at", Value: "0", Usage: "start offset (decimal or 0x hex)"},
					&cli.StringFlag{Name: "as", Value: "u8", Usage: "value kind: " + strings.Join(valueKinds, ", ")},
					&cli.IntFlag{Name: "count", Aliases: []string{"n"}, Value: 1, Usage: "number of values"},
				},
				Action: e.read,
			},
			{
				Name:  "leb",
				Usage: "convert LEB128 values",
				Subcommands: []*cli.Command{
					{
						Name:      "encode",
						ArgsUsage: "INT...",
						Flags:     []cli.Flag{&cli.BoolFlag{Name: "signed"}},
						Action:    e.lebEncode,
					},
					{
						Name:      "decode",
						ArgsUsage: "HEX",
						Flags:     []cli.Flag{&cli.BoolFlag{Name: "signed"}},
						Action:    e.lebDecode,
					},
				},
			},
			{
				Name:      "explore",
				Usage:     "step through a section interactively",
				ArgsUsage: "FILE",
				Flags:     []cli.Flag{sectionFlag},
				Action:    e.explore,
			},
		},
	}
}

func (e *env) setup(c *cli.Context) error {
	cfg, err := loadConfig(c.String("config"))
	if err != nil {
		return err
	}
	if c.IsSet("endian") {
		cfg.Endian = c.String("endian")
	}
	if c.IsSet("offset-width") {
		cfg.OffsetWidth = c.Int("offset-width")
	}
	if c.IsSet("address-size") {
		size := c.Uint("address-size")
		if size > math.MaxUint8 {
			return fmt.Errorf("address-size must fit in a byte, got %d", size)
		}
		cfg.AddressSize = uint8(size)
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("prefix") {
		cfg.Prefix = c.String("prefix")
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	e.cfg = cfg

	log, err := newLogger(c.Bool("verbose"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	e.log = log
	section.SetLogger(log)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	return cfg.Build()
}

func (e *env) open(c *cli.Context) (*section.Set, error) {
	path := c.Args().First()
	if path == "" {
		return nil, fmt.Errorf("missing FILE argument")
	}
	set, err := section.LoadFile(c.Context, path,
		section.WithPrefix(e.cfg.Prefix),
		section.WithLogger(e.log))
	if err != nil {
		return nil, err
	}
	if e.cfg.Endian != "" {
		set.Endian, _ = reader.ParseEndian(e.cfg.Endian)
	}
	return set, nil
}

func (e *env) params(set *section.Set) decodeParams {
	f, _ := e.cfg.format()
	p := decodeParams{format: f, addressSize: e.cfg.AddressSize}
	if p.addressSize == 0 {
		p.addressSize = set.AddressSize
	}
	if p.addressSize == 0 {
		p.addressSize = 8
	}
	return p
}

func (e *env) sections(c *cli.Context) error {
	set, err := e.open(c)
	if err != nil {
		return err
	}
	defer set.Close()

	w := c.App.Writer
	fmt.Fprintf(w, "%s, %s, address size %d\n", set.Container, set.Endian, set.AddressSize)
	for _, name := range set.Names() {
		sec, _ := set.Section(name)
		note := ""
		if sec.Reconstructed {
			note = " (decompressed)"
		}
		fmt.Fprintf(w, "  %-20s %10d%s\n", name, len(sec.Data), note)
	}
	return nil
}

func (e *env) listStrings(c *cli.Context) error {
	set, err := e.open(c)
	if err != nil {
		return err
	}
	defer set.Close()

	if e.cfg.OffsetWidth == 32 {
		return printStrings[uint32](c.App.Writer, set, c.String("section"))
	}
	return printStrings[uint64](c.App.Writer, set, c.String("section"))
}

func printStrings[O reader.Offset](w io.Writer, set *section.Set, name string) error {
	r, err := section.Open[O](set, name)
	if err != nil {
		return err
	}
	entries, err := walkStrings(r)
	for _, s := range entries {
		fmt.Fprintf(w, "%#08x  %q\n", s.offset, s.text)
	}
	return err
}

func (e *env) read(c *cli.Context) error {
	at, err := strconv.ParseUint(c.String("at"), 0, 64)
	if err != nil {
		return fmt.Errorf("invalid --at: %w", err)
	}

	set, err := e.open(c)
	if err != nil {
		return err
	}
	defer set.Close()

	q := readQuery{
		section: c.String("section"),
		kind:    c.String("as"),
		at:      at,
		count:   c.Int("count"),
		params:  e.params(set),
	}
	if e.cfg.OffsetWidth == 32 {
		return readValues[uint32](c.App.Writer, set, q)
	}
	return readValues[uint64](c.App.Writer, set, q)
}

type readQuery struct {
	section string
	kind    string
	params  decodeParams
	at      uint64
	count   int
}

func readValues[O reader.Offset](w io.Writer, set *section.Set, q readQuery) error {
	r, err := section.Open[O](set, q.section)
	if err != nil {
		return err
	}
	base := r.Clone()

	start, err := reader.OffsetFromU64[O](q.at)
	if err != nil {
		return err
	}
	if err := r.Skip(start); err != nil {
		return err
	}

	for i := 0; i < q.count; i++ {
		off := r.OffsetFrom(base)
		v, err := decodeValue(r, q.kind, q.params)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%#08x  %-14s %s\n", uint64(off), q.kind, v)
	}
	return nil
}

func (e *env) lebEncode(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("missing INT argument")
	}
	for _, arg := range c.Args().Slice() {
		w := sectionbuf.NewWriter(nil)
		if c.Bool("signed") {
			v, err := strconv.ParseInt(arg, 0, 64)
			if err != nil {
				return fmt.Errorf("invalid integer %q: %w", arg, err)
			}
			w.SLEB128(v)
		} else {
			v, err := strconv.ParseUint(arg, 0, 64)
			if err != nil {
				return fmt.Errorf("invalid integer %q: %w", arg, err)
			}
			w.ULEB128(v)
		}
		fmt.Fprintf(c.App.Writer, "%s\t%s\n", arg, hex.EncodeToString(w.Bytes()))
	}
	return nil
}

func (e *env) lebDecode(c *cli.Context) error {
	raw, err := hex.DecodeString(strings.TrimPrefix(c.Args().First(), "0x"))
	if err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	r, err := reader.NewEndianSlice[uint64](raw, nil)
	if err != nil {
		return err
	}

	for !r.IsEmpty() {
		before := r.Len()
		var text string
		if c.Bool("signed") {
			v, err := reader.ReadSLEB128(r)
			if err != nil {
				return err
			}
			text = strconv.FormatInt(v, 10)
		} else {
			v, err := reader.ReadULEB128(r)
			if err != nil {
				return err
			}
			text = strconv.FormatUint(v, 10)
		}
		fmt.Fprintf(c.App.Writer, "%s\t(%d bytes)\n", text, before-r.Len())
	}
	return nil
}
