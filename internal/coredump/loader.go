package coredump

import (
	"errors"
	"fmt"
	"os"

	"github.com/muurk/espcoredump/internal/layout"
	"github.com/muurk/espcoredump/internal/target"
	"go.uber.org/zap"
)

// Option configures Load and CreateCoreFile.
type Option func(*options)

type options struct {
	logger  *zap.Logger
	program string
	tempDir string
	catalog *target.Catalog
	chip    string
}

// WithLogger sets the logger used for warnings and progress. Default: no logging.
func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithProgram sets the application ELF the dump is checked against.
func WithProgram(path string) Option {
	return func(o *options) { o.program = path }
}

// WithTempDir sets where embedded ELF payloads are staged. Default: os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *options) { o.tempDir = dir }
}

// WithCatalog replaces the embedded chip catalog.
func WithCatalog(c *target.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// WithChip forces the chip by name instead of the id in the version word.
func WithChip(name string) Option {
	return func(o *options) { o.chip = name }
}

// Dump is a validated container.
type Dump struct {
	Version Version
	Format  Format

	// Header is the container header. V1 headers are widened with SegsNum = 0.
	Header layout.HeaderV2

	// Payload is the data between the header and the checksum trailer
	Payload []byte

	// Checksum is the stored trailer
	Checksum []byte

	Chip   *target.Chip
	Target target.Target
	Arch   target.Arch

	opts options
}

// Load validates a container: version, header, checksum, then chip. Bytes past the
// header's total length are ignored, so a whole flash partition can be passed in.
func Load(data []byte, opts ...Option) (*Dump, error) {
	o := options{
		logger:  zap.NewNop(),
		tempDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	r := layout.NewReader(data)
	var word uint32
	if err := r.At("version", 4, &word); err != nil {
		return nil, &LoaderError{Op: "header", Err: err}
	}
	version := Version(word)

	format, err := FormatFor(version)
	if err != nil {
		return nil, err
	}

	d := &Dump{Version: version, Format: format, opts: o}

	if format.HeaderSize == layout.HeaderV1Size {
		var h layout.HeaderV1
		if err := r.Struct("header v1", &h); err != nil {
			return nil, &LoaderError{Op: "header", Err: err}
		}
		d.Header = h.V2()
	} else {
		if err := r.Struct("header v2", &d.Header); err != nil {
			return nil, &LoaderError{Op: "header", Err: err}
		}
	}

	total := int(d.Header.TotLen)
	minLen := format.HeaderSize + format.Checksum.Size()
	if total < minLen || total > len(data) {
		return nil, &LoaderError{
			Op: "header",
			Err: &layout.FormatError{
				Schema: "core dump",
				Msg:    fmt.Sprintf("total length %d outside [%d, %d]", total, minLen, len(data)),
			},
		}
	}
	d.Payload = data[format.HeaderSize : total-format.Checksum.Size()]
	d.Checksum = data[total-format.Checksum.Size() : total]

	if err := verifyChecksum(format.Checksum, d.Header, d.Payload, d.Checksum); err != nil {
		return nil, err
	}

	if err := d.resolveChip(); err != nil {
		return nil, err
	}

	o.logger.Debug("core dump loaded",
		zap.String("format", format.Name),
		zap.String("version", version.String()),
		zap.String("chip", d.Chip.Name),
		zap.Uint32("tasks", d.Header.TaskNum),
		zap.Uint32("tcb_size", d.Header.TcbSz),
		zap.Uint32("segments", d.Header.SegsNum),
		zap.Int("payload", len(d.Payload)),
	)
	return d, nil
}

func (d *Dump) resolveChip() error {
	catalog := d.opts.catalog
	if catalog == nil {
		var err error
		if catalog, err = target.LoadCatalog(); err != nil {
			return &LoaderError{Op: "chip", Err: err}
		}
	}

	var chip *target.Chip
	if d.opts.chip != "" {
		c, ok := catalog.ByName(d.opts.chip)
		if !ok {
			return &LoaderError{
				Op:  "chip",
				Msg: fmt.Sprintf("%q (known chips: %v)", d.opts.chip, catalog.Names()),
				Err: ErrUnsupportedChip,
			}
		}
		if c.ID != d.Version.Chip() {
			d.opts.logger.Warn("chip differs from core dump version",
				zap.String("chip", c.Name),
				zap.Uint16("dump_chip_id", d.Version.Chip()),
			)
		}
		chip = c
	} else {
		c, err := catalog.Lookup(d.Version.Chip())
		if err != nil {
			var uerr *target.UnsupportedChipError
			if errors.As(err, &uerr) {
				return &LoaderError{Op: "chip", Msg: err.Error(), Err: ErrUnsupportedChip}
			}
			return &LoaderError{Op: "chip", Err: err}
		}
		chip = c
	}

	tgt, arch, err := chip.Capabilities()
	if err != nil {
		return &LoaderError{Op: "chip", Msg: err.Error(), Err: ErrUnsupportedChip}
	}
	d.Chip, d.Target, d.Arch = chip, tgt, arch
	return nil
}

// Info summarizes a container without extracting it.
type Info struct {
	Format      string
	Version     string
	DumpVersion uint16
	Chip        string
	Arch        string
	TotalLen    uint32
	Tasks       uint32
	TCBSize     uint32
	Segments    uint32
	Checksum    string
}

// Info returns the container summary.
func (d *Dump) Info() Info {
	return Info{
		Format:      d.Format.Name,
		Version:     d.Version.String(),
		DumpVersion: d.Version.DumpVersion(),
		Chip:        d.Chip.Name,
		Arch:        d.Arch.Name(),
		TotalLen:    d.Header.TotLen,
		Tasks:       d.Header.TaskNum,
		TCBSize:     d.Header.TcbSz,
		Segments:    d.Header.SegsNum,
		Checksum:    fmt.Sprintf("%s %s", d.Format.Checksum, formatChecksum(d.Format.Checksum, d.Checksum)),
	}
}
