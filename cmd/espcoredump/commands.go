package main

import (
	"context"
	"debug/elf"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/espcoredump/internal/config"
	"github.com/muurk/espcoredump/internal/coredump"
	"github.com/muurk/espcoredump/internal/debugger"
	"github.com/muurk/espcoredump/internal/elffile"
	"github.com/muurk/espcoredump/internal/layout"
	"github.com/muurk/espcoredump/internal/logging"
	"github.com/muurk/espcoredump/internal/source"
	"github.com/muurk/espcoredump/internal/target"
	"github.com/muurk/espcoredump/internal/ui"
	"github.com/muurk/espcoredump/internal/urls"
)

// Command flags
var (
	coreFile   string
	coreFormat string
	chipName   string
	flashOff   string
	serialPort string
	serialBaud int
	progFile   string
	configPath string
	verbose    bool
	saveCore   string
	infoGDB    bool
)

// gdbOutputLines caps each gdb section of the info report without --verbose.
const gdbOutputLines = 40

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&coreFile, "core", "c", "", "Core dump file (read from flash when omitted)")
	pf.StringVar(&coreFormat, "core-format", string(source.FormatAuto), "Core dump file format (raw, b64, elf, auto)")
	pf.StringVar(&chipName, "chip", "", "Chip name, overrides the chip id stored in the dump")
	pf.StringVar(&flashOff, "off", "", "Flash offset of the dump (default: locate the coredump partition)")
	pf.StringVar(&serialPort, "port", "", "Serial port for flash reads")
	pf.IntVar(&serialBaud, "baud", 0, "Serial baud rate for flash reads")
	pf.StringVar(&progFile, "prog", "", "Application ELF file")
	pf.StringVar(&configPath, "config", "", "Config file (default: ~/.config/espcoredump/config.yaml)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Debug logging and full gdb output")

	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(dbgCmd)
	rootCmd.AddCommand(checkCmd)
}

// env is the state shared by all commands: configuration, logger and chip catalog.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	catalog *target.Catalog
}

func newEnv() (*env, error) {
	level := ""
	if verbose && os.Getenv(logging.LogLevelEnvVar) == "" {
		level = "debug"
	}
	if err := logging.Initialize(level); err != nil {
		return nil, err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	catalog, err := target.LoadCatalog()
	if err != nil {
		return nil, err
	}

	if chipName != "" {
		if _, ok := catalog.ByName(chipName); !ok {
			return nil, fmt.Errorf("unknown chip %q (known: %s)", chipName, strings.Join(catalog.Names(), ", "))
		}
		cfg.Chip = chipName
	}
	if serialPort != "" {
		cfg.Serial.Port = serialPort
	}
	if serialBaud != 0 {
		cfg.Serial.Baud = serialBaud
	}

	return &env{cfg: cfg, logger: logging.GetLogger(), catalog: catalog}, nil
}

func (e *env) coreOptions() []coredump.Option {
	opts := []coredump.Option{
		coredump.WithLogger(e.logger),
		coredump.WithCatalog(e.catalog),
	}
	if progFile != "" {
		opts = append(opts, coredump.WithProgram(progFile))
	}
	if e.cfg.Chip != "" {
		opts = append(opts, coredump.WithChip(e.cfg.Chip))
	}
	return opts
}

func (e *env) flashConfig() source.FlashConfig {
	fc := source.DefaultFlashConfig()
	fc.Esptool = e.cfg.Tools.Esptool
	fc.PartTool = e.cfg.Tools.PartTool
	fc.Chip = e.cfg.Chip
	fc.Port = e.cfg.Serial.Port
	fc.Baud = e.cfg.Serial.Baud
	fc.Timeout = e.cfg.Timeout
	return fc
}

// sourceName describes where the dump comes from, for headers.
func sourceName() string {
	if coreFile != "" {
		return coreFile
	}
	if flashOff != "" {
		return "flash @ " + flashOff
	}
	return "coredump partition"
}

func parseOffset(s string) (*uint32, error) {
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid flash offset %q: %w", s, err)
	}
	off := uint32(v)
	return &off, nil
}

// readDump returns the dump bytes and their format. FormatELF means the input is
// already a core file.
func (e *env) readDump(ctx context.Context) ([]byte, source.Format, error) {
	if coreFile != "" {
		format, err := source.ParseFormat(coreFormat)
		if err != nil {
			return nil, "", err
		}
		data, detected, err := source.ReadFile(coreFile, format)
		if err != nil {
			return nil, "", err
		}
		e.logger.Debug("core dump read",
			zap.String("path", coreFile),
			zap.String("format", string(detected)),
			zap.Int("size", len(data)),
		)
		logging.LogRawBytes("core dump head", data)
		return data, detected, nil
	}

	offset, err := parseOffset(flashOff)
	if err != nil {
		return nil, "", err
	}
	data, err := source.NewFlashReader(e.flashConfig(), e.logger).Read(ctx, offset)
	if err != nil {
		return nil, "", err
	}
	logging.LogRawBytes("core dump head", data)
	return data, source.FormatRaw, nil
}

// converted is a core file built from a dump, not yet written.
type converted struct {
	info   *coredump.Info // nil for plain ELF input
	core   *elffile.File
	report *coredump.Report
	image  []byte
	chip   *target.Chip
}

// convert runs the read, validate and build steps, numbered from 1.
func (e *env) convert(ctx context.Context, onStep ui.StepCallback) (*converted, error) {
	onStep(1, ui.StepRunning, "")
	data, format, err := e.readDump(ctx)
	if err != nil {
		onStep(1, ui.StepFailed, "")
		return nil, err
	}
	onStep(1, ui.StepComplete, fmt.Sprintf("%d bytes, %s", len(data), format))

	if format == source.FormatELF {
		onStep(2, ui.StepSkipped, "plain ELF core")
		onStep(3, ui.StepRunning, "")
		core, err := elffile.Read(data)
		if err != nil {
			onStep(3, ui.StepFailed, "")
			return nil, err
		}
		onStep(3, ui.StepComplete, fmt.Sprintf("%d segments", len(core.LoadSegments)))
		return &converted{core: core, report: &coredump.Report{}, image: data, chip: e.chipForMachine(core.Machine)}, nil
	}

	onStep(2, ui.StepRunning, "")
	d, err := coredump.Load(data, e.coreOptions()...)
	if err != nil {
		onStep(2, ui.StepFailed, "")
		return nil, err
	}
	info := d.Info()
	onStep(2, ui.StepComplete, fmt.Sprintf("%s, %s", info.Format, info.Chip))

	onStep(3, ui.StepRunning, "")
	core, report, err := d.CoreFile()
	if err != nil {
		onStep(3, ui.StepFailed, "")
		return nil, err
	}
	image, err := d.CoreImage(core)
	if err != nil {
		onStep(3, ui.StepFailed, "")
		return nil, err
	}
	onStep(3, ui.StepComplete, fmt.Sprintf("%d tasks, %d warnings", len(report.Tasks), len(report.Warnings)))

	return &converted{info: &info, core: core, report: report, image: image, chip: d.Chip}, nil
}

// chipForMachine picks the chip for a plain ELF core: --chip or config first,
// else a representative chip of the core's architecture.
func (e *env) chipForMachine(machine elf.Machine) *target.Chip {
	if chip, ok := e.catalog.ByName(e.cfg.Chip); ok {
		return chip
	}
	name := "esp32"
	if machine == elf.EM_RISCV {
		name = "esp32c3"
	}
	chip, _ := e.catalog.ByName(name)
	return chip
}

func (e *env) debugSession(chip *target.Chip) *debugger.Session {
	dc := debugger.DefaultConfig()
	dc.GDBPath = e.cfg.GDBFor(chip)
	dc.Timeout = e.cfg.Timeout
	return debugger.NewSession(dc, e.logger)
}

func writeCore(path string, image []byte) error {
	if err := os.WriteFile(path, image, 0644); err != nil {
		return fmt.Errorf("failed to write core file: %w", err)
	}
	return nil
}

// tempCore writes image to a temporary file and returns its path.
func tempCore(image []byte) (string, error) {
	f, err := os.CreateTemp("", "espcoredump-*.elf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp core file: %w", err)
	}
	path := f.Name()
	if _, err := f.Write(image); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp core file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write temp core file: %w", err)
	}
	return path, nil
}

// defaultCorePath derives the output path from the dump path.
func defaultCorePath() string {
	if coreFile == "" {
		return "core.elf"
	}
	base := strings.TrimSuffix(filepath.Base(coreFile), filepath.Ext(coreFile))
	return filepath.Join(filepath.Dir(coreFile), base+".core.elf")
}

func taskStatus(flags uint32) string {
	var parts []string
	if flags&layout.TaskStatusTCBCorrupted != 0 {
		parts = append(parts, "tcb_corrupted")
	}
	if flags&layout.TaskStatusStackCorrupted != 0 {
		parts = append(parts, "stack_corrupted")
	}
	if len(parts) == 0 {
		return "ok"
	}
	return strings.Join(parts, ",")
}

func taskRows(report *coredump.Report) []ui.TaskRow {
	rows := make([]ui.TaskRow, 0, len(report.Tasks))
	for _, t := range report.Tasks {
		rows = append(rows, ui.TaskRow{
			Index:      t.Index,
			TCB:        t.TCBAddr,
			StackStart: t.StackStart,
			StackLen:   t.StackLen,
			Status:     taskStatus(t.Flags),
			Crashed:    t.Crashed,
		})
	}
	return rows
}

// crashDetails names the crashed task and, on Xtensa, its exception cause.
func crashDetails(c *converted) []ui.Field {
	var fields []ui.Field
	for _, t := range c.report.Tasks {
		if t.Crashed {
			fields = append(fields, ui.Field{Key: "Crashed task", Value: fmt.Sprintf("%d (tcb 0x%08x)", t.Index, t.TCBAddr)})
			break
		}
	}
	if c.core.Machine != elf.EM_XTENSA {
		return fields
	}
	note, ok := c.core.FindNote(coredump.NoteNameExtraInfo, coredump.NoteTypeExtraInfo)
	if !ok {
		return fields
	}
	// tcb word, then (register id, value) pairs
	for off := 4; off+8 <= len(note.Desc); off += 8 {
		if layout.Order.Uint32(note.Desc[off:]) != target.XtensaExcCause {
			continue
		}
		code := layout.Order.Uint32(note.Desc[off+4:])
		if name, ok := target.ExceptionCause(code); ok {
			fields = append(fields, ui.Field{Key: "Exception", Value: fmt.Sprintf("%s (%d)", name, code)})
		} else {
			fields = append(fields, ui.Field{Key: "Exception", Value: fmt.Sprintf("0x%x", code)})
		}
		break
	}
	return fields
}

func summary(c *converted) []ui.Field {
	var fields []ui.Field
	if c.info != nil {
		fields = append(fields,
			ui.Field{Key: "Format", Value: c.info.Format},
			ui.Field{Key: "Version", Value: c.info.Version},
			ui.Field{Key: "Chip", Value: fmt.Sprintf("%s (%s)", c.info.Chip, c.info.Arch)},
			ui.Field{Key: "Total length", Value: fmt.Sprintf("%d bytes", c.info.TotalLen)},
			ui.Field{Key: "Checksum", Value: c.info.Checksum},
		)
	} else if c.chip != nil {
		fields = append(fields,
			ui.Field{Key: "Format", Value: "ELF core"},
			ui.Field{Key: "Chip", Value: fmt.Sprintf("%s (%s)", c.chip.Name, c.chip.Arch)},
		)
	}
	fields = append(fields,
		ui.Field{Key: "Tasks", Value: strconv.Itoa(len(c.report.Tasks))},
		ui.Field{Key: "Load segments", Value: strconv.Itoa(len(c.core.LoadSegments))},
	)
	return append(fields, crashDetails(c)...)
}

func headerParams(extra ...ui.Field) []ui.Field {
	params := []ui.Field{
		{Key: "Core", Value: sourceName()},
		{Key: "Format", Value: coreFormat},
		{Key: "Chip", Value: chipName},
		{Key: "Program", Value: progFile},
	}
	return append(params, extra...)
}

var dumpHints = []string{
	"Check --core-format (auto detects raw, b64 and elf)",
	"Pass --chip when the dump came from a different chip revision",
	"Set ESPCOREDUMP_LOG_LEVEL=debug for details",
	"Core dump formats: " + urls.CoreDumpGuide,
}

var flashHints = []string{
	"Pass --port and --baud for the device",
	"Pass --off when the dump is not in the coredump partition: " + urls.PartitionTables,
	"Check the esptool setup: espcoredump check",
}

// hintsFor picks failure hints by dump source.
func hintsFor() []string {
	if coreFile == "" {
		return append(append([]string(nil), flashHints...), dumpHints...)
	}
	return dumpHints
}

// infoCmd summarizes a core dump
var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Summarize a core dump",
	Long: `Validate a core dump and print its container summary and task list.

With --gdb the core file is loaded into gdb together with --prog and the
output of 'info threads', 'thread apply all bt' and 'info registers' is shown.`,
	Example: `  # Summarize a dump file
  espcoredump info -c dump.bin

  # Include gdb backtraces
  espcoredump info -c dump.txt --prog build/app.elf --gdb`,
	RunE: runInfo,
}

func init() {
	infoCmd.Flags().BoolVar(&infoGDB, "gdb", false, "Run gdb on the core file (requires --prog)")
}

func runInfo(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	if infoGDB && progFile == "" {
		err := errors.New("--prog is required with --gdb")
		ui.PrintFailure(cmd.OutOrStdout(), "Invalid arguments", err, []string{"Pass the application ELF: --prog build/app.elf"})
		return err
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	steps := []string{"Read core dump", "Validate container", "Build core file"}
	if infoGDB {
		steps = append(steps, "Run gdb")
	}
	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Core dump info",
		Command:   "espcoredump info",
		Params:    headerParams(),
		StepNames: steps,
		Hints:     hintsFor(),
		Output:    cmd.OutOrStdout(),
	})

	ctx := cmd.Context()
	return runner.Run(func(onStep ui.StepCallback) (*ui.Outcome, error) {
		c, err := e.convert(ctx, onStep)
		if err != nil {
			return nil, err
		}

		outcome := &ui.Outcome{
			Title:    "Core dump is valid",
			Details:  summary(c),
			Warnings: c.report.Warnings,
			Sections: []string{ui.NewTaskTable(taskRows(c.report)).Render()},
		}
		if !infoGDB {
			return outcome, nil
		}

		onStep(4, ui.StepRunning, "")
		output, err := e.gdbReport(ctx, c)
		if err != nil {
			onStep(4, ui.StepFailed, "")
			return nil, err
		}
		onStep(4, ui.StepComplete, "")

		box := ui.NewToolOutput("GDB", output)
		if !verbose {
			box.SetMaxLines(gdbOutputLines)
		}
		outcome.Sections = append(outcome.Sections, box.Render())
		return outcome, nil
	})
}

func (e *env) gdbReport(ctx context.Context, c *converted) (string, error) {
	path, err := tempCore(c.image)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	session := e.debugSession(c.chip)
	if err := session.Validate(); err != nil {
		return "", err
	}
	return session.Batch(ctx, path, progFile, debugger.InfoCommands)
}

// createCmd writes a core file
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Write an ELF core file from a core dump",
	Long: `Validate a core dump and write the ELF core file gdb loads.

Binary dumps are converted task by task; tasks with corrupted TCB or stack
addresses are kept and flagged. ELF dumps are written exactly as stored.
Without --save-core the file is written next to the dump as <name>.core.elf.`,
	Example: `  # Convert a base64 dump copied from the console
  espcoredump create -c dump.txt -s core.elf

  # Check the dump against the application before writing
  espcoredump create -c dump.bin --prog build/app.elf`,
	RunE: runCreate,
}

func init() {
	createCmd.Flags().StringVarP(&saveCore, "save-core", "s", "", "Output core file path")
}

func runCreate(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	e, err := newEnv()
	if err != nil {
		return err
	}

	outPath := saveCore
	if outPath == "" {
		outPath = defaultCorePath()
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Create core file",
		Command:   "espcoredump create",
		Params:    headerParams(ui.Field{Key: "Output", Value: outPath}),
		StepNames: []string{"Read core dump", "Write core file"},
		Hints:     hintsFor(),
		Output:    cmd.OutOrStdout(),
	})

	ctx := cmd.Context()
	return runner.Run(func(onStep ui.StepCallback) (*ui.Outcome, error) {
		onStep(1, ui.StepRunning, "")
		data, format, err := e.readDump(ctx)
		if err != nil {
			onStep(1, ui.StepFailed, "")
			return nil, err
		}
		onStep(1, ui.StepComplete, fmt.Sprintf("%d bytes, %s", len(data), format))

		onStep(2, ui.StepRunning, "")
		if format == source.FormatELF {
			if err := writeCore(outPath, data); err != nil {
				onStep(2, ui.StepFailed, "")
				return nil, err
			}
			onStep(2, ui.StepComplete, "copied")
			return &ui.Outcome{
				Title:   "Core file written",
				Details: []ui.Field{{Key: "Path", Value: outPath}, {Key: "Size", Value: fmt.Sprintf("%d bytes", len(data))}},
			}, nil
		}

		result, err := coredump.CreateCoreFile(data, outPath, e.coreOptions()...)
		if err != nil {
			onStep(2, ui.StepFailed, "")
			return nil, err
		}
		onStep(2, ui.StepComplete, fmt.Sprintf("%d bytes", result.Size))

		c := &converted{info: &result.Info, core: result.Core, report: result.Report}
		details := append([]ui.Field{
			{Key: "Path", Value: result.Path},
			{Key: "Size", Value: fmt.Sprintf("%d bytes", result.Size)},
			{Key: "SHA256", Value: result.SHA256},
		}, summary(c)...)

		return &ui.Outcome{
			Title:    "Core file written",
			Details:  details,
			Warnings: result.Report.Warnings,
			Sections: []string{ui.NewTaskTable(taskRows(result.Report)).Render()},
		}, nil
	})
}

// dbgCmd writes a core file and starts gdb on it
var dbgCmd = &cobra.Command{
	Use:   "dbg",
	Short: "Start gdb on a core dump",
	Long: `Convert a core dump and start an interactive gdb session on it.

The core file is written to --save-core, or to a temporary file that is
removed when gdb exits (kept when keep_temp is set in the config file).
The gdb binary is chosen per chip from the config file, defaulting to the
ESP-IDF toolchain names.`,
	Example: `  espcoredump dbg -c dump.bin --prog build/app.elf`,
	RunE:    runDbg,
}

func init() {
	dbgCmd.Flags().StringVarP(&saveCore, "save-core", "s", "", "Keep the core file at this path")
}

func runDbg(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	if progFile == "" {
		err := errors.New("--prog is required")
		ui.PrintFailure(cmd.OutOrStdout(), "Invalid arguments", err, []string{"Pass the application ELF: --prog build/app.elf"})
		return err
	}

	e, err := newEnv()
	if err != nil {
		return err
	}

	runner := ui.NewRunner(ui.RunnerConfig{
		Title:     "Debug core dump",
		Command:   "espcoredump dbg",
		Params:    headerParams(ui.Field{Key: "Output", Value: saveCore}),
		StepNames: []string{"Read core dump", "Validate container", "Build core file", "Write core file", "Check gdb"},
		Hints:     append([]string{"Install the ESP-IDF gdb (" + urls.DebuggingToolchain + ") or set tools.gdb in the config file"}, hintsFor()...),
		Output:    cmd.OutOrStdout(),
	})

	ctx := cmd.Context()
	var (
		corePath string
		session  *debugger.Session
	)
	err = runner.Run(func(onStep ui.StepCallback) (*ui.Outcome, error) {
		c, err := e.convert(ctx, onStep)
		if err != nil {
			return nil, err
		}

		onStep(4, ui.StepRunning, "")
		if saveCore != "" {
			corePath = saveCore
			err = writeCore(corePath, c.image)
		} else {
			corePath, err = tempCore(c.image)
		}
		if err != nil {
			onStep(4, ui.StepFailed, "")
			return nil, err
		}
		onStep(4, ui.StepComplete, corePath)

		onStep(5, ui.StepRunning, "")
		session = e.debugSession(c.chip)
		if err := session.Validate(); err != nil {
			onStep(5, ui.StepFailed, "")
			return nil, err
		}
		onStep(5, ui.StepComplete, e.cfg.GDBFor(c.chip))

		return &ui.Outcome{
			Title:    "Starting gdb",
			Details:  summary(c),
			Warnings: c.report.Warnings,
		}, nil
	})
	if corePath != "" && saveCore == "" && !e.cfg.KeepTemp {
		defer os.Remove(corePath)
	}
	if err != nil {
		return err
	}

	e.logger.Info("starting gdb", zap.String("core", corePath), zap.String("prog", progFile))
	return session.Interactive(ctx, corePath, progFile)
}

// checkCmd verifies the external tools
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the external tools",
	Long: `Check that esptool, parttool and the gdb for the selected chip can be
found and run. Only 'info --gdb', 'dbg' and flash reads need them.`,
	Example: `  espcoredump check
  espcoredump check --chip esp32c3`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	// Suppress usage on execution errors (we're past argument parsing)
	cmd.SilenceUsage = true

	e, err := newEnv()
	if err != nil {
		return err
	}

	name := e.cfg.Chip
	if name == "" {
		name = "esp32"
	}
	chip, _ := e.catalog.ByName(name)

	tools := []debugger.Tool{
		{Name: "esptool", Command: e.cfg.Tools.Esptool, VersionArgs: []string{"version"}},
		{Name: "parttool", Command: e.cfg.Tools.PartTool},
		{Name: "gdb (" + chip.Name + ")", Command: e.cfg.GDBFor(chip), VersionArgs: []string{"--version"}},
	}

	out := cmd.OutOrStdout()
	ui.PrintHeader(out, "Tool check", "espcoredump check", []ui.Field{
		{Key: "Chip", Value: chip.Name},
		{Key: "Config", Value: configPath},
	})

	checks := debugger.CheckTools(cmd.Context(), tools)
	var (
		details []ui.Field
		missing []string
	)
	for _, c := range checks {
		if c.Available {
			value := c.Path
			if c.Version != "" {
				value += " (" + c.Version + ")"
			}
			details = append(details, ui.Field{Key: c.Name, Value: value})
			continue
		}
		details = append(details, ui.Field{Key: c.Name, Value: ui.FailureMarker + " " + c.Command})
		missing = append(missing, fmt.Sprintf("%s: %v", c.Name, c.Err))
		e.logger.Debug("tool check failed", zap.String("tool", c.Name), zap.Error(c.Err))
	}

	var result *ui.Result
	if len(missing) == 0 {
		result = ui.NewSuccessResult("All tools found", details)
	} else {
		result = ui.NewWarningResult(fmt.Sprintf("%d of %d tools unavailable", len(missing), len(checks)), details, missing)
	}
	fmt.Fprintln(out, result.Render())
	if len(missing) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, ui.HintItemStyle.Render("  Toolchain setup: "+urls.DebuggingToolchain))
		fmt.Fprintln(out, ui.HintItemStyle.Render("  esptool: "+urls.Esptool))
	}
	return nil
}
