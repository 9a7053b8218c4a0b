// Espcoredump converts ESP core dumps into ELF core files.
//
// A core dump is read from a file (raw, base64 console text or ELF) or straight
// from device flash through esptool, validated, and turned into a core file that
// gdb can load next to the application ELF:
//
//   - info: summarize a dump, optionally with gdb thread and backtrace output
//   - create: write the core file
//   - dbg: write the core file and start gdb on it
//
// Usage:
//
//	espcoredump [command] [flags]
//
// Logging goes to stderr and is controlled by ESPCOREDUMP_LOG_LEVEL.
// See 'espcoredump --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/espcoredump/internal/logging"
	"github.com/muurk/espcoredump/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "espcoredump",
	Short: "ESP core dump extraction utility",
	Long: `Convert ESP32-family core dumps into ELF core files for gdb.

Supported containers:
  - binary dumps (versions 1 and 2, CRC32)
  - ELF dumps (CRC32 or SHA256)

The dump is read from --core, or from device flash when --core is omitted.
Chips: esp32, esp32s2, esp32s3 (Xtensa) and esp32c2, esp32c3, esp32c6,
esp32h2 (RISC-V).`,
	Version: version.Version,
	Example: `  # Summarize a dump copied from the serial console
  espcoredump info -c dump.txt

  # Write a core file and open it with the matching gdb
  espcoredump dbg -c dump.bin --prog build/app.elf

  # Read the coredump partition from a device
  espcoredump create --port /dev/ttyUSB0 -s core.elf`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "espcoredump %s %s\n", version.Full(), version.Platform())
	},
}
