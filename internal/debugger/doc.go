// Package debugger runs gdb against a core file and the application ELF.
//
// A Session either hands the terminal to gdb (Interactive) or renders a batch
// script from a template, writes it to a temporary file and captures gdb's output
// (Batch). Batch mode backs the info command's thread and backtrace listing.
//
// CheckTools probes external commands (gdb, esptool, parttool) for the check
// command.
//
//	s := debugger.NewSession(debugger.Config{GDBPath: "xtensa-esp32-elf-gdb"}, logger)
//	out, err := s.Batch(ctx, "core.elf", "app.elf", debugger.InfoCommands)
package debugger
