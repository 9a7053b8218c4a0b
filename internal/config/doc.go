// Package config manages the espcoredump user configuration file.
//
// The file records defaults that would otherwise be repeated on every command
// line: the chip, the serial port and baud rate, and the external tools used to
// read flash and to debug (esptool, parttool and one gdb per architecture or
// chip). Command-line flags always take precedence.
//
// # Configuration File Location
//
// The configuration file is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/espcoredump/config.yaml or $HOME/.config/espcoredump/config.yaml
//   - macOS: $HOME/.config/espcoredump/config.yaml
//   - Windows: %LOCALAPPDATA%\espcoredump\config.yaml
//
// A missing file is not an error; Load returns Default().
//
// # Example
//
//	version: 1
//	chip: esp32s3
//	serial:
//	  port: /dev/ttyUSB0
//	  baud: 460800
//	tools:
//	  esptool: python -m esptool
//	  gdb:
//	    riscv: /opt/esp/tools/riscv32-esp-elf-gdb/bin/riscv32-esp-elf-gdb
//	timeout: 2m
package config
