package config

import (
	"fmt"
	"time"

	"github.com/muurk/espcoredump/internal/target"
)

// CurrentVersion is the configuration schema version written by Save.
const CurrentVersion = 1

// Config represents the entire user configuration file.
type Config struct {
	Version int `yaml:"version"`

	// Chip overrides the chip id stored in dumps, like --chip. It is also passed
	// to esptool and picks the gdb for plain ELF cores.
	Chip string `yaml:"chip,omitempty"`

	Tools  Tools  `yaml:"tools"`
	Serial Serial `yaml:"serial"`

	// Timeout bounds every external tool invocation
	Timeout time.Duration `yaml:"timeout"`

	// KeepTemp keeps the temporary core file written by the dbg command
	KeepTemp bool `yaml:"keep_temp,omitempty"`
}

// Tools configures external commands. Commands may include arguments
// (e.g. "python -m esptool").
type Tools struct {
	Esptool  string `yaml:"esptool"`
	PartTool string `yaml:"parttool"`

	// GDB maps a chip name or an architecture name to a gdb binary. Chip entries
	// take precedence.
	GDB map[string]string `yaml:"gdb,omitempty"`
}

// Serial configures the connection used to read flash.
type Serial struct {
	Port string `yaml:"port,omitempty"`
	Baud int    `yaml:"baud"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Tools: Tools{
			Esptool:  "esptool.py",
			PartTool: "parttool.py",
			GDB:      map[string]string{},
		},
		Serial:  Serial{Baud: 115200},
		Timeout: 2 * time.Minute,
	}
}

// GDBFor returns the gdb binary for a chip. Without a configured entry the
// ESP-IDF toolchain name is used: one Xtensa gdb per chip, one RISC-V gdb for all.
func (c *Config) GDBFor(chip *target.Chip) string {
	if path, ok := c.Tools.GDB[chip.Name]; ok && path != "" {
		return path
	}
	if path, ok := c.Tools.GDB[chip.Arch]; ok && path != "" {
		return path
	}
	if chip.Arch == "riscv" {
		return "riscv32-esp-elf-gdb"
	}
	return fmt.Sprintf("xtensa-%s-elf-gdb", chip.Name)
}

// Validate checks field ranges and that a configured chip exists.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.Serial.Baud <= 0 {
		return fmt.Errorf("serial.baud must be positive, got %d", c.Serial.Baud)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Tools.Esptool == "" || c.Tools.PartTool == "" {
		return fmt.Errorf("tools.esptool and tools.parttool must be set")
	}
	if c.Chip != "" {
		catalog, err := target.LoadCatalog()
		if err != nil {
			return err
		}
		if _, ok := catalog.ByName(c.Chip); !ok {
			return fmt.Errorf("unknown chip %q (known chips: %v)", c.Chip, catalog.Names())
		}
	}
	return nil
}
