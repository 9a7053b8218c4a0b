package target

import (
	_ "embed"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed chips/chips.yaml
var chipsYAML []byte

// Window is a half-open address range.
type Window struct {
	Start uint64 `yaml:"start"`
	End   uint64 `yaml:"end"`
}

// Contains reports whether addr lies in the window.
func (w Window) Contains(addr uint64) bool {
	return addr >= w.Start && addr < w.End
}

// ContainsRange reports whether [addr, addr+size) lies in the window.
func (w Window) ContainsRange(addr, size uint64) bool {
	return addr >= w.Start && addr+size <= w.End
}

// Chip is one catalog entry.
type Chip struct {
	// ID is the chip id from the upper half of the dump version
	ID uint16 `yaml:"id"`

	// Name is the chip name used on the command line (e.g., "esp32")
	Name string `yaml:"name"`

	// Arch selects the register decoder (see ArchByName)
	Arch string `yaml:"arch"`

	Description string `yaml:"description"`

	// TCB is the window every task control block must lie in
	TCB Window `yaml:"tcb"`

	// Stack is the window every task stack must start in
	Stack Window `yaml:"stack"`

	// Fake lists ranges that cannot hold RAM on this chip
	Fake []Window `yaml:"fake"`
}

// Capabilities returns the memory map and register decoder for the chip.
func (c *Chip) Capabilities() (Target, Arch, error) {
	arch, err := ArchByName(c.Arch)
	if err != nil {
		return nil, nil, fmt.Errorf("chip %s: %w", c.Name, err)
	}
	return &MemoryMap{chip: c}, arch, nil
}

func (c *Chip) String() string {
	return fmt.Sprintf("%s (id %d, %s)", c.Name, c.ID, c.Arch)
}

// Catalog indexes chips by id and by name.
type Catalog struct {
	Chips []*Chip

	byID   map[uint16]*Chip
	byName map[string]*Chip
}

type catalogContainer struct {
	Chips []*Chip `yaml:"chips"`
}

var (
	defaultCatalog     *Catalog
	defaultCatalogOnce sync.Once
	defaultCatalogErr  error
)

// LoadCatalog returns the embedded chip catalog. It is parsed once.
func LoadCatalog() (*Catalog, error) {
	defaultCatalogOnce.Do(func() {
		defaultCatalog, defaultCatalogErr = ParseCatalog(chipsYAML)
	})
	return defaultCatalog, defaultCatalogErr
}

// ParseCatalog parses a catalog document and checks that every chip names a known
// architecture and is listed once.
func ParseCatalog(data []byte) (*Catalog, error) {
	var container catalogContainer
	if err := yaml.Unmarshal(data, &container); err != nil {
		return nil, fmt.Errorf("failed to parse chip catalog: %w", err)
	}

	c := &Catalog{
		Chips:  container.Chips,
		byID:   make(map[uint16]*Chip),
		byName: make(map[string]*Chip),
	}
	for _, chip := range c.Chips {
		if _, err := ArchByName(chip.Arch); err != nil {
			return nil, fmt.Errorf("chip %s: %w", chip.Name, err)
		}
		if _, dup := c.byID[chip.ID]; dup {
			return nil, fmt.Errorf("duplicate chip id %d", chip.ID)
		}
		if _, dup := c.byName[chip.Name]; dup {
			return nil, fmt.Errorf("duplicate chip name %q", chip.Name)
		}
		c.byID[chip.ID] = chip
		c.byName[chip.Name] = chip
	}
	return c, nil
}

// Get returns the chip with the given id.
func (c *Catalog) Get(id uint16) (*Chip, bool) {
	chip, ok := c.byID[id]
	return chip, ok
}

// ByName returns the chip with the given name.
func (c *Catalog) ByName(name string) (*Chip, bool) {
	chip, ok := c.byName[name]
	return chip, ok
}

// Names returns the sorted chip names.
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UnsupportedChipError is returned for chip ids missing from the catalog.
type UnsupportedChipError struct {
	ID    uint16
	Known []string
}

func (e *UnsupportedChipError) Error() string {
	return fmt.Sprintf("unsupported chip id %d (known chips: %v)", e.ID, e.Known)
}

// Lookup returns the chip for id or an *UnsupportedChipError.
func (c *Catalog) Lookup(id uint16) (*Chip, error) {
	chip, ok := c.Get(id)
	if !ok {
		return nil, &UnsupportedChipError{ID: id, Known: c.Names()}
	}
	return chip, nil
}
