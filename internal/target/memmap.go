package target

// MemoryMap implements Target from a catalog entry.
type MemoryMap struct {
	chip *Chip
}

// NewMemoryMap returns the Target for chip.
func NewMemoryMap(chip *Chip) *MemoryMap {
	return &MemoryMap{chip: chip}
}

func (m *MemoryMap) Name() string { return m.chip.Name }

func (m *MemoryMap) TCBIsSane(addr, size uint32) bool {
	return m.chip.TCB.ContainsRange(uint64(addr), uint64(size))
}

func (m *MemoryMap) StackIsSane(addr uint32) bool {
	return m.chip.Stack.Contains(uint64(addr))
}

func (m *MemoryMap) AddrIsFake(addr uint32) bool {
	for _, w := range m.chip.Fake {
		if w.Contains(uint64(addr)) {
			return true
		}
	}
	return false
}
