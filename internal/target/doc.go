// Package target describes the chips a core dump can come from.
//
// Two independent capabilities are selected per dump from the chip id encoded in
// the dump version:
//
//   - Target answers whether a TCB or stack address is plausible for the chip's
//     memory map, and whether it falls in a range that cannot hold RAM at all.
//   - Arch decodes a task's saved stack frame into the register set a debugger
//     expects and serializes the matching prstatus record.
//
// Memory maps come from an embedded YAML catalog (chips/chips.yaml). Architectures
// are Go types chosen by name in ArchByName. Adding a chip is one catalog entry;
// adding an architecture is one type and one case in ArchByName.
//
//	catalog, err := target.LoadCatalog()
//	chip, ok := catalog.Get(0) // esp32
//	tgt, arch, err := chip.Capabilities()
//	regs, err := arch.RegistersFromStack(stack, true)
package target
