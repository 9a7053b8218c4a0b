// Package coredump turns core dump containers captured from ESP chips into ELF core
// files that gdb can load.
//
// A container is a small header carrying the total length and a version word,
// a payload, and a CRC32 or SHA-256 trailer. The version word packs the chip id in
// its upper half and the dump format in its lower half:
//
//	0x0001  BIN_V1      task records, CRC32
//	0x0002  BIN_V2      task records and memory segments, CRC32
//	0x0100  ELF_CRC32   payload is already an ELF core, CRC32
//	0x0101  ELF_SHA256  payload is already an ELF core, SHA-256
//
// Load validates the container. (*Dump).CoreFile extracts the embedded ELF or
// synthesizes one from the task records. Damaged task records do not abort
// synthesis: the affected task is flagged in its TASK_INFO note and the rest of the
// dump is kept.
//
//	res, err := coredump.CreateCoreFile(data, "core.elf",
//		coredump.WithLogger(logger),
//		coredump.WithProgram("app.elf"))
package coredump
