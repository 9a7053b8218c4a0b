// Package source supplies core dump bytes to the loader.
//
// Dumps arrive in three shapes: the raw container as stored in the coredump
// partition, the same container as base64 text printed on the serial console
// between CORE DUMP START/END banners, or an ELF core that needs no conversion.
// ReadFile handles files in any of these shapes. FlashReader pulls the container
// straight from a device with esptool or parttool.
package source
