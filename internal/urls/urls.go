package urls

// Documentation URLs for guides and troubleshooting.
// All URLs point to Espressif's public documentation and repositories.

// CoreDumpGuide describes how firmware writes core dumps to flash or UART and
// the container formats they use.
const CoreDumpGuide = "https://docs.espressif.com/projects/esp-idf/en/stable/esp32/api-guides/core_dump.html"

// DebuggingToolchain covers installing the ESP-IDF toolchain, which ships the
// per-chip gdb binaries.
const DebuggingToolchain = "https://docs.espressif.com/projects/esp-idf/en/stable/esp32/get-started/index.html"

// Esptool is the flash tool used to read dumps from a device.
const Esptool = "https://github.com/espressif/esptool"

// PartitionTables explains the partition table and the coredump partition
// that parttool reads.
const PartitionTables = "https://docs.espressif.com/projects/esp-idf/en/stable/esp32/api-guides/partition-tables.html"
