package coredump

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"hash/crc32"

	"github.com/muurk/espcoredump/internal/layout"
)

// computeChecksum hashes the V2-shaped header followed by the payload. V1 headers
// are widened with a zero segment count first, as the device does.
func computeChecksum(kind ChecksumKind, hdr layout.HeaderV2, payload []byte) []byte {
	head := layout.Build(&hdr)
	switch kind {
	case ChecksumSHA256:
		h := sha256.New()
		h.Write(head)
		h.Write(payload)
		return h.Sum(nil)
	default:
		crc := crc32.Update(crc32.ChecksumIEEE(head), crc32.IEEETable, payload)
		return layout.Words([]uint32{crc})
	}
}

func verifyChecksum(kind ChecksumKind, hdr layout.HeaderV2, payload, stored []byte) error {
	actual := computeChecksum(kind, hdr, payload)
	if bytes.Equal(actual, stored) {
		return nil
	}
	return &LoaderError{
		Op:  "checksum",
		Msg: fmt.Sprintf("%s expected %s, got %s", kind, formatChecksum(kind, stored), formatChecksum(kind, actual)),
		Err: ErrChecksum,
	}
}

func formatChecksum(kind ChecksumKind, sum []byte) string {
	if kind == ChecksumCRC32 && len(sum) == layout.CRC32Size {
		return fmt.Sprintf("0x%08x", layout.Order.Uint32(sum))
	}
	return hex.EncodeToString(sum)
}
