package gif

import "errors"

// Block separators and the extension introducer, per the GIF89a grammar.
const (
	sepExtension = 0x21
	sepImage     = 0x2C
	sepTrailer   = 0x3B
)

var errTruncated = errors.New("gif: truncated block structure")

// walkExtensionCounts traverses the container's block structure without
// touching compressed pixel data and returns, per image descriptor in file
// order, the number of extension data sub-blocks that precede it. Extension
// records bind to the image that follows them, matching how slurping
// decoders attach control blocks. The walk advances monotonically through
// the input, so it terminates on any byte stream.
func walkExtensionCounts(data []byte) ([]int, error) {
	if len(data) < 13 {
		return nil, errTruncated
	}
	// Header (6) + logical screen descriptor (7).
	flags := data[10]
	offset := 13
	if flags&0x80 != 0 {
		offset += 3 * (2 << (flags & 0x07))
		if len(data) < offset {
			return nil, errTruncated
		}
	}

	var counts []int
	pending := 0
	for {
		if offset >= len(data) {
			// Missing trailer. The pixel decoder tolerates this, so
			// report what was seen rather than failing the walk.
			return counts, nil
		}
		sep := data[offset]
		offset++
		switch sep {
		case sepTrailer:
			return counts, nil
		case sepExtension:
			if offset >= len(data) {
				return nil, errTruncated
			}
			offset++ // label
			n, blocks, err := skipSubBlocks(data, offset)
			if err != nil {
				return nil, err
			}
			offset = n
			pending += blocks
		case sepImage:
			if offset+9 > len(data) {
				return nil, errTruncated
			}
			imgFlags := data[offset+8]
			offset += 9
			if imgFlags&0x80 != 0 {
				offset += 3 * (2 << (imgFlags & 0x07))
			}
			// LZW minimum code size byte, then the raster sub-blocks.
			offset++
			if offset > len(data) {
				return nil, errTruncated
			}
			n, _, err := skipSubBlocks(data, offset)
			if err != nil {
				return nil, err
			}
			offset = n
			counts = append(counts, pending)
			pending = 0
		default:
			return nil, errors.New("gif: unknown block separator")
		}
	}
}

// skipSubBlocks advances past a chain of data sub-blocks starting at off and
// returns the offset just past the block terminator along with the number of
// non-empty sub-blocks skipped.
func skipSubBlocks(data []byte, off int) (int, int, error) {
	blocks := 0
	for {
		if off >= len(data) {
			return 0, 0, errTruncated
		}
		size := int(data[off])
		off++
		if size == 0 {
			return off, blocks, nil
		}
		off += size
		if off > len(data) {
			return 0, 0, errTruncated
		}
		blocks++
	}
}
