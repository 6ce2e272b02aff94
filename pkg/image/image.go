// Copyright (C) 2026 cdiielsi

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package image reads and writes LC-3 program images: big-endian 16-bit
// words, the first of which is the load origin.
package image

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// Words of addressable memory. The image must fit between its origin and
// the top of the address space.
const MemoryWords = 1 << 16

// FailedToLoadImageError reports a byte stream that is not a valid program
// image.
type FailedToLoadImageError struct {
	Reason string
	Err    error
}

func (err *FailedToLoadImageError) Error() string {
	if err.Err != nil {
		return fmt.Sprintf("failed to load image: %s: %v", err.Reason, err.Err)
	}

	return fmt.Sprintf("failed to load image: %s", err.Reason)
}

func (err *FailedToLoadImageError) Unwrap() error {
	return err.Err
}

// Image is a loaded program: the origin address and the words to place
// there sequentially.
type Image struct {
	Origin uint16
	Words  []uint16
}

// Load reads a full image from r and validates it: total byte length even
// and at least one word, and the payload fitting between the origin and the
// end of memory.
func Load(r io.Reader) (Image, error) {
	raw, err := io.ReadAll(r)

	if err != nil {
		return Image{}, &FailedToLoadImageError{"read error", err}
	}

	if len(raw) < 2 {
		return Image{}, &FailedToLoadImageError{
			Reason: fmt.Sprintf("image too short: %d bytes", len(raw)),
		}
	}

	if len(raw)%2 != 0 {
		return Image{}, &FailedToLoadImageError{
			Reason: fmt.Sprintf("odd image length: %d bytes", len(raw)),
		}
	}

	origin := binary.BigEndian.Uint16(raw)
	count := (len(raw) - 2) / 2

	if count > MemoryWords-int(origin) {
		return Image{}, &FailedToLoadImageError{
			Reason: fmt.Sprintf(
				"%d words do not fit at origin %#04x", count, origin,
			),
		}
	}

	img := Image{
		Origin: origin,
		Words:  make([]uint16, count),
	}

	for i := range img.Words {
		img.Words[i] = binary.BigEndian.Uint16(raw[2+i*2:])
	}

	return img, nil
}

// LoadFile reads an image from the file at path.
func LoadFile(path string) (Image, error) {
	file, err := os.Open(path)

	if err != nil {
		return Image{}, &FailedToLoadImageError{"open error", err}
	}

	defer file.Close()

	return Load(file)
}

// WriteTo emits the image in its on-disk format: origin word first, then
// the payload, all big-endian.
func (img Image) WriteTo(w io.Writer) (int64, error) {
	if err := binary.Write(w, binary.BigEndian, img.Origin); err != nil {
		return 0, err
	}

	if err := binary.Write(w, binary.BigEndian, img.Words); err != nil {
		return 2, err
	}

	return int64(2 + len(img.Words)*2), nil
}
