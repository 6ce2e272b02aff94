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

package machine

import "time"

// MemorySize is the number of addressable words.
const MemorySize = 1 << 16

// DefaultOrigin is the conventional load address for a user program.
const DefaultOrigin uint16 = 0x3000

// Memory-mapped device registers. A read of KBSR polls the keyboard before
// the cell value is returned.
const (
	DevKBSR uint16 = 0xFE00
	DevKBDR uint16 = 0xFE02
)

// KBSRReady is the high bit of the keyboard status register, set when KBDR
// holds a fresh byte.
const KBSRReady uint16 = 1 << 15

// DefaultPollTimeout bounds how long a KBSR read waits for input.
const DefaultPollTimeout = 2 * time.Second
