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

// Memory is the 65536-word address space. Two addresses alias the keyboard
// device registers; the interception lives entirely in Read so the
// instruction semantics stay free of I/O details.
type Memory struct {
	cells [MemorySize]uint16

	keyboard    Keyboard
	pollTimeout time.Duration
}

// Read returns the word at addr. When addr is the keyboard status register
// the keyboard is polled first: a byte arriving within the timeout sets the
// KBSR ready bit and latches the byte into KBDR, otherwise KBSR is cleared.
// The returned value is the cell content after that side effect.
func (mem *Memory) Read(addr uint16) (uint16, error) {
	if addr == DevKBSR {
		if err := mem.pollKeyboard(); err != nil {
			return 0, err
		}
	}

	return mem.cells[addr], nil
}

// Inspect returns the cell at addr without device interception. For
// harnesses and tooling that must not disturb device state.
func (mem *Memory) Inspect(addr uint16) uint16 {
	return mem.cells[addr]
}

// Write stores value at addr.
func (mem *Memory) Write(addr uint16, value uint16) {
	mem.cells[addr] = value
}

// WriteWord is the loader-facing store. The wide address type exists so
// origin+index arithmetic overflowing 16 bits fails here instead of
// wrapping silently.
func (mem *Memory) WriteWord(addr uint32, value uint16) error {
	if addr >= MemorySize {
		return InvalidAddressError(addr)
	}

	mem.cells[addr] = value

	return nil
}

func (mem *Memory) pollKeyboard() error {
	if mem.keyboard == nil {
		mem.cells[DevKBSR] = 0
		return nil
	}

	key, ok, err := mem.keyboard.ReadByteWithTimeout(mem.pollTimeout)

	if err != nil {
		return &IOError{err}
	}

	if ok {
		mem.cells[DevKBSR] = KBSRReady
		mem.cells[DevKBDR] = uint16(key)
	} else {
		mem.cells[DevKBSR] = 0
	}

	return nil
}
