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

import (
	"time"

	"github.com/cdiielsi/lc3-vm/pkg/hardware"
)

// Keyboard is the input collaborator, consulted only on a KBSR memory
// read. ok is false when no byte arrived before the timeout.
type Keyboard interface {
	ReadByteWithTimeout(timeout time.Duration) (b byte, ok bool, err error)
}

// Console is the output collaborator for the trap routines.
type Console interface {
	WriteByte(b byte) error
	Flush() error
}

// RegisterFile holds the eight general-purpose registers plus the program
// counter and condition register. Get and Set are the single id-to-offset
// mapping; no other code indexes the backing array.
type RegisterFile [hardware.NumRegisters]uint16

func (rf *RegisterFile) Get(reg hardware.Register) uint16 {
	return rf[reg]
}

func (rf *RegisterFile) Set(reg hardware.Register, value uint16) {
	rf[reg] = value
}

// Machine is one LC-3 execution engine. It exclusively owns its register
// file and memory for the duration of a run; instances must not be shared
// across goroutines.
type Machine struct {
	Registers RegisterFile
	Memory    Memory
	Traps     TrapRouter

	running bool
}

// New wires a machine to its device collaborators and resets it.
func New(keyboard Keyboard, console Console) *Machine {
	mc := &Machine{}
	mc.Memory.keyboard = keyboard
	mc.Memory.pollTimeout = DefaultPollTimeout
	mc.Traps.Keyboard = keyboard
	mc.Traps.Console = console
	mc.Reset()

	return mc
}

// SetPollTimeout bounds the keyboard poll triggered by a KBSR read.
func (mc *Machine) SetPollTimeout(timeout time.Duration) {
	mc.Memory.pollTimeout = timeout
}

// Running reports whether the machine has been reset and not yet halted.
func (mc *Machine) Running() bool {
	return mc.running
}
