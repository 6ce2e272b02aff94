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
	"errors"

	"github.com/cdiielsi/lc3-vm/pkg/hardware"
)

const inPrompt = "Enter a character: "

// TrapRouter services the six I/O trap vectors against the injected device
// collaborators.
type TrapRouter struct {
	Keyboard Keyboard
	Console  Console
}

// Dispatch runs the routine for an 8-bit trap vector.
func (tr *TrapRouter) Dispatch(vector uint16, mc *Machine) error {
	code, err := hardware.TrapCodeFromWord(vector)

	if err != nil {
		return err
	}

	switch code {
	case hardware.TrapGetc:
		return tr.getc(mc)
	case hardware.TrapOut:
		return tr.out(mc)
	case hardware.TrapPuts:
		return tr.puts(mc)
	case hardware.TrapIn:
		return tr.in(mc)
	case hardware.TrapPutsp:
		return tr.putsp(mc)
	case hardware.TrapHalt:
		return tr.halt(mc)
	}

	return hardware.InvalidTrapCodeError(vector)
}

// readByte blocks until the keyboard delivers a byte, polling in
// bounded-timeout rounds.
func (tr *TrapRouter) readByte(mc *Machine) (byte, error) {
	if tr.Keyboard == nil {
		return 0, &IOError{errors.New("no keyboard attached")}
	}

	for {
		key, ok, err := tr.Keyboard.ReadByteWithTimeout(mc.Memory.pollTimeout)

		if err != nil {
			return 0, &IOError{err}
		}

		if ok {
			return key, nil
		}
	}
}

func (tr *TrapRouter) writeByte(b byte) error {
	if tr.Console == nil {
		return nil
	}

	if err := tr.Console.WriteByte(b); err != nil {
		return &IOError{err}
	}

	return nil
}

func (tr *TrapRouter) flush() error {
	if tr.Console == nil {
		return nil
	}

	if err := tr.Console.Flush(); err != nil {
		return &IOError{err}
	}

	return nil
}

// GETC: one input byte into R0, not echoed, flags untouched.
func (tr *TrapRouter) getc(mc *Machine) error {
	key, err := tr.readByte(mc)

	if err != nil {
		return err
	}

	mc.Registers.Set(hardware.R0, uint16(key))

	return nil
}

// OUT: the low byte of R0 to the console.
func (tr *TrapRouter) out(mc *Machine) error {
	if err := tr.writeByte(byte(mc.Registers.Get(hardware.R0))); err != nil {
		return err
	}

	return tr.flush()
}

// PUTS: one character per word starting at the address in R0, stopping
// before the zero word.
func (tr *TrapRouter) puts(mc *Machine) error {
	addr := mc.Registers.Get(hardware.R0)

	for {
		word, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		if word == 0 {
			break
		}

		if err := tr.writeByte(byte(word)); err != nil {
			return err
		}

		addr++
	}

	return tr.flush()
}

// IN: prompt, read one byte, echo it, store it in R0, update flags.
func (tr *TrapRouter) in(mc *Machine) error {
	for _, c := range []byte(inPrompt) {
		if err := tr.writeByte(c); err != nil {
			return err
		}
	}

	if err := tr.flush(); err != nil {
		return err
	}

	key, err := tr.readByte(mc)

	if err != nil {
		return err
	}

	if err := tr.writeByte(key); err != nil {
		return err
	}

	if err := tr.flush(); err != nil {
		return err
	}

	mc.Registers.Set(hardware.R0, uint16(key))
	mc.setFlags(uint16(key))

	return nil
}

// PUTSP: two packed characters per word, low byte first. The routine stops
// before emitting a zero byte in either position, so an odd-length string
// ends cleanly after its final low byte.
func (tr *TrapRouter) putsp(mc *Machine) error {
	addr := mc.Registers.Get(hardware.R0)

	for {
		word, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		low := byte(word)

		if low == 0 {
			break
		}

		if err := tr.writeByte(low); err != nil {
			return err
		}

		high := byte(word >> 8)

		if high == 0 {
			break
		}

		if err := tr.writeByte(high); err != nil {
			return err
		}

		addr++
	}

	return tr.flush()
}

// HALT: flush pending output and clear the running state.
func (tr *TrapRouter) halt(mc *Machine) error {
	mc.running = false

	return tr.flush()
}
