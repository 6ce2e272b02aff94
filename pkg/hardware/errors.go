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

package hardware

import "fmt"

// RegisterDecodeError reports a register field that does not name one of the
// eight general-purpose registers.
type RegisterDecodeError uint16

func (err RegisterDecodeError) Error() string {
	return fmt.Sprintf("invalid register number: %d", uint16(err))
}

// FlagDecodeError reports a condition mask field outside the 3-bit range.
type FlagDecodeError uint16

func (err FlagDecodeError) Error() string {
	return fmt.Sprintf("invalid flag value: %d", uint16(err))
}

// InvalidInstructionError reports an opcode field that names no defined
// instruction, including the two reserved encodings.
type InvalidInstructionError uint16

func (err InvalidInstructionError) Error() string {
	return fmt.Sprintf("invalid opcode: %d", uint16(err))
}

// InvalidTrapCodeError reports a trap vector with no service routine.
type InvalidTrapCodeError uint16

func (err InvalidTrapCodeError) Error() string {
	return fmt.Sprintf("invalid trap code: %#02x", uint16(err))
}
