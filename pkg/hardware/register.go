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

// Register names one slot of the register file. R0 through R7 are the
// general-purpose registers; PC and Cond are reached only through the
// engine's fixed accessors, never through a decoded operand field.
type Register uint16

const (
	R0 Register = iota
	R1
	R2
	R3
	R4
	R5
	R6
	R7
	PC
	Cond

	NumRegisters
)

// RegisterFromWord parses a 3-bit operand field. Values above 7 cannot
// appear in a masked field but are rejected rather than wrapped, so a
// malformed caller can never alias the program counter or condition
// register.
func RegisterFromWord(value uint16) (Register, error) {
	if value > uint16(R7) {
		return 0, RegisterDecodeError(value)
	}

	return Register(value), nil
}

// Flag is a classification of the most recent writable result. Exactly one
// of Pos, Zro or Neg is ever stored in the condition register; the remaining
// values are OR-combinations valid only as branch condition masks.
type Flag uint16

const (
	NoFlag    Flag = 0
	Pos       Flag = 1 << 0
	Zro       Flag = 1 << 1
	PosZro    Flag = Pos | Zro
	Neg       Flag = 1 << 2
	PosNeg    Flag = Pos | Neg
	NotZro    Flag = Neg | Zro
	PosZroNeg Flag = Pos | Zro | Neg
)

// FlagFromWord parses the 3-bit condition mask field of a BR instruction.
func FlagFromWord(value uint16) (Flag, error) {
	if value > uint16(PosZroNeg) {
		return 0, FlagDecodeError(value)
	}

	return Flag(value), nil
}

// Matches reports whether a stored condition flag satisfies the mask.
func (mask Flag) Matches(cond Flag) bool {
	return mask&cond != 0
}

// FlagFor classifies a result value: zero, negative (bit 15 set) or
// positive.
func FlagFor(value uint16) Flag {
	if value == 0 {
		return Zro
	} else if value>>15 == 1 {
		return Neg
	}

	return Pos
}
