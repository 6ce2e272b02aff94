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

import "github.com/cdiielsi/lc3-vm/pkg/encoding"

// Opcode is one of the 14 defined instructions. Encodings 8 and 13 are
// architecturally reserved and decode to an error, never to garbage
// semantics.
type Opcode uint16

const (
	OpBR   Opcode = 0b0000
	OpADD  Opcode = 0b0001
	OpLD   Opcode = 0b0010
	OpST   Opcode = 0b0011
	OpJSR  Opcode = 0b0100
	OpAND  Opcode = 0b0101
	OpLDR  Opcode = 0b0110
	OpSTR  Opcode = 0b0111
	OpNOT  Opcode = 0b1001
	OpLDI  Opcode = 0b1010
	OpSTI  Opcode = 0b1011
	OpJMP  Opcode = 0b1100
	OpLEA  Opcode = 0b1110
	OpTRAP Opcode = 0b1111
)

// Reserved encodings, listed for the decoder's rejection path.
const (
	opReservedRTI uint16 = 0b1000
	opReservedRES uint16 = 0b1101
)

// OpcodeFromWord parses the 4-bit opcode field.
func OpcodeFromWord(value uint16) (Opcode, error) {
	if value == opReservedRTI || value == opReservedRES || value > 0xF {
		return 0, InvalidInstructionError(value)
	}

	return Opcode(value), nil
}

// TrapCode selects one of the six I/O service routines.
type TrapCode uint16

const (
	TrapGetc  TrapCode = 0x20 // read one input byte, not echoed
	TrapOut   TrapCode = 0x21 // write one output byte
	TrapPuts  TrapCode = 0x22 // write a word string
	TrapIn    TrapCode = 0x23 // prompt, read and echo one byte
	TrapPutsp TrapCode = 0x24 // write a packed byte string
	TrapHalt  TrapCode = 0x25 // stop the machine
)

// TrapCodeFromWord parses an 8-bit trap vector.
func TrapCodeFromWord(value uint16) (TrapCode, error) {
	switch TrapCode(value) {
	case TrapGetc, TrapOut, TrapPuts, TrapIn, TrapPutsp, TrapHalt:
		return TrapCode(value), nil
	}

	return 0, InvalidTrapCodeError(value)
}

// DecodedInstruction is the structured form of one instruction word. It is
// built per fetch, consumed immediately and never persisted. Every field is
// extracted regardless of opcode; the dispatcher reads only the fields its
// opcode defines.
//
//	|opcode |DR /mask|SR1/base|m|     |
//	[ 15..12| 11..9  |  8..6  |5|4..0 ]
type DecodedInstruction struct {
	Opcode Opcode

	DR  Register // bits 11:9, also the STR source field
	SR1 Register // bits 8:6
	SR2 Register // bits 2:0, ADD/AND register mode only

	// ALUImmediate selects the imm5 form of ADD/AND (bit 5).
	ALUImmediate bool

	Imm5  uint16 // bits 4:0
	Imm6  uint16 // bits 5:0
	Imm9  uint16 // bits 8:0
	Imm11 uint16 // bits 10:0

	BaseR Register // bits 8:6, JMP/JSRR base

	// PCRelativeJump selects the imm11 form of JSR (bit 11).
	PCRelativeJump bool

	CondMask   Flag   // bits 11:9 reused as a branch condition mask
	TrapVector uint16 // bits 7:0
}

// Decode maps one 16-bit word to its structured form. It is pure: no
// machine state is consulted or mutated.
func Decode(word uint16) (DecodedInstruction, error) {
	var inst DecodedInstruction
	var err error

	if inst.Opcode, err = OpcodeFromWord(word >> 12); err != nil {
		return DecodedInstruction{}, err
	}

	// The 3-bit parses cannot fail on a masked field but are checked all
	// the same; a malformed field must surface as an error, never as a
	// silent default register.
	if inst.DR, err = RegisterFromWord((word >> 9) & 0x7); err != nil {
		return DecodedInstruction{}, err
	}

	if inst.SR1, err = RegisterFromWord((word >> 6) & 0x7); err != nil {
		return DecodedInstruction{}, err
	}

	if inst.SR2, err = RegisterFromWord(word & 0x7); err != nil {
		return DecodedInstruction{}, err
	}

	if inst.CondMask, err = FlagFromWord((word >> 9) & 0x7); err != nil {
		return DecodedInstruction{}, err
	}

	inst.ALUImmediate = (word>>5)&0x1 == 1
	inst.Imm5 = encoding.ZeroExtend(word, 5)
	inst.Imm6 = encoding.ZeroExtend(word, 6)
	inst.Imm9 = encoding.ZeroExtend(word, 9)
	inst.Imm11 = encoding.ZeroExtend(word, 11)
	inst.BaseR = inst.SR1
	inst.PCRelativeJump = (word>>11)&0x1 == 1
	inst.TrapVector = encoding.ZeroExtend(word, 8)

	return inst, nil
}
