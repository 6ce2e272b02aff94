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
	"github.com/cdiielsi/lc3-vm/pkg/encoding"
	"github.com/cdiielsi/lc3-vm/pkg/hardware"
	"github.com/cdiielsi/lc3-vm/pkg/image"
)

// Reset clears registers and memory, points the program counter at the
// conventional origin and seeds the condition register. The flag seed keeps
// the one-flag-stored invariant before any result exists.
func (mc *Machine) Reset() {
	for i := range mc.Registers {
		mc.Registers[i] = 0x0000
	}

	for i := range mc.Memory.cells {
		mc.Memory.cells[i] = 0x0000
	}

	mc.Registers.Set(hardware.PC, DefaultOrigin)
	mc.Registers.Set(hardware.Cond, uint16(hardware.Pos))

	mc.running = true
}

// LoadImage resets the machine, seeds memory with the image payload and
// points the program counter at the image origin.
func (mc *Machine) LoadImage(img image.Image) error {
	mc.Reset()

	for i, word := range img.Words {
		addr := uint32(img.Origin) + uint32(i)

		if err := mc.Memory.WriteWord(addr, word); err != nil {
			return err
		}
	}

	mc.Registers.Set(hardware.PC, img.Origin)

	return nil
}

// Run steps the machine until the HALT trap clears the running state or a
// fatal error propagates. Side effects of instructions executed before a
// failure stay in place for the caller to inspect.
func (mc *Machine) Run() error {
	for mc.running {
		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Step executes one fetch-decode-dispatch cycle. The fetch itself may poll
// the keyboard if the program counter aliases the keyboard status register.
func (mc *Machine) Step() error {
	pc := mc.Registers.Get(hardware.PC)

	word, err := mc.Memory.Read(pc)

	if err != nil {
		return err
	}

	mc.Registers.Set(hardware.PC, pc+1)

	inst, err := hardware.Decode(word)

	if err != nil {
		return err
	}

	return mc.execute(inst)
}

func (mc *Machine) setFlags(value uint16) {
	mc.Registers.Set(hardware.Cond, uint16(hardware.FlagFor(value)))
}

func (mc *Machine) execute(inst hardware.DecodedInstruction) error {
	switch inst.Opcode {
	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	case hardware.OpBR:
		cond := hardware.Flag(mc.Registers.Get(hardware.Cond))

		if inst.CondMask.Matches(cond) {
			pc := mc.Registers.Get(hardware.PC)
			pc += encoding.SignExtend(inst.Imm9, 9)
			mc.Registers.Set(hardware.PC, pc)
		}

	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	case hardware.OpADD:
		operand := mc.aluOperand(inst)
		result := mc.Registers.Get(inst.SR1) + operand

		mc.Registers.Set(inst.DR, result)
		mc.setFlags(result)

	// LD   |0010    |DR   |PCoffset9         | Load
	case hardware.OpLD:
		addr := mc.Registers.Get(hardware.PC) + encoding.SignExtend(inst.Imm9, 9)

		value, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		mc.Registers.Set(inst.DR, value)
		mc.setFlags(value)

	// ST   |0011    |SR   |PCoffset9         | Store
	case hardware.OpST:
		addr := mc.Registers.Get(hardware.PC) + encoding.SignExtend(inst.Imm9, 9)

		mc.Memory.Write(addr, mc.Registers.Get(inst.DR))

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	case hardware.OpJSR:
		pc := mc.Registers.Get(hardware.PC)
		mc.Registers.Set(hardware.R7, pc)

		if inst.PCRelativeJump {
			pc += encoding.SignExtend(inst.Imm11, 11)
		} else {
			pc = mc.Registers.Get(inst.BaseR)
		}

		mc.Registers.Set(hardware.PC, pc)

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	case hardware.OpAND:
		operand := mc.aluOperand(inst)
		result := mc.Registers.Get(inst.SR1) & operand

		mc.Registers.Set(inst.DR, result)
		mc.setFlags(result)

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	case hardware.OpLDR:
		addr := mc.Registers.Get(inst.SR1) + encoding.SignExtend(inst.Imm6, 6)

		value, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		mc.Registers.Set(inst.DR, value)
		mc.setFlags(value)

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	case hardware.OpSTR:
		addr := mc.Registers.Get(inst.SR1) + encoding.SignExtend(inst.Imm6, 6)

		mc.Memory.Write(addr, mc.Registers.Get(inst.DR))

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	case hardware.OpNOT:
		result := ^mc.Registers.Get(inst.SR1)

		mc.Registers.Set(inst.DR, result)
		mc.setFlags(result)

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	case hardware.OpLDI:
		addr := mc.Registers.Get(hardware.PC) + encoding.SignExtend(inst.Imm9, 9)

		indirect, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		value, err := mc.Memory.Read(indirect)

		if err != nil {
			return err
		}

		mc.Registers.Set(inst.DR, value)
		mc.setFlags(value)

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	case hardware.OpSTI:
		addr := mc.Registers.Get(hardware.PC) + encoding.SignExtend(inst.Imm9, 9)

		indirect, err := mc.Memory.Read(addr)

		if err != nil {
			return err
		}

		mc.Memory.Write(indirect, mc.Registers.Get(inst.DR))

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	case hardware.OpJMP:
		mc.Registers.Set(hardware.PC, mc.Registers.Get(inst.BaseR))

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	case hardware.OpLEA:
		addr := mc.Registers.Get(hardware.PC) + encoding.SignExtend(inst.Imm9, 9)

		mc.Registers.Set(inst.DR, addr)
		mc.setFlags(addr)

	// TRAP |1111    |0000   |trapvect8       | Service routine call
	case hardware.OpTRAP:
		// Call/return through the link register: the routine runs with R7
		// holding the return address and the counter is restored from it.
		mc.Registers.Set(hardware.R7, mc.Registers.Get(hardware.PC))

		if err := mc.Traps.Dispatch(inst.TrapVector, mc); err != nil {
			return err
		}

		mc.Registers.Set(hardware.PC, mc.Registers.Get(hardware.R7))

	default:
		return hardware.InvalidInstructionError(inst.Opcode)
	}

	return nil
}

// aluOperand resolves the second ADD/AND operand: a sign-extended imm5 in
// immediate mode, the SR2 register content otherwise.
func (mc *Machine) aluOperand(inst hardware.DecodedInstruction) uint16 {
	if inst.ALUImmediate {
		return encoding.SignExtend(inst.Imm5, 5)
	}

	return mc.Registers.Get(inst.SR2)
}
