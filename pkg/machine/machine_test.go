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

package machine_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/cdiielsi/lc3-vm/pkg/hardware"
	"github.com/cdiielsi/lc3-vm/pkg/image"
	"github.com/cdiielsi/lc3-vm/pkg/machine"
)

type testKeyboard struct {
	data []byte
}

func (kb *testKeyboard) ReadByteWithTimeout(
	timeout time.Duration,
) (byte, bool, error) {
	if len(kb.data) == 0 {
		return 0, false, nil
	}

	b := kb.data[0]
	kb.data = kb.data[1:]

	return b, true, nil
}

type testMachineState struct {
	Registers [8]uint16
	Program   uint16
	Condition hardware.Flag
	Memory    map[uint16]uint16
}

type testCase struct {
	Name     string
	Steps    uint
	Keyboard string
	Display  string
	Input    testMachineState
	Output   testMachineState
}

// testMachineSuccess drives one machine through Steps cycles and verifies
// every register, the condition flag and the full memory sweep against the
// expected state. A zero Condition stands for the reset seed (Pos), since
// zero is never a storable flag.
func testMachineSuccess(t *testing.T, test *testCase) {
	var displayBuf bytes.Buffer

	keyboard := &testKeyboard{data: []byte(test.Keyboard)}
	console := machine.NewBufferedConsole(&displayBuf)

	mc := machine.New(keyboard, console)

	mc.Registers = machine.RegisterFile{}
	for i, value := range test.Input.Registers {
		mc.Registers[i] = value
	}

	mc.Registers.Set(hardware.PC, test.Input.Program)

	if test.Input.Condition != 0 {
		mc.Registers.Set(hardware.Cond, uint16(test.Input.Condition))
	} else {
		mc.Registers.Set(hardware.Cond, uint16(hardware.Pos))
	}

	for addr, value := range test.Input.Memory {
		mc.Memory.Write(addr, value)
	}

	if test.Steps == 0 {
		test.Steps = 1
	}

	for i := uint(0); i < test.Steps; i++ {
		if err := mc.Step(); err != nil {
			t.Fatalf("Unexpected step error: %v", err)
		}
	}

	for i := 0; i < 8; i++ {
		want := test.Output.Registers[i]
		have := mc.Registers.Get(hardware.Register(i))
		if have != want {
			t.Errorf(
				"Register mismatch"+
					"\nwant:%#04x (test.Output.Registers[%d])\nhave:%#04x",
				want,
				i,
				have,
			)
		}
	}

	if have := mc.Registers.Get(hardware.PC); have != test.Output.Program {
		t.Errorf(
			"Program counter mismatch"+
				"\nwant:%#04x (test.Output.Program)\nhave:%#04x",
			test.Output.Program,
			have,
		)
	}

	wantCond := test.Output.Condition
	if wantCond == 0 {
		wantCond = hardware.Pos
	}

	if have := mc.Registers.Get(hardware.Cond); have != uint16(wantCond) {
		t.Errorf(
			"Condition flag mismatch"+
				"\nwant:%#03b (test.Output.Condition)\nhave:%#03b",
			uint16(wantCond),
			have,
		)
	}

	for i := 0; i < machine.MemorySize; i++ {
		value := mc.Memory.Inspect(uint16(i))
		input, expectingInput := test.Input.Memory[uint16(i)]
		output, expectingOutput := test.Output.Memory[uint16(i)]

		if expectingOutput {
			// Value was supposed to change
			if value != output {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Output.Memory[%#04x])\nhave:%#02x",
					output,
					i,
					value,
				)
			}
		} else if expectingInput {
			// Value was supposed to remain
			if value != input {
				t.Fatalf(
					"Memory value mismatch"+
						"\nwant:%#02x (test.Input.Memory[%#04x])\nhave:%#02x",
					input,
					i,
					value,
				)
			}
		} else if value != 0 {
			// Value was expected to remain uninitialized
			t.Fatalf(
				"Memory unexpectedly changed"+
					"\nwant:0x00 (test.Output.Memory[%#04x])\nhave:%#02x",
				i,
				value,
			)
		}
	}

	if have := displayBuf.String(); have != test.Display {
		t.Errorf(
			"Display output mismatch"+
				"\nwant:%q (test.Display)\nhave:%q",
			test.Display,
			have,
		)
	}
}

func testSuccess(t *testing.T, tests []testCase) {
	t.Run("Success", func(t *testing.T) {
		for _, test := range tests {
			t.Run(test.Name, func(t *testing.T) {
				testMachineSuccess(t, &test)
			})
		}
	})
}

// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestAdd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ADD SR2",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					5: 0x0005, // SR1
					0: 0x0020, // SR2
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0001_100_101_0_00_000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
				Registers: [8]uint16{
					4: 0x0025, // DR
					5: 0x0005,
					0: 0x0020,
				},
			},
		},
		{
			Name: "ADD SR2 Negative",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0x0001,
					2: 0x8001,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0001_000_001_0_00_010,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Neg,
				Registers: [8]uint16{
					0: 0x8002,
					1: 0x0001,
					2: 0x8001,
				},
			},
		},
		{
			Name: "ADD Imm5 Negative",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					// ADD R0, R0, #-12
					0x3000: 0b0001_000_000_1_10100,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Neg,
				Registers: [8]uint16{
					0: 0xFFF4,
				},
			},
		},
		{
			Name: "ADD Wrapping",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0xFFFF,
				},
				Memory: map[uint16]uint16{
					// ADD R0, R1, #1
					0x3000: 0b0001_000_001_1_00001,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Zro,
				Registers: [8]uint16{
					1: 0xFFFF,
				},
			},
		},
	})
}

// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestAnd(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "AND SR2",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0xF0F0,
					2: 0xFF00,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0101_000_001_0_00_010,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Neg,
				Registers: [8]uint16{
					0: 0xF000,
					1: 0xF0F0,
					2: 0xFF00,
				},
			},
		},
		{
			Name: "AND Imm5 Zero",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0xFFFF,
				},
				Memory: map[uint16]uint16{
					// AND R0, R1, #0
					0x3000: 0b0101_000_001_1_00000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Zro,
				Registers: [8]uint16{
					1: 0xFFFF,
				},
			},
		},
	})
}

// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestNot(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "NOT",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					3: 0x0F0F,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b1001_010_011_111111,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Neg,
				Registers: [8]uint16{
					2: 0xF0F0,
					3: 0x0F0F,
				},
			},
		},
	})
}

// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestBranch(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "BRp Taken",
			Input: testMachineState{
				Program:   0x3000,
				Condition: hardware.Pos,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_001_000010000,
				},
			},
			Output: testMachineState{
				Program:   0x3011,
				Condition: hardware.Pos,
			},
		},
		{
			Name: "BRn Not Taken",
			Input: testMachineState{
				Program:   0x3000,
				Condition: hardware.Pos,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_100_000010000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
			},
		},
		{
			Name: "BRnzp Backward",
			Input: testMachineState{
				Program:   0x3000,
				Condition: hardware.Zro,
				Memory: map[uint16]uint16{
					// offset -2
					0x3000: 0b0000_111_111111110,
				},
			},
			Output: testMachineState{
				Program:   0x2FFF,
				Condition: hardware.Zro,
			},
		},
		{
			Name: "BR Zero Mask Never Taken",
			Input: testMachineState{
				Program:   0x3000,
				Condition: hardware.Pos,
				Memory: map[uint16]uint16{
					0x3000: 0b0000_000_000010000,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
			},
		},
	})
}

// JMP  |1100    |000  |BaseR|000000      | Jump
// JSR  |0100    |1|PCoffset11            | Jump to subroutine
// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestJumps(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "JMP",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					2: 0x4000,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b1100_000_010_000000,
				},
			},
			Output: testMachineState{
				Program: 0x4000,
				Registers: [8]uint16{
					2: 0x4000,
				},
			},
		},
		{
			Name: "JSR",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					// JSR +42
					0x3000: 0b0100_1_00000101010,
				},
			},
			Output: testMachineState{
				Program: 0x302B,
				Registers: [8]uint16{
					7: 0x3001,
				},
			},
		},
		{
			Name: "JSRR",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					3: 0x5000,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0100_000_011_000000,
				},
			},
			Output: testMachineState{
				Program: 0x5000,
				Registers: [8]uint16{
					3: 0x5000,
					7: 0x3001,
				},
			},
		},
	})
}

// LD   |0010    |DR   |PCoffset9         | Load
// LDI  |1010    |DR   |PCoffset9         | Load indirect
// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
// LEA  |1110    |DR   |PCoffset9         | Load effective address
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestLoads(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "LD",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b0010_000_000000010,
					0x3003: 0xCAFE,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Neg,
				Registers: [8]uint16{
					0: 0xCAFE,
				},
			},
		},
		{
			Name: "LDI",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b1010_000_000000001,
					0x3002: 0x4000,
					0x4000: 0x0042,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
				Registers: [8]uint16{
					0: 0x0042,
				},
			},
		},
		{
			Name: "LDR Negative Offset",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					6: 0x4001,
				},
				Memory: map[uint16]uint16{
					// LDR R2, R6, #-1
					0x3000: 0b0110_010_110_111111,
					0x4000: 0x0007,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
				Registers: [8]uint16{
					2: 0x0007,
					6: 0x4001,
				},
			},
		},
		{
			Name: "LEA",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0b1110_001_000000100,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
				Registers: [8]uint16{
					1: 0x3005,
				},
			},
		},
	})
}

// ST   |0011    |SR   |PCoffset9         | Store
// STI  |1011    |SR   |PCoffset9         | Store indirect
// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestStores(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name: "ST",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0xBEEF,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b0011_000_000000011,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0xBEEF,
				},
				Memory: map[uint16]uint16{
					0x3004: 0xBEEF,
				},
			},
		},
		{
			Name: "STI",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					5: 0x0001,
				},
				Memory: map[uint16]uint16{
					0x3000: 0b1011_101_000000001,
					0x3002: 0x4000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					5: 0x0001,
				},
				Memory: map[uint16]uint16{
					0x4000: 0x0001,
				},
			},
		},
		{
			Name: "STR",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					1: 0x00FF,
					4: 0x4000,
				},
				Memory: map[uint16]uint16{
					// STR R1, R4, #2
					0x3000: 0b0111_001_100_000010,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					1: 0x00FF,
					4: 0x4000,
				},
				Memory: map[uint16]uint16{
					0x4002: 0x00FF,
				},
			},
		},
	})
}

// TRAP |1111    |0000   |trapvect8       | Service routine call
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
func TestTraps(t *testing.T) {
	testSuccess(t, []testCase{
		{
			Name:     "GETC",
			Keyboard: "a",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0xF020,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: uint16('a'),
					7: 0x3001,
				},
			},
		},
		{
			Name:    "OUT",
			Display: "A",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: uint16('A'),
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF021,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: uint16('A'),
					7: 0x3001,
				},
			},
		},
		{
			Name:    "PUTS",
			Display: "Hi",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x3100,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF022,
					0x3100: uint16('H'),
					0x3101: uint16('i'),
					0x3102: 0x0000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x3100,
					7: 0x3001,
				},
			},
		},
		{
			Name:     "IN",
			Keyboard: "x",
			Display:  "Enter a character: x",
			Input: testMachineState{
				Program: 0x3000,
				Memory: map[uint16]uint16{
					0x3000: 0xF023,
				},
			},
			Output: testMachineState{
				Program:   0x3001,
				Condition: hardware.Pos,
				Registers: [8]uint16{
					0: uint16('x'),
					7: 0x3001,
				},
			},
		},
		{
			Name:    "PUTSP Even",
			Display: "abcd",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x3100,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF024,
					0x3100: uint16('b')<<8 | uint16('a'),
					0x3101: uint16('d')<<8 | uint16('c'),
					0x3102: 0x0000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x3100,
					7: 0x3001,
				},
			},
		},
		{
			Name:    "PUTSP Odd",
			Display: "abc",
			Input: testMachineState{
				Program: 0x3000,
				Registers: [8]uint16{
					0: 0x3100,
				},
				Memory: map[uint16]uint16{
					0x3000: 0xF024,
					0x3100: uint16('b')<<8 | uint16('a'),
					// high byte zero terminates after the low byte
					0x3101: uint16('c'),
					0x3102: 0x0000,
				},
			},
			Output: testMachineState{
				Program: 0x3001,
				Registers: [8]uint16{
					0: 0x3100,
					7: 0x3001,
				},
			},
		},
	})
}

func newTestMachine(keyboard string) (*machine.Machine, *bytes.Buffer) {
	buf := &bytes.Buffer{}

	mc := machine.New(
		&testKeyboard{data: []byte(keyboard)},
		machine.NewBufferedConsole(buf),
	)

	return mc, buf
}

func TestHaltImage(t *testing.T) {
	mc, _ := newTestMachine("")

	err := mc.LoadImage(image.Image{Origin: 0x0000, Words: []uint16{0xF025}})

	if err != nil {
		t.Fatal(err)
	}

	if !mc.Running() {
		t.Fatal("Machine not running after load")
	}

	if err := mc.Run(); err != nil {
		t.Fatal(err)
	}

	if mc.Running() {
		t.Error("Machine still running after HALT")
	}

	if have := mc.Registers.Get(hardware.PC); have != 0x0001 {
		t.Errorf("Program counter mismatch\nwant:0x0001\nhave:%#04x", have)
	}

	// R7 holds the return address of the trap call; everything else is
	// untouched.
	for i := 0; i < 7; i++ {
		if have := mc.Registers.Get(hardware.Register(i)); have != 0 {
			t.Errorf("Register R%d unexpectedly %#04x", i, have)
		}
	}

	if have := mc.Registers.Get(hardware.R7); have != 0x0001 {
		t.Errorf("Link register mismatch\nwant:0x0001\nhave:%#04x", have)
	}
}

func TestAddThenHaltImage(t *testing.T) {
	mc, _ := newTestMachine("")

	err := mc.LoadImage(image.Image{
		Origin: 0x0000,
		Words: []uint16{
			0b0001_000_001_0_00_010, // ADD R0, R1, R2
			0xF025,                  // HALT
		},
	})

	if err != nil {
		t.Fatal(err)
	}

	mc.Registers.Set(hardware.R1, 32)
	mc.Registers.Set(hardware.R2, 5)

	if err := mc.Run(); err != nil {
		t.Fatal(err)
	}

	if mc.Running() {
		t.Error("Machine still running after HALT")
	}

	if have := mc.Registers.Get(hardware.R0); have != 37 {
		t.Errorf("Register mismatch\nwant:37\nhave:%d", have)
	}

	if have := mc.Registers.Get(hardware.Cond); have != uint16(hardware.Pos) {
		t.Errorf("Condition flag mismatch\nwant:Pos\nhave:%#03b", have)
	}
}

func TestInvalidTrapCode(t *testing.T) {
	mc, _ := newTestMachine("")

	err := mc.LoadImage(image.Image{
		Origin: 0x3000,
		Words: []uint16{
			0b0001_000_000_1_00001, // ADD R0, R0, #1
			0xF0FF,                 // TRAP 0xFF
		},
	})

	if err != nil {
		t.Fatal(err)
	}

	err = mc.Run()

	if err == nil {
		t.Fatal("Expected invalid trap code error")
	}

	var trapErr hardware.InvalidTrapCodeError

	if !errors.As(err, &trapErr) {
		t.Fatalf("Unexpected error type: %v", err)
	}

	if trapErr != hardware.InvalidTrapCodeError(0xFF) {
		t.Errorf("Trap code mismatch\nwant:0xFF\nhave:%#02x", uint16(trapErr))
	}

	// Prior state stays in place for inspection.
	if have := mc.Registers.Get(hardware.R0); have != 1 {
		t.Errorf("Register mismatch\nwant:1\nhave:%d", have)
	}

	if have := mc.Registers.Get(hardware.PC); have != 0x3002 {
		t.Errorf("Program counter mismatch\nwant:0x3002\nhave:%#04x", have)
	}
}

func TestInvalidInstruction(t *testing.T) {
	for _, word := range []uint16{0x8000, 0xD000} {
		mc, _ := newTestMachine("")

		err := mc.LoadImage(image.Image{Origin: 0x3000, Words: []uint16{word}})

		if err != nil {
			t.Fatal(err)
		}

		err = mc.Run()

		var instErr hardware.InvalidInstructionError

		if !errors.As(err, &instErr) {
			t.Fatalf("Unexpected error for word %#04x: %v", word, err)
		}

		if uint16(instErr) != word>>12 {
			t.Errorf(
				"Opcode mismatch\nwant:%#x\nhave:%#x", word>>12, uint16(instErr),
			)
		}
	}
}

func TestKeyboardStatusPoll(t *testing.T) {
	mc, _ := newTestMachine("k")

	// A byte is waiting: the status read latches it and reports ready.
	status, err := mc.Memory.Read(machine.DevKBSR)

	if err != nil {
		t.Fatal(err)
	}

	if status != machine.KBSRReady {
		t.Errorf("KBSR mismatch\nwant:%#04x\nhave:%#04x", machine.KBSRReady, status)
	}

	data, err := mc.Memory.Read(machine.DevKBDR)

	if err != nil {
		t.Fatal(err)
	}

	if data != uint16('k') {
		t.Errorf("KBDR mismatch\nwant:%#02x\nhave:%#02x", 'k', data)
	}

	// Input exhausted: the next status read clears the ready bit.
	status, err = mc.Memory.Read(machine.DevKBSR)

	if err != nil {
		t.Fatal(err)
	}

	if status != 0 {
		t.Errorf("KBSR mismatch\nwant:0\nhave:%#04x", status)
	}
}

func TestKeyboardError(t *testing.T) {
	mc, _ := newTestMachine("")
	mc.Traps.Keyboard = nil

	err := mc.LoadImage(image.Image{Origin: 0x3000, Words: []uint16{0xF020}})

	if err != nil {
		t.Fatal(err)
	}

	err = mc.Run()

	var ioErr *machine.IOError

	if !errors.As(err, &ioErr) {
		t.Fatalf("Unexpected error type: %v", err)
	}
}

func TestLoadImageTooLarge(t *testing.T) {
	mc, _ := newTestMachine("")

	err := mc.LoadImage(image.Image{
		Origin: 0xFFFF,
		Words:  []uint16{0x0001, 0x0002},
	})

	var addrErr machine.InvalidAddressError

	if !errors.As(err, &addrErr) {
		t.Fatalf("Unexpected error type: %v", err)
	}

	if addrErr != machine.InvalidAddressError(0x10000) {
		t.Errorf("Address mismatch\nwant:0x10000\nhave:%#x", uint32(addrErr))
	}
}

func TestConditionAlwaysSingleFlag(t *testing.T) {
	mc, _ := newTestMachine("")

	program := []uint16{
		0b0001_000_000_1_00101, // ADD R0, R0, #5
		0b0001_000_000_1_10100, // ADD R0, R0, #-12
		0b0101_000_000_1_00000, // AND R0, R0, #0
		0b1001_001_000_111111,  // NOT R1, R0
		0xF025,                 // HALT
	}

	err := mc.LoadImage(image.Image{Origin: 0x3000, Words: program})

	if err != nil {
		t.Fatal(err)
	}

	for mc.Running() {
		if err := mc.Step(); err != nil {
			t.Fatal(err)
		}

		cond := mc.Registers.Get(hardware.Cond)

		switch hardware.Flag(cond) {
		case hardware.Pos, hardware.Zro, hardware.Neg:
		default:
			t.Fatalf("Stored condition is not a single flag: %#03b", cond)
		}
	}
}
