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

// Package assembler translates LC-3 assembly source into a program image.
// Two passes: the first sizes statements and records label addresses, the
// second emits instruction words with label references resolved. Only the
// 14 defined opcodes assemble; RTI and the reserved encoding are rejected
// like any other unknown mnemonic.
package assembler

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cdiielsi/lc3-vm/pkg/encoding"
	"github.com/cdiielsi/lc3-vm/pkg/hardware"
	"github.com/cdiielsi/lc3-vm/pkg/image"
)

var branchMasks = map[string]hardware.Flag{
	"BR":    hardware.PosZroNeg,
	"BRN":   hardware.Neg,
	"BRZ":   hardware.Zro,
	"BRP":   hardware.Pos,
	"BRNZ":  hardware.NotZro,
	"BRZP":  hardware.PosZro,
	"BRNP":  hardware.PosNeg,
	"BRNZP": hardware.PosZroNeg,
}

var trapAliases = map[string]hardware.TrapCode{
	"GETC":  hardware.TrapGetc,
	"OUT":   hardware.TrapOut,
	"PUTS":  hardware.TrapPuts,
	"IN":    hardware.TrapIn,
	"PUTSP": hardware.TrapPutsp,
	"HALT":  hardware.TrapHalt,
}

var plainMnemonics = map[string]bool{
	"ADD": true, "AND": true, "NOT": true,
	"LD": true, "LDI": true, "LDR": true, "LEA": true,
	"ST": true, "STI": true, "STR": true,
	"JMP": true, "RET": true, "JSR": true, "JSRR": true,
	"TRAP": true,
}

func isKeyword(ident string) bool {
	up := strings.ToUpper(ident)

	if strings.HasPrefix(up, ".") {
		return true
	}

	if plainMnemonics[up] {
		return true
	}

	if _, ok := branchMasks[up]; ok {
		return true
	}

	_, ok := trapAliases[up]
	return ok
}

func parseRegister(ident string) (hardware.Register, bool) {
	up := strings.ToUpper(ident)

	if len(up) == 2 && up[0] == 'R' && up[1] >= '0' && up[1] <= '7' {
		return hardware.Register(up[1] - '0'), true
	}

	return 0, false
}

func isLiteral(token string) bool {
	if token == "" {
		return false
	}

	c := token[0]

	return c == '#' || c == '-' || c == 'x' || c == 'X' ||
		(c >= '0' && c <= '9')
}

// tokenize splits one source line on whitespace and commas, keeping quoted
// strings whole and dropping everything after a comment marker.
func tokenize(line string, lineno int) ([]string, error) {
	var tokens []string
	var builder strings.Builder

	flush := func() {
		if builder.Len() > 0 {
			tokens = append(tokens, builder.String())
			builder.Reset()
		}
	}

	inString := false

	for _, char := range line {
		switch {
		case inString:
			builder.WriteRune(char)

			if char == '"' {
				flush()
				inString = false
			}

		case char == '"':
			flush()
			builder.WriteRune(char)
			inString = true

		case char == ';':
			flush()
			return tokens, nil

		case char == ',' || unicode.IsSpace(char):
			flush()

		default:
			builder.WriteRune(char)
		}
	}

	if inString {
		return nil, &UnterminatedStringError{lineno}
	}

	flush()

	return tokens, nil
}

func parse(input io.Reader) ([]statement, []error) {
	var stmts []statement
	var errs []error

	scanner := bufio.NewScanner(input)
	lineno := 0

	for scanner.Scan() {
		lineno++

		tokens, err := tokenize(scanner.Text(), lineno)

		if err != nil {
			errs = append(errs, err)
			continue
		}

		if len(tokens) == 0 {
			continue
		}

		stmt := statement{line: lineno}
		rest := tokens

		if !isKeyword(tokens[0]) {
			stmt.label = tokens[0]
			rest = tokens[1:]
		}

		if len(rest) > 0 {
			stmt.keyword = strings.ToUpper(rest[0])
			stmt.operands = rest[1:]
		}

		stmts = append(stmts, stmt)
	}

	if err := scanner.Err(); err != nil {
		errs = append(errs, err)
	}

	return stmts, errs
}

type assembly struct {
	labels map[string]uint16
	errs   []error
	origin uint16
	words  []uint16
}

// Assemble translates source into an image. On any error the image is
// empty and every problem found is reported.
func Assemble(input io.Reader) (image.Image, []error) {
	stmts, errs := parse(input)

	asm := &assembly{
		labels: make(map[string]uint16),
		errs:   errs,
	}

	asm.scan(stmts)
	asm.emit(stmts)

	if len(asm.errs) > 0 {
		return image.Image{}, asm.errs
	}

	return image.Image{Origin: asm.origin, Words: asm.words}, nil
}

func (asm *assembly) fail(err error) {
	asm.errs = append(asm.errs, err)
}

// scan is the sizing pass: it fixes the origin and the address of every
// label. Operand problems are left for the emit pass so each is reported
// once.
func (asm *assembly) scan(stmts []statement) {
	seenOrigin := false
	pc := uint32(0)

	for _, stmt := range stmts {
		if stmt.keyword == ".END" {
			break
		}

		if stmt.keyword == ".ORIG" {
			if len(stmt.operands) == 1 {
				value, err := asm.literal(stmt.operands[0], 16, false, stmt.line)

				if err != nil {
					asm.fail(err)
				} else {
					asm.origin = value
					pc = uint32(value)
				}
			}

			seenOrigin = true
			continue
		}

		if !seenOrigin {
			asm.fail(&MissingOriginError{stmt.line})
			seenOrigin = true // report once
		}

		if stmt.label != "" {
			if _, exists := asm.labels[stmt.label]; exists {
				asm.fail(&RedeclaredLabelError{stmt.line, stmt.label})
			} else {
				asm.labels[stmt.label] = uint16(pc)
			}
		}

		switch stmt.keyword {
		case "":
			// label-only line

		case ".FILL":
			pc++

		case ".BLKW":
			if len(stmt.operands) == 1 {
				if count, err := asm.literal(
					stmt.operands[0], 16, false, stmt.line,
				); err == nil {
					pc += uint32(count)
				}
			}

		case ".STRINGZ":
			// One word per rune plus the terminator, matching the emit
			// pass. Byte length would misplace every label after a
			// non-ASCII string.
			if len(stmt.operands) == 1 {
				if s, err := strconv.Unquote(stmt.operands[0]); err == nil {
					pc += uint32(utf8.RuneCountInString(s)) + 1
				}
			}

		default:
			pc++
		}
	}
}

// emit is the encoding pass.
func (asm *assembly) emit(stmts []statement) {
	active := false

	for _, stmt := range stmts {
		if stmt.keyword == ".END" {
			break
		}

		if stmt.keyword == ".ORIG" {
			if count := len(stmt.operands); count != 1 {
				asm.fail(&OperandCountError{stmt.line, ".ORIG", 1, count})
			}

			active = true
			continue
		}

		if !active {
			continue
		}

		addr := asm.origin + uint16(len(asm.words))

		switch stmt.keyword {
		case "":

		case ".FILL":
			asm.emitFill(stmt)

		case ".BLKW":
			asm.emitBlock(stmt)

		case ".STRINGZ":
			asm.emitString(stmt)

		default:
			asm.words = append(asm.words, asm.instruction(stmt, addr))
		}
	}
}

func (asm *assembly) emitFill(stmt statement) {
	if count := len(stmt.operands); count != 1 {
		asm.fail(&OperandCountError{stmt.line, ".FILL", 1, count})
		asm.words = append(asm.words, 0)
		return
	}

	operand := stmt.operands[0]

	if isLiteral(operand) {
		value, err := asm.literal(operand, 16, true, stmt.line)

		if err != nil {
			asm.fail(err)
		}

		asm.words = append(asm.words, value)
		return
	}

	addr, exists := asm.labels[operand]

	if !exists {
		asm.fail(&UnknownLabelError{stmt.line, operand})
	}

	asm.words = append(asm.words, addr)
}

func (asm *assembly) emitBlock(stmt statement) {
	if count := len(stmt.operands); count != 1 {
		asm.fail(&OperandCountError{stmt.line, ".BLKW", 1, count})
		return
	}

	count, err := asm.literal(stmt.operands[0], 16, false, stmt.line)

	if err != nil {
		asm.fail(err)
		return
	}

	asm.words = append(asm.words, make([]uint16, count)...)
}

func (asm *assembly) emitString(stmt statement) {
	if count := len(stmt.operands); count != 1 {
		asm.fail(&OperandCountError{stmt.line, ".STRINGZ", 1, count})
		return
	}

	s, err := strconv.Unquote(stmt.operands[0])

	if err != nil {
		asm.fail(&InvalidLiteralError{stmt.line, stmt.operands[0]})
		return
	}

	for _, c := range s {
		asm.words = append(asm.words, uint16(c))
	}

	asm.words = append(asm.words, 0)
}

// literal parses a numeric operand into bits bits. Hexadecimal literals
// are raw bit patterns; decimal literals are range-checked as two's
// complement when the field is signed.
func (asm *assembly) literal(
	token string, bits uint, signed bool, line int,
) (uint16, error) {
	if strings.ContainsAny(token, "xX") {
		value, err := encoding.DecodeHex(token)

		if err != nil {
			return 0, &InvalidLiteralError{line, token}
		}

		if bits < 16 && value >= 1<<bits {
			return 0, &LiteralRangeError{line, bits, token}
		}

		return value, nil
	}

	value, err := encoding.DecodeInt(token)

	if err != nil {
		return 0, &InvalidLiteralError{line, token}
	}

	if bits < 16 {
		var low, high int16

		if signed {
			low = -(int16(1) << (bits - 1))
			high = (int16(1) << (bits - 1)) - 1
		} else {
			low = 0
			high = (int16(1) << bits) - 1
		}

		if value < low || value > high {
			return 0, &LiteralRangeError{line, bits, token}
		}
	}

	return uint16(value) & uint16((uint32(1)<<bits)-1), nil
}

// register parses a register operand, reporting failures itself so callers
// can keep encoding.
func (asm *assembly) register(token string, line int) uint16 {
	reg, ok := parseRegister(token)

	if !ok {
		asm.fail(&InvalidRegisterError{line, token})
		return 0
	}

	return uint16(reg)
}

// pcOffset resolves a label or literal operand to a PC-relative offset of
// the given width, relative to the incremented program counter.
func (asm *assembly) pcOffset(
	token string, addr uint16, bits uint, line int,
) uint16 {
	if isLiteral(token) {
		value, err := asm.literal(token, bits, true, line)

		if err != nil {
			asm.fail(err)
			return 0
		}

		return value
	}

	target, exists := asm.labels[token]

	if !exists {
		asm.fail(&UnknownLabelError{line, token})
		return 0
	}

	offset := int(target) - int(addr) - 1
	limit := 1 << (bits - 1)

	if offset < -limit || offset >= limit {
		asm.fail(&OffsetRangeError{line, token, bits, offset})
		return 0
	}

	return uint16(offset) & uint16((uint32(1)<<bits)-1)
}

func (asm *assembly) operands(stmt statement, want int) bool {
	if count := len(stmt.operands); count != want {
		asm.fail(&OperandCountError{stmt.line, stmt.keyword, want, count})
		return false
	}

	return true
}

func (asm *assembly) instruction(stmt statement, addr uint16) uint16 {
	if mask, ok := branchMasks[stmt.keyword]; ok {
		if !asm.operands(stmt, 1) {
			return 0
		}

		word := uint16(hardware.OpBR)<<12 | uint16(mask)<<9
		return word | asm.pcOffset(stmt.operands[0], addr, 9, stmt.line)
	}

	if code, ok := trapAliases[stmt.keyword]; ok {
		if !asm.operands(stmt, 0) {
			return 0
		}

		return uint16(hardware.OpTRAP)<<12 | uint16(code)
	}

	switch stmt.keyword {
	case "ADD", "AND":
		if !asm.operands(stmt, 3) {
			return 0
		}

		opcode := hardware.OpADD

		if stmt.keyword == "AND" {
			opcode = hardware.OpAND
		}

		word := uint16(opcode) << 12
		word |= asm.register(stmt.operands[0], stmt.line) << 9
		word |= asm.register(stmt.operands[1], stmt.line) << 6

		if isLiteral(stmt.operands[2]) {
			imm5, err := asm.literal(stmt.operands[2], 5, true, stmt.line)

			if err != nil {
				asm.fail(err)
			}

			return word | 1<<5 | imm5
		}

		return word | asm.register(stmt.operands[2], stmt.line)

	case "NOT":
		if !asm.operands(stmt, 2) {
			return 0
		}

		word := uint16(hardware.OpNOT) << 12
		word |= asm.register(stmt.operands[0], stmt.line) << 9
		word |= asm.register(stmt.operands[1], stmt.line) << 6

		return word | 0x3F

	case "LD", "LDI", "LEA", "ST", "STI":
		if !asm.operands(stmt, 2) {
			return 0
		}

		var opcode hardware.Opcode

		switch stmt.keyword {
		case "LD":
			opcode = hardware.OpLD
		case "LDI":
			opcode = hardware.OpLDI
		case "LEA":
			opcode = hardware.OpLEA
		case "ST":
			opcode = hardware.OpST
		case "STI":
			opcode = hardware.OpSTI
		}

		word := uint16(opcode) << 12
		word |= asm.register(stmt.operands[0], stmt.line) << 9

		return word | asm.pcOffset(stmt.operands[1], addr, 9, stmt.line)

	case "LDR", "STR":
		if !asm.operands(stmt, 3) {
			return 0
		}

		opcode := hardware.OpLDR

		if stmt.keyword == "STR" {
			opcode = hardware.OpSTR
		}

		word := uint16(opcode) << 12
		word |= asm.register(stmt.operands[0], stmt.line) << 9
		word |= asm.register(stmt.operands[1], stmt.line) << 6

		imm6, err := asm.literal(stmt.operands[2], 6, true, stmt.line)

		if err != nil {
			asm.fail(err)
		}

		return word | imm6

	case "JMP":
		if !asm.operands(stmt, 1) {
			return 0
		}

		word := uint16(hardware.OpJMP) << 12

		return word | asm.register(stmt.operands[0], stmt.line)<<6

	case "RET":
		if !asm.operands(stmt, 0) {
			return 0
		}

		return uint16(hardware.OpJMP)<<12 | uint16(hardware.R7)<<6

	case "JSR":
		if !asm.operands(stmt, 1) {
			return 0
		}

		word := uint16(hardware.OpJSR)<<12 | 1<<11

		return word | asm.pcOffset(stmt.operands[0], addr, 11, stmt.line)

	case "JSRR":
		if !asm.operands(stmt, 1) {
			return 0
		}

		word := uint16(hardware.OpJSR) << 12

		return word | asm.register(stmt.operands[0], stmt.line)<<6

	case "TRAP":
		if !asm.operands(stmt, 1) {
			return 0
		}

		vector, err := asm.literal(stmt.operands[0], 8, false, stmt.line)

		if err != nil {
			asm.fail(err)
		}

		return uint16(hardware.OpTRAP)<<12 | vector
	}

	asm.fail(&UnknownMnemonicError{stmt.line, stmt.keyword})

	return 0
}
