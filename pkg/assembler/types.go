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

package assembler

import "fmt"

// statement is one source line after tokenization: an optional label, a
// mnemonic or directive, and its raw operands.
type statement struct {
	line     int
	label    string
	keyword  string
	operands []string
}

type UnknownMnemonicError struct {
	Line  int
	Ident string
}

func (err *UnknownMnemonicError) Error() string {
	return fmt.Sprintf("%d: unknown mnemonic '%s'", err.Line, err.Ident)
}

type OperandCountError struct {
	Line    int
	Keyword string
	Want    int
	Have    int
}

func (err *OperandCountError) Error() string {
	return fmt.Sprintf(
		"%d: %s takes %d operands, have %d",
		err.Line, err.Keyword, err.Want, err.Have,
	)
}

type InvalidRegisterError struct {
	Line  int
	Ident string
}

func (err *InvalidRegisterError) Error() string {
	return fmt.Sprintf("%d: invalid register '%s'", err.Line, err.Ident)
}

type InvalidLiteralError struct {
	Line  int
	Value string
}

func (err *InvalidLiteralError) Error() string {
	return fmt.Sprintf("%d: invalid numeric literal '%s'", err.Line, err.Value)
}

type LiteralRangeError struct {
	Line  int
	Bits  uint
	Value string
}

func (err *LiteralRangeError) Error() string {
	return fmt.Sprintf(
		"%d: literal '%s' exceeds %d bits", err.Line, err.Value, err.Bits,
	)
}

type RedeclaredLabelError struct {
	Line  int
	Label string
}

func (err *RedeclaredLabelError) Error() string {
	return fmt.Sprintf("%d: redeclaration of label '%s'", err.Line, err.Label)
}

type UnknownLabelError struct {
	Line  int
	Label string
}

func (err *UnknownLabelError) Error() string {
	return fmt.Sprintf("%d: unknown label '%s'", err.Line, err.Label)
}

type OffsetRangeError struct {
	Line   int
	Label  string
	Bits   uint
	Offset int
}

func (err *OffsetRangeError) Error() string {
	return fmt.Sprintf(
		"%d: label '%s' is %d words away, beyond a %d-bit offset",
		err.Line, err.Label, err.Offset, err.Bits,
	)
}

type UnterminatedStringError struct {
	Line int
}

func (err *UnterminatedStringError) Error() string {
	return fmt.Sprintf("%d: unterminated string literal", err.Line)
}

type MissingOriginError struct {
	Line int
}

func (err *MissingOriginError) Error() string {
	return fmt.Sprintf("%d: statement before .ORIG", err.Line)
}
