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
	"bufio"
	"io"
	"os"
	"time"

	"golang.org/x/sys/unix"
)

// TerminalKeyboard reads single bytes from a file descriptor, typically a
// terminal already placed in raw mode. The poll keeps the caller's timeout
// bound even when no input ever arrives.
type TerminalKeyboard struct {
	file *os.File
}

func NewTerminalKeyboard(file *os.File) *TerminalKeyboard {
	return &TerminalKeyboard{file: file}
}

func (kb *TerminalKeyboard) ReadByteWithTimeout(
	timeout time.Duration,
) (byte, bool, error) {
	fds := []unix.PollFd{
		{Fd: int32(kb.file.Fd()), Events: unix.POLLIN},
	}

	for {
		n, err := unix.Poll(fds, int(timeout.Milliseconds()))

		if err == unix.EINTR {
			continue
		} else if err != nil {
			return 0, false, err
		}

		if n == 0 {
			return 0, false, nil
		}

		break
	}

	scratch := make([]byte, 1)

	if _, err := kb.file.Read(scratch); err != nil {
		return 0, false, err
	}

	return scratch[0], true, nil
}

// BufferedConsole is the production Console: buffered writes with explicit
// flushes at the points the trap routines require.
type BufferedConsole struct {
	writer *bufio.Writer
}

func NewBufferedConsole(w io.Writer) *BufferedConsole {
	return &BufferedConsole{writer: bufio.NewWriter(w)}
}

func (con *BufferedConsole) WriteByte(b byte) error {
	return con.writer.WriteByte(b)
}

func (con *BufferedConsole) Flush() error {
	return con.writer.Flush()
}
