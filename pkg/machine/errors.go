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

import "fmt"

// InvalidAddressError reports a memory access beyond the address space.
// Unreachable from a 16-bit address; guards addresses computed from wider
// intermediates, such as the image loader's.
type InvalidAddressError uint32

func (err InvalidAddressError) Error() string {
	return fmt.Sprintf("invalid memory address: %#x", uint32(err))
}

// IOError reports a device collaborator failure during a run.
type IOError struct {
	Reason error
}

func (err *IOError) Error() string {
	return fmt.Sprintf("io error: %v", err.Reason)
}

func (err *IOError) Unwrap() error {
	return err.Reason
}
