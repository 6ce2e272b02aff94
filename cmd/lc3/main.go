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

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/cdiielsi/lc3-vm/pkg/image"
	"github.com/cdiielsi/lc3-vm/pkg/machine"
)

var helpvar bool
var timeoutvar time.Duration

const usage = "lc3 filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.DurationVar(
		&timeoutvar, "timeout", machine.DefaultPollTimeout,
		"Bounds how long a keyboard status read waits for input",
	)
	flag.Parse()
}

func lc3() int {
	if helpvar {
		fmt.Println(usage)
		flag.PrintDefaults()
		return 0
	}

	args := flag.Args()

	if len(args) != 1 {
		log.Println(usage)
		return 1
	}

	img, err := image.LoadFile(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	mc := machine.New(
		machine.NewTerminalKeyboard(os.Stdin),
		machine.NewBufferedConsole(os.Stdout),
	)
	mc.SetPollTimeout(timeoutvar)

	if err := mc.LoadImage(img); err != nil {
		log.Println(err)
		return 1
	}

	if err := enterRawTerm(); err != nil {
		log.Println(err)
		return 1
	}

	defer exitRawTerm()

	if err := mc.Run(); err != nil {
		exitRawTerm()
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(lc3())
}
