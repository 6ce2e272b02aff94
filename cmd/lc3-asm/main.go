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
	"strings"

	"github.com/cdiielsi/lc3-vm/pkg/assembler"
)

var helpvar bool
var outvar string

const usage = "lc3-asm [-o outfile] filename"

func init() {
	exe, _ := os.Executable()
	log.SetFlags(0)
	log.SetPrefix(fmt.Sprintf("%s: ", filepath.Base(exe)))
	log.SetOutput(os.Stderr)
}

func init() {
	flag.BoolVar(&helpvar, "help", false, "Displays command usage")
	flag.StringVar(
		&outvar, "o", "",
		"Names the output file, replacing the default of the input "+
			"filename with extension '.obj'",
	)
	flag.Parse()
}

func lc3asm() int {
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

	file, err := os.Open(args[0])

	if err != nil {
		log.Println(err)
		return 1
	}

	defer file.Close()

	if outvar == "" {
		filename := filepath.Base(file.Name())
		outvar = strings.TrimSuffix(filename, filepath.Ext(filename)) + ".obj"
	}

	img, errs := assembler.Assemble(file)

	if len(errs) > 0 {
		for _, err := range errs {
			log.Println(err)
		}

		return 1
	}

	out, err := os.Create(outvar)

	if err != nil {
		log.Println(err)
		return 1
	}

	defer out.Close()

	if _, err := img.WriteTo(out); err != nil {
		log.Println(err)
		return 1
	}

	return 0
}

func main() {
	os.Exit(lc3asm())
}
