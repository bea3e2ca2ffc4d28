// writer.go - write the generated LaTeX output
// Copyright (C) 2016  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package latex

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// OutputSubdir is the subdirectory of the output directory which
// holds the generated LaTeX files.
const OutputSubdir = "tex"

// writer collects output.  The first write error is kept and all
// later writes are ignored.
type writer struct {
	out *bufio.Writer
	err error

	// atLineStart is set if the last byte written was a newline.
	atLineStart bool
}

func newWriter(out io.Writer) *writer {
	return &writer{
		out:         bufio.NewWriter(out),
		atLineStart: true,
	}
}

func (w *writer) WriteString(s string) {
	if w.err != nil || s == "" {
		return
	}
	_, w.err = w.out.WriteString(s)
	w.atLineStart = strings.HasSuffix(s, "\n")
}

// WriteLine writes s on a line of its own.
func (w *writer) WriteLine(s string) {
	if !w.atLineStart {
		w.WriteString("\n")
	}
	w.WriteString(s + "\n")
}

func (w *writer) Flush() error {
	if !w.atLineStart {
		w.WriteString("\n")
	}
	e2 := w.out.Flush()
	if w.err == nil {
		w.err = e2
	}
	return w.err
}

// OutputPath returns the name of the file which holds the generated
// output for the input file inputName.  Only a ".tex" extension is
// removed from the input name; other extensions are kept.
func OutputPath(outputDir, inputName string) string {
	base := strings.TrimSuffix(filepath.Base(inputName), ".tex")
	return filepath.Join(outputDir, OutputSubdir, base+"-gen.tex")
}

// WriteFile stores the generated output for inputName inside
// outputDir.  Missing directories are created.  The name of the
// output file is returned.
func WriteFile(outputDir, inputName string, data []byte) (fileName string, err error) {
	fileName = OutputPath(outputDir, inputName)
	err = os.MkdirAll(filepath.Dir(fileName), 0755)
	if err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(filepath.Dir(fileName), ".tango-*.tex")
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			os.Remove(tmp.Name())
		}
	}()
	_, err = tmp.Write(data)
	e2 := tmp.Close()
	if err == nil {
		err = e2
	}
	if err != nil {
		return "", err
	}
	err = os.Rename(tmp.Name(), fileName)
	if err != nil {
		return "", err
	}
	return fileName, nil
}
