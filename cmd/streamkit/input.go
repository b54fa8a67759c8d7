package main

import (
	"os"

	"github.com/mattn/go-isatty"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/flow"
)

// readDescriptors loads the pipeline from path, or from stdin when path is
// empty or "-". An interactive terminal on stdin is refused rather than
// waited on.
func readDescriptors(path string, format flow.Format, stdin *os.File) ([]flow.Descriptor, error) {
	if path != "" && path != "-" {
		if format == flow.FormatAuto {
			return flow.DecodeFile(path)
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, errors.InvalidInput("file", err.Error()).WithCause(err)
		}
		defer f.Close()
		return flow.Decode(f, format)
	}

	if isTerminal(stdin) {
		return nil, errors.InvalidInput("stdin", "no pipeline given: pass --file or pipe a descriptor array on stdin")
	}
	return flow.Decode(stdin, format)
}

func isTerminal(f *os.File) bool {
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
