package main

import (
	"io"
	"os"

	"github.com/ezrec/stackvm/config"
	"github.com/ezrec/stackvm/cpu"
)

// openInput opens a file for reading, where '-' is stdin.
func openInput(path string) (rc io.ReadCloser, err error) {
	if path == config.STDIO {
		return io.NopCloser(os.Stdin), nil
	}

	return os.Open(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// createOutput creates a file for writing, where '-' is stdout.
func createOutput(path string) (wc io.WriteCloser, err error) {
	if path == config.STDIO {
		return nopWriteCloser{os.Stdout}, nil
	}

	return os.Create(path)
}

// writeOutput creates path and fills it with write.
func writeOutput(path string, write func(w io.Writer) error) (err error) {
	ouf, err := createOutput(path)
	if err != nil {
		return
	}

	err = write(ouf)
	if cerr := ouf.Close(); err == nil {
		err = cerr
	}

	return
}

// assembleFile assembles a source file.
func assembleFile(path string) (prog *cpu.Program, err error) {
	inf, err := openInput(path)
	if err != nil {
		return
	}
	defer inf.Close()

	asm := &cpu.Assembler{Verbose: conf.Verbose, Log: log}
	return asm.Parse(inf)
}

// readImageFile reads a binary image file.
func readImageFile(path string) (img *cpu.Image, err error) {
	inf, err := openInput(path)
	if err != nil {
		return
	}
	defer inf.Close()

	return cpu.ReadImage(inf)
}
