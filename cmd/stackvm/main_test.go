package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ezrec/stackvm/cpu"
)

// stackvm runs the command line in a scratch directory, without a user
// configuration.
func stackvm(t *testing.T, args ...string) error {
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", home)
	t.Setenv("HOME", home)

	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeFile(t *testing.T, path string, text string) {
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestCommands(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	src := filepath.Join(dir, "add.s")
	img := filepath.Join(dir, "add.img")
	listing := filepath.Join(dir, "add.lst")
	dis := filepath.Join(dir, "dis.s")
	input := filepath.Join(dir, "input.txt")
	output := filepath.Join(dir, "output.txt")

	writeFile(t, src, "commands read add res 2 print res exit .\n")
	writeFile(t, input, "40\n")

	require.NoError(t, stackvm(t, "asm", src, "-o", img, "-l", listing))
	assert.Equal("   10\tread\n   13\tadd res 2\n   16\tprint res\n   19\texit\n", readFile(t, listing))

	require.NoError(t, stackvm(t, "disasm", img, "-o", dis))
	assert.Equal("commands\n\tread\n\tadd res 2\n\tprint res\n\texit\n.\n", readFile(t, dis))

	require.NoError(t, stackvm(t, "run", "-s", dis, "-i", input, "-o", output))
	assert.Equal("42\n", readFile(t, output))
}

func TestDisasm_Rejected(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.img")
	out := filepath.Join(dir, "out.s")

	image := cpu.NewImage()
	image[cpu.SLOT_IP] = 5
	data, err := image.MarshalBinary()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(bad, data, 0o644))
	writeFile(t, out, "previous\n")

	err = stackvm(t, "disasm", bad, "-o", out)
	assert.ErrorIs(err, cpu.ErrImageLayout)
	assert.Equal("previous\n", readFile(t, out))
}

func TestVerify(t *testing.T) {
	assert := assert.New(t)

	assert.NoError(stackvm(t, "verify", "../../scenario/testdata/machine.star"))

	manifest := filepath.Join(t.TempDir(), "wrong.star")
	writeFile(t, manifest, `scenario(name = "wrong", source = "commands print 1 .", output = "2\n")`)
	assert.ErrorContains(stackvm(t, "verify", manifest), "wrong")
}
