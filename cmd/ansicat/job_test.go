package main

import (
	"bytes"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/ansistream/starext"
	"github.com/ezrec/ansistream/stream"
)

func writeFile(t *testing.T, dir, name string, data []byte) string {
	path := filepath.Join(dir, name)
	err := os.WriteFile(path, data, 0o644)
	assert.NoError(t, err)
	return path
}

func TestJob_Transcode(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	first := writeFile(t, dir, "first.txt", []byte("ab\n"))
	second := writeFile(t, dir, "second.txt", []byte("é\n"))
	tee := writeFile(t, dir, "tee.txt", []byte("old contents"))

	var stdout bytes.Buffer
	job := &Job{
		ElementType: stream.CHARACTER,
		From:        designators("utf-8"),
		To:          designators("latin-1", "crlf"),
		Stdout:      &stdout,
	}

	assert.NoError(job.AddInput(first))
	assert.NoError(job.AddInput(second))
	assert.NoError(job.AddOutput("-"))
	assert.NoError(job.AddOutput(tee))

	stats, err := job.Run()
	assert.NoError(err)
	assert.Equal(int64(5), stats.Elements)
	assert.Equal(int64(7), stats.Octets)

	assert.NoError(job.Close(false))

	want := []byte("ab\r\n\xe9\r\n")
	assert.Equal(want, stdout.Bytes())

	data, err := os.ReadFile(tee)
	assert.NoError(err)
	assert.Equal(want, data)
}

func TestJob_Stdin(t *testing.T) {
	assert := assert.New(t)

	var stdout bytes.Buffer
	job := &Job{
		ElementType: stream.CHARACTER,
		Stdin:       strings.NewReader("line one\nline two\n"),
		Stdout:      &stdout,
	}

	assert.NoError(job.AddInput("-"))
	assert.NoError(job.AddOutput("-"))

	stats, err := job.Run()
	assert.NoError(err)
	assert.Equal(int64(18), stats.Elements)
	assert.NoError(job.Close(false))
	assert.Equal("line one\nline two\n", stdout.String())
}

func TestJob_Binary(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	in := writeFile(t, dir, "in.bin", []byte{0x01, 0x00, 0xff, 0xff})
	out := filepath.Join(dir, "out.bin")

	job := &Job{
		ElementType: stream.UnsignedByte(16),
		From:        designators("little-endian"),
		To:          designators("big-endian"),
	}
	assert.NoError(job.AddInput(in))
	assert.NoError(job.AddOutput(out))

	stats, err := job.Run()
	assert.NoError(err)
	assert.Equal(int64(2), stats.Elements)
	assert.Equal(int64(4), stats.Octets)
	assert.NoError(job.Close(false))

	data, err := os.ReadFile(out)
	assert.NoError(err)
	assert.Equal([]byte{0x00, 0x01, 0xff, 0xff}, data)

	check, err := stream.Open(out, stream.OpenOptions{
		ElementType:    stream.UnsignedByte(16),
		ExternalFormat: designators("big-endian"),
	})
	assert.NoError(err)
	v, err := stream.ReadByte(check)
	assert.NoError(err)
	assert.Equal(big.NewInt(1), v)
	assert.NoError(stream.Close(check, false))
}

func TestJob_Hooks(t *testing.T) {
	assert := assert.New(t)

	hooks, err := starext.Load("hooks.star", `
def on_decode_error(format, octets):
    return "?"

def on_encode_error(format, c):
    return None
`, nil)
	assert.NoError(err)

	dir := t.TempDir()
	in := writeFile(t, dir, "in.txt", []byte("a\xffλb"))

	var stdout bytes.Buffer
	job := &Job{
		ElementType: stream.CHARACTER,
		From:        designators("utf-8"),
		To:          designators("us-ascii"),
		Hooks:       hooks,
		Stdout:      &stdout,
	}
	assert.NoError(job.AddInput(in))
	assert.NoError(job.AddOutput("-"))

	_, err = job.Run()
	assert.NoError(err)
	assert.NoError(job.Close(false))
	assert.Equal("a?b", stdout.String())
}

func TestJob_AbortLeavesTarget(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	target := writeFile(t, dir, "target.txt", []byte("keep"))

	job := &Job{ElementType: stream.CHARACTER}
	assert.NoError(job.AddOutput(target))
	assert.NoError(stream.WriteString(job.outputs[0], "replaced"))
	assert.NoError(job.Close(true))

	data, err := os.ReadFile(target)
	assert.NoError(err)
	assert.Equal("keep", string(data))

	err = job.AddInput(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(err, stream.ErrDoesNotExist)
}

func TestDesignators(t *testing.T) {
	assert := assert.New(t)

	assert.Nil(designators(""))
	assert.Equal([]any{"utf-8", "crlf"}, designators("utf-8, crlf"))
	assert.Equal([]any{"latin-1", "cr"}, designators("latin-1", "cr"))
}
