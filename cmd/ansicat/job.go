package main

import (
	"errors"
	"io"
	"os"
	"slices"

	"github.com/ezrec/ansistream/starext"
	"github.com/ezrec/ansistream/stream"
)

const (
	HOOK_DECODE_ERROR = "on-decode-error"
	HOOK_ENCODE_ERROR = "on-encode-error"
)

// COPY_CHUNK is the number of characters moved per sequence call.
const COPY_CHUNK = 4096

// Job copies its inputs, one after another, to all of its outputs.
type Job struct {
	ElementType stream.ElementType
	From        []any // Input external format designators.
	To          []any // Output external format designators.
	Hooks       *starext.Module

	Stdin  any // Handle read for the path "-"; os.Stdin when nil.
	Stdout any // Handle written for the path "-"; os.Stdout when nil.

	inputs  []stream.Stream
	outputs []stream.Stream
	owned   []stream.Stream
}

// Stats counts what a Job copied.
type Stats struct {
	Elements int64
	Octets   int64
}

func (job *Job) fileOptions(mode stream.Mode) (opts stream.FileOptions) {
	opts.Mode = mode
	opts.ElementType = job.ElementType
	if mode.Input() {
		opts.ExternalFormat = job.From
	} else {
		opts.ExternalFormat = job.To
	}
	if job.Hooks != nil {
		if job.Hooks.Has(HOOK_DECODE_ERROR) {
			opts.OnDecodeError = job.Hooks.DecodeErrorHook(HOOK_DECODE_ERROR)
		}
		if job.Hooks.Has(HOOK_ENCODE_ERROR) {
			opts.OnEncodeError = job.Hooks.EncodeErrorHook(HOOK_ENCODE_ERROR)
		}
	}
	return
}

// AddInput opens path for reading; "-" is standard input.
func (job *Job) AddInput(path string) (err error) {
	opts := job.fileOptions(stream.MODE_INPUT)

	var in stream.Stream
	if path == "-" {
		var handle any = os.Stdin
		if job.Stdin != nil {
			handle = job.Stdin
		}
		in, err = stream.NewHandleStream(handle, "stdin", opts)
	} else {
		in, err = stream.Open(path, stream.OpenOptions{
			Direction:      stream.MODE_INPUT,
			ElementType:    opts.ElementType,
			ExternalFormat: opts.ExternalFormat,
			OnDecodeError:  opts.OnDecodeError,
		})
		if err == nil {
			job.owned = append(job.owned, in)
		}
	}
	if err != nil {
		return
	}

	logger.Debugf("input %s", in.Name())
	job.inputs = append(job.inputs, in)
	return
}

// AddOutput opens path for writing, superseding any existing file; "-" is
// standard output.
func (job *Job) AddOutput(path string) (err error) {
	opts := job.fileOptions(stream.MODE_OUTPUT)

	var out stream.Stream
	if path == "-" {
		var handle any = os.Stdout
		if job.Stdout != nil {
			handle = job.Stdout
		}
		out, err = stream.NewHandleStream(handle, "stdout", opts)
	} else {
		out, err = stream.Open(path, stream.OpenOptions{
			Direction:      stream.MODE_OUTPUT,
			ElementType:    opts.ElementType,
			IfExists:       stream.IF_EXISTS_SUPERSEDE,
			IfDoesNotExist: stream.IF_DOES_NOT_EXIST_CREATE,
			ExternalFormat: opts.ExternalFormat,
			OnEncodeError:  opts.OnEncodeError,
		})
		if err == nil {
			job.owned = append(job.owned, out)
		}
	}
	if err != nil {
		return
	}

	logger.Debugf("output %s", out.Name())
	job.outputs = append(job.outputs, out)
	return
}

// Run copies every input to every output.
func (job *Job) Run() (stats Stats, err error) {
	in, err := stream.NewConcatenated(job.inputs...)
	if err != nil {
		return
	}
	out, err := stream.NewBroadcast(job.outputs...)
	if err != nil {
		return
	}

	if job.ElementType.IsCharacter() {
		stats, err = copyChars(in, out)
	} else {
		stats, err = copyIntegers(in, out, job.ElementType.Bits)
	}
	if err != nil {
		return
	}

	err = stream.FinishOutput(out)
	return
}

func copyChars(in, out stream.Stream) (stats Stats, err error) {
	buf := make([]rune, COPY_CHUNK)
	for {
		var n int
		n, err = stream.ReadSequence(in, buf)
		if errors.Is(err, io.EOF) {
			err = nil
			return
		}
		if err != nil {
			return
		}

		err = stream.WriteSequence(out, buf[:n])
		if err != nil {
			return
		}

		stats.Elements += int64(n)
		octets, lerr := stream.FileStringLength(out, string(buf[:n]))
		if lerr == nil {
			stats.Octets += octets
		}
	}
}

func copyIntegers(in, out stream.Stream, bits int) (stats Stats, err error) {
	for {
		v, rerr := stream.ReadByte(in)
		if errors.Is(rerr, io.EOF) {
			return
		}
		if rerr != nil {
			err = rerr
			return
		}

		err = stream.WriteByte(out, v)
		if err != nil {
			return
		}
		stats.Elements++
		stats.Octets += int64((bits + 7) / 8)
	}
}

// Close closes the files the job opened and flushes the standard streams.
// With abort set, superseded files are left untouched.
func (job *Job) Close(abort bool) (err error) {
	keep := func(cerr error) {
		if err == nil {
			err = cerr
		}
	}

	for _, s := range job.outputs {
		if !slices.Contains(job.owned, s) && !abort {
			keep(stream.FinishOutput(s))
		}
	}
	for _, s := range job.owned {
		keep(stream.Close(s, abort))
	}
	return
}
