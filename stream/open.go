// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package stream

import (
	"os"

	"github.com/ezrec/ansistream/codec"
)

// IfExists is the policy of Open for an existing output file.
type IfExists int

//go:generate go tool stringer -linecomment -type=IfExists
const (
	IF_EXISTS_DEFAULT           = IfExists(0) // default
	IF_EXISTS_ERROR             = IfExists(1) // error
	IF_EXISTS_NEW_VERSION       = IfExists(2) // new-version
	IF_EXISTS_SUPERSEDE         = IfExists(3) // supersede
	IF_EXISTS_RENAME            = IfExists(4) // rename
	IF_EXISTS_RENAME_AND_DELETE = IfExists(5) // rename-and-delete
	IF_EXISTS_OVERWRITE         = IfExists(6) // overwrite
	IF_EXISTS_APPEND            = IfExists(7) // append
	IF_EXISTS_NIL               = IfExists(8) // nil
)

// IfDoesNotExist is the policy of Open for a missing file.
type IfDoesNotExist int

//go:generate go tool stringer -linecomment -type=IfDoesNotExist
const (
	IF_DOES_NOT_EXIST_DEFAULT = IfDoesNotExist(0) // default
	IF_DOES_NOT_EXIST_ERROR   = IfDoesNotExist(1) // error
	IF_DOES_NOT_EXIST_CREATE  = IfDoesNotExist(2) // create
	IF_DOES_NOT_EXIST_NIL     = IfDoesNotExist(3) // nil
)

// BACKUP_SUFFIX is appended to the name of a file moved aside by
// IF_EXISTS_RENAME.
const BACKUP_SUFFIX = ".BAK"

const openPerm = 0o666

// OpenOptions configures Open. The zero value opens a character input
// stream in the default external format.
type OpenOptions struct {
	Direction      Mode
	ElementType    ElementType
	IfExists       IfExists
	IfDoesNotExist IfDoesNotExist
	ExternalFormat []any
	Buffered       bool // Open a buffered HandleStream instead of an FDStream.
	Resolver       PathResolver
	OnDecodeError  codec.DecodeErrorHook
	OnEncodeError  codec.EncodeErrorHook
}

// policies resolves the default policies for the direction.
func (opts *OpenOptions) policies() (ifExists IfExists, ifDoesNotExist IfDoesNotExist) {
	ifExists = opts.IfExists
	ifDoesNotExist = opts.IfDoesNotExist

	switch opts.Direction {
	case MODE_INPUT:
		if ifDoesNotExist == IF_DOES_NOT_EXIST_DEFAULT {
			ifDoesNotExist = IF_DOES_NOT_EXIST_ERROR
		}
	case MODE_OUTPUT, MODE_IO:
		if ifExists == IF_EXISTS_DEFAULT {
			ifExists = IF_EXISTS_NEW_VERSION
		}
		if ifDoesNotExist == IF_DOES_NOT_EXIST_DEFAULT {
			if ifExists == IF_EXISTS_OVERWRITE || ifExists == IF_EXISTS_APPEND {
				ifDoesNotExist = IF_DOES_NOT_EXIST_ERROR
			} else {
				ifDoesNotExist = IF_DOES_NOT_EXIST_CREATE
			}
		}
	case MODE_PROBE:
		if ifDoesNotExist == IF_DOES_NOT_EXIST_DEFAULT {
			ifDoesNotExist = IF_DOES_NOT_EXIST_NIL
		}
	}
	return
}

// fileVariant is a file stream that Open can finish configuring.
type fileVariant interface {
	Stream
	file() *fileStream
}

func (fs *fileStream) file() *fileStream {
	return fs
}

// openPlan is the outcome of applying the open policies to a path.
type openPlan struct {
	target    string // File actually opened; a temp file when superseding.
	flag      int
	temp      string
	created   bool
	appending bool
}

func (opts *OpenOptions) plan(path string, resolver PathResolver) (plan *openPlan, err error) {
	ifExists, ifDoesNotExist := opts.policies()

	exists, err := resolver.Exists(path)
	if err != nil {
		return
	}

	plan = &openPlan{target: path}

	switch opts.Direction {
	case MODE_INPUT, MODE_PROBE:
		plan.flag = os.O_RDONLY
		if exists {
			return
		}
		switch ifDoesNotExist {
		case IF_DOES_NOT_EXIST_CREATE:
			var file *os.File
			file, err = os.OpenFile(path, os.O_WRONLY|os.O_CREATE, openPerm)
			if err != nil {
				return nil, err
			}
			err = file.Close()
		case IF_DOES_NOT_EXIST_NIL:
			plan = nil
		default:
			err = ErrDoesNotExist
		}
		return

	case MODE_OUTPUT, MODE_IO:
		base := os.O_WRONLY
		if opts.Direction == MODE_IO {
			base = os.O_RDWR
		}

		if !exists {
			switch ifDoesNotExist {
			case IF_DOES_NOT_EXIST_CREATE:
				plan.flag = base | os.O_CREATE | os.O_TRUNC
				plan.created = true
			case IF_DOES_NOT_EXIST_NIL:
				plan = nil
			default:
				err = ErrDoesNotExist
			}
			return
		}

		switch ifExists {
		case IF_EXISTS_RENAME:
			logger.Debugf("%s: moving aside to %s", path, path+BACKUP_SUFFIX)
			err = resolver.Rename(path, path+BACKUP_SUFFIX)
			plan.flag = base | os.O_CREATE | os.O_TRUNC
		case IF_EXISTS_RENAME_AND_DELETE, IF_EXISTS_NEW_VERSION, IF_EXISTS_SUPERSEDE:
			plan.temp, err = resolver.TempName(path)
			plan.target = plan.temp
			plan.flag = base | os.O_CREATE | os.O_TRUNC
		case IF_EXISTS_OVERWRITE:
			plan.flag = base
		case IF_EXISTS_APPEND:
			plan.flag = base
			plan.appending = true
		case IF_EXISTS_NIL:
			plan = nil
		default:
			err = ErrExists
		}
		return
	}

	err = ErrNotSupported
	return
}

// Open opens the file at path as a stream. A nil policy that applies
// returns a nil stream and a nil error. A probe stream is returned already
// closed.
func Open(path string, opts OpenOptions) (s Stream, err error) {
	resolver := opts.Resolver
	if resolver == nil {
		resolver = OSResolver{}
	}

	if path == "" {
		return nil, &OpenError{Path: path, Err: ErrDoesNotExist}
	}

	plan, err := opts.plan(path, resolver)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	if plan == nil {
		return nil, nil
	}

	fopts := FileOptions{
		Mode:           opts.Direction,
		ElementType:    opts.ElementType,
		ExternalFormat: opts.ExternalFormat,
		OnDecodeError:  opts.OnDecodeError,
		OnEncodeError:  opts.OnEncodeError,
		Resolver:       resolver,
	}

	var fv fileVariant
	if opts.Buffered {
		fopts.Flags |= codec.STREAM_C_STREAM
		fv, err = openHandle(plan.target, plan.flag, path, fopts)
	} else {
		fv, err = openDescriptor(plan.target, plan.flag, path, fopts)
	}
	if err != nil {
		switch {
		case plan.temp != "":
			_ = resolver.Delete(plan.temp)
		case plan.created:
			_ = resolver.Delete(path)
		}
		return nil, &OpenError{Path: path, Err: err}
	}

	fs := fv.file()
	fs.tempFilename = plan.temp
	fs.created = plan.created
	logger.Debugf("%s: opened for %v", path, opts.Direction)

	if opts.Direction == MODE_PROBE {
		err = fv.Close(false)
		if err != nil {
			return nil, err
		}
		return fv, nil
	}

	fs.codec.Flags |= codec.STREAM_MIGHT_SEEK
	if plan.appending {
		err = fv.SetPosition(POSITION_END)
		if err != nil {
			_ = fv.Close(true)
			return nil, err
		}
	}

	s = fv
	return
}

// openHandle opens target as a buffered stream named name.
func openHandle(target string, flag int, name string, opts FileOptions) (fv fileVariant, err error) {
	file, err := os.OpenFile(target, flag, openPerm)
	if err != nil {
		return
	}

	hs, err := NewHandleStream(file, name, opts)
	if err != nil {
		_ = file.Close()
		return
	}

	hs.buffering = BUFFER_LINE
	if !hs.elementType.IsCharacter() {
		hs.buffering = BUFFER_FULL
	}
	fv = hs
	return
}
