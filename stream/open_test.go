package stream

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func writeTemp(t *testing.T, name string, data []byte) string {
	path := filepath.Join(t.TempDir(), name)
	err := os.WriteFile(path, data, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	return path
}

func readAll(t *testing.T, s Stream) (text string) {
	for code := range Chars(s) {
		text += string(code)
	}
	return
}

func readFile(t *testing.T, path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestOpen_Policies(t *testing.T) {
	assert := assert.New(t)

	table := []OpenOptions{
		{Direction: MODE_INPUT},
		{Direction: MODE_OUTPUT},
		{Direction: MODE_IO, IfExists: IF_EXISTS_APPEND},
		{Direction: MODE_PROBE},
	}
	expect := []struct {
		ifExists       IfExists
		ifDoesNotExist IfDoesNotExist
	}{
		{IF_EXISTS_DEFAULT, IF_DOES_NOT_EXIST_ERROR},
		{IF_EXISTS_NEW_VERSION, IF_DOES_NOT_EXIST_CREATE},
		{IF_EXISTS_APPEND, IF_DOES_NOT_EXIST_ERROR},
		{IF_EXISTS_DEFAULT, IF_DOES_NOT_EXIST_NIL},
	}

	for n, opts := range table {
		ifExists, ifDoesNotExist := opts.policies()
		assert.Equal(expect[n].ifExists, ifExists, opts.Direction.String())
		assert.Equal(expect[n].ifDoesNotExist, ifDoesNotExist, opts.Direction.String())
	}

	assert.Equal("rename-and-delete", IF_EXISTS_RENAME_AND_DELETE.String())
	assert.Equal("create", IF_DOES_NOT_EXIST_CREATE.String())
}

func TestOpen_Missing(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "missing.txt")

	_, err := Open(path, OpenOptions{})
	assert.ErrorIs(err, ErrDoesNotExist)
	var oe *OpenError
	assert.ErrorAs(err, &oe)
	assert.Equal(path, oe.Path)

	s, err := Open(path, OpenOptions{Direction: MODE_PROBE})
	assert.NoError(err)
	assert.Nil(s)

	s, err = Open(path, OpenOptions{IfDoesNotExist: IF_DOES_NOT_EXIST_CREATE})
	assert.NoError(err)
	assert.NotNil(s)
	_, err = s.ReadChar()
	assert.Error(err)
	assert.NoError(s.Close(false))
	assert.FileExists(path)

	_, err = Open(filepath.Join(t.TempDir(), "none"), OpenOptions{
		Direction: MODE_OUTPUT,
		IfExists:  IF_EXISTS_OVERWRITE,
	})
	assert.ErrorIs(err, ErrDoesNotExist)
}

func TestOpen_Exists(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "exists.txt", []byte("old"))

	_, err := Open(path, OpenOptions{Direction: MODE_OUTPUT, IfExists: IF_EXISTS_ERROR})
	assert.ErrorIs(err, ErrExists)

	s, err := Open(path, OpenOptions{Direction: MODE_OUTPUT, IfExists: IF_EXISTS_NIL})
	assert.NoError(err)
	assert.Nil(s)

	s, err = Open(path, OpenOptions{Direction: MODE_PROBE})
	assert.NoError(err)
	assert.NotNil(s)
	assert.False(s.IsOpen())
	assert.Equal(path, s.Pathname())
}

func TestOpen_Supersede(t *testing.T) {
	assert := assert.New(t)

	for _, buffered := range []bool{false, true} {
		path := writeTemp(t, "supersede.txt", []byte("old"))

		s, err := Open(path, OpenOptions{
			Direction: MODE_OUTPUT,
			IfExists:  IF_EXISTS_SUPERSEDE,
			Buffered:  buffered,
		})
		assert.NoError(err)
		assert.NoError(WriteString(s, "new"))
		assert.NoError(s.FinishOutput())

		assert.Equal("old", readFile(t, path))
		assert.NoError(s.Close(false))
		assert.Equal("new", readFile(t, path))

		entries, err := os.ReadDir(filepath.Dir(path))
		assert.NoError(err)
		assert.Len(entries, 1)
	}
}

func TestOpen_Supersede_Abort(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "abort.txt", []byte("old"))

	s, err := Open(path, OpenOptions{Direction: MODE_OUTPUT})
	assert.NoError(err)
	assert.NoError(WriteString(s, "new"))
	assert.NoError(s.Close(true))

	assert.Equal("old", readFile(t, path))
	entries, err := os.ReadDir(filepath.Dir(path))
	assert.NoError(err)
	assert.Len(entries, 1)
}

func TestOpen_Created_Abort(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "created.txt")

	s, err := Open(path, OpenOptions{Direction: MODE_OUTPUT})
	assert.NoError(err)
	assert.NoError(WriteString(s, "new"))
	assert.NoError(s.Close(true))

	assert.NoFileExists(path)
}

func TestOpen_Rename(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "rename.txt", []byte("old"))

	s, err := Open(path, OpenOptions{Direction: MODE_OUTPUT, IfExists: IF_EXISTS_RENAME})
	assert.NoError(err)
	assert.NoError(WriteString(s, "new"))
	assert.NoError(s.Close(false))

	assert.Equal("new", readFile(t, path))
	assert.Equal("old", readFile(t, path+BACKUP_SUFFIX))
}

func TestOpen_Append(t *testing.T) {
	assert := assert.New(t)

	for _, buffered := range []bool{false, true} {
		path := writeTemp(t, "append.txt", []byte("old"))

		s, err := Open(path, OpenOptions{
			Direction: MODE_OUTPUT,
			IfExists:  IF_EXISTS_APPEND,
			Buffered:  buffered,
		})
		assert.NoError(err)

		pos, err := s.Position()
		assert.NoError(err)
		assert.Equal(int64(3), pos)

		assert.NoError(WriteString(s, "new"))
		assert.NoError(s.Close(false))

		assert.Equal("oldnew", readFile(t, path))
	}
}

func TestOpen_Overwrite(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "overwrite.txt", []byte("abcdef"))

	s, err := Open(path, OpenOptions{Direction: MODE_IO, IfExists: IF_EXISTS_OVERWRITE})
	assert.NoError(err)

	code, err := s.ReadChar()
	assert.NoError(err)
	assert.Equal('a', code)

	assert.NoError(s.WriteChar('X'))
	assert.NoError(s.Close(false))

	assert.Equal("aXcdef", readFile(t, path))
}

func TestOpen_Truename(t *testing.T) {
	assert := assert.New(t)

	path := writeTemp(t, "truename.txt", []byte("x"))

	s, err := Open(path, OpenOptions{})
	assert.NoError(err)
	defer s.Close(false)

	truename, err := s.Truename()
	assert.NoError(err)
	expect, err := filepath.EvalSymlinks(path)
	assert.NoError(err)
	assert.Equal(expect, truename)
}

func TestOpen_BadFormat(t *testing.T) {
	assert := assert.New(t)

	path := filepath.Join(t.TempDir(), "bad.txt")

	_, err := Open(path, OpenOptions{
		Direction:      MODE_OUTPUT,
		ExternalFormat: []any{"no-such-format"},
	})
	assert.ErrorIs(err, ErrExternalFormat)
	assert.NoFileExists(path)
}
