package buffer

import (
	"errors"
	"io/fs"
	"time"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"

	"github.com/dshills/quill/internal/project/vfs"
)

const defaultFileMode fs.FileMode = 0o644

// Open creates a buffer bound to the file at path and loads it.
//
// A path that does not exist yields an empty buffer bound to it; saving the
// buffer creates the file. If the file exists but cannot be read, Open
// returns the bound empty buffer together with an error wrapping ErrIO.
func Open(path string, opts ...Option) (*Buffer, error) {
	b := newBuffer(opts)
	b.bind(path)
	b.reset(nil)

	err := b.load()
	if b.language == "" {
		b.language = DetectLanguage(b.name, b.table.Bytes())
	}
	switch {
	case err == nil:
		b.log.Debug("opened %s (%s, %s, %d bytes)", b.path, b.encoding, b.lineEnding, b.table.Len())
	case errors.Is(err, fs.ErrNotExist):
		b.log.Debug("new file %s", b.path)
		err = nil
	default:
		b.log.Warn("open %s: %v", b.path, err)
	}
	return b, err
}

// bind sets the path and display name.
func (b *Buffer) bind(path string) {
	if abs, err := b.fs.Abs(path); err == nil {
		path = abs
	}
	b.path = path
	b.name = b.fs.Base(path)
}

// load replaces the table and history with the file content. On error the
// buffer is unchanged.
func (b *Buffer) load() error {
	raw, err := b.fs.ReadFile(b.path)
	if err != nil {
		return ioError("read", b.path, err)
	}
	info, err := b.fs.Stat(b.path)
	if err != nil {
		return ioError("stat", b.path, err)
	}
	text, enc, err := vfs.Decode(raw)
	if err != nil {
		return ioError("decode", b.path, err)
	}

	b.reset(text)
	b.encoding = enc
	b.lineEnding = vfs.DetectLineEnding(text)
	b.modTime = info.ModTime()
	b.checksum = xxhash.Sum64(raw)
	b.fileReadOnly = !vfs.Writable(info)
	return nil
}

// Save writes the text to the bound file in the buffer's encoding.
// On success the buffer is no longer modified.
//
// A read-only buffer returns ErrReadOnly and an unbound one ErrNoPath.
// Write failures wrap ErrIO and leave the modified state untouched.
func (b *Buffer) Save() error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	if b.path == "" {
		return ErrNoPath
	}
	return b.write()
}

// SaveAs binds the buffer to path and saves it there. If the write fails
// the previous binding is restored.
func (b *Buffer) SaveAs(path string) error {
	if b.ReadOnly() {
		return ErrReadOnly
	}
	if path == "" {
		return ErrNoPath
	}

	oldPath, oldName := b.path, b.name
	b.bind(path)
	if err := b.write(); err != nil {
		b.path, b.name = oldPath, oldName
		return err
	}
	b.language = DetectLanguage(b.name, b.table.Bytes())
	return nil
}

func (b *Buffer) write() error {
	text := b.table.Bytes()
	enc := b.encoding
	if enc == vfs.EncodingASCII && !isASCII(text) {
		enc = vfs.EncodingUTF8
	}
	data, err := vfs.Encode(text, enc)
	if err != nil {
		return ioError("encode", b.path, err)
	}

	perm := defaultFileMode
	if info, err := b.fs.Stat(b.path); err == nil {
		perm = info.Mode().Perm()
	}

	if b.atomicSave {
		err = b.writeAtomic(data, perm)
	} else {
		err = b.fs.WriteFile(b.path, data, perm)
	}
	if err != nil {
		b.log.Warn("save %s: %v", b.path, err)
		return ioError("write", b.path, err)
	}

	modTime := time.Now()
	if info, err := b.fs.Stat(b.path); err == nil {
		modTime = info.ModTime()
	}
	b.encoding = enc
	b.modTime = modTime
	b.checksum = xxhash.Sum64(data)
	b.savePoint = b.history.Current()
	b.log.Debug("saved %s (%d bytes)", b.path, len(data))
	return nil
}

// writeAtomic writes data to a temporary file next to the target and
// renames it into place.
func (b *Buffer) writeAtomic(data []byte, perm fs.FileMode) error {
	tmp := b.fs.Join(b.fs.Dir(b.path), "."+b.name+"."+uuid.NewString()+".tmp")
	if err := b.fs.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := b.fs.Rename(tmp, b.path); err != nil {
		if rerr := b.fs.Remove(tmp); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return nil
}

// Reload replaces the text with the file content. The undo history is
// discarded. On error the buffer is unchanged.
func (b *Buffer) Reload() error {
	if b.path == "" {
		return ErrNoPath
	}
	if err := b.load(); err != nil {
		b.log.Warn("reload %s: %v", b.path, err)
		return err
	}
	b.log.Debug("reloaded %s", b.path)
	return nil
}

// HasExternalChanges reports whether the file on disk differs from what the
// buffer last loaded or saved. A file whose modification time changed but
// whose content did not is unchanged. A file removed from disk is changed.
func (b *Buffer) HasExternalChanges() (bool, error) {
	if b.path == "" {
		return false, nil
	}
	info, err := b.fs.Stat(b.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return !b.modTime.IsZero(), nil
		}
		return false, ioError("stat", b.path, err)
	}
	if info.ModTime().Equal(b.modTime) {
		return false, nil
	}
	raw, err := b.fs.ReadFile(b.path)
	if err != nil {
		return false, ioError("read", b.path, err)
	}
	return xxhash.Sum64(raw) != b.checksum, nil
}

func isASCII(text []byte) bool {
	for _, c := range text {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}
