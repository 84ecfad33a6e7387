// Package serialization reads and writes artifacts in the format implied by
// their file extension: .json or .gob, optionally wrapped in .gz.
package serialization

import (
	"compress/gzip"
	"encoding/gob"
	"encoding/json"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/loquilabs/loqui/errors"
)

// ErrStop is a special value returned from stream handlers to cease processing.
var ErrStop = errors.New("decoding stopped by handler")

// Encoder matches gob.Encoder and json.Encoder.
type Encoder interface {
	Encode(interface{}) error
}

// Decoder matches gob.Decoder and json.Decoder.
type Decoder interface {
	Decode(interface{}) error
}

// EncodeCloser wraps an Encoder together with the stream it writes to.
type EncodeCloser struct {
	encoder Encoder
	closers []io.Closer
}

// Encode writes an object to the underlying stream.
func (e *EncodeCloser) Encode(x interface{}) error {
	return e.encoder.Encode(x)
}

// Close closes the underlying stream. Wrapping streams close in reverse order
// so the gzip trailer lands before the file is closed.
func (e *EncodeCloser) Close() error {
	var err error
	for i := len(e.closers) - 1; i >= 0; i-- {
		err = errors.Combine(err, e.closers[i].Close())
	}
	return err
}

// NewEncoder creates the file at path and returns an encoder for the format
// implied by its extension.
func NewEncoder(path string) (*EncodeCloser, error) {
	var w io.WriteCloser
	w, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating %s", path)
	}
	closers := []io.Closer{w}

	ext := path
	if strings.HasSuffix(ext, ".gz") {
		ext = strings.TrimSuffix(ext, ".gz")
		w = gzip.NewWriter(w)
		closers = append(closers, w)
	}

	var e Encoder
	switch {
	case strings.HasSuffix(ext, ".json"):
		e = json.NewEncoder(w)
	case strings.HasSuffix(ext, ".gob"):
		e = gob.NewEncoder(w)
	default:
		w.Close()
		return nil, errors.New("no encoder for %s", path)
	}

	return &EncodeCloser{encoder: e, closers: closers}, nil
}

// Encode writes obj to path in the format implied by the extension.
func Encode(path string, obj interface{}) (err error) {
	enc, err := NewEncoder(path)
	if err != nil {
		return err
	}
	defer errors.Defer(&err, enc.Close)
	return enc.Encode(obj)
}

// Decode loads objects from path. The handler may be a pointer, in which case a
// single object is decoded into it, or a func(*T) error, which is invoked once
// per object in the stream until EOF or ErrStop.
func Decode(path string, handler interface{}) (err error) {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "error opening %s", path)
	}
	defer errors.Defer(&err, f.Close)

	var r io.Reader = f
	ext := path
	if strings.HasSuffix(ext, ".gz") {
		ext = strings.TrimSuffix(ext, ".gz")
		gz, gerr := gzip.NewReader(r)
		if gerr != nil {
			return errors.Wrapf(gerr, "error decompressing %s", path)
		}
		defer errors.Defer(&err, gz.Close)
		r = gz
	}

	var d Decoder
	switch {
	case strings.HasSuffix(ext, ".json"):
		d = json.NewDecoder(r)
	case strings.HasSuffix(ext, ".gob"):
		d = gob.NewDecoder(r)
	default:
		return errors.New("no decoder for %s", path)
	}

	v := reflect.ValueOf(handler)
	if v.Kind() == reflect.Ptr {
		if derr := d.Decode(handler); derr != nil {
			return errors.Wrapf(derr, "error decoding %s", path)
		}
		return nil
	}
	if derr := decodeStream(d, v); derr != nil {
		return errors.Wrapf(derr, "error decoding %s", path)
	}
	return nil
}

// decodeStream feeds decoded objects to a func(*T) error handler until EOF.
func decodeStream(d Decoder, f reflect.Value) error {
	t := f.Type()
	if t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() > 1 ||
		t.In(0).Kind() != reflect.Ptr {
		return errors.New("handler must be a pointer or a func taking a pointer")
	}
	elem := t.In(0).Elem()
	for {
		obj := reflect.New(elem)
		err := d.Decode(obj.Interface())
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		ret := f.Call([]reflect.Value{obj})
		if len(ret) == 1 && !ret[0].IsNil() {
			herr := ret[0].Interface().(error)
			if herr == ErrStop {
				return nil
			}
			return herr
		}
	}
}
