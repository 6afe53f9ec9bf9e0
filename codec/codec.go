// Package codec encodes and decodes JSON driven by contracts.
//
// The contract decides which members exist, their wire names and order,
// which constructor builds a value, where unmatched members go and which
// concrete type an interface value decodes to. Tokens are read and written
// with jsontext; scalar values are delegated to the json package.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/go-json-experiment/json/jsontext"

	"typecontract/contract"
)

// Marshal encodes v using the contract of its static type T, so an
// interface-typed T is encoded polymorphically.
func Marshal[T any](opts *contract.Options, v T) ([]byte, error) {
	var buf bytes.Buffer

	if err := MarshalWrite(&buf, opts, v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// MarshalWrite encodes v to w.
func MarshalWrite[T any](w io.Writer, opts *contract.Options, v T) error {
	c, err := contract.For[T](opts)
	if err != nil {
		return err
	}

	e := &encoder{enc: jsontext.NewEncoder(w)}

	return e.value(reflect.ValueOf(&v).Elem(), c, 0)
}

// Unmarshal decodes data into v using the contract of T.
func Unmarshal[T any](opts *contract.Options, data []byte, v *T) error {
	return UnmarshalRead(bytes.NewReader(data), opts, v)
}

// UnmarshalRead decodes a single JSON value from r into v.
func UnmarshalRead[T any](r io.Reader, opts *contract.Options, v *T) error {
	if v == nil {
		return fmt.Errorf("codec: Unmarshal(nil %T)", v)
	}

	c, err := contract.For[T](opts)
	if err != nil {
		return err
	}

	d := &decoder{dec: jsontext.NewDecoder(r)}

	if err := d.value(reflect.ValueOf(v).Elem(), c, 0); err != nil {
		return err
	}

	if _, err := d.dec.ReadToken(); !errors.Is(err, io.EOF) {
		if err == nil {
			return fmt.Errorf("codec: unexpected data after top-level value")
		}

		return err
	}

	return nil
}
