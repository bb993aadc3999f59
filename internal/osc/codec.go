package osc

import (
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Encode serializes m into the OSC 1.0 binary wire format. The result is
// always a multiple of 4 bytes long.
func Encode(m Message) ([]byte, error) {
	buf := make([]byte, 0, 32+len(m.Args)*8)

	buf = appendOSCString(buf, m.Address)
	buf = appendOSCString(buf, m.TypeTags())

	for _, a := range m.Args {
		switch a.Kind {
		case ArgInt:
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], uint32(a.I))
			buf = append(buf, tmp[:]...)
		case ArgFloat:
			var tmp [4]byte
			binary.BigEndian.PutUint32(tmp[:], math.Float32bits(a.F))
			buf = append(buf, tmp[:]...)
		case ArgString:
			buf = appendOSCString(buf, a.S)
		case ArgBlob:
			buf = appendOSCBlob(buf, a.Blob)
		default:
			return nil, errUnsupportedTypeTag(0)
		}
	}

	return buf, nil
}

// appendOSCString appends an OSC string: UTF-8 bytes, a terminating NUL,
// and enough padding NULs to reach a 4-byte boundary.
func appendOSCString(buf []byte, s string) []byte {
	buf = append(buf, s...)
	buf = append(buf, 0)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// appendOSCBlob appends an OSC blob: a 32-bit big-endian length, the raw
// bytes, and zero-padding to a 4-byte boundary.
func appendOSCBlob(buf []byte, data []byte) []byte {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], uint32(len(data)))
	buf = append(buf, tmp[:]...)
	buf = append(buf, data...)
	for len(buf)%4 != 0 {
		buf = append(buf, 0)
	}
	return buf
}

// Decode parses raw OSC 1.0 binary wire bytes into a Message.
func Decode(data []byte) (Message, error) {
	d := decoder{buf: data}

	address, err := d.readString()
	if err != nil {
		return Message{}, err
	}

	tags, err := d.readString()
	if err != nil {
		return Message{}, err
	}
	if len(tags) == 0 || tags[0] != ',' {
		return Message{}, errInvalidTypeTag()
	}

	args := make([]Arg, 0, len(tags)-1)
	for i := 1; i < len(tags); i++ {
		switch tags[i] {
		case 'i':
			v, err := d.readInt32()
			if err != nil {
				return Message{}, err
			}
			args = append(args, Int(v))
		case 'f':
			v, err := d.readFloat32()
			if err != nil {
				return Message{}, err
			}
			args = append(args, Float(v))
		case 's':
			v, err := d.readString()
			if err != nil {
				return Message{}, err
			}
			args = append(args, Str(v))
		case 'b':
			v, err := d.readBlob()
			if err != nil {
				return Message{}, err
			}
			args = append(args, Blob(v))
		default:
			return Message{}, errUnsupportedTypeTag(tags[i])
		}
	}

	return Message{Address: address, Args: args}, nil
}

type decoder struct {
	buf []byte
	pos int
}

func (d *decoder) readString() (string, error) {
	start := d.pos
	for {
		if d.pos >= len(d.buf) {
			return "", errIO(errShortRead)
		}
		if d.buf[d.pos] == 0 {
			break
		}
		d.pos++
	}
	raw := d.buf[start:d.pos]
	if !utf8.Valid(raw) {
		return "", errUTF8(errInvalidUTF8)
	}
	s := string(raw)

	// Consume the NUL terminator and padding up to a 4-byte boundary,
	// measured from the start of the string.
	strLen := d.pos - start
	total := ((strLen / 4) + 1) * 4
	end := start + total
	if end > len(d.buf) {
		return "", errIO(errShortRead)
	}
	d.pos = end
	return s, nil
}

func (d *decoder) readInt32() (int32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, errIO(errShortRead)
	}
	v := int32(binary.BigEndian.Uint32(d.buf[d.pos : d.pos+4]))
	d.pos += 4
	return v, nil
}

func (d *decoder) readFloat32() (float32, error) {
	if d.pos+4 > len(d.buf) {
		return 0, errIO(errShortRead)
	}
	v := math.Float32frombits(binary.BigEndian.Uint32(d.buf[d.pos : d.pos+4]))
	d.pos += 4
	return v, nil
}

func (d *decoder) readBlob() ([]byte, error) {
	n, err := d.readInt32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, errParse("negative blob length")
	}
	length := int(n)
	if d.pos+length > len(d.buf) {
		return nil, errIO(errShortRead)
	}
	data := make([]byte, length)
	copy(data, d.buf[d.pos:d.pos+length])
	d.pos += length

	padded := ((length / 4) + 1) * 4
	if length%4 == 0 {
		padded = length
	}
	advance := padded - length
	if d.pos+advance > len(d.buf) {
		return nil, errIO(errShortRead)
	}
	d.pos += advance

	return data, nil
}
