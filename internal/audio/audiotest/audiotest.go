// Package audiotest builds and inspects FLAC payloads for tests.
package audiotest

import (
	"bytes"
	"strings"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
)

// Frames is the audio payload following the metadata of FLAC streams built
// by this package. It starts with a frame sync code.
var Frames = []byte{0xFF, 0xF8, 0xC9, 0x18, 0x00, 0x00, 0xAB, 0xCD, 0xEF}

// streamInfo is a STREAMINFO body: 4096-sample blocks, 44.1kHz, stereo,
// 16 bits per sample, unknown sample count, zero MD5.
var streamInfo = []byte{
	0x10, 0x00, 0x10, 0x00, // min/max block size
	0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // min/max frame size
	0x0A, 0xC4, 0x42, 0xF0, 0x00, 0x00, 0x00, 0x00, // rate, channels, bps, samples
	0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, // MD5
}

// FLAC returns a minimal FLAC stream. Each comment is a NAME=value entry
// placed in a Vorbis comment block; with none, no comment block is written.
func FLAC(comments ...string) []byte {
	f := &flac.File{
		Meta:   []*flac.MetaDataBlock{{Type: flac.StreamInfo, Data: append([]byte(nil), streamInfo...)}},
		Frames: append([]byte(nil), Frames...),
	}
	if len(comments) > 0 {
		cmts := flacvorbis.New()
		cmts.Comments = append(cmts.Comments, comments...)
		block := cmts.Marshal()
		f.Meta = append(f.Meta, &block)
	}
	return f.Marshal()
}

// Picture is a decoded picture block.
type Picture struct {
	Type   uint32
	MIME   string
	Width  uint32
	Height uint32
	Data   []byte
}

// Info is what Inspect found in a FLAC stream.
type Info struct {
	Comments map[string][]string
	Pictures []Picture
	Frames   []byte
}

// Get returns the first value of a comment field, or "".
func (i *Info) Get(name string) string {
	if vs := i.Comments[strings.ToUpper(name)]; len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Has reports whether the comment field is present.
func (i *Info) Has(name string) bool {
	return len(i.Comments[strings.ToUpper(name)]) > 0
}

// Inspect parses a FLAC stream and returns its comments and pictures.
// Comment names are upper-cased.
func Inspect(data []byte) (*Info, error) {
	f, err := flac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	info := &Info{Comments: map[string][]string{}, Frames: f.Frames}
	for _, m := range f.Meta {
		switch m.Type {
		case flac.VorbisComment:
			cmts, err := flacvorbis.ParseFromMetaDataBlock(*m)
			if err != nil {
				return nil, err
			}
			for _, c := range cmts.Comments {
				k, v, _ := strings.Cut(c, "=")
				k = strings.ToUpper(k)
				info.Comments[k] = append(info.Comments[k], v)
			}
		case flac.Picture:
			pic, err := flacpicture.ParseFromMetaDataBlock(*m)
			if err != nil {
				return nil, err
			}
			info.Pictures = append(info.Pictures, Picture{
				Type:   uint32(pic.PictureType),
				MIME:   pic.MIME,
				Width:  pic.Width,
				Height: pic.Height,
				Data:   pic.ImageData,
			})
		}
	}
	return info, nil
}
