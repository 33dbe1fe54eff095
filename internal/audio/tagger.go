package audio

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bogem/id3v2"
	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"

	"github.com/handiism/tidal-ripper/internal/model"
)

// ErrNotFLAC is returned when the audio payload is not a FLAC stream.
var ErrNotFLAC = errors.New("audio: payload is not a FLAC stream")

// Vorbis comment field names written by the Tagger.
const (
	FieldTitle       = "TITLE"
	FieldArtist      = "ARTIST"
	FieldAlbumArtist = "ALBUMARTIST"
	FieldAlbum       = "ALBUM"
	FieldDate        = "DATE"
	FieldDiscNumber  = "DISCNUMBER"
	FieldDiscTotal   = "DISCTOTAL"
	FieldTrackNumber = "TRACKNUMBER"
	FieldTrackTotal  = "TRACKTOTAL"
	FieldCopyright   = "COPYRIGHT"
	FieldISRC        = "ISRC"
	FieldUPC         = "UPC"
)

// CoverMIME is the declared type of embedded covers.
const CoverMIME = "image/jpeg"

// FrontCover is the picture type of embedded covers. The FLAC PICTURE block
// uses the ID3v2 APIC picture type codes, so front cover is 3 in both.
const FrontCover = flacpicture.PictureType(id3v2.PTFrontCover)

// TagEditAction defines how to handle individual tag fields.
type TagEditAction int

const (
	// TagModify replaces the field with the catalog value. Fields the
	// catalog does not provide are left as they are.
	TagModify TagEditAction = iota

	// TagEmpty removes the field.
	TagEmpty

	// TagDoNotModify leaves the existing field unchanged.
	TagDoNotModify
)

// TagConfig holds tagging configuration for each field.
//
// Example:
//
//	cfg := DefaultTagConfig()
//	cfg.Copyright = TagEmpty     // strip copyright lines
//	cfg.ISRC = TagDoNotModify    // keep whatever the stream carries
type TagConfig struct {
	// ModifyTags is a master switch. If false, no comment fields are touched.
	ModifyTags bool

	Title       TagEditAction
	Artist      TagEditAction
	AlbumArtist TagEditAction
	Album       TagEditAction
	Date        TagEditAction

	// DiscNumber controls DISCNUMBER and DISCTOTAL.
	DiscNumber TagEditAction

	// TrackNumber controls TRACKNUMBER and TRACKTOTAL.
	TrackNumber TagEditAction

	Copyright TagEditAction
	ISRC      TagEditAction
	UPC       TagEditAction

	// EmbedCover adds the cover as a front-cover picture block, replacing
	// any existing front cover.
	EmbedCover bool

	// CoverSize is the declared width and height of embedded covers.
	CoverSize int
}

// DefaultTagConfig returns the default tag configuration: every field is
// set from catalog data and a 640x640 cover is embedded.
func DefaultTagConfig() *TagConfig {
	return &TagConfig{
		ModifyTags: true,
		EmbedCover: true,
		CoverSize:  640,
	}
}

// Tagger writes Vorbis comments and cover pictures into FLAC payloads.
//
// Tagger works on in-memory bytes: the downloader hands it the raw stream
// and writes the returned bytes to disk, so a failed tag never leaves a
// partial file behind.
//
// Example:
//
//	tagger := NewTagger(DefaultTagConfig())
//	tagged, err := tagger.Tag(raw, track, album, cover)
type Tagger struct {
	config *TagConfig
}

// NewTagger creates a new Tagger with the given configuration.
// A nil config means DefaultTagConfig.
func NewTagger(config *TagConfig) *Tagger {
	if config == nil {
		config = DefaultTagConfig()
	}
	return &Tagger{config: config}
}

// Tag returns data with its metadata rewritten from track and album.
//
// cover may be nil, in which case no picture block is touched. The audio
// frames are carried over unchanged.
func (t *Tagger) Tag(data []byte, track *model.Track, album *model.Album, cover []byte) ([]byte, error) {
	f, err := flac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFLAC, err)
	}

	if t.config.ModifyTags {
		if err := t.updateComments(f, track, album); err != nil {
			return nil, err
		}
	}

	if t.config.EmbedCover && len(cover) > 0 {
		if err := t.updateCover(f, cover); err != nil {
			return nil, err
		}
	}

	return f.Marshal(), nil
}

type field struct {
	name   string
	action TagEditAction
	value  string
}

func (t *Tagger) fields(track *model.Track, album *model.Album) []field {
	cfg := t.config
	if album == nil {
		album = &model.Album{}
	}

	copyright := track.Copyright
	if copyright == "" {
		copyright = album.Copyright
	}

	return []field{
		{FieldTitle, cfg.Title, track.FullTitle()},
		{FieldArtist, cfg.Artist, track.ArtistName()},
		{FieldAlbumArtist, cfg.AlbumArtist, album.Artist},
		{FieldAlbum, cfg.Album, album.FullTitle()},
		{FieldDate, cfg.Date, positive(album.Year())},
		{FieldDiscNumber, cfg.DiscNumber, positive(track.VolumeNumber)},
		{FieldDiscTotal, cfg.DiscNumber, positive(album.NumberOfVolumes)},
		{FieldTrackNumber, cfg.TrackNumber, positive(track.TrackNumber)},
		{FieldTrackTotal, cfg.TrackNumber, positive(album.NumberOfTracks)},
		{FieldCopyright, cfg.Copyright, copyright},
		{FieldISRC, cfg.ISRC, track.ISRC},
		{FieldUPC, cfg.UPC, album.UPC},
	}
}

func (t *Tagger) updateComments(f *flac.File, track *model.Track, album *model.Album) error {
	cmts, idx, err := vorbisBlock(f)
	if err != nil {
		return err
	}

	for _, fl := range t.fields(track, album) {
		switch fl.action {
		case TagDoNotModify:
			continue
		case TagEmpty:
			cmts.Comments = dropField(cmts.Comments, fl.name)
		case TagModify:
			if fl.value == "" {
				continue
			}
			cmts.Comments = dropField(cmts.Comments, fl.name)
			if err := cmts.Add(fl.name, fl.value); err != nil {
				return fmt.Errorf("set %s: %w", fl.name, err)
			}
		}
	}

	block := cmts.Marshal()
	if idx >= 0 {
		f.Meta[idx] = &block
	} else {
		f.Meta = append(f.Meta, &block)
	}
	return nil
}

func (t *Tagger) updateCover(f *flac.File, cover []byte) error {
	meta := f.Meta[:0]
	for _, m := range f.Meta {
		if m.Type == flac.Picture {
			pic, err := flacpicture.ParseFromMetaDataBlock(*m)
			if err == nil && pic.PictureType == FrontCover {
				continue
			}
		}
		meta = append(meta, m)
	}
	f.Meta = meta

	pic := &flacpicture.MetadataBlockPicture{
		PictureType: FrontCover,
		MIME:        CoverMIME,
		Description: "Front Cover",
		Width:       uint32(t.config.CoverSize),
		Height:      uint32(t.config.CoverSize),
		ColorDepth:  24,
		ImageData:   cover,
	}
	block := pic.Marshal()
	f.Meta = append(f.Meta, &block)
	return nil
}

// vorbisBlock returns the existing comment block and its index, or a new
// block and -1.
func vorbisBlock(f *flac.File) (*flacvorbis.MetaDataBlockVorbisComment, int, error) {
	for i, m := range f.Meta {
		if m.Type != flac.VorbisComment {
			continue
		}
		cmts, err := flacvorbis.ParseFromMetaDataBlock(*m)
		if err != nil {
			return nil, 0, fmt.Errorf("parse vorbis comments: %w", err)
		}
		return cmts, i, nil
	}
	return flacvorbis.New(), -1, nil
}

// dropField removes every NAME=value entry for name, case-insensitively.
func dropField(comments []string, name string) []string {
	kept := comments[:0]
	for _, c := range comments {
		key, _, _ := strings.Cut(c, "=")
		if !strings.EqualFold(key, name) {
			kept = append(kept, c)
		}
	}
	return kept
}

func positive(n int) string {
	if n <= 0 {
		return ""
	}
	return strconv.Itoa(n)
}
