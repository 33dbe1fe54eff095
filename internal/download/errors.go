package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"

	"github.com/handiism/tidal-ripper/internal/audio"
	"github.com/handiism/tidal-ripper/internal/tidal"
)

var (
	// ErrUnavailableQuality means the track is not offered as lossless audio.
	ErrUnavailableQuality = errors.New("not available in lossless quality")

	// ErrRegionRestricted means the catalog refused the item for this account
	// or country.
	ErrRegionRestricted = errors.New("not available in this region")

	// ErrConnectivity means the transport failed.
	ErrConnectivity = errors.New("connection failed")

	// ErrFileAccess means the destination could not be written.
	ErrFileAccess = errors.New("destination not writable")
)

// Kind classifies download failures.
type Kind int

const (
	KindGeneric Kind = iota
	KindUnavailableQuality
	KindRegionRestricted
	KindConnectivity
	KindFileAccess
)

func (k Kind) String() string {
	switch k {
	case KindUnavailableQuality:
		return "unavailable_quality"
	case KindRegionRestricted:
		return "region_restricted"
	case KindConnectivity:
		return "connectivity"
	case KindFileAccess:
		return "file_access"
	default:
		return "generic"
	}
}

// Classify maps an error chain onto a Kind. Package sentinels win over the
// errors they were derived from.
func Classify(err error) Kind {
	var (
		pathErr *fs.PathError
		urlErr  *url.Error
		netErr  net.Error
	)

	switch {
	case err == nil:
		return KindGeneric
	case errors.Is(err, ErrUnavailableQuality),
		errors.Is(err, audio.ErrNotFLAC),
		errors.Is(err, tidal.ErrQualityDowngraded):
		return KindUnavailableQuality
	case errors.Is(err, ErrRegionRestricted),
		errors.Is(err, tidal.ErrUnauthorized):
		return KindRegionRestricted
	case errors.Is(err, ErrFileAccess):
		return KindFileAccess
	case errors.Is(err, ErrConnectivity),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &urlErr),
		errors.As(err, &netErr):
		return KindConnectivity
	case errors.As(err, &pathErr),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, fs.ErrExist):
		return KindFileAccess
	default:
		return KindGeneric
	}
}

// Skippable reports whether a track failing with err may be skipped while
// the rest of its album or playlist continues.
func Skippable(err error) bool {
	switch Classify(err) {
	case KindUnavailableQuality, KindRegionRestricted:
		return true
	default:
		return false
	}
}

// Diagnostic renders err as a one-line message for the user.
func Diagnostic(err error) string {
	switch Classify(err) {
	case KindUnavailableQuality:
		return "This track is not available in lossless quality, abandoning"
	case KindRegionRestricted:
		return fmt.Sprintf("This item is not available in your region: %v", err)
	case KindConnectivity:
		return fmt.Sprintf("Connection problem: %v", err)
	case KindFileAccess:
		return fmt.Sprintf("Cannot write to destination (is the file open elsewhere?): %v", err)
	default:
		return fmt.Sprintf("Error occurred: %v", err)
	}
}
