package tidal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
	"github.com/tidwall/gjson"

	rhttp "github.com/handiism/tidal-ripper/internal/http"
	"github.com/handiism/tidal-ripper/internal/model"
	"github.com/handiism/tidal-ripper/internal/tidal/dto"
)

const (
	// DefaultBaseURL is the legacy v1 API root.
	DefaultBaseURL = "https://api.tidalhifi.com/v1"

	// DefaultToken is the client token sent with the login request.
	DefaultToken = "wdgaB1CilGA-S_s2"

	// QualityLossless requests 16-bit/44.1kHz FLAC streams.
	QualityLossless = "LOSSLESS"

	// DefaultImageURL is the image service root.
	DefaultImageURL = "https://resources.tidal.com/images"

	sessionHeader = "X-Tidal-SessionId"
	pageSize      = 100
)

var (
	// ErrUnauthorized is returned for 401 answers. The catalog uses it for
	// bad credentials and for items not licensed in the session's country.
	ErrUnauthorized = errors.New("tidal: unauthorized")

	// ErrNotFound is returned for 404 answers.
	ErrNotFound = errors.New("tidal: not found")

	// ErrNotLoggedIn is returned when a lookup runs before Login.
	ErrNotLoggedIn = errors.New("tidal: not logged in")

	// ErrUnsupportedField is returned by Search for unknown fields.
	ErrUnsupportedField = errors.New("tidal: unsupported search field")

	// ErrQualityDowngraded is returned when the catalog serves a lower
	// quality than requested.
	ErrQualityDowngraded = errors.New("tidal: requested quality not available")
)

// Config holds the catalog client settings.
type Config struct {
	// BaseURL is the API root. Defaults to DefaultBaseURL.
	BaseURL string

	// Token is the application token sent on login. Defaults to DefaultToken.
	Token string

	// Quality is the requested sound quality. Defaults to QualityLossless.
	Quality string

	// CountryCode overrides the country reported by the login response.
	CountryCode string

	// CoverSize is the edge length of requested cover images. Defaults to 640.
	CoverSize int

	// ImageURL is the image service root. Defaults to DefaultImageURL.
	ImageURL string
}

// Session is the state returned by a successful login.
type Session struct {
	ID          string
	UserID      string
	CountryCode string
}

// Client talks to the catalog service.
//
// A Client must be logged in before any lookup. After login it is safe for
// concurrent use.
//
// Example usage:
//
//	client := tidal.NewClient(rhttp.NewClient(0), tidal.Config{})
//	if err := client.Login(ctx, user, password); err != nil {
//	    return err
//	}
//	album, err := client.GetAlbum(ctx, "79915001")
type Client struct {
	http *rhttp.Client
	cfg  Config

	mu      sync.RWMutex
	session Session
}

// NewClient creates a catalog client. Zero config fields take their defaults.
func NewClient(httpClient *rhttp.Client, cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Token == "" {
		cfg.Token = DefaultToken
	}
	if cfg.Quality == "" {
		cfg.Quality = QualityLossless
	}
	if cfg.ImageURL == "" {
		cfg.ImageURL = DefaultImageURL
	}
	cfg.ImageURL = strings.TrimRight(cfg.ImageURL, "/")
	if cfg.CoverSize <= 0 {
		cfg.CoverSize = 640
	}
	return &Client{http: httpClient, cfg: cfg}
}

// Login opens a session with username and password.
func (c *Client) Login(ctx context.Context, username, password string) error {
	form := url.Values{"username": {username}, "password": {password}}
	body, err := c.http.PostForm(ctx, c.cfg.BaseURL+"/login/username", form,
		rhttp.WithQuery(url.Values{"token": {c.cfg.Token}}))
	if err != nil {
		return fmt.Errorf("login: %w", mapError(err))
	}

	res := gjson.ParseBytes(body)
	session := Session{
		ID:          res.Get("sessionId").String(),
		UserID:      res.Get("userId").String(),
		CountryCode: res.Get("countryCode").String(),
	}
	if session.ID == "" {
		return fmt.Errorf("login: %w: response carries no session", ErrUnauthorized)
	}
	if c.cfg.CountryCode != "" {
		session.CountryCode = c.cfg.CountryCode
	}

	c.mu.Lock()
	c.session = session
	c.mu.Unlock()
	return nil
}

// Session returns the current session.
func (c *Client) Session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.session
}

// Search returns the tracks matching query. Only the "track" field is
// supported.
func (c *Client) Search(ctx context.Context, field, query string, limit int) ([]*model.Track, error) {
	if field != "track" {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedField, field)
	}
	if limit <= 0 {
		limit = 25
	}

	var page dto.JSONPage[dto.JSONTrack]
	params := url.Values{"query": {query}, "limit": {strconv.Itoa(limit)}}
	if err := c.get(ctx, "/search/tracks", params, &page); err != nil {
		return nil, err
	}
	return toTracks(page.Items), nil
}

// GetTrack looks up a single track.
func (c *Client) GetTrack(ctx context.Context, id string) (*model.Track, error) {
	var jt dto.JSONTrack
	if err := c.get(ctx, "/tracks/"+url.PathEscape(id), nil, &jt); err != nil {
		return nil, err
	}
	return jt.ToTrack(), nil
}

// GetAlbum looks up a full album.
func (c *Client) GetAlbum(ctx context.Context, id string) (*model.Album, error) {
	var ja dto.JSONAlbum
	if err := c.get(ctx, "/albums/"+url.PathEscape(id), nil, &ja); err != nil {
		return nil, err
	}
	return ja.ToAlbum(), nil
}

// GetAlbumTracks returns every track of an album in catalog order.
func (c *Client) GetAlbumTracks(ctx context.Context, id string) ([]*model.Track, error) {
	items, err := c.getAll(ctx, "/albums/"+url.PathEscape(id)+"/tracks")
	if err != nil {
		return nil, err
	}
	return toTracks(items), nil
}

// GetPlaylist looks up a playlist descriptor.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*model.Playlist, error) {
	var jp dto.JSONPlaylist
	if err := c.get(ctx, "/playlists/"+url.PathEscape(id), nil, &jp); err != nil {
		return nil, err
	}
	return jp.ToPlaylist(), nil
}

// GetPlaylistTracks returns every track of a playlist in playlist order.
func (c *Client) GetPlaylistTracks(ctx context.Context, id string) ([]*model.Track, error) {
	items, err := c.getAll(ctx, "/playlists/"+url.PathEscape(id)+"/tracks")
	if err != nil {
		return nil, err
	}
	return toTracks(items), nil
}

// GetMediaURL resolves the stream URL of a track at the configured quality.
func (c *Client) GetMediaURL(ctx context.Context, trackID string) (string, error) {
	body, err := c.getRaw(ctx, "/tracks/"+url.PathEscape(trackID)+"/streamUrl",
		url.Values{"soundQuality": {c.cfg.Quality}})
	if err != nil {
		return "", err
	}

	res := gjson.ParseBytes(body)
	mediaURL := res.Get("url").String()
	if mediaURL == "" {
		return "", fmt.Errorf("track %s: stream url missing from response", trackID)
	}
	if q := res.Get("soundQuality").String(); q != "" && q != c.cfg.Quality {
		return "", fmt.Errorf("%w: track %s served as %s", ErrQualityDowngraded, trackID, q)
	}
	return mediaURL, nil
}

// CoverURL returns the image URL of an album cover, or "" without artwork.
func (c *Client) CoverURL(album *model.Album) string {
	if album == nil || !album.HasArtwork() {
		return ""
	}
	return fmt.Sprintf("%s/%s/%dx%d.jpg", c.cfg.ImageURL,
		strings.ReplaceAll(album.CoverID, "-", "/"), c.cfg.CoverSize, c.cfg.CoverSize)
}

// GetCover downloads the album cover. It returns nil, nil when the album
// has no artwork.
func (c *Client) GetCover(ctx context.Context, album *model.Album) ([]byte, error) {
	coverURL := c.CoverURL(album)
	if coverURL == "" {
		return nil, nil
	}
	data, err := c.http.Get(ctx, coverURL)
	if err != nil {
		return nil, fmt.Errorf("cover %s: %w", album.CoverID, mapError(err))
	}
	return data, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, v any) error {
	body, err := c.getRaw(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) getRaw(ctx context.Context, path string, params url.Values) ([]byte, error) {
	session := c.Session()
	if session.ID == "" {
		return nil, ErrNotLoggedIn
	}

	query := url.Values{"countryCode": {session.CountryCode}}
	for k, vs := range params {
		query[k] = vs
	}

	body, err := c.http.Get(ctx, c.cfg.BaseURL+path,
		rhttp.WithQuery(query),
		rhttp.WithHeader(sessionHeader, session.ID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, mapError(err))
	}
	return body, nil
}

// getAll walks a paged listing until totalNumberOfItems is reached.
func (c *Client) getAll(ctx context.Context, path string) ([]dto.JSONTrack, error) {
	var items []dto.JSONTrack
	for offset := 0; ; {
		var page dto.JSONPage[dto.JSONTrack]
		params := url.Values{"limit": {strconv.Itoa(pageSize)}, "offset": {strconv.Itoa(offset)}}
		if err := c.get(ctx, path, params, &page); err != nil {
			return nil, err
		}

		items = append(items, page.Items...)
		offset += len(page.Items)
		if len(page.Items) == 0 || offset >= page.TotalNumberOfItems {
			return items, nil
		}
	}
}

func toTracks(items []dto.JSONTrack) []*model.Track {
	return lo.Map(items, func(jt dto.JSONTrack, _ int) *model.Track { return jt.ToTrack() })
}

// mapError turns HTTP status errors into the package sentinels, keeping the
// API's user message.
func mapError(err error) error {
	var se *rhttp.StatusError
	if !errors.As(err, &se) {
		return err
	}

	msg := gjson.GetBytes(se.Body, "userMessage").String()
	if msg == "" {
		msg = se.Status
	}

	switch se.StatusCode {
	case 401, 403:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case 404:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	default:
		return fmt.Errorf("%w: %s", err, msg)
	}
}
