// Tidal API implementation of [Catalog]
//
// Response types based on the Tidal v1 API as exercised by the desktop and
// web clients.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/desertthunder/aria/internal/models"
	"github.com/desertthunder/aria/internal/shared"
	"golang.org/x/oauth2"
)

const (
	tidalAuthURL  = "https://login.tidal.com/authorize"
	tidalTokenURL = "https://auth.tidal.com/v1/oauth2/token"
	tidalBaseURL  = "https://api.tidal.com/v1"
)

// TidalArtist represents an artist reference in Tidal responses.
type TidalArtist struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TidalAlbum represents a Tidal album.
type TidalAlbum struct {
	ID          int           `json:"id"`
	Title       string        `json:"title"`
	Artist      *TidalArtist  `json:"artist"`
	Artists     []TidalArtist `json:"artists"`
	ReleaseDate string        `json:"releaseDate"`
	NumTracks   int           `json:"numberOfTracks"`
}

// TidalTrack represents a Tidal track.
type TidalTrack struct {
	ID     int          `json:"id"`
	Title  string       `json:"title"`
	Album  *TidalAlbum  `json:"album"`
	Artist *TidalArtist `json:"artist"`
}

// TidalPlaylist represents a Tidal playlist.
type TidalPlaylist struct {
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	NumTracks   int    `json:"numberOfTracks"`
	Public      bool   `json:"publicPlaylist"`
}

type tidalPage[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalNumberOfItems"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
}

type tidalSession struct {
	UserID      int    `json:"userId"`
	SessionID   string `json:"sessionId"`
	CountryCode string `json:"countryCode"`
}

// TidalService implements the Catalog interface against the Tidal v1 API.
// Uses [oauth2] for authentication with automatic token refresh.
type TidalService struct {
	config      *oauth2.Config
	token       *oauth2.Token
	httpClient  *http.Client
	baseURL     string
	userID      int
	countryCode string
}

// NewTidalService creates a new Tidal service with the given OAuth2 credentials.
func NewTidalService(clientID, clientSecret, redirectURI string) (*TidalService, error) {
	if clientID == "" || clientSecret == "" {
		return nil, fmt.Errorf("%w: tidal client_id and client_secret required", shared.ErrMissingCredentials)
	}
	if redirectURI == "" {
		redirectURI = "http://localhost:8080/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes:       []string{"r_usr", "w_usr"},
		Endpoint: oauth2.Endpoint{
			AuthURL:  tidalAuthURL,
			TokenURL: tidalTokenURL,
		},
	}

	return &TidalService{
		config:     config,
		httpClient: http.DefaultClient,
		baseURL:    tidalBaseURL,
	}, nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (s *TidalService) SetBaseURL(u string) { s.baseURL = u }

// OAuthConfig exposes the OAuth2 config for the callback server.
func (s *TidalService) OAuthConfig() *oauth2.Config { return s.config }

// AuthURL returns the OAuth2 authorization URL for user login.
func (s *TidalService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange trades an authorization code for a token and installs it.
func (s *TidalService) Exchange(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}
	s.UseToken(ctx, token)
	return token, nil
}

// UseToken installs a previously obtained token. The underlying client
// refreshes it transparently when it expires.
func (s *TidalService) UseToken(ctx context.Context, token *oauth2.Token) {
	s.token = token
	s.httpClient = s.config.Client(ctx, token)
}

// LoadToken reads a persisted token from path and installs it.
func (s *TidalService) LoadToken(ctx context.Context, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("%w: no saved token at %s", shared.ErrNotAuthenticated, path)
	}

	var token oauth2.Token
	if err := json.Unmarshal(data, &token); err != nil {
		return fmt.Errorf("%w: corrupt token file: %v", shared.ErrNotAuthenticated, err)
	}

	s.UseToken(ctx, &token)
	return nil
}

// SaveToken persists a token to path with owner-only permissions.
func (s *TidalService) SaveToken(path string, token *oauth2.Token) error {
	data, err := json.MarshalIndent(token, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create token directory: %w", err)
		}
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write token: %w", err)
	}

	return nil
}

// EstablishSession verifies the token against /sessions and captures the
// user ID and country code every subsequent call needs.
//
// This is the only fatal boundary in a run: callers abort before any
// mutation when it fails.
func (s *TidalService) EstablishSession(ctx context.Context) error {
	if s.token == nil {
		return shared.ErrNotAuthenticated
	}

	var session tidalSession
	if err := s.doRequest(ctx, http.MethodGet, "/sessions", nil, &session); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.userID = session.UserID
	s.countryCode = session.CountryCode
	if s.countryCode == "" {
		s.countryCode = "US"
	}

	return nil
}

// doRequest performs an authenticated HTTP request to the Tidal API.
func (s *TidalService) doRequest(ctx context.Context, method, endpoint string, body url.Values, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call EstablishSession first", shared.ErrNotAuthenticated)
	}

	apiURL := s.baseURL + endpoint

	var req *http.Request
	var err error

	if body != nil {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, strings.NewReader(body.Encode()))
		if err == nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	} else {
		req, err = http.NewRequestWithContext(ctx, method, apiURL, nil)
	}
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrAlbumNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			UserMessage string `json:"userMessage"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.UserMessage != "" {
			return fmt.Errorf("tidal API error (status %d): %s", resp.StatusCode, errResp.UserMessage)
		}
		return fmt.Errorf("tidal API error: status %d", resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// SearchAlbums queries /search/albums and maps the results.
func (s *TidalService) SearchAlbums(ctx context.Context, query string, limit int) ([]models.CatalogAlbum, error) {
	if limit <= 0 {
		limit = 5
	}

	endpoint := fmt.Sprintf("/search/albums?query=%s&limit=%d&countryCode=%s",
		url.QueryEscape(query), limit, s.countryCode)

	var response struct {
		Albums tidalPage[TidalAlbum] `json:"albums"`
	}
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	albums := make([]models.CatalogAlbum, 0, len(response.Albums.Items))
	for _, ta := range response.Albums.Items {
		albums = append(albums, mapAlbum(ta))
	}

	return albums, nil
}

// Album retrieves a single album by ID.
func (s *TidalService) Album(ctx context.Context, albumID string) (*models.CatalogAlbum, error) {
	endpoint := fmt.Sprintf("/albums/%s?countryCode=%s", url.PathEscape(albumID), s.countryCode)

	var ta TidalAlbum
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &ta); err != nil {
		return nil, err
	}

	album := mapAlbum(ta)
	return &album, nil
}

// AlbumTracks retrieves the track IDs of an album via /albums/{id}/tracks.
func (s *TidalService) AlbumTracks(ctx context.Context, albumID string) ([]string, error) {
	endpoint := fmt.Sprintf("/albums/%s/tracks?countryCode=%s", url.PathEscape(albumID), s.countryCode)

	var response tidalPage[TidalTrack]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(response.Items))
	for _, track := range response.Items {
		ids = append(ids, strconv.Itoa(track.ID))
	}

	return ids, nil
}

// AddFavoriteAlbum marks an album as a user favorite.
func (s *TidalService) AddFavoriteAlbum(ctx context.Context, albumID string) error {
	endpoint := fmt.Sprintf("/users/%d/favorites/albums?countryCode=%s", s.userID, s.countryCode)
	form := url.Values{"albumId": {albumID}}
	return s.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

// Playlists retrieves all of the user's playlists, following pagination.
func (s *TidalService) Playlists(ctx context.Context) ([]models.Playlist, error) {
	var all []models.Playlist
	limit := 50
	offset := 0

	for {
		endpoint := fmt.Sprintf("/users/%d/playlists?limit=%d&offset=%d&countryCode=%s",
			s.userID, limit, offset, s.countryCode)

		var response tidalPage[TidalPlaylist]
		if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
			return nil, err
		}

		for _, tp := range response.Items {
			all = append(all, mapPlaylist(tp))
		}

		offset += limit
		if offset >= response.TotalItems || len(response.Items) == 0 {
			break
		}
	}

	return all, nil
}

// CreatePlaylist creates a private playlist for the user.
func (s *TidalService) CreatePlaylist(ctx context.Context, name, description string) (*models.Playlist, error) {
	endpoint := fmt.Sprintf("/users/%d/playlists?countryCode=%s", s.userID, s.countryCode)
	form := url.Values{"title": {name}, "description": {description}}

	var created TidalPlaylist
	if err := s.doRequest(ctx, http.MethodPost, endpoint, form, &created); err != nil {
		return nil, err
	}

	pl := mapPlaylist(created)
	return &pl, nil
}

// AddPlaylistTracks appends tracks to a playlist.
func (s *TidalService) AddPlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/items?countryCode=%s", url.PathEscape(playlistID), s.countryCode)
	form := url.Values{
		"trackIds": {strings.Join(trackIDs, ",")},
		"toIndex":  {"-1"},
		"onDupes":  {"SKIP"},
	}
	return s.doRequest(ctx, http.MethodPost, endpoint, form, nil)
}

// RemovePlaylistTracks removes tracks from a playlist. IDs not present in
// the playlist are ignored by the API.
func (s *TidalService) RemovePlaylistTracks(ctx context.Context, playlistID string, trackIDs []string) error {
	if len(trackIDs) == 0 {
		return nil
	}

	endpoint := fmt.Sprintf("/playlists/%s/tracks?trackIds=%s&countryCode=%s",
		url.PathEscape(playlistID), url.QueryEscape(strings.Join(trackIDs, ",")), s.countryCode)
	return s.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// PlaylistItems lists the playlist's tracks with their album IDs.
func (s *TidalService) PlaylistItems(ctx context.Context, playlistID string) ([]models.PlaylistItem, error) {
	endpoint := fmt.Sprintf("/playlists/%s/tracks?limit=500&countryCode=%s",
		url.PathEscape(playlistID), s.countryCode)

	var response tidalPage[TidalTrack]
	if err := s.doRequest(ctx, http.MethodGet, endpoint, nil, &response); err != nil {
		return nil, err
	}

	items := make([]models.PlaylistItem, 0, len(response.Items))
	for _, track := range response.Items {
		item := models.PlaylistItem{TrackID: strconv.Itoa(track.ID)}
		if track.Album != nil {
			item.AlbumID = strconv.Itoa(track.Album.ID)
		}
		items = append(items, item)
	}

	return items, nil
}

func mapAlbum(ta TidalAlbum) models.CatalogAlbum {
	album := models.CatalogAlbum{
		ID:    strconv.Itoa(ta.ID),
		Title: ta.Title,
	}
	if ta.Artist != nil {
		album.ArtistName = ta.Artist.Name
	} else if len(ta.Artists) > 0 {
		album.ArtistName = ta.Artists[0].Name
	}
	return album
}

func mapPlaylist(tp TidalPlaylist) models.Playlist {
	return models.Playlist{
		ID:          tp.UUID,
		Name:        tp.Title,
		Description: tp.Description,
		TrackCount:  tp.NumTracks,
		Public:      tp.Public,
	}
}
