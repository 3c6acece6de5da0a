// Netease music catalog implementation of [Service]
//
// Search and link resolution go through a third-party aggregator; lyrics
// come straight from the music.163.com lyric API. Cover art URLs are not
// returned by either upstream and have to be derived from the picture id
// with the catalog's XOR/MD5/base64 obfuscation scheme.
package services

import (
	"context"
	"crypto/md5"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/shared"
)

const (
	defaultNeteaseAPIURL   = "https://music-api.gdstudio.xyz/api.php"
	defaultNeteaseLyricURL = "https://music.163.com/api/song/lyric"

	neteaseImageHost = "http://p1.music.126.net"
	neteasePicKey    = "3go8&$8*3*3h0k(2)2"

	neteaseArtistSeparator = " & "
	neteaseDefaultBitrate  = "999"
)

// NeteaseService implements [Service] for the Netease catalog.
type NeteaseService struct {
	httpClient *http.Client
	apiURL     string
	lyricURL   string
}

// NewNeteaseService creates a Netease catalog service. A nil client gets
// the default timeout-bounded one.
func NewNeteaseService(client *http.Client) *NeteaseService {
	return &NeteaseService{
		httpClient: newHTTPClient(client),
		apiURL:     defaultNeteaseAPIURL,
		lyricURL:   defaultNeteaseLyricURL,
	}
}

// Name returns the source key.
func (s *NeteaseService) Name() string {
	return "netease"
}

// neteaseSong is one row of an aggregator search response.
type neteaseSong struct {
	ID     int64    `json:"id"`
	Name   string   `json:"name"`
	Artist []string `json:"artist"`
	PicID  string   `json:"pic_id"`
}

// Search queries the aggregator and reshapes its rows.
func (s *NeteaseService) Search(ctx context.Context, keyword string) ([]models.Track, error) {
	query := url.Values{}
	query.Set("types", "search")
	query.Set("count", "10")
	query.Set("pages", "1")
	query.Set("source", "netease")
	query.Set("name", keyword)

	var songs []neteaseSong
	if err := s.getJSON(ctx, s.apiURL+"?"+query.Encode(), nil, &songs); err != nil {
		return nil, err
	}

	tracks := make([]models.Track, 0, len(songs))
	for _, song := range songs {
		tracks = append(tracks, models.Track{
			ID:       strconv.FormatInt(song.ID, 10),
			Name:     song.Name,
			Artist:   strings.Join(song.Artist, neteaseArtistSeparator),
			CoverURL: neteaseCoverURL(song.PicID),
		})
	}

	return tracks, nil
}

// ResolveLink asks the aggregator for a playable URL at the normalized
// bitrate.
func (s *NeteaseService) ResolveLink(ctx context.Context, id, bitrate string) (string, error) {
	query := url.Values{}
	query.Set("types", "url")
	query.Set("source", "netease")
	query.Set("id", id)
	query.Set("br", normalizeBitrate(bitrate))

	var body struct {
		URL string `json:"url"`
	}
	if err := s.getJSON(ctx, s.apiURL+"?"+query.Encode(), nil, &body); err != nil {
		return "", err
	}

	if body.URL == "" {
		return "", fmt.Errorf("%w: netease song %s", shared.ErrEmptyLink, id)
	}

	return body.URL, nil
}

// Lyric fetches the raw LRC text nested under lrc.lyric.
func (s *NeteaseService) Lyric(ctx context.Context, id string) (*models.LyricDocument, error) {
	query := url.Values{}
	query.Set("_nmclfl", "1")
	query.Set("tv", "-1")
	query.Set("lv", "-1")
	query.Set("rv", "-1")
	query.Set("kv", "-1")
	query.Set("id", id)

	var body struct {
		LRC struct {
			Lyric string `json:"lyric"`
		} `json:"lrc"`
	}
	if err := s.getJSON(ctx, s.lyricURL+"?"+query.Encode(), nil, &body); err != nil {
		return nil, err
	}

	if body.LRC.Lyric == "" {
		return nil, fmt.Errorf("%w: netease song %s", shared.ErrLyricsUnavailable, id)
	}

	return &models.LyricDocument{Source: s.Name(), ID: id, Lyric: body.LRC.Lyric}, nil
}

// getJSON performs a GET and decodes the JSON response into result.
func (s *NeteaseService) getJSON(ctx context.Context, reqURL string, headers map[string]string, result any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: netease: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: netease status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: netease decode: %v", shared.ErrUpstream, err)
	}

	return nil
}

// neteaseCoverURL derives the album art URL for a picture id.
//
// The derivation is deterministic and order-sensitive: trim the id, XOR its
// bytes with the fixed key repeated cyclically, MD5 the result, render the
// digest as lowercase hex, decode that hex back to bytes, base64-encode
// them and swap `/`→`_`, `+`→`-`.
func neteaseCoverURL(picID string) string {
	picID = strings.TrimSpace(picID)

	xor := make([]byte, len(picID))
	for i := 0; i < len(picID); i++ {
		xor[i] = picID[i] ^ neteasePicKey[i%len(neteasePicKey)]
	}

	digest := md5.Sum(xor)

	encoded := base64.StdEncoding.EncodeToString(digest[:])
	encoded = strings.ReplaceAll(encoded, "/", "_")
	encoded = strings.ReplaceAll(encoded, "+", "-")

	return fmt.Sprintf("%s/%s/%s.jpg?param=320y320", neteaseImageHost, encoded, picID)
}

// normalizeBitrate maps the client-facing bitrate literals onto what the
// aggregator accepts: the "kmp3" suffix is stripped, "2000kflac" means the
// top tier, and an absent hint defaults to the top tier.
func normalizeBitrate(bitrate string) string {
	if bitrate == "" || bitrate == "2000kflac" {
		return neteaseDefaultBitrate
	}
	return strings.TrimSuffix(bitrate, "kmp3")
}
