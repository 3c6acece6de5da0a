// Kuwo music catalog implementation of [Service]
//
// The link endpoint answers with a payload that is not strict JSON whenever
// it contains an unescaped `.sycdn` CDN host, so the raw body is patched
// before decoding and the extracted URL is patched again afterwards.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/shared"
)

const (
	defaultKuwoSearchURL = "http://search.kuwo.cn/r.s"
	defaultKuwoLinkURL   = "https://mobi.kuwo.cn/mobi.s"
	defaultKuwoLyricURL  = "https://kuwo.cn/openapi/v1/www/lyric/getlyric"

	kuwoCoverPrefix = "https://img2.kuwo.cn/star/albumcover/"

	// Fixed client identity the mobi endpoint expects.
	kuwoUserAgent = "okhttp/3.10.0"

	kuwoDefaultBitrate = "20000knone"
)

// KuwoService implements [Service] for the Kuwo catalog.
type KuwoService struct {
	httpClient *http.Client
	searchURL  string
	linkURL    string
	lyricURL   string
}

// NewKuwoService creates a Kuwo catalog service. A nil client gets the
// default timeout-bounded one.
func NewKuwoService(client *http.Client) *KuwoService {
	return &KuwoService{
		httpClient: newHTTPClient(client),
		searchURL:  defaultKuwoSearchURL,
		linkURL:    defaultKuwoLinkURL,
		lyricURL:   defaultKuwoLyricURL,
	}
}

// Name returns the source key.
func (s *KuwoService) Name() string {
	return "kuwo"
}

// kuwoSong is one row of an r.s search response.
type kuwoSong struct {
	TargetID string `json:"DC_TARGETID"`
	Name     string `json:"NAME"`
	Artist   string `json:"ARTIST"`
	AlbumPic string `json:"web_albumpic_short"`
}

// Search queries the r.s endpoint and reshapes its abslist rows. The cover
// URL is built only when the row carries an album picture fragment.
func (s *KuwoService) Search(ctx context.Context, keyword string) ([]models.Track, error) {
	query := url.Values{}
	query.Set("pn", "0")
	query.Set("rn", "10")
	query.Set("rformat", "json")
	query.Set("vipver", "1")
	query.Set("mobi", "1")
	query.Set("encoding", "utf8")
	query.Set("ft", "music")
	query.Set("all", keyword)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.searchURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: kuwo search: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: kuwo search status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var body struct {
		AbsList []kuwoSong `json:"abslist"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: kuwo search decode: %v", shared.ErrUpstream, err)
	}

	tracks := make([]models.Track, 0, len(body.AbsList))
	for _, song := range body.AbsList {
		track := models.Track{
			ID:     song.TargetID,
			Name:   song.Name,
			Artist: song.Artist,
		}
		if song.AlbumPic != "" {
			track.CoverURL = kuwoCoverPrefix + song.AlbumPic
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// ResolveLink asks the mobi endpoint for a playable URL.
//
// The raw body is patched before decoding and the decoded URL is patched
// again: the unescaped CDN host can reappear in the decoded value
// independently of the pre-decode pass. The URL scheme is forced to https.
func (s *KuwoService) ResolveLink(ctx context.Context, id, bitrate string) (string, error) {
	if bitrate == "" {
		bitrate = kuwoDefaultBitrate
	}

	query := url.Values{}
	query.Set("f", "web")
	query.Set("source", "keluze")
	query.Set("type", "convert_url_with_sign")
	query.Set("br", bitrate)
	query.Set("rid", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.linkURL+"?"+query.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create link request: %w", err)
	}
	req.Header.Set("User-Agent", kuwoUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: kuwo link: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: kuwo link status %d", shared.ErrUpstream, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: kuwo link read: %v", shared.ErrUpstream, err)
	}

	var body struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	}
	if err := json.Unmarshal([]byte(patchCDNHost(string(raw))), &body); err != nil {
		return "", fmt.Errorf("%w: kuwo link decode: %v", shared.ErrUpstream, err)
	}

	songURL := body.Data.URL
	if songURL == "" {
		return "", fmt.Errorf("%w: kuwo song %s", shared.ErrEmptyLink, id)
	}

	songURL = strings.Replace(songURL, "http://", "https://", 1)
	return patchCDNHost(songURL), nil
}

// kuwoLyricLine is one timed line; the offset arrives as a decimal-string
// number of seconds.
type kuwoLyricLine struct {
	Time string `json:"time"`
	Text string `json:"lineLyric"`
}

// Lyric fetches the timed line list and synthesizes LRC-tagged text.
func (s *KuwoService) Lyric(ctx context.Context, id string) (*models.LyricDocument, error) {
	query := url.Values{}
	query.Set("musicId", id)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lyricURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lyric request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: kuwo lyric: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: kuwo lyric status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var body struct {
		Data struct {
			LRCList []kuwoLyricLine `json:"lrclist"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: kuwo lyric decode: %v", shared.ErrUpstream, err)
	}

	lines := make([]string, 0, len(body.Data.LRCList))
	for _, line := range body.Data.LRCList {
		offset, err := strconv.ParseFloat(line.Time, 64)
		if err != nil {
			continue
		}
		lines = append(lines, formatLRCTime(offset)+line.Text)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: kuwo song %s", shared.ErrLyricsUnavailable, id)
	}

	return &models.LyricDocument{
		Source: s.Name(),
		ID:     id,
		Lyric:  strings.Join(lines, "\r\n"),
	}, nil
}

// patchCDNHost rewrites every occurrence of the unescaped `.sycdn` CDN host
// to its `-sycdn` alias.
func patchCDNHost(s string) string {
	return strings.ReplaceAll(s, ".sycdn", "-sycdn")
}

// formatLRCTime renders a second offset as an LRC time tag:
// two-digit zero-padded minutes, two-digit zero-padded seconds with two
// fractional digits, e.g. 65.5 → "[01:05.50]".
func formatLRCTime(seconds float64) string {
	minutes := int(seconds) / 60
	remainder := seconds - float64(minutes*60)
	return fmt.Sprintf("[%02d:%05.2f]", minutes, remainder)
}
