// QQ music catalog implementation of [Service]
//
// All metadata operations go through the musicu gateway, which expects the
// entire serialized request payload percent-encoded into a single `data`
// query parameter. Link resolution is a multi-round chain: the numeric song
// id is first exchanged for the song's mid/media_mid pair, then a
// free-quota probe decides which of two vkey request shapes can produce a
// signed stream path.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Qi-2007/musicgate/internal/models"
	"github.com/Qi-2007/musicgate/internal/shared"
)

const (
	defaultQQGatewayURL = "https://u.y.qq.com/cgi-bin/musicu.fcg"
	defaultQQLyricURL   = "https://c.y.qq.com/lyric/fcgi-bin/fcg_query_lyric_new.fcg"
	defaultQQStreamHost = "https://dl.stream.qqmusic.qq.com"
	defaultQQIsureHost  = "https://isure.stream.qqmusic.qq.com"

	defaultQQGUID = "2095717240"
	defaultQQUIN  = "0"

	qqCoverTemplate = "https://y.gtimg.cn/music/photo_new/T002R300x300M000%s.jpg"
	qqReferer       = "https://y.qq.com/"

	// Fallback vkey filename convention: quality prefix + media_mid + extension.
	qqQualityPrefix = "M500"
	qqAudioExt      = ".mp3"

	// Substituted when the catalog has no lyric text for a song.
	qqLyricNotFound = "[00:00.00]暂无歌词"
)

// qqResolveState names the steps of the signed-URL resolution chain.
type qqResolveState int

const (
	qqStateIdentified  qqResolveState = iota // numeric id known, aux identifiers pending
	qqStateAuxResolved                       // mid/media_mid known, free-quota probe pending
	qqStateVkey                              // ppurl present, direct vkey path
	qqStateFallback                          // no ppurl, filename-based vkey path
	qqStateResolved                          // terminal: playable URL composed
	qqStateFailed                            // terminal: no URL obtainable
)

// QQService implements [Service] for the QQ music catalog.
type QQService struct {
	httpClient *http.Client
	gatewayURL string
	lyricURL   string
	streamHost string // direct vkey path host
	isureHost  string // fallback vkey path host
	guid       string
	uin        string
}

// NewQQService creates a QQ catalog service.
//
// A nil client gets the default timeout-bounded one; empty guid/uin fall
// back to the fixed pseudo-device pair the gateway accepts for anonymous
// callers.
func NewQQService(client *http.Client, guid, uin string) *QQService {
	if guid == "" {
		guid = defaultQQGUID
	}
	if uin == "" {
		uin = defaultQQUIN
	}

	return &QQService{
		httpClient: newHTTPClient(client),
		gatewayURL: defaultQQGatewayURL,
		lyricURL:   defaultQQLyricURL,
		streamHost: defaultQQStreamHost,
		isureHost:  defaultQQIsureHost,
		guid:       guid,
		uin:        uin,
	}
}

// Name returns the source key.
func (s *QQService) Name() string {
	return "qq"
}

// qqSong is one row of a gateway search response, including the transient
// identifiers kept inside the provider boundary.
type qqSong struct {
	ID     int64  `json:"id"`
	Mid    string `json:"mid"`
	Name   string `json:"name"`
	Singer []struct {
		Name string `json:"name"`
	} `json:"singer"`
	Album struct {
		Mid string `json:"mid"`
	} `json:"album"`
	File struct {
		MediaMid string `json:"media_mid"`
	} `json:"file"`
}

type qqSearchResponse struct {
	Req struct {
		Data struct {
			Body struct {
				Song struct {
					List []qqSong `json:"list"`
				} `json:"song"`
			} `json:"body"`
		} `json:"data"`
	} `json:"req_1"`
}

// Search queries the gateway's desktop search module.
//
// The whole payload is percent-encoded into the single `data` parameter;
// encoding only the keyword breaks any non-ASCII query.
func (s *QQService) Search(ctx context.Context, keyword string) ([]models.Track, error) {
	payload := map[string]any{
		"comm": s.comm(),
		"req_1": map[string]any{
			"module": "music.search.SearchCgiService",
			"method": "DoSearchForQQMusicDesktop",
			"param": map[string]any{
				"query":        keyword,
				"page_num":     1,
				"num_per_page": 10,
			},
		},
	}

	var response qqSearchResponse
	if err := s.gatewayRequest(ctx, payload, &response); err != nil {
		return nil, err
	}

	list := response.Req.Data.Body.Song.List
	if len(list) == 0 {
		return nil, fmt.Errorf("%w: keyword %q", shared.ErrNoResults, keyword)
	}

	tracks := make([]models.Track, 0, len(list))
	for _, song := range list {
		track := models.Track{
			ID:   strconv.FormatInt(song.ID, 10),
			Name: song.Name,
		}
		if len(song.Singer) > 0 {
			track.Artist = song.Singer[0].Name
		}
		if song.Album.Mid != "" {
			track.CoverURL = fmt.Sprintf(qqCoverTemplate, song.Album.Mid)
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

// ResolveLink walks the resolution chain for the given numeric song id.
//
// The bitrate hint is accepted for interface parity but the gateway's
// fallback path only serves the fixed M500 quality. Steps run strictly
// sequentially: each request body is built from the previous response.
func (s *QQService) ResolveLink(ctx context.Context, id, _ string) (string, error) {
	var (
		state         = qqStateIdentified
		mid, mediaMid string
		ppurl         string
		resolved      string
	)

	for {
		switch state {
		case qqStateIdentified:
			var err error
			mid, mediaMid, err = s.trackInfo(ctx, id)
			if err != nil {
				return "", err
			}
			state = qqStateAuxResolved

		case qqStateAuxResolved:
			// An empty ppurl is a legitimate answer, not an error.
			var err error
			ppurl, err = s.freeQuota(ctx, id)
			if err != nil {
				return "", err
			}
			if ppurl != "" {
				state = qqStateVkey
			} else {
				state = qqStateFallback
			}

		case qqStateVkey:
			purl, err := s.vkeyDirect(ctx, mid, ppurl)
			if err != nil {
				return "", err
			}
			if purl == "" {
				state = qqStateFailed
				continue
			}
			resolved = s.streamHost + "/" + purl
			state = qqStateResolved

		case qqStateFallback:
			flowurl, err := s.vkeyFallback(ctx, mid, mediaMid)
			if err != nil {
				return "", err
			}
			if flowurl == "" {
				state = qqStateFailed
				continue
			}
			resolved = s.isureHost + "/" + flowurl
			state = qqStateResolved

		case qqStateResolved:
			return resolved, nil

		case qqStateFailed:
			// Digital-album exclusivity and paywalled tracks are the two
			// common causes of an empty vkey answer.
			return "", fmt.Errorf("%w: song %s", shared.ErrPaidContent, id)
		}
	}
}

// Lyric resolves the song's mid through the track-info step, then fetches
// the raw lyric text. Missing text is substituted with a fixed sentinel
// rather than surfaced as an error.
func (s *QQService) Lyric(ctx context.Context, id string) (*models.LyricDocument, error) {
	mid, _, err := s.trackInfo(ctx, id)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("songmid", mid)
	query.Set("format", "json")
	query.Set("nobase64", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.lyricURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create lyric request: %w", err)
	}
	req.Header.Set("Referer", qqReferer)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: qq lyric: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: qq lyric status %d", shared.ErrUpstream, resp.StatusCode)
	}

	var body struct {
		Lyric string `json:"lyric"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: qq lyric decode: %v", shared.ErrUpstream, err)
	}

	lyric := body.Lyric
	if lyric == "" {
		lyric = qqLyricNotFound
	}

	return &models.LyricDocument{Source: s.Name(), ID: id, Lyric: lyric}, nil
}

type qqDetailResponse struct {
	Req struct {
		Data struct {
			TrackInfo struct {
				Mid  string `json:"mid"`
				File struct {
					MediaMid string `json:"media_mid"`
				} `json:"file"`
			} `json:"track_info"`
		} `json:"data"`
	} `json:"req_1"`
}

// trackInfo exchanges a numeric song id for the mid/media_mid pair every
// later step depends on.
func (s *QQService) trackInfo(ctx context.Context, id string) (mid, mediaMid string, err error) {
	songID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return "", "", fmt.Errorf("%w: song id %q is not numeric", shared.ErrTrackLookup, id)
	}

	payload := map[string]any{
		"comm": s.comm(),
		"req_1": map[string]any{
			"module": "music.pf_song_detail_svr",
			"method": "get_song_detail_yqq",
			"param":  map[string]any{"song_id": songID},
		},
	}

	var response qqDetailResponse
	if err := s.gatewayRequest(ctx, payload, &response); err != nil {
		return "", "", err
	}

	info := response.Req.Data.TrackInfo
	if info.Mid == "" {
		return "", "", fmt.Errorf("%w: song %s", shared.ErrTrackLookup, id)
	}

	return info.Mid, info.File.MediaMid, nil
}

// freeQuota probes the promotional endpoint for a ppurl grant. The grant is
// optional: paid accounts and promoted songs get one, everything else gets
// an empty string.
func (s *QQService) freeQuota(ctx context.Context, id string) (string, error) {
	songID, _ := strconv.ParseInt(id, 10, 64)

	payload := map[string]any{
		"comm": s.comm(),
		"req_1": map[string]any{
			"module": "music.vip_unpay_data_svr",
			"method": "get_unpay_data",
			"param":  map[string]any{"songid": songID},
		},
	}

	var response struct {
		Req struct {
			Data struct {
				PPURL string `json:"ppurl"`
			} `json:"data"`
		} `json:"req_1"`
	}
	if err := s.gatewayRequest(ctx, payload, &response); err != nil {
		return "", err
	}

	return response.Req.Data.PPURL, nil
}

type qqVkeyResponse struct {
	Req struct {
		Data struct {
			MidURLInfo []struct {
				Purl    string `json:"purl"`
				FlowURL string `json:"flowurl"`
			} `json:"midurlinfo"`
		} `json:"data"`
	} `json:"req_1"`
}

// vkeyDirect requests a signed path using the ppurl grant.
func (s *QQService) vkeyDirect(ctx context.Context, mid, ppurl string) (string, error) {
	payload := map[string]any{
		"comm": s.comm(),
		"req_1": map[string]any{
			"module": "music.vkey.GetVkeyServer",
			"method": "CgiGetVkey",
			"param": map[string]any{
				"guid":     s.guid,
				"uin":      s.uin,
				"platform": "20",
				"songmid":  []string{mid},
				"ppurl":    ppurl,
			},
		},
	}

	var response qqVkeyResponse
	if err := s.gatewayRequest(ctx, payload, &response); err != nil {
		return "", err
	}

	info := response.Req.Data.MidURLInfo
	if len(info) == 0 {
		return "", nil
	}
	return info[0].Purl, nil
}

// vkeyFallback requests a signed path by filename when no ppurl grant was
// issued.
func (s *QQService) vkeyFallback(ctx context.Context, mid, mediaMid string) (string, error) {
	payload := map[string]any{
		"comm": s.comm(),
		"req_1": map[string]any{
			"module": "music.vkey.GetVkeyServer",
			"method": "CgiGetVkey",
			"param": map[string]any{
				"guid":     s.guid,
				"uin":      s.uin,
				"platform": "20",
				"songmid":  []string{mid},
				"filename": []string{qqQualityPrefix + mediaMid + qqAudioExt},
			},
		},
	}

	var response qqVkeyResponse
	if err := s.gatewayRequest(ctx, payload, &response); err != nil {
		return "", err
	}

	info := response.Req.Data.MidURLInfo
	if len(info) == 0 {
		return "", nil
	}
	return info[0].FlowURL, nil
}

// comm builds the common block sent with every gateway payload.
func (s *QQService) comm() map[string]any {
	return map[string]any{
		"uin":    s.uin,
		"format": "json",
		"ct":     24,
		"cv":     0,
	}
}

// gatewayRequest serializes payload, percent-encodes it into the single
// `data` parameter and decodes the JSON response into result.
func (s *QQService) gatewayRequest(ctx context.Context, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode gateway payload: %w", err)
	}

	reqURL := s.gatewayURL + "?data=" + url.QueryEscape(string(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create gateway request: %w", err)
	}
	req.Header.Set("Referer", qqReferer)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: qq gateway: %v", shared.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: qq gateway status %d", shared.ErrUpstream, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: qq gateway decode: %v", shared.ErrUpstream, err)
	}

	return nil
}
