package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Qi-2007/musicgate/internal/shared"
)

func TestNeteaseCoverURL(t *testing.T) {
	t.Run("derivation is deterministic", func(t *testing.T) {
		first := neteaseCoverURL("109951165142435532")
		second := neteaseCoverURL("109951165142435532")
		if first != second {
			t.Errorf("expected identical URLs, got %q and %q", first, second)
		}
	})

	t.Run("known picture ids", func(t *testing.T) {
		cases := []struct {
			picID string
			want  string
		}{
			{
				picID: "109951165142435532",
				want:  "http://p1.music.126.net/_GA9nco_rTti8Vd5IzueHA==/109951165142435532.jpg?param=320y320",
			},
			{
				picID: "18590542604286213",
				want:  "http://p1.music.126.net/Md3RLH0fe2a_3dMDnfqoQg==/18590542604286213.jpg?param=320y320",
			},
			{
				// Leading/trailing whitespace is trimmed before hashing.
				picID: " 18590542604286213 ",
				want:  "http://p1.music.126.net/Md3RLH0fe2a_3dMDnfqoQg==/18590542604286213.jpg?param=320y320",
			},
		}

		for _, tc := range cases {
			if got := neteaseCoverURL(tc.picID); got != tc.want {
				t.Errorf("neteaseCoverURL(%q) = %q, want %q", tc.picID, got, tc.want)
			}
		}
	})

	t.Run("different ids diverge", func(t *testing.T) {
		if neteaseCoverURL("109951165142435532") == neteaseCoverURL("109951165142435533") {
			t.Error("expected different picture ids to produce different URLs")
		}
	})
}

func TestNormalizeBitrate(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"128kmp3", "128"},
		{"320kmp3", "320"},
		{"2000kflac", "999"},
		{"", "999"},
		{"740", "740"},
	}

	for _, tc := range cases {
		if got := normalizeBitrate(tc.in); got != tc.want {
			t.Errorf("normalizeBitrate(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNeteaseService(t *testing.T) {
	ctx := context.Background()

	t.Run("Name", func(t *testing.T) {
		if svc := NewNeteaseService(nil); svc.Name() != "netease" {
			t.Errorf("expected name to be netease, got %s", svc.Name())
		}
	})

	t.Run("Search", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query := r.URL.Query()
			if query.Get("types") != "search" || query.Get("source") != "netease" {
				t.Errorf("unexpected aggregator query %q", r.URL.RawQuery)
			}
			if query.Get("name") != "周杰伦" {
				t.Errorf("expected keyword to be encoded, got %q", query.Get("name"))
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode([]map[string]any{
				{
					"id":     int64(186016),
					"name":   "晴天",
					"artist": []string{"周杰伦"},
					"pic_id": "109951165142435532",
				},
				{
					"id":     int64(186017),
					"name":   "珊瑚海",
					"artist": []string{"周杰伦", "Lara梁心颐"},
					"pic_id": "18590542604286213",
				},
			})
		}))
		defer server.Close()

		svc := NewNeteaseService(server.Client())
		svc.apiURL = server.URL

		tracks, err := svc.Search(ctx, "周杰伦")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if len(tracks) != 2 {
			t.Fatalf("expected 2 tracks, got %d", len(tracks))
		}
		if tracks[0].ID != "186016" {
			t.Errorf("expected id 186016, got %s", tracks[0].ID)
		}
		if tracks[1].Artist != "周杰伦 & Lara梁心颐" {
			t.Errorf("expected artists joined with ampersand, got %q", tracks[1].Artist)
		}
		if want := neteaseCoverURL("109951165142435532"); tracks[0].CoverURL != want {
			t.Errorf("expected derived cover %s, got %s", want, tracks[0].CoverURL)
		}
	})

	t.Run("ResolveLink", func(t *testing.T) {
		t.Run("passes normalized bitrate", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if br := r.URL.Query().Get("br"); br != "128" {
					t.Errorf("expected normalized bitrate 128, got %q", br)
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"url": "http://m801.music.126.net/song.mp3"})
			}))
			defer server.Close()

			svc := NewNeteaseService(server.Client())
			svc.apiURL = server.URL

			link, err := svc.ResolveLink(ctx, "186016", "128kmp3")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if link != "http://m801.music.126.net/song.mp3" {
				t.Errorf("unexpected link %q", link)
			}
		})

		t.Run("empty url yields ErrEmptyLink", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{})
			}))
			defer server.Close()

			svc := NewNeteaseService(server.Client())
			svc.apiURL = server.URL

			if _, err := svc.ResolveLink(ctx, "186016", ""); !errors.Is(err, shared.ErrEmptyLink) {
				t.Errorf("expected ErrEmptyLink, got %v", err)
			}
		})
	})

	t.Run("Lyric", func(t *testing.T) {
		t.Run("extracts nested text", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("id") != "186016" {
					t.Errorf("expected lyric request by id, got %q", r.URL.Query().Get("id"))
				}
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{
					"lrc": map[string]any{"lyric": "[00:27.44]故事的小黄花"},
				})
			}))
			defer server.Close()

			svc := NewNeteaseService(server.Client())
			svc.lyricURL = server.URL

			doc, err := svc.Lyric(ctx, "186016")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if doc.Lyric != "[00:27.44]故事的小黄花" {
				t.Errorf("unexpected lyric text %q", doc.Lyric)
			}
		})

		t.Run("missing nested field yields ErrLyricsUnavailable", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(map[string]any{"lrc": map[string]any{}})
			}))
			defer server.Close()

			svc := NewNeteaseService(server.Client())
			svc.lyricURL = server.URL

			if _, err := svc.Lyric(ctx, "186016"); !errors.Is(err, shared.ErrLyricsUnavailable) {
				t.Errorf("expected ErrLyricsUnavailable, got %v", err)
			}
		})

		t.Run("network failure yields ErrUpstream", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			}))
			defer server.Close()

			svc := NewNeteaseService(server.Client())
			svc.lyricURL = server.URL

			if _, err := svc.Lyric(ctx, "186016"); !errors.Is(err, shared.ErrUpstream) {
				t.Errorf("expected ErrUpstream, got %v", err)
			}
		})
	})
}
