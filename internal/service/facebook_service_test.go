package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	config "github.com/maheshrc27/postpilot/configs"
	"github.com/maheshrc27/postpilot/internal/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFacebookService(graphURL, probeURL string) FacebookService {
	cfg := config.Config{
		Facebook: config.Facebook{
			GraphURL:       graphURL,
			ProbeURL:       probeURL,
			PublishTimeout: 200 * time.Millisecond,
			ProbeTimeout:   time.Second,
			MaxAttempts:    3,
			RetryBackoff:   time.Millisecond,
			PhaseAttempts:  1,
		},
	}
	return NewFacebookService(cfg)
}

func newProbeServer(t *testing.T) *httptest.Server {
	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	t.Cleanup(probe.Close)
	return probe
}

func TestPublishTextPost(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/page-1/feed", r.URL.Path)
		assert.Equal(t, "hello", r.PostForm.Get("message"))
		assert.Equal(t, "token", r.PostForm.Get("access_token"))
		fmt.Fprint(w, `{"id":"page-1_99"}`)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, newProbeServer(t).URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "text", Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1_99", result.PostID)
}

func TestPublishImagePrefersPostID(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/page-1/photos", r.URL.Path)
		assert.Equal(t, "https://x/y.jpg", r.PostForm.Get("url"))
		assert.Equal(t, "caption", r.PostForm.Get("caption"))
		fmt.Fprint(w, `{"id":"photo-1","post_id":"page-1_123"}`)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, newProbeServer(t).URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "image", Content: "caption",
		MediaURLs: []string{"https://x/y.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1_123", result.PostID)
}

func TestPublishProviderRejectionIsNotRetried(t *testing.T) {
	var calls int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"Invalid OAuth access token.","code":190}}`)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, newProbeServer(t).URL)

	_, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "text", Content: "hello",
	})

	var graphErr *GraphError
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, "Invalid OAuth access token.", graphErr.Message)
	assert.Equal(t, 190, graphErr.Code)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestPublishUnparseableErrorBody(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		fmt.Fprint(w, "<html>bad gateway</html>")
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, newProbeServer(t).URL)

	_, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "text", Content: "hello",
	})

	var graphErr *GraphError
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, "request failed with status 502", graphErr.Message)
}

func TestPublishRetriesAfterTimeout(t *testing.T) {
	var calls int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
			return
		}
		fmt.Fprint(w, `{"id":"page-1_7"}`)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, newProbeServer(t).URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "text", Content: "hello",
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1_7", result.PostID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestPublishFailsFastWhenUnreachable(t *testing.T) {
	var calls int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer graph.Close()

	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	probeURL := probe.URL
	probe.Close()

	fb := newTestFacebookService(graph.URL, probeURL)

	_, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "text", Content: "hello",
	})
	assert.ErrorIs(t, err, ErrUnreachable)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

type reelServer struct {
	*httptest.Server
	startCalls  int32
	uploadCalls int32
	finishCalls int32
	uploadFails bool
}

func newReelServer(t *testing.T, uploadFails bool) *reelServer {
	rs := &reelServer{uploadFails: uploadFails}
	mux := http.NewServeMux()
	mux.HandleFunc("/media/reel.mp4", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("fake-video-bytes"))
	})
	mux.HandleFunc("/upload/vid-1", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&rs.uploadCalls, 1)
		assert.Equal(t, "OAuth token", r.Header.Get("Authorization"))
		assert.Equal(t, "16", r.Header.Get("file_size"))
		body, _ := io.ReadAll(r.Body)
		assert.Equal(t, "fake-video-bytes", string(body))
		if rs.uploadFails {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, `{"error":{"message":"upload broke"}}`)
			return
		}
		fmt.Fprint(w, `{"success":true}`)
	})
	mux.HandleFunc("/page-1/video_reels", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.PostForm.Get("upload_phase") {
		case "start":
			atomic.AddInt32(&rs.startCalls, 1)
			fmt.Fprintf(w, `{"video_id":"vid-1","upload_url":"%s/upload/vid-1"}`, rs.URL)
		case "finish":
			atomic.AddInt32(&rs.finishCalls, 1)
			assert.Equal(t, "vid-1", r.PostForm.Get("video_id"))
			assert.Equal(t, "PUBLISHED", r.PostForm.Get("video_state"))
			fmt.Fprint(w, `{"success":true,"post_id":"reel-post-1"}`)
		}
	})
	rs.Server = httptest.NewServer(mux)
	t.Cleanup(rs.Close)
	return rs
}

func TestPublishReel(t *testing.T) {
	rs := newReelServer(t, false)
	fb := newTestFacebookService(rs.URL, rs.URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "reel", Content: "watch",
		MediaURLs: []string{rs.URL + "/media/reel.mp4"},
	})
	require.NoError(t, err)
	assert.Equal(t, "reel-post-1", result.PostID)
	assert.Equal(t, int32(1), atomic.LoadInt32(&rs.finishCalls))
}

func TestPublishReelUploadFailureSkipsFinish(t *testing.T) {
	rs := newReelServer(t, true)
	fb := newTestFacebookService(rs.URL, rs.URL)

	_, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "reel",
		MediaURLs: []string{rs.URL + "/media/reel.mp4"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload broke")
	assert.Equal(t, int32(1), atomic.LoadInt32(&rs.startCalls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&rs.uploadCalls))
	assert.Equal(t, int32(0), atomic.LoadInt32(&rs.finishCalls))
}

func TestPublishCarousel(t *testing.T) {
	var photos int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		switch r.URL.Path {
		case "/page-1/photos":
			n := atomic.AddInt32(&photos, 1)
			assert.Equal(t, "false", r.PostForm.Get("published"))
			fmt.Fprintf(w, `{"id":"media-%d"}`, n)
		case "/page-1/feed":
			assert.Equal(t, `{"media_fbid":"media-1"}`, r.PostForm.Get("attached_media[0]"))
			assert.Equal(t, `{"media_fbid":"media-2"}`, r.PostForm.Get("attached_media[1]"))
			assert.Equal(t, "two pics", r.PostForm.Get("message"))
			fmt.Fprint(w, `{"id":"page-1_55"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, graph.URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "carousel", Content: "two pics",
		CarouselImages: []string{"https://x/a.jpg", "https://x/b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "page-1_55", result.PostID)
	assert.Equal(t, int32(2), atomic.LoadInt32(&photos))
}

func TestPublishCarouselStopsAtFailedImage(t *testing.T) {
	var photos, feed int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/page-1/photos":
			n := atomic.AddInt32(&photos, 1)
			if n == 2 {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprint(w, `{"error":{"message":"Invalid image","code":324}}`)
				return
			}
			fmt.Fprintf(w, `{"id":"media-%d"}`, n)
		case "/page-1/feed":
			atomic.AddInt32(&feed, 1)
			fmt.Fprint(w, `{"id":"page-1_55"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, graph.URL)

	result, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "carousel", Content: "three pics",
		CarouselImages: []string{"https://x/a.jpg", "https://x/b.jpg", "https://x/c.jpg"},
	})
	require.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "carousel image 2 failed")
	assert.Contains(t, err.Error(), "Invalid image")

	var graphErr *GraphError
	require.ErrorAs(t, err, &graphErr)
	assert.Equal(t, http.StatusBadRequest, graphErr.StatusCode)
	assert.Equal(t, int32(2), atomic.LoadInt32(&photos))
	assert.Equal(t, int32(0), atomic.LoadInt32(&feed))
}

func TestPublishCarouselNeedsTwoImages(t *testing.T) {
	var calls int32
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, graph.URL)

	_, err := fb.Publish(context.Background(), &transfer.PublishRequest{
		PageID: "page-1", AccessToken: "token", PostType: "carousel",
		CarouselImages: []string{"https://x/a.jpg", "  "},
	})
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestPostComment(t *testing.T) {
	graph := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "/page-1_99/comments", r.URL.Path)
		assert.Equal(t, "first!", r.PostForm.Get("message"))
		fmt.Fprint(w, `{"id":"comment-1"}`)
	}))
	defer graph.Close()

	fb := newTestFacebookService(graph.URL, graph.URL)

	id, err := fb.PostComment(context.Background(), "page-1_99", "first!", "token")
	require.NoError(t, err)
	assert.Equal(t, "comment-1", id)
}
