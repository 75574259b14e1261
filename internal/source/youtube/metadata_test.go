package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchMetadata_DetailsOverrideOEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			assert.Contains(t, r.URL.RawQuery, "watch%3Fv%3Dabc")
			_, _ = w.Write([]byte(`{"title": "oembed title", "thumbnail_url": "oembed-thumb"}`))
		case "/videos":
			_, _ = w.Write([]byte(`{"items": [
				{"id": "abc",
				 "snippet": {"title": "api title", "description": "api description",
					"thumbnails": {"maxres": {"url": "maxres-thumb"}, "high": {"url": "high-thumb"}}},
				 "contentDetails": {"duration": "PT15M33S"}}
			]}`))
		}
	}))
	defer server.Close()

	source := New(testConfig(server.URL), testLogger())
	meta, err := source.FetchMetadata(context.Background(), "abc")
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	assert.Equal(t, "api title", *meta.Title)
	require.NotNil(t, meta.Description)
	assert.Equal(t, "api description", *meta.Description)
	require.NotNil(t, meta.ThumbnailURL)
	assert.Equal(t, "maxres-thumb", *meta.ThumbnailURL)
	require.NotNil(t, meta.DurationSeconds)
	assert.Equal(t, 933, *meta.DurationSeconds)
	require.NotNil(t, meta.IsShorts)
	assert.False(t, *meta.IsShorts)
}

func TestFetchMetadata_NoAPIKeyUsesOEmbedOnly(t *testing.T) {
	detailsCalled := false

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			_, _ = w.Write([]byte(`{"title": "oembed title", "thumbnail_url": "oembed-thumb"}`))
		case "/videos":
			detailsCalled = true
		}
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.APIKey = ""

	source := New(cfg, testLogger())
	meta, err := source.FetchMetadata(context.Background(), "abc")
	require.NoError(t, err)

	assert.False(t, detailsCalled)
	require.NotNil(t, meta.Title)
	assert.Equal(t, "oembed title", *meta.Title)
	assert.Nil(t, meta.Description)
	assert.Nil(t, meta.DurationSeconds)
}

func TestFetchMetadata_OEmbedFailureIsNotFatal(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			w.WriteHeader(http.StatusNotFound)
		case "/videos":
			_, _ = w.Write([]byte(`{"items": [
				{"id": "abc", "snippet": {"title": "api title"}, "contentDetails": {"duration": "PT1M"}}
			]}`))
		}
	}))
	defer server.Close()

	source := New(testConfig(server.URL), testLogger())
	meta, err := source.FetchMetadata(context.Background(), "abc")
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	assert.Equal(t, "api title", *meta.Title)
	assert.Nil(t, meta.ThumbnailURL)
}

func TestFetchMetadata_KeepsOEmbedWhenDetailsFail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/oembed":
			_, _ = w.Write([]byte(`{"title": "oembed title"}`))
		case "/videos":
			w.WriteHeader(http.StatusForbidden)
		}
	}))
	defer server.Close()

	source := New(testConfig(server.URL), testLogger())
	meta, err := source.FetchMetadata(context.Background(), "abc")
	require.NoError(t, err)

	require.NotNil(t, meta.Title)
	assert.Equal(t, "oembed title", *meta.Title)
}

func TestFetchMetadata_EverythingFails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	source := New(testConfig(server.URL), testLogger())
	_, err := source.FetchMetadata(context.Background(), "abc")
	require.Error(t, err)
}

func TestPickBestResolution(t *testing.T) {
	assert.Equal(t, "s", pickBestResolution(thumbnails{
		Standard: &thumbnail{URL: "s"},
		High:     &thumbnail{URL: "h"},
	}))
	assert.Equal(t, "", pickBestResolution(thumbnails{Default: &thumbnail{URL: "d"}}),
		"enrichment never falls back below medium")
}
