package controllers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/mvoisin/mediaserv/internal/services/fileindex"
	"github.com/mvoisin/mediaserv/internal/services/fileindex/fileindextest"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

const movieDetails = `{"name": "Heat", "type": "movie", "videoFormat": "MP4", "categories": [], "tags": []}`

func deliveryFixture(t *testing.T, idx *fileindextest.Index) *DeliveryController {
	t.Helper()
	logger := testLogger()

	library := catalog.NewLibrary()
	snapshot, err := catalog.NewBuilder(idx, logger).Build(context.Background())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	library.Publish(snapshot)

	return NewDeliveryController(library, idx, time.Minute, logger)
}

func entryID(path ...string) string {
	return fileindex.EntryID(fileindex.Segments(path))
}

func TestOpenPosterByFolderID(t *testing.T) {
	idx := fileindextest.New()
	posterBytes := []byte("png-bytes")
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/poster.png", posterBytes)
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	delivery := deliveryFixture(t, idx)

	reader, size, contentType, err := delivery.OpenPoster(context.Background(), entryID("Heat"))
	if err != nil {
		t.Fatalf("open poster: %v", err)
	}
	defer reader.Close()

	if contentType != "image/png" {
		t.Errorf("content type = %q, want image/png", contentType)
	}
	if size != int64(len(posterBytes)) {
		t.Errorf("size = %d, want %d", size, len(posterBytes))
	}
	got, _ := io.ReadAll(reader)
	if !bytes.Equal(got, posterBytes) {
		t.Errorf("poster bytes differ from source")
	}
}

func TestOpenPosterByFileID(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/poster.jpg", []byte("jpg-bytes"))
	delivery := deliveryFixture(t, idx)

	reader, _, contentType, err := delivery.OpenPoster(context.Background(), entryID("Heat", "poster.jpg"))
	if err != nil {
		t.Fatalf("open poster: %v", err)
	}
	reader.Close()
	if contentType != "image/jpeg" {
		t.Errorf("content type = %q, want image/jpeg", contentType)
	}
}

func TestOpenPosterRejectsNonImage(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	delivery := deliveryFixture(t, idx)

	_, _, _, err := delivery.OpenPoster(context.Background(), entryID("Heat", "Heat.mp4"))
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for non-image id, got %v", err)
	}
}

func TestOpenPosterUnknownID(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	delivery := deliveryFixture(t, idx)

	_, _, _, err := delivery.OpenPoster(context.Background(), "no-such-id")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func seedLargeMovie(idx *fileindextest.Index, size int) []byte {
	content := bytes.Repeat([]byte("x"), size)
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", content)
	return content
}

func readChunk(t *testing.T, chunk *Chunk) []byte {
	t.Helper()
	defer chunk.Reader.Close()
	data, err := io.ReadAll(chunk.Reader)
	if err != nil {
		t.Fatalf("read chunk: %v", err)
	}
	return data
}

func TestOpenVideoWithoutRange(t *testing.T) {
	// Larger than one streaming window: the clamp applies to explicit
	// ranges only, a request without one gets the full resource
	idx := fileindextest.New()
	content := seedLargeMovie(idx, 1_500_000)
	delivery := deliveryFixture(t, idx)

	chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), "")
	if err != nil {
		t.Fatalf("open video: %v", err)
	}
	if chunk.Start != 0 || chunk.End != int64(len(content))-1 || chunk.Total != int64(len(content)) {
		t.Errorf("no-range chunk = %d-%d/%d, want full resource", chunk.Start, chunk.End, chunk.Total)
	}
	if chunk.ContentType != "video/mp4" {
		t.Errorf("content type = %q, want video/mp4", chunk.ContentType)
	}
	if got := readChunk(t, chunk); !bytes.Equal(got, content) {
		t.Errorf("full read returned %d bytes, want %d", len(got), len(content))
	}
}

func TestOpenVideoClampsOpenEndedRange(t *testing.T) {
	idx := fileindextest.New()
	seedLargeMovie(idx, 1_500_000)
	delivery := deliveryFixture(t, idx)

	chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), "bytes=0-")
	if err != nil {
		t.Fatalf("open video: %v", err)
	}
	if length := chunk.End - chunk.Start + 1; length != MaxStreamChunk {
		t.Errorf("chunk length = %d, want clamp to %d", length, MaxStreamChunk)
	}
	if got := readChunk(t, chunk); len(got) != MaxStreamChunk {
		t.Errorf("read %d bytes, want %d", len(got), MaxStreamChunk)
	}
}

func TestOpenVideoTailRange(t *testing.T) {
	idx := fileindextest.New()
	content := seedLargeMovie(idx, 5000)
	delivery := deliveryFixture(t, idx)

	start := int64(len(content) - 10)
	chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), "bytes=4990-")
	if err != nil {
		t.Fatalf("open video: %v", err)
	}
	if chunk.Start != start || chunk.End != int64(len(content))-1 {
		t.Errorf("tail chunk = %d-%d, want %d-%d", chunk.Start, chunk.End, start, len(content)-1)
	}
	if got := readChunk(t, chunk); len(got) != 10 {
		t.Errorf("read %d bytes, want 10", len(got))
	}
}

func TestOpenVideoExplicitRange(t *testing.T) {
	idx := fileindextest.New()
	content := seedLargeMovie(idx, 5000)
	delivery := deliveryFixture(t, idx)

	chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), "bytes=100-199")
	if err != nil {
		t.Fatalf("open video: %v", err)
	}
	if chunk.Start != 100 || chunk.End != 199 {
		t.Errorf("chunk = %d-%d, want 100-199", chunk.Start, chunk.End)
	}
	if got := readChunk(t, chunk); !bytes.Equal(got, content[100:200]) {
		t.Errorf("explicit range returned wrong bytes")
	}
}

func TestOpenVideoMalformedRangeDegradesToFull(t *testing.T) {
	// Degraded answers cover the whole resource even past one streaming
	// window, same as a request without a range
	idx := fileindextest.New()
	content := seedLargeMovie(idx, 1_500_000)
	delivery := deliveryFixture(t, idx)

	for _, header := range []string{"bytes=abc-", "bytes=-", "units=0-10", "bytes=9999999-"} {
		chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), header)
		if err != nil {
			t.Fatalf("open video with %q: %v", header, err)
		}
		if chunk.Start != 0 || chunk.End != int64(len(content))-1 {
			t.Errorf("header %q: chunk = %d-%d, want full resource", header, chunk.Start, chunk.End)
		}
		if got := readChunk(t, chunk); len(got) != len(content) {
			t.Errorf("header %q: read %d bytes, want %d", header, len(got), len(content))
		}
	}
}

func TestOpenVideoEmptyResource(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", nil)
	delivery := deliveryFixture(t, idx)

	chunk, err := delivery.OpenVideo(context.Background(), entryID("Heat", "Heat.mp4"), "")
	if err != nil {
		t.Fatalf("open video: %v", err)
	}
	if chunk.Start != 0 || chunk.End != -1 || chunk.Total != 0 {
		t.Errorf("empty chunk = %d-%d/%d, want 0 - -1 / 0", chunk.Start, chunk.End, chunk.Total)
	}
	if got := readChunk(t, chunk); len(got) != 0 {
		t.Errorf("read %d bytes from an empty resource", len(got))
	}
}

func TestOpenVideoUnknownID(t *testing.T) {
	idx := fileindextest.New()
	seedLargeMovie(idx, 100)
	delivery := deliveryFixture(t, idx)

	_, err := delivery.OpenVideo(context.Background(), "no-such-id", "")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSubtitlePassesThroughVTT(t *testing.T) {
	idx := fileindextest.New()
	vtt := []byte("WEBVTT\n\n00:00:01.000 --> 00:00:02.000\nHi\n")
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	idx.AddFile("Heat/Heat_en.vtt", vtt)
	delivery := deliveryFixture(t, idx)

	body, err := delivery.Subtitle(context.Background(), entryID("Heat", "Heat.mp4"), "en")
	if err != nil {
		t.Fatalf("subtitle: %v", err)
	}
	if !bytes.Equal(body, vtt) {
		t.Errorf("vtt must be served raw")
	}
}

func TestSubtitleConvertsSRT(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	idx.AddFile("Heat/Heat_en.srt", []byte("1\n00:00:01,000 --> 00:00:02,500\nHi\n"))
	delivery := deliveryFixture(t, idx)

	body, err := delivery.Subtitle(context.Background(), entryID("Heat", "Heat.mp4"), "en")
	if err != nil {
		t.Fatalf("subtitle: %v", err)
	}
	text := string(body)
	if !strings.HasPrefix(text, "WEBVTT") {
		t.Errorf("converted body must start with WEBVTT, got %q", text)
	}
	if !strings.Contains(text, "00:00:01.000 --> 00:00:02.500\nHi") {
		t.Errorf("conversion not faithful:\n%s", text)
	}

	// Second request is served from the conversion cache
	again, err := delivery.Subtitle(context.Background(), entryID("Heat", "Heat.mp4"), "en")
	if err != nil {
		t.Fatalf("cached subtitle: %v", err)
	}
	if !bytes.Equal(body, again) {
		t.Errorf("cached conversion differs")
	}
}

func TestSubtitleUnknownLanguage(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	idx.AddFile("Heat/Heat_en.srt", []byte("1\n00:00:01,000 --> 00:00:02,000\nHi\n"))
	delivery := deliveryFixture(t, idx)

	_, err := delivery.Subtitle(context.Background(), entryID("Heat", "Heat.mp4"), "ja")
	if !errors.Is(err, catalog.ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing language, got %v", err)
	}
}

func TestSubtitleUnsupportedFormat(t *testing.T) {
	idx := fileindextest.New()
	idx.AddFile("Heat/details.json", []byte(movieDetails))
	idx.AddFile("Heat/Heat.mp4", []byte("movie"))
	idx.AddFile("Heat/Heat_en.ass", []byte("[Script Info]"))
	delivery := deliveryFixture(t, idx)

	_, err := delivery.Subtitle(context.Background(), entryID("Heat", "Heat.mp4"), "en")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}
