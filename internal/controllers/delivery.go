package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mvoisin/mediaserv/internal/catalog"
	"github.com/mvoisin/mediaserv/internal/services/fileindex"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// ErrUnsupportedFormat is returned when a subtitle track is neither the
// web format nor the convertible legacy format
var ErrUnsupportedFormat = errors.New("unsupported subtitle format")

// MaxStreamChunk caps how many video bytes a single range request may
// transfer. Large seeks cost multiple sequential requests, in exchange
// for bounded per-request memory and transfer.
const MaxStreamChunk = 1_000_000

// Chunk is one byte range of a video resource, ready to stream
type Chunk struct {
	Reader      io.ReadCloser // request-scoped, closed by the caller
	Start       int64
	End         int64 // inclusive; Start-1 when the resource is empty
	Total       int64
	ContentType string
}

// DeliveryController serves poster, video and subtitle bytes out of the
// published catalog. All operations are stateless reads; the only
// per-request resource is the file handle inside the returned reader.
type DeliveryController struct {
	library  *catalog.Library
	index    fileindex.Index
	vttCache *cache.Cache
	logger   *logrus.Logger
}

// NewDeliveryController creates a new delivery controller
func NewDeliveryController(library *catalog.Library, index fileindex.Index, subtitleCacheTTL time.Duration, logger *logrus.Logger) *DeliveryController {
	return &DeliveryController{
		library:  library,
		index:    index,
		vttCache: cache.New(subtitleCacheTTL, 2*subtitleCacheTTL),
		logger:   logger,
	}
}

// OpenPoster resolves a poster by id and opens it for streaming. The id
// may address the poster file itself or the folder owning it.
func (c *DeliveryController) OpenPoster(ctx context.Context, id string) (io.ReadCloser, int64, string, error) {
	snapshot := c.library.Current()

	entry, err := snapshot.Resolve(id)
	if err != nil {
		return nil, 0, "", err
	}

	if entry.IsDir {
		poster, ok := snapshot.PosterIn(entry)
		if !ok {
			return nil, 0, "", catalog.ErrNotFound
		}
		entry = poster
	}

	contentType := imageContentType(entry.Ext)
	if contentType == "" {
		// The id resolved to a file that is not an image
		return nil, 0, "", catalog.ErrNotFound
	}

	reader, size, err := c.index.Open(ctx, entry)
	if err != nil {
		c.logger.WithError(err).WithField("id", id).Warn("Poster unreadable")
		return nil, 0, "", catalog.ErrNotFound
	}
	return reader, size, contentType, nil
}

// OpenVideo resolves a video by id and opens the byte range described by
// rangeHeader. A missing or malformed range degrades to the whole
// resource at full length; only explicit ranges are clamped to
// MaxStreamChunk.
func (c *DeliveryController) OpenVideo(ctx context.Context, id, rangeHeader string) (*Chunk, error) {
	snapshot := c.library.Current()

	entry, _, err := snapshot.Video(id)
	if err != nil {
		return nil, err
	}

	reader, total, err := c.index.Open(ctx, entry)
	if err != nil {
		c.logger.WithError(err).WithField("id", id).Warn("Video unreadable")
		return nil, catalog.ErrNotFound
	}

	start, end, ranged := parseRange(rangeHeader, total)
	if ranged {
		if length := end - start + 1; length > MaxStreamChunk {
			end = start + MaxStreamChunk - 1
		}
	}

	if start > 0 {
		if _, err := reader.Seek(start, io.SeekStart); err != nil {
			reader.Close()
			return nil, fmt.Errorf("failed to seek video: %w", err)
		}
	}

	return &Chunk{
		Reader:      newLimitedReadCloser(reader, end-start+1),
		Start:       start,
		End:         end,
		Total:       total,
		ContentType: videoContentType(entry.Ext),
	}, nil
}

// Subtitle resolves the subtitle track of a video for one language and
// returns it as WebVTT, converting the legacy SRT format on the fly.
func (c *DeliveryController) Subtitle(ctx context.Context, videoID, lang string) ([]byte, error) {
	snapshot := c.library.Current()

	_, ref, err := snapshot.Video(videoID)
	if err != nil {
		return nil, err
	}

	entry, ok := ref.Subtitles()[lang]
	if !ok {
		return nil, catalog.ErrNotFound
	}

	switch entry.Ext {
	case "vtt":
		return c.readAll(ctx, entry)
	case "srt":
		if cached, found := c.vttCache.Get(entry.ID); found {
			return cached.([]byte), nil
		}
		src, err := c.readAll(ctx, entry)
		if err != nil {
			return nil, err
		}
		converted := ConvertSRTToVTT(src)
		c.vttCache.Set(entry.ID, converted, cache.DefaultExpiration)
		return converted, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, entry.Ext)
	}
}

func (c *DeliveryController) readAll(ctx context.Context, entry fileindex.Entry) ([]byte, error) {
	reader, _, err := c.index.Open(ctx, entry)
	if err != nil {
		c.logger.WithError(err).WithField("id", entry.ID).Warn("Subtitle unreadable")
		return nil, catalog.ErrNotFound
	}
	defer reader.Close()
	return io.ReadAll(reader)
}

// parseRange parses a "bytes=start-end" header against the total length.
// ranged reports whether an explicit range was honored; anything
// unparsable degrades to the full resource so playback survives client
// quirks, and those degraded answers are exempt from chunk clamping.
func parseRange(header string, total int64) (start, end int64, ranged bool) {
	start, end = 0, total-1
	if header == "" || !strings.HasPrefix(header, "bytes=") {
		return start, end, false
	}

	spec := strings.TrimPrefix(header, "bytes=")
	parts := strings.SplitN(spec, "-", 2)
	s, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || s < 0 || s >= total {
		return 0, total - 1, false
	}
	start = s

	if len(parts) == 2 && parts[1] != "" {
		if e, err := strconv.ParseInt(parts[1], 10, 64); err == nil && e >= start {
			end = e
		}
	}
	if end >= total {
		end = total - 1
	}
	return start, end, true
}

func videoContentType(ext string) string {
	switch ext {
	case "mp4":
		return "video/mp4"
	case "m3u8":
		return "application/vnd.apple.mpegurl"
	case "ts":
		return "video/mp2t"
	default:
		return "application/octet-stream"
	}
}

func imageContentType(ext string) string {
	switch ext {
	case "png":
		return "image/png"
	case "jpg", "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

// limitedReadCloser reads at most n bytes and closes the underlying file
type limitedReadCloser struct {
	io.Reader
	closer io.Closer
}

func newLimitedReadCloser(r io.ReadCloser, n int64) io.ReadCloser {
	if n < 0 {
		n = 0
	}
	return &limitedReadCloser{
		Reader: io.LimitReader(r, n),
		closer: r,
	}
}

func (l *limitedReadCloser) Close() error {
	return l.closer.Close()
}
