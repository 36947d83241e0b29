package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mvoisin/mediaserv/internal/services/fileindex"
)

// DetailsFileName is the per-production metadata file the builder requires
const DetailsFileName = "details.json"

// parseDetails reads and decodes a production's metadata file
func parseDetails(ctx context.Context, index fileindex.Index, entry fileindex.Entry) (ProductionDetails, error) {
	var details ProductionDetails

	r, _, err := index.Open(ctx, entry)
	if err != nil {
		return details, fmt.Errorf("failed to open details file: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return details, fmt.Errorf("failed to read details file: %w", err)
	}
	if err := json.Unmarshal(data, &details); err != nil {
		return details, fmt.Errorf("failed to decode details file: %w", err)
	}

	if details.Name == "" {
		return details, fmt.Errorf("details file has no name")
	}
	switch details.Type {
	case TypeMovie, TypeTVSeries, TypeOther:
	default:
		return details, fmt.Errorf("details file has unknown type %q", details.Type)
	}
	switch details.VideoFormat {
	case FormatMP4, FormatHLS:
	case "":
		details.VideoFormat = FormatMP4
	default:
		return details, fmt.Errorf("details file has unknown video format %q", details.VideoFormat)
	}

	return details, nil
}
