package controllers

import (
	"regexp"
	"strings"
)

// vttHeader is the mandatory first line of a WebVTT file
const vttHeader = "WEBVTT"

var (
	// cueIndexRegex matches the numeric cue counter line SRT puts above
	// each timestamp line
	cueIndexRegex = regexp.MustCompile(`^\d+$`)

	// srtTimestampRegex matches an SRT cue timing line with comma-decimal
	// milliseconds: "00:00:01,000 --> 00:00:02,500"
	srtTimestampRegex = regexp.MustCompile(`^\s*\d{2}:\d{2}:\d{2},\d{3}\s*-->\s*\d{2}:\d{2}:\d{2},\d{3}`)
)

// ConvertSRTToVTT converts a legacy SRT subtitle body to WebVTT: the
// numeric cue-index lines are dropped, timestamp separators are rewritten
// from comma-decimal to dot-decimal, the format header is prepended, and
// cue order and text are preserved verbatim.
func ConvertSRTToVTT(src []byte) []byte {
	text := strings.ReplaceAll(string(src), "\r\n", "\n")
	lines := strings.Split(text, "\n")

	var b strings.Builder
	b.Grow(len(text) + len(vttHeader) + 2)
	b.WriteString(vttHeader)
	b.WriteString("\n\n")

	for i, line := range lines {
		if cueIndexRegex.MatchString(strings.TrimSpace(line)) && nextIsTimestamp(lines, i) {
			continue
		}
		if srtTimestampRegex.MatchString(line) {
			line = strings.ReplaceAll(line, ",", ".")
		}
		b.WriteString(line)
		if i < len(lines)-1 {
			b.WriteString("\n")
		}
	}

	return []byte(b.String())
}

// nextIsTimestamp reports whether the line after position i is an SRT cue
// timing line, which is what distinguishes a cue index from subtitle text
// that happens to be a bare number
func nextIsTimestamp(lines []string, i int) bool {
	return i+1 < len(lines) && srtTimestampRegex.MatchString(lines[i+1])
}
