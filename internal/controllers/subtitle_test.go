package controllers

import (
	"strings"
	"testing"
)

func TestConvertSRTToVTT(t *testing.T) {
	srt := "1\n" +
		"00:00:01,000 --> 00:00:02,500\n" +
		"Hi\n" +
		"\n" +
		"2\n" +
		"00:00:03,250 --> 00:00:04,000\n" +
		"Second cue\n"

	vtt := string(ConvertSRTToVTT([]byte(srt)))

	if !strings.HasPrefix(vtt, "WEBVTT\n") {
		t.Fatalf("output must start with the WEBVTT header, got %q", vtt)
	}
	if !strings.Contains(vtt, "00:00:01.000 --> 00:00:02.500\nHi") {
		t.Errorf("first cue not converted faithfully:\n%s", vtt)
	}
	if !strings.Contains(vtt, "00:00:03.250 --> 00:00:04.000\nSecond cue") {
		t.Errorf("second cue not converted faithfully:\n%s", vtt)
	}
	if strings.Contains(vtt, "\n1\n") || strings.Contains(vtt, "\n2\n00:") {
		t.Errorf("cue index lines must be dropped:\n%s", vtt)
	}

	// Cue order preserved
	first := strings.Index(vtt, "Hi")
	second := strings.Index(vtt, "Second cue")
	if first < 0 || second < 0 || second < first {
		t.Errorf("cue order not preserved:\n%s", vtt)
	}
}

func TestConvertSRTToVTTKeepsNumericCueText(t *testing.T) {
	// A bare number that is cue text, not a cue index, must survive
	srt := "1\n" +
		"00:00:01,000 --> 00:00:02,000\n" +
		"42\n"

	vtt := string(ConvertSRTToVTT([]byte(srt)))

	if !strings.Contains(vtt, "00:00:01.000 --> 00:00:02.000\n42") {
		t.Errorf("numeric cue text was dropped:\n%s", vtt)
	}
}

func TestConvertSRTToVTTHandlesCRLF(t *testing.T) {
	srt := "1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n"

	vtt := string(ConvertSRTToVTT([]byte(srt)))

	if !strings.Contains(vtt, "00:00:01.000 --> 00:00:02.000\nHi") {
		t.Errorf("CRLF input not converted:\n%s", vtt)
	}
}

func TestConvertSRTToVTTKeepsCommasInText(t *testing.T) {
	srt := "1\n" +
		"00:00:01,000 --> 00:00:02,000\n" +
		"Well, hello\n"

	vtt := string(ConvertSRTToVTT([]byte(srt)))

	if !strings.Contains(vtt, "Well, hello") {
		t.Errorf("commas in cue text must be preserved verbatim:\n%s", vtt)
	}
}
