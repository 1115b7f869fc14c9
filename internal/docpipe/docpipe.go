// Package docpipe pulls plain text out of uploaded files so the generation
// core only ever sees a narrative string. Documents are parsed locally;
// audio and video uploads are transcribed by the model provider and then
// normalized through the guide synthesizer upstream of extraction.
package docpipe

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format classifies an upload by file extension.
type Format int

const (
	FormatUnknown Format = iota
	FormatPDF
	FormatDocx
	FormatText
	FormatMedia
)

var mediaMIMETypes = map[string]string{
	".mp4":  "video/mp4",
	".mov":  "video/quicktime",
	".mpeg": "video/mpeg",
	".webm": "video/webm",
	".mp3":  "audio/mpeg",
	".mpga": "audio/mpeg",
	".m4a":  "audio/mp4",
	".wav":  "audio/wav",
}

// Detect returns the format for a filename. Unknown extensions are an
// error so the HTTP layer can reject them as invalid input.
func Detect(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDocx, nil
	case ".txt", ".text", ".md", ".markdown":
		return FormatText, nil
	default:
		if _, ok := mediaMIMETypes[ext]; ok {
			return FormatMedia, nil
		}
		return FormatUnknown, fmt.Errorf("unsupported file type %q", ext)
	}
}

// MediaMIMEType returns the MIME type to send with a media upload.
func MediaMIMEType(filename string) string {
	return mediaMIMETypes[strings.ToLower(filepath.Ext(filename))]
}

// ExtractText returns the plain text of a document upload. Media formats
// are not handled here; they go through the Transcriber.
func ExtractText(filename string, data []byte) (string, error) {
	format, err := Detect(filename)
	if err != nil {
		return "", err
	}
	switch format {
	case FormatPDF:
		return extractPDF(data)
	case FormatDocx:
		return extractDocx(data)
	case FormatText:
		return strings.TrimSpace(string(data)), nil
	case FormatMedia:
		return "", fmt.Errorf("%s is a media file; transcribe it instead", filename)
	default:
		return "", fmt.Errorf("unsupported file %q", filename)
	}
}
