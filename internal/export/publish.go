package export

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/andresuchdata/vaxstock/backend-go/internal/report"
	"github.com/andresuchdata/vaxstock/backend-go/internal/storage"
	"github.com/rs/zerolog/log"
)

// Format selects the export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// Render encodes the report in the given format and returns the bytes and content type.
func Render(rep *report.Report, format Format) ([]byte, string, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		if err := WriteCSV(&buf, rep); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypeCSV, nil
	case FormatXLSX:
		if err := WriteXLSX(&buf, rep); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypeXLSX, nil
	case FormatPDF:
		if err := WritePDF(&buf, rep); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), ContentTypePDF, nil
	}
	return nil, "", fmt.Errorf("unsupported export format %q", format)
}

// Publish renders the report and uploads it under prefix. It returns the object key.
func Publish(ctx context.Context, store storage.ObjectStorage, prefix string, rep *report.Report, format Format, now time.Time) (string, error) {
	data, contentType, err := Render(rep, format)
	if err != nil {
		return "", err
	}

	key := storage.ObjectKey(prefix, FileName(rep, string(format), now))
	if err := store.UploadObject(ctx, key, data, contentType); err != nil {
		return "", err
	}

	log.Info().Str("key", key).Int("bytes", len(data)).Msg("report exported")
	return key, nil
}
