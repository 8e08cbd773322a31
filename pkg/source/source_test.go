package source_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pyhub-apps/callreport-golang/pkg/source"
)

func TestIsReport(t *testing.T) {
	tests := map[string]struct {
		attachment source.Attachment
		expected   bool
	}{
		"PDF": {
			attachment: source.Attachment{FileName: "callCenterReport_250509_170000.pdf", ContentType: "application/pdf"},
			expected:   true,
		},
		"OctetStream": {
			attachment: source.Attachment{FileName: "callCenterReport_250509_170000.PDF", ContentType: "application/octet-stream"},
			expected:   true,
		},
		"ContentTypeParameters": {
			attachment: source.Attachment{FileName: "callCenterReport_250509_170000.pdf", ContentType: "Application/PDF; name=x.pdf"},
			expected:   true,
		},
		"UntypedPDF": {
			attachment: source.Attachment{FileName: "callCenterReport_250509_final-v2.pdf"},
			expected:   true,
		},
		"WrongType": {
			attachment: source.Attachment{FileName: "callCenterReport_250509_170000.pdf", ContentType: "text/plain"},
			expected:   false,
		},
		"WrongName": {
			attachment: source.Attachment{FileName: "invoice_250509.pdf", ContentType: "application/pdf"},
			expected:   false,
		},
		"ShortDate": {
			attachment: source.Attachment{FileName: "callCenterReport_2505_170000.pdf", ContentType: "application/pdf"},
			expected:   false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.expected, source.IsReport(tt.attachment))
		})
	}
}

func TestFilter(t *testing.T) {
	kept, dropped := source.Filter([]source.Attachment{
		{FileName: "callCenterReport_250509_170000.pdf", ContentType: "application/pdf"},
		{FileName: "logo.png", ContentType: "image/png"},
	})
	assert.Len(t, kept, 1)
	assert.Equal(t, 1, dropped)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	write("callCenterReport_250510_090000.pdf", "b")
	write("callCenterReport_250509_090000.pdf", "a")
	write("notes.txt", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	attachments, err := source.NewDirSource(dir, zerolog.Nop()).Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, attachments, 2)

	assert.Equal(t, "callCenterReport_250509_090000.pdf", attachments[0].FileName)
	assert.Equal(t, []byte("a"), attachments[0].Data)
	assert.Equal(t, source.ContentTypePDF, attachments[1].ContentType)
}

func TestDirSourceMissingDir(t *testing.T) {
	_, err := source.NewDirSource(filepath.Join(t.TempDir(), "absent"), zerolog.Nop()).Fetch(context.Background())
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestStaticSource(t *testing.T) {
	src := source.StaticSource{{FileName: "a.pdf"}}
	got, err := src.Fetch(context.Background())
	require.NoError(t, err)
	got[0].FileName = "changed"
	assert.Equal(t, "a.pdf", src[0].FileName)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = src.Fetch(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
