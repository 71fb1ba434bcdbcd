package handler

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multipartFileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	fw, err := w.CreateFormFile("images", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/claims", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	files := req.MultipartForm.File["images"]
	require.Len(t, files, 1)
	return files[0]
}

func TestReadAttachment(t *testing.T) {
	fh := multipartFileHeader(t, "receipt.jpg", []byte("jpeg bytes"))

	attachment, err := readAttachment(fh)

	require.NoError(t, err)
	assert.Equal(t, "receipt.jpg", attachment.FileName)
	assert.Equal(t, []byte("jpeg bytes"), attachment.Data)
}

func TestReadAttachmentRejectsOversizedFile(t *testing.T) {
	// One byte over the cap must fail outright, not come back truncated.
	oversized := bytes.Repeat([]byte{0xff}, maxAttachmentBytes+1)
	fh := multipartFileHeader(t, "huge.jpg", oversized)

	_, err := readAttachment(fh)

	assert.ErrorIs(t, err, errAttachmentTooLarge)
}

func TestReadAttachmentAcceptsFileAtLimit(t *testing.T) {
	atLimit := bytes.Repeat([]byte{0xff}, maxAttachmentBytes)
	fh := multipartFileHeader(t, "max.jpg", atLimit)

	attachment, err := readAttachment(fh)

	require.NoError(t, err)
	assert.Len(t, attachment.Data, maxAttachmentBytes)
}
