package storage

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/bmjaya/printworks/internal/config"
)

func newTestStore(t *testing.T, maxSize int64) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(config.Config{
		Upload: config.Upload{Dir: dir, MaxSize: maxSize},
	}, zap.NewNop())
	assert.NoError(t, err)
	return store, dir
}

func uploadHeader(t *testing.T, filename, contentType, content string) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	assert.NoError(t, err)
	_, err = part.Write([]byte(content))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, "/", &buf)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File["file"][0]
}

func TestSave_WritesFileWithGeneratedName(t *testing.T) {
	store, dir := newTestStore(t, 1<<20)

	name, err := store.Save(uploadHeader(t, "desain.png", "image/png", "fake png bytes"))

	assert.NoError(t, err)
	assert.NotEqual(t, "desain.png", name)
	assert.True(t, strings.HasSuffix(name, ".png"))

	written, err := os.ReadFile(filepath.Join(dir, name))
	assert.NoError(t, err)
	assert.Equal(t, "fake png bytes", string(written))
}

func TestSave_RejectsNonImage(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	_, err := store.Save(uploadHeader(t, "notes.txt", "text/plain", "hello"))

	assert.ErrorIs(t, err, ErrNotAnImage)
}

func TestSave_RejectsOversizedFile(t *testing.T) {
	store, _ := newTestStore(t, 4)

	_, err := store.Save(uploadHeader(t, "big.png", "image/png", "way too many bytes"))

	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestSave_RejectsNil(t *testing.T) {
	store, _ := newTestStore(t, 1<<20)

	_, err := store.Save(nil)

	assert.ErrorIs(t, err, ErrBadName)
}

func TestRemove_DeletesStoredFile(t *testing.T) {
	store, dir := newTestStore(t, 1<<20)

	name, err := store.Save(uploadHeader(t, "pola.jpg", "image/jpeg", "jpeg"))
	assert.NoError(t, err)

	store.Remove(name)

	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))
}

func TestRemove_IgnoresTraversalAttempts(t *testing.T) {
	store, dir := newTestStore(t, 1<<20)

	outside := filepath.Join(filepath.Dir(dir), "victim.txt")
	assert.NoError(t, os.WriteFile(outside, []byte("keep me"), 0o644))

	store.Remove("../victim.txt")
	store.Remove("/etc/passwd")
	store.Remove("")

	content, err := os.ReadFile(outside)
	assert.NoError(t, err)
	assert.Equal(t, "keep me", string(content))
}
