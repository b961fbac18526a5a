package upload_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayabusatrip/gateway/internal/domain"
	"github.com/hayabusatrip/gateway/internal/upload"
)

func pngFixture() domain.ImageFile {
	return domain.ImageFile{ContentType: "image/png", Data: []byte("png-bytes")}
}

func TestStorage_Upload_PutsObjectAndReturnsURL(t *testing.T) {
	var (
		gotMethod      string
		gotPath        string
		gotContentType string
		gotBody        []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := upload.NewStorage(srv.URL)

	url, err := s.Upload(context.Background(), pngFixture(), "trips/uid-abc.png")

	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "/trips/uid-abc.png", gotPath)
	assert.Equal(t, "image/png", gotContentType)
	assert.Equal(t, []byte("png-bytes"), gotBody)
	assert.Equal(t, srv.URL+"/trips/uid-abc.png", url)
}

func TestStorage_Upload_ErrorOnRejectedPut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	s := upload.NewStorage(srv.URL)

	_, err := s.Upload(context.Background(), pngFixture(), "trips/uid-abc.png")

	assert.Error(t, err)
}

func TestTripImageKey_Shape(t *testing.T) {
	key := upload.TripImageKey("uid123", pngFixture())

	assert.Regexp(t, regexp.MustCompile(`^trips/uid123-[0-9a-f-]{36}\.png$`), key)
}

func TestUserIconKey_UnknownContentTypeFallsBack(t *testing.T) {
	key := upload.UserIconKey("uid123", domain.ImageFile{ContentType: "", Data: nil})

	assert.Regexp(t, regexp.MustCompile(`^users/uid123-[0-9a-f-]{36}\.bin$`), key)
}
