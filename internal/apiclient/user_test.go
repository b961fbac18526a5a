package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hayabusatrip/gateway/internal/apiclient"
	"github.com/hayabusatrip/gateway/internal/domain"
)

func TestClient_GetUser_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users/uidMock", r.URL.Path)
		writeJSON(t, w, http.StatusOK, domain.User{ID: 1, UID: "uidMock", Name: "nameMock"})
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, nil)
	u, err := c.GetUser(context.Background(), "tok", "uidMock")

	require.NoError(t, err)
	assert.Equal(t, 1, u.ID)
}

func TestClient_GetUser_ServerErrorBecomesUserFetchFailed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, nil)
	_, err := c.GetUser(context.Background(), "tok", "uidMock")

	assert.ErrorIs(t, err, domain.ErrUserFetch)
}

func TestClient_UpdateUser_UploadsIconBeforePatch(t *testing.T) {
	var gotBody map[string]map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPatch, r.Method)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		writeJSON(t, w, http.StatusOK, domain.User{ID: 1, UID: "uidMock"})
	}))
	defer srv.Close()

	up := &mockUploader{
		upload: func(_ context.Context, _ domain.ImageFile, key string) (string, error) {
			assert.Contains(t, key, "users/uidMock-")
			return "https://storage.example.com/users/uidMock-1.jpeg", nil
		},
	}

	c := apiclient.New(srv.URL, up)
	_, err := c.UpdateUser(context.Background(), "tok", "uidMock",
		domain.UserPatch{}, &domain.ImageFile{ContentType: "image/jpeg"})

	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/users/uidMock-1.jpeg", gotBody["user"]["icon_path"])
}

func TestClient_UpdateUser_FailedIconUploadAbortsPatch(t *testing.T) {
	patched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		patched = true
		writeJSON(t, w, http.StatusOK, domain.User{})
	}))
	defer srv.Close()

	up := &mockUploader{
		upload: func(context.Context, domain.ImageFile, string) (string, error) {
			return "", errors.New("bucket unavailable")
		},
	}

	c := apiclient.New(srv.URL, up)
	_, err := c.UpdateUser(context.Background(), "tok", "uidMock",
		domain.UserPatch{}, &domain.ImageFile{ContentType: "image/jpeg"})

	assert.ErrorIs(t, err, domain.ErrUserUpdate)
	assert.False(t, patched)
}

func TestClient_DeleteUser_OK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/users/uidMock", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := apiclient.New(srv.URL, nil)

	require.NoError(t, c.DeleteUser(context.Background(), "tok", "uidMock"))
}
