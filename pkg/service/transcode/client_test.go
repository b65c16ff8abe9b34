package transcode_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memovox/memovox/pkg/service/transcode"
)

func TestClientConvert(t *testing.T) {
	t.Run("uploads audio and returns converted body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gt.Value(t, r.URL.Path).Equal("/convert")

			file, header, err := r.FormFile("audio")
			gt.NoError(t, err).Required()
			defer file.Close()

			gt.Bool(t, strings.HasSuffix(header.Filename, ".amr")).True()

			body, err := io.ReadAll(file)
			gt.NoError(t, err).Required()
			gt.Value(t, string(body)).Equal("amr-bytes")

			w.Write([]byte("mp3-bytes"))
		}))
		defer srv.Close()

		client, err := transcode.New(srv.URL)
		gt.NoError(t, err).Required()

		converted, err := client.Convert(context.Background(), []byte("amr-bytes"), "audio/amr")
		gt.NoError(t, err).Required()
		gt.Value(t, string(converted)).Equal("mp3-bytes")
	})

	t.Run("fails on converter error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		client, err := transcode.New(srv.URL)
		gt.NoError(t, err).Required()

		_, err = client.Convert(context.Background(), []byte("bad"), "audio/amr")
		gt.Value(t, err).NotNil()
	})

	t.Run("fails on empty converter response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		client, err := transcode.New(srv.URL)
		gt.NoError(t, err).Required()

		_, err = client.Convert(context.Background(), []byte("amr-bytes"), "audio/amr")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects empty payload without calling converter", func(t *testing.T) {
		client, err := transcode.New("http://converter.invalid")
		gt.NoError(t, err).Required()

		_, err = client.Convert(context.Background(), nil, "audio/amr")
		gt.Value(t, err).NotNil()
	})
}
