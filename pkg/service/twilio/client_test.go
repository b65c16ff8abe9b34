package twilio_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memovox/memovox/pkg/service/twilio"
)

func TestClientFetch(t *testing.T) {
	t.Run("downloads media with basic auth", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, pass, ok := r.BasicAuth()
			gt.Bool(t, ok).True()
			gt.Value(t, user).Equal("AC123")
			gt.Value(t, pass).Equal("secret")
			w.Write([]byte("audio-bytes"))
		}))
		defer srv.Close()

		client, err := twilio.New("AC123", "secret")
		gt.NoError(t, err).Required()

		data, err := client.Fetch(context.Background(), srv.URL+"/media/ME123")
		gt.NoError(t, err).Required()
		gt.Value(t, string(data)).Equal("audio-bytes")
	})

	t.Run("fails on non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer srv.Close()

		client, err := twilio.New("AC123", "secret")
		gt.NoError(t, err).Required()

		_, err = client.Fetch(context.Background(), srv.URL+"/media/ME404")
		gt.Value(t, err).NotNil()
	})

	t.Run("requires credentials", func(t *testing.T) {
		_, err := twilio.New("", "")
		gt.Value(t, err).NotNil()
	})
}
