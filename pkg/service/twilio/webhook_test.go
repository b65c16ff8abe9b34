package twilio_test

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/url"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/memovox/memovox/pkg/domain/types"
	"github.com/memovox/memovox/pkg/service/twilio"
)

func TestParseInbound(t *testing.T) {
	t.Run("text message", func(t *testing.T) {
		form := url.Values{
			"From":     {"+15551234567"},
			"Body":     {"hello"},
			"NumMedia": {"0"},
		}

		msg := twilio.ParseInbound(form)
		gt.Value(t, msg.UserID).Equal(types.UserID("+15551234567"))
		gt.Value(t, msg.Body).Equal("hello")
		gt.Bool(t, msg.HasMedia()).False()
	})

	t.Run("voice note", func(t *testing.T) {
		form := url.Values{
			"From":              {"+15551234567"},
			"NumMedia":          {"1"},
			"MediaUrl0":         {"https://api.twilio.com/media/ME123"},
			"MediaContentType0": {"audio/amr"},
		}

		msg := twilio.ParseInbound(form)
		gt.Bool(t, msg.HasMedia()).True()
		gt.Bool(t, msg.IsAudio()).True()
		gt.Value(t, msg.MediaURL).Equal("https://api.twilio.com/media/ME123")
	})

	t.Run("non-audio attachment", func(t *testing.T) {
		form := url.Values{
			"From":              {"+15551234567"},
			"NumMedia":          {"1"},
			"MediaUrl0":         {"https://api.twilio.com/media/ME456"},
			"MediaContentType0": {"image/jpeg"},
		}

		msg := twilio.ParseInbound(form)
		gt.Bool(t, msg.HasMedia()).True()
		gt.Bool(t, msg.IsAudio()).False()
	})
}

func TestMessageResponse(t *testing.T) {
	t.Run("renders message body", func(t *testing.T) {
		body := twilio.MessageResponse("Thought saved!")
		gt.Bool(t, strings.Contains(body, "<Message>Thought saved!</Message>")).True()
		gt.Bool(t, strings.HasPrefix(body, "<?xml")).True()
	})

	t.Run("escapes markup in message", func(t *testing.T) {
		body := twilio.MessageResponse("a < b & c")
		gt.Bool(t, strings.Contains(body, "a &lt; b &amp; c")).True()
	})

	t.Run("empty text renders empty response", func(t *testing.T) {
		body := twilio.MessageResponse("")
		gt.Bool(t, strings.Contains(body, "<Message>")).False()
		gt.Bool(t, strings.Contains(body, "<Response>")).True()
	})
}

func signForm(authToken, requestURL string, form url.Values) string {
	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	// keep in sync with Twilio's documented scheme
	for i := 0; i < len(names); i++ {
		for j := i + 1; j < len(names); j++ {
			if names[j] < names[i] {
				names[i], names[j] = names[j], names[i]
			}
		}
	}

	var sb strings.Builder
	sb.WriteString(requestURL)
	for _, name := range names {
		sb.WriteString(name)
		sb.WriteString(form.Get(name))
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	mac.Write([]byte(sb.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	const authToken = "test-auth-token"
	const requestURL = "https://example.com/hooks/twilio/sms"

	form := url.Values{
		"From": {"+15551234567"},
		"Body": {"hello"},
	}

	t.Run("accepts a valid signature", func(t *testing.T) {
		sig := signForm(authToken, requestURL, form)
		gt.NoError(t, twilio.ValidateSignature(authToken, requestURL, form, sig))
	})

	t.Run("rejects a tampered body", func(t *testing.T) {
		sig := signForm(authToken, requestURL, form)

		tampered := url.Values{
			"From": {"+15551234567"},
			"Body": {"goodbye"},
		}
		err := twilio.ValidateSignature(authToken, requestURL, tampered, sig)
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects a missing signature", func(t *testing.T) {
		err := twilio.ValidateSignature(authToken, requestURL, form, "")
		gt.Value(t, err).NotNil()
	})

	t.Run("rejects a wrong token", func(t *testing.T) {
		sig := signForm("other-token", requestURL, form)
		err := twilio.ValidateSignature(authToken, requestURL, form, sig)
		gt.Value(t, err).NotNil()
	})
}
