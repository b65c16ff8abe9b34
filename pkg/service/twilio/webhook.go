package twilio

import (
	"crypto/hmac"
	"crypto/sha1" //nolint:gosec // Twilio's signature scheme mandates SHA-1
	"encoding/base64"
	"encoding/xml"
	"net/url"
	"sort"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/domain/model"
	"github.com/memovox/memovox/pkg/domain/types"
)

// ParseInbound converts a Twilio webhook form into a channel-agnostic
// inbound message. Only the first media item is considered; voice notes
// arrive as a single attachment.
func ParseInbound(form url.Values) model.InboundMessage {
	msg := model.InboundMessage{
		UserID: types.UserID(form.Get("From")),
		Body:   form.Get("Body"),
	}
	if form.Get("NumMedia") != "" && form.Get("NumMedia") != "0" {
		msg.MediaURL = form.Get("MediaUrl0")
		msg.MediaContentType = form.Get("MediaContentType0")
	}
	return msg
}

// twimlResponse is the TwiML document returned to Twilio
type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Message string   `xml:"Message,omitempty"`
}

// MessageResponse renders a TwiML response carrying one outbound message.
// An empty text renders an empty <Response/>, which acknowledges the
// webhook without replying.
func MessageResponse(text string) string {
	body, err := xml.Marshal(twimlResponse{Message: text})
	if err != nil {
		// xml.Marshal of a plain string field can not fail; keep the
		// webhook ack alive regardless
		body = []byte("<Response></Response>")
	}
	return xml.Header + string(body)
}

// ValidateSignature verifies the X-Twilio-Signature header: base64-encoded
// HMAC-SHA1 of the full request URL concatenated with each POST parameter
// name and value, sorted by name.
// This is a pure function that can be used independently for testing.
func ValidateSignature(authToken, requestURL string, form url.Values, signature string) error {
	if signature == "" {
		return goerr.New("missing signature")
	}

	names := make([]string, 0, len(form))
	for name := range form {
		names = append(names, name)
	}
	sort.Strings(names)

	var sb strings.Builder
	sb.WriteString(requestURL)
	for _, name := range names {
		for _, value := range form[name] {
			sb.WriteString(name)
			sb.WriteString(value)
		}
	}

	mac := hmac.New(sha1.New, []byte(authToken))
	if _, err := mac.Write([]byte(sb.String())); err != nil {
		return goerr.Wrap(err, "failed to compute HMAC")
	}
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return goerr.New("signature mismatch", goerr.V("url", requestURL))
	}

	return nil
}
