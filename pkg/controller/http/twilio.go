package http

import (
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/memovox/memovox/pkg/service/twilio"
	"github.com/memovox/memovox/pkg/usecase"
	"github.com/memovox/memovox/pkg/utils/errutil"
)

// TwilioWebhookHandler handles inbound SMS/MMS webhooks. The response is
// always a 200 TwiML document: a non-success status would make the gateway
// retry and duplicate-process the message, so failures surface only in the
// reply text.
type TwilioWebhookHandler struct {
	uc *usecase.UseCases
}

// NewTwilioWebhookHandler creates a new webhook handler
func NewTwilioWebhookHandler(uc *usecase.UseCases) *TwilioWebhookHandler {
	return &TwilioWebhookHandler{uc: uc}
}

func (h *TwilioWebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse webhook form"), http.StatusBadRequest)
		return
	}

	msg := twilio.ParseInbound(r.PostForm)

	reply, err := h.uc.HandleInbound(ctx, msg)
	if err != nil {
		// logged with the reply already chosen; the ack stays 200
		errutil.Handle(ctx, err, "failed to handle inbound message") //nolint:errcheck
	}

	w.Header().Set("Content-Type", "text/xml")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(twilio.MessageResponse(reply))) //nolint:errcheck // header already committed
}

// TwilioSignatureMiddleware creates a middleware that verifies the gateway
// request signature. An empty auth token disables verification.
func TwilioSignatureMiddleware(authToken, baseURL string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if authToken == "" {
				next.ServeHTTP(w, r)
				return
			}

			if err := r.ParseForm(); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse webhook form"), http.StatusBadRequest)
				return
			}

			requestURL := requestURL(r, baseURL)
			signature := r.Header.Get("X-Twilio-Signature")

			if err := twilio.ValidateSignature(authToken, requestURL, r.PostForm, signature); err != nil {
				errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "webhook signature verification failed"), http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// requestURL reconstructs the public URL the gateway signed. The configured
// base URL wins over the Host header when the server sits behind a proxy.
func requestURL(r *http.Request, baseURL string) string {
	if baseURL != "" {
		return strings.TrimSuffix(baseURL, "/") + r.URL.RequestURI()
	}

	scheme := "https"
	if r.TLS == nil && r.Header.Get("X-Forwarded-Proto") == "" {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.RequestURI()
}
