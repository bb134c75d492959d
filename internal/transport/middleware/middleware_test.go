package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestMiddleware(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Middleware Suite")
}

var _ = Describe("filterSensitiveBody", func() {
	It("masks credentials and push keys at any depth", func() {
		out := filterSensitiveBody([]byte(`{"email":"a@example.com","password":"x","keys":{"p256dh":"k","auth":"a"},"nested":[{"refresh_token":"t"}]}`))

		var got map[string]any
		Expect(json.Unmarshal([]byte(out), &got)).To(Succeed())
		Expect(got["email"]).To(Equal("a@example.com"))
		Expect(got["password"]).To(Equal("[FILTERED]"))
		Expect(got["keys"]).To(Equal("[FILTERED]"))
		Expect(got["nested"]).To(Equal([]any{map[string]any{"refresh_token": "[FILTERED]"}}))
	})

	It("masks non JSON bodies mentioning a secret", func() {
		Expect(filterSensitiveBody([]byte("secret=abc"))).To(Equal("[FILTERED - Contains sensitive data]"))
		Expect(filterSensitiveBody([]byte("hello"))).To(Equal("hello"))
	})
})

var _ = Describe("LoggingMiddleware", func() {
	It("leaves the request body readable for the handler", func() {
		var seen string
		h := LoggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			buf := new(bytes.Buffer)
			_, _ = buf.ReadFrom(r.Body)
			seen = buf.String()
			w.WriteHeader(http.StatusCreated)
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", bytes.NewBufferString(`{"type":"CP"}`)))

		Expect(rec.Code).To(Equal(http.StatusCreated))
		Expect(seen).To(Equal(`{"type":"CP"}`))
	})
})

var _ = Describe("RecoveryMiddleware", func() {
	It("answers a generic 500 without leaking the panic", func() {
		h := RecoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			panic("db password is hunter2")
		}))

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		Expect(rec.Code).To(Equal(http.StatusInternalServerError))
		Expect(rec.Body.String()).To(ContainSubstring("internal server error"))
		Expect(rec.Body.String()).NotTo(ContainSubstring("hunter2"))
	})
})

var _ = Describe("RequestID", func() {
	It("keeps a caller supplied trace id", func() {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(TraceHeader, "trace-123")

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get(TraceHeader)).To(Equal("trace-123"))
	})

	It("generates one otherwise", func() {
		h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		Expect(rec.Header().Get(TraceHeader)).To(HaveLen(36))
	})
})

var _ = Describe("CORS", func() {
	It("answers the preflight for an allowed origin", func() {
		h := CORS([]string{"https://rh.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/notifications", nil)
		req.Header.Set("Origin", "https://rh.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPatch)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		Expect(rec.Header().Get("Access-Control-Allow-Origin")).To(Equal("https://rh.example.com"))
	})
})
