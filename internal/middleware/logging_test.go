package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	defer func() { log.Logger = prev }()

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Ctx(r.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusBadRequest)
	}))

	req := httptest.NewRequest(http.MethodPost, "/submit-entry", nil)
	req.RemoteAddr = "10.9.9.9:1000"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, `"message":"inside"`)
	assert.Contains(t, out, `"path":"/submit-entry"`)
	assert.Contains(t, out, `"status":400`)
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, `"ip":"10.9.9.9"`)
}
