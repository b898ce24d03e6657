package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	hdr := http.Header{}
	hdr.Set("Content-Type", "application/json")
	body := []byte(`{"lessons":[],"count":0}`)

	payload, err := encodePayload(http.StatusOK, hdr, body)
	require.NoError(t, err)

	status, gotHdr, gotBody, ok := decodePayload(payload)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	assert.Equal(t, body, gotBody)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, _, ok := decodePayload([]byte{1, 2, 3})
	assert.False(t, ok)
}

func TestCaptureWriterStopsAtLimit(t *testing.T) {
	rec := httptest.NewRecorder()
	cw := &captureWriter{ResponseWriter: rec, status: http.StatusOK, limit: 8}

	_, err := cw.Write(bytes.Repeat([]byte("a"), 6))
	require.NoError(t, err)
	_, err = cw.Write(bytes.Repeat([]byte("b"), 6))
	require.NoError(t, err)

	// The client sees the full body while the capture stops at the limit.
	assert.Equal(t, 12, rec.Body.Len())
	assert.Equal(t, 8, cw.buf.Len())
	assert.Equal(t, int64(12), cw.size)
}

func TestFitsLimitGuardsTruncatedCaptures(t *testing.T) {
	// A body that blew past the capture limit must never be stored:
	// the buffer holds a truncated copy that would replay corrupted.
	assert.False(t, fitsLimit(12, 8))
	assert.True(t, fitsLimit(8, 8))
	assert.True(t, fitsLimit(3, 8))
	// Non-positive limit disables the cap.
	assert.True(t, fitsLimit(1<<30, 0))
	assert.True(t, fitsLimit(1<<30, -1))
}
