package wallpaper

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// makeJPEG encodes a w x h gradient as JPEG.
func makeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// countingServer serves respond(n) for the nth request (1-based).
func countingServer(t *testing.T, respond func(n int64, w http.ResponseWriter)) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respond(calls.Add(1), w)
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func sourcesOn(srv *httptest.Server, paths ...string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = srv.URL + p
	}
	return out
}

// MockPlatform is a testify mock of Platform.
type MockPlatform struct {
	mock.Mock
}

func (m *MockPlatform) SetWallpaper(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockPlatform) SetPersistentOption(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockPlatform) ReloadUserSettings() error {
	return m.Called().Error(0)
}

func (m *MockPlatform) SetStartupRegistration(enabled bool) error {
	return m.Called(enabled).Error(0)
}

func (m *MockPlatform) IsStartupRegistered() (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

// newOKPlatform returns a MockPlatform that accepts every apply call.
func newOKPlatform() *MockPlatform {
	p := &MockPlatform{}
	p.On("SetWallpaper", mock.Anything).Return(nil)
	p.On("SetPersistentOption", mock.Anything, mock.Anything).Return(nil)
	p.On("ReloadUserSettings").Return(nil)
	return p
}
