package web_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/teslashibe/go-shopwatch/pkg/caption"
	"github.com/teslashibe/go-shopwatch/pkg/web"
)

// pngUpload builds a multipart body carrying a small valid PNG.
func pngUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 30), uint8(y * 30), 128, 255})
		}
	}
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}

	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", "frame.png")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	fw.Write(encoded.Bytes())
	mw.Close()
	return body, mw.FormDataContentType()
}

func garbageUpload(t *testing.T) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, _ := mw.CreateFormFile("file", "junk.bin")
	fw.Write([]byte("this is not an image"))
	mw.Close()
	return body, mw.FormDataContentType()
}

func doDetect(t *testing.T, provider caption.Provider, body *bytes.Buffer, contentType string) *http.Response {
	t.Helper()
	srv := web.NewServer(":0", provider, nil)
	req := httptest.NewRequest(http.MethodPost, "/detect", body)
	req.Header.Set("Content-Type", contentType)
	resp, err := srv.App().Test(req, 5000)
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	srv := web.NewServer(":0", caption.NewMock(), nil)
	resp, err := srv.App().Test(httptest.NewRequest(http.MethodGet, "/health", nil))
	if err != nil {
		t.Fatalf("app test: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out map[string]string
	json.NewDecoder(resp.Body).Decode(&out)
	if out["status"] != "ok" {
		t.Errorf("body = %v", out)
	}
}

func TestDetect(t *testing.T) {
	t.Run("shop caption detects", func(t *testing.T) {
		body, ct := pngUpload(t)
		resp := doDetect(t, caption.Fixed("a busy outdoor market"), body, ct)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var out web.DetectResponse
		json.NewDecoder(resp.Body).Decode(&out)
		if !out.IsShop {
			t.Error("expected is_shop = true")
		}
		if out.Caption != "a busy outdoor market" {
			t.Errorf("caption = %q", out.Caption)
		}
		if out.Score < 70 || out.Score > 99 {
			t.Errorf("score = %d, want [70,99]", out.Score)
		}
		if out.Pun == "" {
			t.Error("expected a pun on detection")
		}
		if out.RequestID == "" {
			t.Error("expected a request id")
		}
	})

	t.Run("non-shop caption does not detect", func(t *testing.T) {
		body, ct := pngUpload(t)
		resp := doDetect(t, caption.Fixed("a quiet forest path"), body, ct)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d", resp.StatusCode)
		}

		var out web.DetectResponse
		json.NewDecoder(resp.Body).Decode(&out)
		if out.IsShop {
			t.Error("expected is_shop = false")
		}
		if out.Score < 0 || out.Score > 40 {
			t.Errorf("score = %d, want [0,40]", out.Score)
		}
		if out.Pun != "" {
			t.Errorf("expected no pun, got %q", out.Pun)
		}
	})

	t.Run("invalid image payload is a structured 400", func(t *testing.T) {
		body, ct := garbageUpload(t)
		resp := doDetect(t, caption.NewMock(), body, ct)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
		var out map[string]string
		json.NewDecoder(resp.Body).Decode(&out)
		if out["error"] == "" {
			t.Error("expected structured error body")
		}
	})

	t.Run("missing file field is a 400", func(t *testing.T) {
		resp := doDetect(t, caption.NewMock(), &bytes.Buffer{}, "multipart/form-data; boundary=x")
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("provider failure is a 502", func(t *testing.T) {
		body, ct := pngUpload(t)
		resp := doDetect(t, caption.WithError(errors.New("model fault")), body, ct)
		if resp.StatusCode != http.StatusBadGateway {
			t.Fatalf("status = %d, want 502", resp.StatusCode)
		}
	})
}
