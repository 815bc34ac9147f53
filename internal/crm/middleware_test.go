package crm

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func signatureTestRouter(secret string) (*gin.Engine, *int) {
	gin.SetMode(gin.TestMode)
	handled := 0
	r := gin.New()
	r.POST("/webhooks/crm", SignatureMiddleware(secret), func(c *gin.Context) {
		handled++
		body, _ := c.GetRawData()
		c.JSON(http.StatusOK, gin.H{"bytes": len(body)})
	})
	return r, &handled
}

func TestSignatureMiddlewareValidSignature(t *testing.T) {
	body := []byte(`{"type":"person.created","data":{}}`)
	r, handled := signatureTestRouter("topsecret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/crm", bytes.NewReader(body))
	req.Header.Set("X-Crm-Signature", signBody("topsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", w.Code)
	}
	if *handled != 1 {
		t.Errorf("handler invoked %d times, want 1", *handled)
	}
	// The middleware must leave the body readable for the handler.
	if !bytes.Contains(w.Body.Bytes(), []byte(`"bytes":35`)) {
		t.Errorf("handler saw a drained body: %s", w.Body.String())
	}
}

func TestSignatureMiddlewareRejectsBadSignature(t *testing.T) {
	body := []byte(`{"type":"person.created"}`)
	r, handled := signatureTestRouter("topsecret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/crm", bytes.NewReader(body))
	req.Header.Set("X-Crm-Signature", signBody("wrongsecret", body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}
	if *handled != 0 {
		t.Errorf("handler invoked %d times, want 0", *handled)
	}
}

func TestSignatureMiddlewareRejectsMissingSignature(t *testing.T) {
	r, handled := signatureTestRouter("topsecret")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/crm", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: got %d, want 401", w.Code)
	}
	if *handled != 0 {
		t.Errorf("handler invoked %d times, want 0", *handled)
	}
}

func TestSignatureMiddlewareSkipsWithoutSecret(t *testing.T) {
	r, handled := signatureTestRouter("")

	req := httptest.NewRequest(http.MethodPost, "/webhooks/crm", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 when no secret is configured", w.Code)
	}
	if *handled != 1 {
		t.Errorf("handler invoked %d times, want 1", *handled)
	}
}
