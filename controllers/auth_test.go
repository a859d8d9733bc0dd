package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func loginRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/api/login", NewAuthController("hunter2").Login)
	return router
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, r)
	return w
}

func TestLoginEchoesSecretAsToken(t *testing.T) {
	w := postJSON(loginRouter(), "/api/login", `{"password":"hunter2"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", w.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if !resp.Success || resp.Token != "hunter2" {
		t.Fatalf("unexpected response %s", w.Body.String())
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	w := postJSON(loginRouter(), "/api/login", `{"password":"hunter3"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Invalid password") {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestLoginRequiresPasswordField(t *testing.T) {
	w := postJSON(loginRouter(), "/api/login", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
}
