package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := SignJWT("secret", TokenClaims{
		Sub:    "u1",
		Plan:   "pro",
		Locale: "ko",
		Exp:    time.Now().Add(time.Hour).Unix(),
	})
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	claims, err := VerifyJWT("secret", token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Sub != "u1" || claims.Plan != "pro" || claims.Locale != "ko" {
		t.Fatalf("claims = %+v", claims)
	}
}

func TestVerifyJWTRejectsTamper(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "u1"})
	if _, err := VerifyJWT("other-secret", token); err == nil {
		t.Fatal("expected signature mismatch")
	}
	if _, err := VerifyJWT("secret", token+"x"); err == nil {
		t.Fatal("expected tampered token to fail")
	}
}

func TestVerifyJWTRejectsExpired(t *testing.T) {
	token, _ := SignJWT("secret", TokenClaims{Sub: "u1", Exp: time.Now().Add(-time.Minute).Unix()})
	if _, err := VerifyJWT("secret", token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestAuthJWTPopulatesContext(t *testing.T) {
	var gotUser, gotPlan string
	h := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserIDFromContext(r.Context())
		gotPlan = PlanFromContext(r.Context())
	}))

	token, _ := SignJWT("secret", TokenClaims{Sub: "u1", Plan: "premium", Exp: time.Now().Add(time.Hour).Unix()})
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if gotUser != "u1" || gotPlan != "premium" {
		t.Fatalf("user = %q plan = %q", gotUser, gotPlan)
	}
}

func TestAuthJWTRejectsMissingHeader(t *testing.T) {
	h := AuthJWT("secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
