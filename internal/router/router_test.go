package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/swaps/swaps-go/internal/crypto"
	"github.com/swaps/swaps-go/internal/handler"
	"github.com/swaps/swaps-go/internal/model"
	"github.com/swaps/swaps-go/internal/repository/memory"
	"github.com/swaps/swaps-go/internal/service"
)

const testSecret = "router-test-secret"

type api struct {
	t *testing.T
	h http.Handler
}

func newAPI(t *testing.T) *api {
	t.Helper()

	store := memory.New()
	gate := service.NewGate(store)
	authSvc := service.NewAuthService(store, testSecret, time.Hour,
		service.WithHashParams(crypto.HashParams{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}),
		service.WithAdminEmails([]string{"admin@test.com"}),
	)

	return &api{t: t, h: New(Deps{
		JWTSecret:   testSecret,
		CORSOrigins: []string{"*"},
		Auth:        handler.NewAuthHandler(authSvc),
		Swaps:       handler.NewSwapHandler(service.NewLedgerService(store, store, service.SystemClock)),
		Messages: handler.NewMessageHandler(
			service.NewMessageService(gate, store, service.SystemClock),
			service.NewProjector(store, store),
		),
		Users: handler.NewUserHandler(service.NewUserService(store)),
	})}
}

func (a *api) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func (a *api) doFrom(method, path, remoteAddr string, headers map[string]string, body any) *httptest.ResponseRecorder {
	a.t.Helper()

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		a.t.Fatalf("encode body: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return v
}

func (a *api) register(name string) model.AuthResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/api/auth/register", "", model.RegisterRequest{
		Name:     name,
		Email:    strings.ToLower(name) + "@test.com",
		Password: "password123",
	})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("register %s status = %d, body %s", name, rec.Code, rec.Body.String())
	}
	return decode[model.AuthResponse](a.t, rec)
}

func (a *api) createRequest(token, receiverID string) model.SwapRequestResponse {
	a.t.Helper()
	rec := a.do(http.MethodPost, "/swap-requests", token, model.CreateSwapRequest{ReceiverID: receiverID})
	if rec.Code != http.StatusCreated {
		a.t.Fatalf("create request status = %d, body %s", rec.Code, rec.Body.String())
	}
	return decode[model.SwapRequestEnvelope](a.t, rec).SwapRequest
}

type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	rec := a.do(http.MethodGet, "/health", "", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("health = %d %q, want 200 ok", rec.Code, rec.Body.String())
	}
}

func TestMatchThenMessage(t *testing.T) {
	a := newAPI(t)
	alice := a.register("Alice")
	bob := a.register("Bob")

	sr := a.createRequest(alice.Token, bob.User.ID)
	if sr.Status != model.StatusPending {
		t.Fatalf("new request status = %s, want Pending", sr.Status)
	}

	rec := a.do(http.MethodPut, "/swap-requests/"+sr.ID+"/status", bob.Token, model.UpdateSwapStatusRequest{Status: "Accepted"})
	if rec.Code != http.StatusOK {
		t.Fatalf("accept status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.SwapRequestEnvelope](t, rec).SwapRequest.Status; got != model.StatusAccepted {
		t.Fatalf("decided status = %s, want Accepted", got)
	}

	rec = a.do(http.MethodPost, "/api/messages", alice.Token, model.SendMessageRequest{ReceiverID: bob.User.ID, Content: "hi"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("send status = %d, body %s", rec.Code, rec.Body.String())
	}
	sent := decode[model.MessageEnvelope](t, rec)
	if !sent.Success || sent.Message.Content != "hi" || sent.Message.SenderID != alice.User.ID {
		t.Errorf("sent = %+v", sent)
	}

	rec = a.do(http.MethodGet, "/api/messages/conversation/"+alice.User.ID, bob.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("conversation status = %d, body %s", rec.Code, rec.Body.String())
	}
	conv := decode[model.ConversationMessages](t, rec)
	if len(conv.Messages) != 1 || conv.Messages[0].Content != "hi" {
		t.Errorf("conversation = %+v, want the single message", conv.Messages)
	}

	rec = a.do(http.MethodGet, "/api/messages/conversations", bob.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("conversations status = %d", rec.Code)
	}
	list := decode[model.ConversationList](t, rec)
	if len(list.Conversations) != 1 {
		t.Fatalf("conversations = %d, want 1", len(list.Conversations))
	}
	c := list.Conversations[0]
	if c.Counterpart.ID != alice.User.ID || c.LastMessage == nil || c.LastMessage.Content != "hi" {
		t.Errorf("summary = %+v", c)
	}

	rec = a.do(http.MethodGet, "/swap-requests", alice.Token, nil)
	requests := decode[model.SwapRequestList](t, rec)
	if len(requests.Accepted) != 1 || len(requests.Outgoing) != 0 || len(requests.Incoming) != 0 {
		t.Errorf("alice partitions = %d/%d/%d, want 0/0/1", len(requests.Incoming), len(requests.Outgoing), len(requests.Accepted))
	}
}

func TestMessageWithoutMatch(t *testing.T) {
	a := newAPI(t)
	alice := a.register("Alice")
	bob := a.register("Bob")

	a.createRequest(alice.Token, bob.User.ID)

	rec := a.do(http.MethodPost, "/api/messages", alice.Token, model.SendMessageRequest{ReceiverID: bob.User.ID, Content: "hi"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("send status = %d, want 403", rec.Code)
	}
	if body := decode[errorBody](t, rec); body.Success || body.Message == "" {
		t.Errorf("error body = %+v", body)
	}

	rec = a.do(http.MethodGet, "/api/messages/conversation/"+bob.User.ID, alice.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("conversation status = %d, want 403", rec.Code)
	}
}

func TestDuplicateEmail(t *testing.T) {
	a := newAPI(t)
	a.register("Alice")

	rec := a.do(http.MethodPost, "/api/auth/register", "", model.RegisterRequest{
		Name:     "Alice2",
		Email:    "ALICE@test.com",
		Password: "password123",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if body := decode[errorBody](t, rec); !strings.Contains(body.Message, "email") {
		t.Errorf("message = %q, want a duplicate email message", body.Message)
	}
}

func TestSenderCannotAccept(t *testing.T) {
	a := newAPI(t)
	alice := a.register("Alice")
	bob := a.register("Bob")

	sr := a.createRequest(alice.Token, bob.User.ID)

	rec := a.do(http.MethodPut, "/swap-requests/"+sr.ID+"/status", alice.Token, model.UpdateSwapStatusRequest{Status: "Accepted"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	rec = a.do(http.MethodGet, "/swap-requests/"+sr.ID, bob.Token, nil)
	if got := decode[model.SwapRequestEnvelope](t, rec).SwapRequest.Status; got != model.StatusPending {
		t.Errorf("status after forbidden decide = %s, want Pending", got)
	}
}

func TestSwapRequestErrors(t *testing.T) {
	a := newAPI(t)
	alice := a.register("Alice")
	bob := a.register("Bob")
	carol := a.register("Carol")
	sr := a.createRequest(alice.Token, bob.User.ID)

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		body       any
		wantStatus int
	}{
		{name: "self request", method: http.MethodPost, path: "/swap-requests", token: alice.Token, body: model.CreateSwapRequest{ReceiverID: alice.User.ID}, wantStatus: http.StatusBadRequest},
		{name: "missing receiver", method: http.MethodPost, path: "/swap-requests", token: alice.Token, body: model.CreateSwapRequest{}, wantStatus: http.StatusBadRequest},
		{name: "unknown receiver", method: http.MethodPost, path: "/swap-requests", token: alice.Token, body: model.CreateSwapRequest{ReceiverID: "nobody"}, wantStatus: http.StatusNotFound},
		{name: "duplicate pair", method: http.MethodPost, path: "/swap-requests", token: bob.Token, body: model.CreateSwapRequest{ReceiverID: alice.User.ID}, wantStatus: http.StatusBadRequest},
		{name: "invalid status", method: http.MethodPut, path: "/swap-requests/" + sr.ID + "/status", token: bob.Token, body: model.UpdateSwapStatusRequest{Status: "Pending"}, wantStatus: http.StatusBadRequest},
		{name: "unknown request", method: http.MethodPut, path: "/swap-requests/missing/status", token: bob.Token, body: model.UpdateSwapStatusRequest{Status: "Accepted"}, wantStatus: http.StatusNotFound},
		{name: "outsider lookup", method: http.MethodGet, path: "/swap-requests/" + sr.ID, token: carol.Token, wantStatus: http.StatusForbidden},
		{name: "malformed body", method: http.MethodPost, path: "/swap-requests", token: alice.Token, body: "not an object", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
		})
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	a := newAPI(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/swap-requests"},
		{http.MethodPost, "/swap-requests"},
		{http.MethodPut, "/swap-requests/x/status"},
		{http.MethodPost, "/api/messages"},
		{http.MethodGet, "/api/messages/conversation/x"},
		{http.MethodGet, "/api/messages/conversations"},
		{http.MethodGet, "/api/auth/me"},
		{http.MethodGet, "/api/users"},
	}

	for _, p := range paths {
		for _, token := range []string{"", "temp-token-1", "admin-token-special"} {
			rec := a.do(p.method, p.path, token, nil)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("%s %s with token %q = %d, want 401", p.method, p.path, token, rec.Code)
			}
		}
	}
}

func TestAdminRoutes(t *testing.T) {
	a := newAPI(t)
	admin := a.register("Admin")
	alice := a.register("Alice")

	if admin.User.Role != model.RoleAdmin {
		t.Fatalf("admin role = %s, want Admin", admin.User.Role)
	}

	rec := a.do(http.MethodGet, "/api/admin/users", alice.Token, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("non-admin list status = %d, want 403", rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/admin/users", admin.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list status = %d", rec.Code)
	}
	if users := decode[model.UserList](t, rec).Users; len(users) != 2 {
		t.Errorf("admin list = %d users, want 2", len(users))
	}

	rec = a.do(http.MethodDelete, "/api/admin/users/"+alice.User.ID, admin.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin delete status = %d", rec.Code)
	}

	rec = a.do(http.MethodDelete, "/api/admin/users/"+alice.User.ID, admin.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestMeLifecycle(t *testing.T) {
	a := newAPI(t)
	alice := a.register("Alice")
	a.register("Bob")

	rec := a.do(http.MethodGet, "/api/users", alice.Token, nil)
	if users := decode[model.UserList](t, rec).Users; len(users) != 1 || users[0].Name != "Bob" {
		t.Errorf("directory = %+v, want only Bob", users)
	}

	newName := "Alicia"
	rec = a.do(http.MethodPut, "/api/auth/me", alice.Token, model.UpdateProfileRequest{Name: &newName})
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, body %s", rec.Code, rec.Body.String())
	}
	if got := decode[model.UserEnvelope](t, rec).User.Name; got != newName {
		t.Errorf("name = %q, want %q", got, newName)
	}

	taken := "Bob"
	rec = a.do(http.MethodPut, "/api/auth/me", alice.Token, model.UpdateProfileRequest{Name: &taken})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("taken name status = %d, want 400", rec.Code)
	}

	rec = a.do(http.MethodDelete, "/api/auth/me", alice.Token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}

	rec = a.do(http.MethodGet, "/api/auth/me", alice.Token, nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("me after delete = %d, want 404", rec.Code)
	}
}

func TestLogin(t *testing.T) {
	a := newAPI(t)
	a.register("Alice")

	rec := a.do(http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: "alice@test.com", Password: "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	resp := decode[model.AuthResponse](t, rec)
	if resp.Token == "" || !resp.Success {
		t.Errorf("login response = %+v", resp)
	}

	rec = a.do(http.MethodPost, "/api/auth/login", "", model.LoginRequest{Email: "alice@test.com", Password: "wrong"})
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
}

func TestLoginRateLimitIgnoresForwardingHeaders(t *testing.T) {
	a := newAPI(t)
	login := model.LoginRequest{Email: "nobody@test.com", Password: "wrong"}

	limited := 0
	for i := 0; i < 30; i++ {
		spoofed := fmt.Sprintf("203.0.113.%d", i+1)
		rec := a.doFrom(http.MethodPost, "/api/auth/login", "198.51.100.7:4321", map[string]string{
			"X-Forwarded-For": spoofed,
			"X-Real-IP":       spoofed,
			"True-Client-IP":  spoofed,
		}, login)
		if rec.Code == http.StatusTooManyRequests {
			limited++
		}
	}

	if limited == 0 {
		t.Error("rotating forwarding headers bypassed the login rate limit")
	}

	// A different peer still has its own bucket.
	rec := a.doFrom(http.MethodPost, "/api/auth/login", "198.51.100.8:4321", nil, login)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("fresh peer status = %d, want 401", rec.Code)
	}
}
