package assistant

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/classpilot/classpilot/pkg/logger"
)

// mockGateway is a fake automation gateway backed by httptest. Each endpoint's
// behavior can be overridden per test, and call counts are recorded so tests
// can assert which calls were (not) made.
type mockGateway struct {
	mu     sync.Mutex
	server *httptest.Server

	healthStatus int
	status       ConnectionStatus
	statusCode   int
	authSuccess  bool
	authCode     int
	chatResponse ChatResponse
	chatCode     int
	latestChat   *LatestChat
	syncCode     int

	healthCalls   int
	statusCalls   int
	authCalls     int
	dispatchCalls int
	syncCalls     int

	lastDispatch struct {
		contentType string
		chatID      string
		message     string
		website     string
		files       map[string][]byte
	}
}

func newMockGateway() *mockGateway {
	g := &mockGateway{
		healthStatus: http.StatusOK,
		statusCode:   http.StatusOK,
		authCode:     http.StatusOK,
		chatCode:     http.StatusOK,
		syncCode:     http.StatusOK,
		authSuccess:  true,
		status: ConnectionStatus{
			Authenticated: true,
			ConnectedWebsites: []ConnectedWebsite{
				{Name: "deepseek", SessionActive: true},
				{Name: "gemini", SessionActive: true},
			},
		},
		chatResponse: ChatResponse{
			Success:  true,
			Response: "hello from the gateway",
			ChatID:   "chat-1",
			Website:  "deepseek",
		},
		latestChat: &LatestChat{ID: 1, ChatID: "ext-chat-1"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chats", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.healthCalls++
		code := g.healthStatus
		g.mu.Unlock()
		w.WriteHeader(code)
	})
	mux.HandleFunc("/api/status", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.statusCalls++
		code := g.statusCode
		status := g.status
		g.mu.Unlock()
		w.WriteHeader(code)
		if code == http.StatusOK {
			_ = json.NewEncoder(w).Encode(status)
		}
	})
	mux.HandleFunc("/api/authenticate", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.authCalls++
		code := g.authCode
		success := g.authSuccess
		g.mu.Unlock()
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"success": success})
	})
	mux.HandleFunc("/api/external/chat", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.dispatchCalls++
		g.recordDispatchLocked(r)
		code := g.chatCode
		resp := g.chatResponse
		g.mu.Unlock()
		w.WriteHeader(code)
		if code == http.StatusOK {
			_ = json.NewEncoder(w).Encode(resp)
		}
	})
	mux.HandleFunc("/api/chats/sync-and-get-latest", func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.syncCalls++
		code := g.syncCode
		latest := g.latestChat
		g.mu.Unlock()
		w.WriteHeader(code)
		if code == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]interface{}{
				"success":     true,
				"latest_chat": latest,
			})
		}
	})

	g.server = httptest.NewServer(mux)
	return g
}

func (g *mockGateway) recordDispatchLocked(r *http.Request) {
	g.lastDispatch.contentType = r.Header.Get("Content-Type")
	g.lastDispatch.files = map[string][]byte{}

	if err := r.ParseMultipartForm(1 << 20); err == nil && r.MultipartForm != nil {
		g.lastDispatch.chatID = r.FormValue("chat_id")
		g.lastDispatch.message = r.FormValue("message")
		g.lastDispatch.website = r.FormValue("website")
		for _, header := range r.MultipartForm.File["files"] {
			f, err := header.Open()
			if err != nil {
				continue
			}
			buf := make([]byte, header.Size)
			n, _ := f.Read(buf)
			f.Close()
			g.lastDispatch.files[header.Filename] = buf[:n]
		}
		return
	}

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err == nil {
		g.lastDispatch.chatID = req.ChatID
		g.lastDispatch.message = req.Message
		g.lastDispatch.website = req.Website
	}
}

func (g *mockGateway) close() {
	g.server.Close()
}

func (g *mockGateway) client() *GatewayClient {
	return NewGatewayClient(g.server.URL, 5*time.Second, logger.NewDefault())
}

func (g *mockGateway) counts() (health, status, auth, dispatch, syncs int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.healthCalls, g.statusCalls, g.authCalls, g.dispatchCalls, g.syncCalls
}
