package storefront

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"log"
	"net/http"
	"strings"
)

// Gate cookie and paths
const (
	DigestCookie = "storefront_digest"
	PasswordPath = "/password"
)

// PasswordHandler serves the store-wide password challenge
type PasswordHandler struct {
	renderer *Renderer
	password string
}

// NewPasswordHandler creates a new PasswordHandler. An empty password disables the gate.
func NewPasswordHandler(renderer *Renderer, password string) *PasswordHandler {
	return &PasswordHandler{renderer: renderer, password: password}
}

// ServeHTTP handles GET and POST /password
func (h *PasswordHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if h.password == "" || h.hasValidDigest(r) {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.renderer.Render(w, http.StatusOK, "password", h.renderer.Page("password", "Password"))
	case http.MethodPost:
		h.submit(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *PasswordHandler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}

	given := r.PostForm.Get("password")
	if subtle.ConstantTimeCompare([]byte(given), []byte(h.password)) != 1 {
		log.Printf("Rejected storefront password attempt from %s", r.RemoteAddr)
		data := h.renderer.Page("password", "Password")
		data.Error = "Password incorrect"
		h.renderer.Render(w, http.StatusUnauthorized, "password", data)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     DigestCookie,
		Value:    digest(h.password),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/", http.StatusFound)
}

// Protect redirects every request lacking a valid digest to the challenge page
func (h *PasswordHandler) Protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.password == "" || r.URL.Path == PasswordPath ||
			strings.HasPrefix(r.URL.Path, "/assets/") || h.hasValidDigest(r) {
			next.ServeHTTP(w, r)
			return
		}
		http.Redirect(w, r, PasswordPath, http.StatusFound)
	})
}

func (h *PasswordHandler) hasValidDigest(r *http.Request) bool {
	c, err := r.Cookie(DigestCookie)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(c.Value), []byte(digest(h.password))) == 1
}

func digest(password string) string {
	sum := sha256.Sum256([]byte("storefront:" + password))
	return hex.EncodeToString(sum[:])
}
