package handler

import (
	"net/http"

	"github.com/hardiksingla/insightboard/internal/api"
	"github.com/hardiksingla/insightboard/internal/domain"
	"github.com/hardiksingla/insightboard/internal/utils"
)

func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req api.SignupRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	if _, err := h.auth.Signup(req.Email, req.Name, req.Password); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, api.SignupResponse{Message: "Created. You can login now"})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setSessionCookie(w, accessToken)

	writeJSON(w, http.StatusOK, api.LoginResponse{Message: "You logged in", AccessToken: accessToken})
}

// Sso exchanges a federated profile for a session. The caller is the trusted
// identity layer, authenticated by the shared secret rather than a session.
func (h *Handler) Sso(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Private.AuthSecret == "" || r.Header.Get("X-Auth-Secret") != h.cfg.Private.AuthSecret {
		http.Error(w, "Invalid auth secret", http.StatusUnauthorized)
		return
	}

	var req api.SsoRequest
	if err := utils.DecodeValidate(r.Body, &req); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}

	accessToken, err := h.auth.Federated(domain.FederatedProfile{Email: req.Email, Name: req.Name, Image: req.Image})
	if err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	h.setSessionCookie(w, accessToken)

	writeJSON(w, http.StatusOK, api.LoginResponse{Message: "You logged in", AccessToken: accessToken})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)

	w.WriteHeader(http.StatusOK)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, accessToken string) {
	cookie := &http.Cookie{
		Path:     "/",
		Name:     "accessToken",
		Value:    accessToken,
		MaxAge:   int(h.cfg.JwtTTL().Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.Public.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	http.SetCookie(w, cookie)
}
