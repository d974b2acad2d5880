package main

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const sessionName = "session"

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func signupHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}
	creds.Email = strings.TrimSpace(creds.Email)
	if creds.Email == "" || creds.Password == "" {
		http.Error(w, "이메일과 비밀번호를 입력하세요.", http.StatusUnprocessableEntity)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(creds.Password), bcrypt.DefaultCost)
	if err != nil {
		http.Error(w, "Error hashing password", http.StatusInternalServerError)
		return
	}

	user, err := createUser(creds.Email, string(hash))
	if isValidationErr(err) {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		logger.Error().Err(err).Msg("signup failed")
		http.Error(w, "Error creating user", http.StatusInternalServerError)
		return
	}

	startSession(w, r, user)
	writeJSON(w, user)
}

func loginHandler(w http.ResponseWriter, r *http.Request) {
	var creds credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	user, hash, err := userByEmail(strings.TrimSpace(creds.Email))
	if err != nil {
		logger.Error().Err(err).Msg("login lookup failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if hash == "" || bcrypt.CompareHashAndPassword([]byte(hash), []byte(creds.Password)) != nil {
		http.Error(w, "Invalid credentials", http.StatusUnauthorized)
		return
	}

	startSession(w, r, user)
	writeJSON(w, user)
}

func logoutHandler(w http.ResponseWriter, r *http.Request) {
	session, _ := store.Get(r, sessionName)
	session.Values["user_id"] = nil
	session.Options.MaxAge = -1
	session.Save(r, w)
	w.WriteHeader(http.StatusOK)
}

func sessionHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := activeUserID(w, r)
	if !ok {
		return
	}

	user, err := userByID(userID)
	if err != nil {
		logger.Error().Err(err).Msg("session user lookup failed")
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}
	writeJSON(w, user)
}

func startSession(w http.ResponseWriter, r *http.Request, user User) {
	session, _ := store.Get(r, sessionName)
	session.Values["user_id"] = user.ID
	session.Values["email"] = user.Email
	session.Values["last_activity"] = time.Now().Unix()
	session.Save(r, w)
}

// activeUserID validates the session and its idle timeout, refreshes
// last_activity, and writes the 401 itself when the caller should stop.
func activeUserID(w http.ResponseWriter, r *http.Request) (string, bool) {
	session, _ := store.Get(r, sessionName)

	lastActivity, ok := session.Values["last_activity"].(int64)
	if !ok || time.Now().Unix()-lastActivity > int64(cfg.SessionTimeout.Seconds()) {
		session.Options.MaxAge = -1
		session.Save(r, w)
		http.Error(w, "Session expired", http.StatusUnauthorized)
		return "", false
	}

	userID, ok := session.Values["user_id"].(string)
	if !ok || userID == "" {
		http.Error(w, "Authentication required", http.StatusUnauthorized)
		return "", false
	}

	session.Values["last_activity"] = time.Now().Unix()
	session.Save(r, w)
	return userID, true
}
