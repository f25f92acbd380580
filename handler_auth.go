package main

import (
	"encoding/json"
	"net/http"

	"tubos/internal/audit"
	"tubos/internal/auth"
	"tubos/internal/models"
	"tubos/internal/store"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

type loginUser struct {
	Username string `json:"username"`
	Rol      string `json:"rol"`
}

func handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Cuerpo de la petición inválido", 400)
		return
	}

	doc := appStore.Snapshot()

	// Username and role must both match. On a miss, burn a hash comparison
	// anyway so the two failure paths are indistinguishable by timing.
	var user *models.User
	for i := range doc.Users {
		if doc.Users[i].Username == req.Username && doc.Users[i].Rol == req.Rol {
			user = &doc.Users[i]
			break
		}
	}
	if user == nil {
		auth.BurnHash(req.Password)
		loginFailed(w)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		loginFailed(w)
		return
	}

	identity := auth.Identity{ID: user.ID, Username: user.Username, Rol: user.Rol}
	token, err := auth.IssueToken(jwtSecret, identity)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	err = appStore.Mutate(func(d *store.Document) error {
		audit.Append(d, identity.Username, audit.AccionLogin, "Inicio de sesión exitoso", nil)
		return nil
	})
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	jsonResp(w, map[string]interface{}{
		"success": true,
		"token":   token,
		"user":    loginUser{Username: identity.Username, Rol: identity.Rol},
	})
}

func loginFailed(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(401)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"error":   "Credenciales incorrectas",
	})
}
