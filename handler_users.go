package main

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"tubos/internal/audit"
	"tubos/internal/auth"
	"tubos/internal/models"
	"tubos/internal/store"
)

type cambiarPasswordRequest struct {
	Usuario       string `json:"usuario"`
	NuevaPassword string `json:"nuevaPassword"`
}

func handleCambiarPassword(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireAdmin(w, r, "cambiar contraseñas")
	if !ok {
		return
	}

	var req cambiarPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Cuerpo de la petición inválido", 400)
		return
	}

	hash, err := auth.HashPassword(req.NuevaPassword)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	err = appStore.Mutate(func(d *store.Document) error {
		i := d.FindUser(req.Usuario)
		if i == -1 {
			return auth.ErrNotFound
		}
		d.Users[i].Password = hash
		audit.Append(d, identity.Username, audit.AccionCambiarPassword,
			fmt.Sprintf("Contraseña cambiada para: %s", req.Usuario), nil)
		return nil
	})
	if errors.Is(err, auth.ErrNotFound) {
		jsonErr(w, "Usuario no encontrado", 404)
		return
	}
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	jsonResp(w, map[string]interface{}{"success": true, "message": "Contraseña actualizada"})
}

type crearUsuarioRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Rol      string `json:"rol"`
}

func handleCrearUsuario(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireAdmin(w, r, "crear usuarios")
	if !ok {
		return
	}

	var req crearUsuarioRequest
	if err := decodeBody(r, &req); err != nil {
		jsonErr(w, "Cuerpo de la petición inválido", 400)
		return
	}
	if req.Username == "" || req.Password == "" {
		jsonErr(w, "Usuario y contraseña son requeridos", 400)
		return
	}
	if !models.ValidRol(req.Rol) {
		jsonErr(w, "Rol inválido", 400)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	err = appStore.Mutate(func(d *store.Document) error {
		if d.FindUser(req.Username) != -1 {
			return auth.ErrDuplicateUser
		}
		d.Users = append(d.Users, models.User{
			ID:            d.NextUserID(),
			Username:      req.Username,
			Password:      hash,
			Rol:           req.Rol,
			FechaCreacion: time.Now().UTC().Format(time.RFC3339),
		})
		audit.Append(d, identity.Username, audit.AccionCrearUsuario,
			fmt.Sprintf("Nuevo usuario creado: %s (%s)", req.Username, req.Rol), nil)
		return nil
	})
	if errors.Is(err, auth.ErrDuplicateUser) {
		jsonErr(w, "El usuario ya existe", 400)
		return
	}
	if err != nil {
		jsonErr(w, err.Error(), 500)
		return
	}

	broadcast("usuario", "create", req.Username)
	jsonResp(w, map[string]interface{}{"success": true, "message": "Usuario creado exitosamente"})
}

func handleListUsuarios(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(w, r, "ver usuarios"); !ok {
		return
	}

	doc := appStore.Snapshot()
	usuarios := make([]models.UserSummary, 0, len(doc.Users))
	for _, u := range doc.Users {
		usuarios = append(usuarios, u.Summary())
	}
	jsonResp(w, usuarios)
}
