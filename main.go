package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"path/filepath"
	"strings"

	"tubos/internal/config"
	"tubos/internal/response"
	"tubos/internal/store"
)

// Shared handles, wired once at startup. Tests swap these for their own.
var (
	appStore  *store.FileStore
	jwtSecret []byte
	staticDir string
)

// pages are the HTML collaborators served straight from the static directory.
var pages = map[string]string{
	"/":                       "login.html",
	"/admin-dashboard.html":   "admin-dashboard.html",
	"/cliente-dashboard.html": "cliente-dashboard.html",
	"/gestion-tubos.html":     "gestion-tubos.html",
	"/historial.html":         "historial.html",
}

func main() {
	configPath := flag.String("config", "", "Path to YAML config file")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	dbPath := flag.String("db", "", "Store file path (overrides config)")
	static := flag.String("static", "", "Static pages directory (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("Config load failed:", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.StorePath = *dbPath
	}
	if *static != "" {
		cfg.StaticDir = *static
	}

	appStore, err = store.Open(cfg.StorePath)
	if err != nil {
		log.Fatal("Store init failed:", err)
	}
	jwtSecret = []byte(cfg.JWTSecret)
	staticDir = cfg.StaticDir

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Servidor de tubos en http://localhost%s (store: %s)", addr, cfg.StorePath)
	log.Printf("Cuentas demo: admin/admin123, cliente/cliente123")
	log.Fatal(http.ListenAndServe(addr, logging(requireAuth(newMux()))))
}

// newMux builds the route table. Auth and role checks live in the middleware
// and handlers, not here.
func newMux() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if page, ok := pages[r.URL.Path]; ok {
			http.ServeFile(w, r, filepath.Join(staticDir, page))
			return
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("/ws", handleWebSocket)

	mux.HandleFunc("/api/", func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/api/")
		path = strings.TrimSuffix(path, "/")
		parts := strings.Split(path, "/")

		switch {
		case path == "health" && r.Method == "GET":
			handleHealth(w, r)

		case path == "login" && r.Method == "POST":
			handleLogin(w, r)

		case path == "tubos" && r.Method == "GET":
			handleListTubos(w, r)
		case parts[0] == "tubos" && len(parts) == 2 && r.Method == "PUT":
			handleUpdateTubo(w, r, parts[1])

		case path == "estadisticas" && r.Method == "GET":
			handleEstadisticas(w, r)

		case path == "historial" && r.Method == "GET":
			handleHistorial(w, r)

		case path == "cambiar-password" && r.Method == "POST":
			handleCambiarPassword(w, r)

		case path == "usuarios" && r.Method == "POST":
			handleCrearUsuario(w, r)
		case path == "usuarios" && r.Method == "GET":
			handleListUsuarios(w, r)

		case path == "exportar-excel" && r.Method == "GET":
			handleExportarExcel(w, r)
		case path == "importar-excel" && r.Method == "POST":
			handleImportarExcel(w, r)

		default:
			jsonErr(w, "Ruta no encontrada", 404)
		}
	})

	return mux
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	jsonResp(w, map[string]string{"status": "ok"})
}

func jsonResp(w http.ResponseWriter, v interface{}) {
	response.JSON(w, v)
}

func jsonErr(w http.ResponseWriter, msg string, code int) {
	response.Err(w, msg, code)
}

func decodeBody(r *http.Request, v interface{}) error {
	return response.DecodeBody(r, v)
}
