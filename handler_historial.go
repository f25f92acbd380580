package main

import (
	"net/http"

	"tubos/internal/audit"
)

func handleHistorial(w http.ResponseWriter, r *http.Request) {
	doc := appStore.Snapshot()
	jsonResp(w, audit.Recent(doc))
}
