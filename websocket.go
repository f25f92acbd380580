package main

import (
	"net/http"

	"tubos/internal/websocket"
)

// Global hub instance; dashboards connect to /ws for live refreshes.
var wsHub = websocket.NewHub()

func handleWebSocket(w http.ResponseWriter, r *http.Request) {
	websocket.Handle(wsHub, w, r)
}

// broadcast is a convenience helper used by handlers after a mutation lands.
func broadcast(resourceType, action string, id any) {
	wsHub.BroadcastChange(resourceType, action, id)
}
