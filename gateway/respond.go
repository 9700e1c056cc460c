package gateway

import (
	"encoding/json"
	"net/http"
)

// detailResponse é o envelope de erro visto pelo cliente. Só mensagens
// genéricas saem por aqui — nada de texto de erro interno.
type detailResponse struct {
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, detailResponse{Detail: detail})
}
