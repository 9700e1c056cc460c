// Binário backend é o serviço de demonstração que o gateway atende:
// algumas rotas de negócio fictícias, /health e utilitários para exercitar o
// encaminhamento (/echo e /slow).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

type user struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type order struct {
	ID     int    `json:"id"`
	UserID int    `json:"user_id"`
	Status string `json:"status"`
}

var (
	users = []user{
		{ID: 1, Name: "Alice"},
		{ID: 2, Name: "Bob"},
	}
	products = []product{
		{ID: 1, Name: "Keyboard", Price: 49.9},
		{ID: 2, Name: "Mouse", Price: 29.9},
	}
	orders = []order{
		{ID: 1, UserID: 1, Status: "shipped"},
		{ID: 2, UserID: 2, Status: "pending"},
	}
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/users", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, users)
	})
	r.Get("/products", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, products)
	})
	r.Get("/orders", func(w http.ResponseWriter, req *http.Request) {
		writeJSON(w, http.StatusOK, orders)
	})

	// /echo devolve o corpo recebido e espelha método/cabeçalhos de interesse,
	// útil para validar a fidelidade do encaminhamento de ponta a ponta.
	r.Handle("/echo", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("X-Echo-Method", req.Method)
		w.Header().Set("X-Echo-Forwarded-For", req.Header.Get("X-Forwarded-For"))
		if v := req.Header.Get("X-Test"); v != "" {
			w.Header().Set("X-Test", v)
		}
		if ct := req.Header.Get("Content-Type"); ct != "" {
			w.Header().Set("Content-Type", ct)
		}
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, req.Body)
	}))

	// /slow segura a resposta por ?delay= (padrão 6s) para provocar o 504 do
	// gateway em teste manual.
	r.Get("/slow", func(w http.ResponseWriter, req *http.Request) {
		delay := 6 * time.Second
		if v := req.URL.Query().Get("delay"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				delay = d
			}
		}
		select {
		case <-time.After(delay):
			writeJSON(w, http.StatusOK, map[string]string{"slept": delay.String()})
		case <-req.Context().Done():
		}
	})

	addr := ":8001"
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		addr = v
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("demo backend listening", slog.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server error", slog.Any("error", err))
		os.Exit(1)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
