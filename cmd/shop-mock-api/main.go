// Command shop-mock-api serves the in-memory fake shop backend for manual
// runs of shoptui.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/devnullvoid/shoptui/pkg/mockshop"
)

func main() {
	var port int
	var latency time.Duration
	var failIDs string

	flag.IntVar(&port, "port", 5000, "Port to listen on")
	flag.DurationVar(&latency, "latency", 0, "Artificial delay added to every response")
	flag.StringVar(&failIDs, "fail", "", "Comma-separated item ids whose mutations answer 500")
	flag.Parse()

	srv, err := mockshop.NewServer(context.Background(), nil)
	if err != nil {
		log.Fatalf("Failed to create mock server: %v", err)
	}
	defer srv.Close()

	if failIDs != "" {
		srv.State.FailMutations(http.StatusInternalServerError, splitIDs(failIDs)...)
	}

	var handler http.Handler = srv
	if latency > 0 {
		handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log.Printf("%s %s", r.Method, r.URL.Path)
			time.Sleep(latency)
			srv.ServeHTTP(w, r)
		})
	}

	log.Printf("Starting mock shop API on :%d (sign in as %s / %s)", port, mockshop.DefaultEmail, mockshop.DefaultPassword)

	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", port),
		Handler:     handler,
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 30 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}
