package cmd

import (
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/querylint/querylint/server/handlers"
)

var addr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the check API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		listenAddr := addr
		if listenAddr == "" {
			listenAddr = viper.GetString("server.addr")
		}

		checkHandler := handlers.NewCheckHandler(Checker, viper.GetString("annotation.marker"))

		r := chi.NewRouter()
		r.Use(middleware.Logger)
		r.Use(middleware.Recoverer)
		r.Use(middleware.RequestID)

		r.Post("/v1/check", checkHandler.Check)
		r.Get("/health", checkHandler.Health)

		server := &http.Server{
			Addr:         listenAddr,
			Handler:      r,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		log.Printf("Starting querylint server on %s (schema %s)", listenAddr, SchemaName)
		return server.ListenAndServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address")

	RootCmd.AddCommand(serveCmd)
}
