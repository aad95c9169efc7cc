package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"chinguetti/internal/admin"
	"chinguetti/internal/browse"
	"chinguetti/internal/catalog"
	"chinguetti/internal/events"
	"chinguetti/internal/session"
	"chinguetti/internal/snapshot"
	"chinguetti/internal/upstream"
	"chinguetti/pkg/database"
	"chinguetti/pkg/utils"
)

func main() {
	upCfg := utils.LoadUpstreamConfig()
	sessCfg := utils.LoadSessionConfig()
	srvCfg := utils.LoadServerConfig()

	tokens := session.NewFileTokenStore("")
	client := upstream.NewClient(upCfg.BaseURL, tokens, upCfg.Timeout)

	// snapshot is optional: without a local db the fallback uses the
	// compiled-in samples
	var opts []catalog.Option
	db, err := database.Open("")
	if err != nil {
		log.Printf("snapshot db unavailable, using bundled samples only: %v", err)
	} else {
		defer db.Close()
		store, err := snapshot.NewStore(db)
		if err != nil {
			log.Printf("snapshot schema failed, using bundled samples only: %v", err)
		} else {
			opts = append(opts, catalog.WithSnapshot(store))
		}
	}

	cat := catalog.NewService(client, upCfg.Timeout, opts...)

	tokenSvc := session.TokenService{
		Secret:   []byte(sessCfg.Secret),
		Issuer:   sessCfg.Issuer,
		Duration: sessCfg.Duration,
	}
	sessions := &session.Service{
		Client:      client,
		Tokens:      tokenSvc,
		OfflineHash: sessCfg.OfflinePassphraseHash,
	}

	router := gin.Default()

	// Optional: avoid “trusted all proxies” warning
	_ = router.SetTrustedProxies([]string{"127.0.0.1"})

	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", uuid.NewString())
		c.Next()
	})

	// Start the TCP event feed first (so you notice binding errors early)
	hub := events.NewHub()
	router.GET("/ws", events.WSHandler(hub))
	tcpSrv := events.NewServer(":7070", hub)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "upstream": upCfg.BaseURL})
	})

	router.GET("/ready", func(c *gin.Context) {
		stats := hub.Stats()
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// the gateway stays ready during upstream outages: the fallback
		// layer keeps serving, so readiness only reports what it sees
		_, err := client.Categories(ctx)
		c.JSON(http.StatusOK, gin.H{
			"status":      "ready",
			"upstream_ok": err == nil,
			"tcp_clients": stats.TCPClients,
			"ws_clients":  stats.WSClients,
		})
	})

	// Public catalog
	browseHandler := browse.NewHandler(cat, upCfg.MediaHost)
	browseHandler.RegisterRoutes(router.Group("/api"))

	// Admin console
	adminHandler := admin.NewHandler(sessions, tokenSvc, hub, cat, upCfg.BaseURL, upCfg.Timeout)
	adminHandler.RegisterRoutes(router.Group("/admin"))

	httpSrv := &http.Server{
		Addr:    srvCfg.Addr,
		Handler: router,
	}

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		log.Printf("gateway listening on %s", srvCfg.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("shutdown signal received: %s", sig)
	case err := <-errCh:
		log.Printf("server error: %v", err)
	}

	log.Println("shutting down servers")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown error: %v", err)
	}
	if err := tcpSrv.Close(); err != nil {
		log.Printf("tcp shutdown error: %v", err)
	}

	wg.Wait()
	log.Println("servers stopped")
}
