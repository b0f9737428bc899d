package utils

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
	"time"
)

// GraceServer runs an HTTP server with graceful shutdown on SIGINT/SIGTERM
// and zero-downtime binary upgrade on SIGUSR2: the listener fd is handed to a
// freshly exec'd child via fd 3 and the parent drains in-flight requests.
func GraceServer(addr string, handler http.Handler) {
	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var ln net.Listener
	var err error
	if os.Getenv("GRACEFUL_RESTART") == "true" {
		// Inherited listener from the parent process.
		f := os.NewFile(3, "")
		ln, err = net.FileListener(f)
	} else {
		ln, err = net.Listen("tcp", addr)
	}
	if err != nil {
		Sugar.Fatalf("listen %s failed: %v", addr, err)
	}

	go func() {
		Sugar.Infof("server listening on %s (pid %d)", addr, os.Getpid())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			Sugar.Fatalf("serve failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)

	for sig := range quit {
		switch sig {
		case syscall.SIGUSR2:
			if err := forkChild(ln); err != nil {
				Sugar.Errorf("fork on SIGUSR2 failed: %v", err)
				continue
			}
			Sugar.Info("child spawned, draining parent")
			shutdown(server)
			return
		default:
			Sugar.Infof("received %s, shutting down", sig)
			shutdown(server)
			return
		}
	}
}

func forkChild(ln net.Listener) error {
	tl, ok := ln.(*net.TCPListener)
	if !ok {
		return errors.New("listener is not TCP")
	}
	f, err := tl.File()
	if err != nil {
		return err
	}

	cmd := exec.Command(os.Args[0], os.Args[1:]...)
	cmd.Env = append(os.Environ(), "GRACEFUL_RESTART=true")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.ExtraFiles = []*os.File{f}
	return cmd.Start()
}

func shutdown(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		Sugar.Errorf("shutdown error: %v", err)
	}
	Sugar.Info("server exited")
	_ = Logger.Sync()
}
