package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/session"
	"github.com/jafarshop/storefront/internal/storefront"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/login/main.go <mobile> [code]")
		fmt.Println("Example: go run cmd/login/main.go 09121234567")
		os.Exit(1)
	}

	mobile := os.Args[1]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if cfg.Session.Driver == "memory" {
		fmt.Fprintf(os.Stderr, "SESSION_DRIVER is memory; the session will not be visible to the server\n")
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx := context.Background()
	client := storefront.NewClient(cfg.Backend, logger)

	code := ""
	if len(os.Args) > 2 {
		code = os.Args[2]
	} else {
		if err := client.RequestCode(ctx, mobile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to request code: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Code sent to %s. Enter it: ", mobile)
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to read code: %v\n", err)
			os.Exit(1)
		}
		code = strings.TrimSpace(line)
	}

	token, err := client.VerifyCode(ctx, mobile, code)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to verify code: %v\n", err)
		os.Exit(1)
	}

	// Store the token in a fresh session
	repo, closeRepo, err := session.OpenRepository(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open session store: %v\n", err)
		os.Exit(1)
	}
	defer closeRepo()

	sessions := session.NewManager(repo, cfg.Session.TTL, cfg.Session.KeySalt, logger)
	sid, err := sessions.Create(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create session: %v\n", err)
		os.Exit(1)
	}
	if err := sessions.SetToken(ctx, sid, token); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to store token: %v\n", err)
		os.Exit(1)
	}

	user, err := client.GetUser(ctx, token)
	if err == nil {
		fmt.Printf("\nSigned in as: %s (%s)\n", user.Name, user.Mobile)
	}

	fmt.Printf("\nSession ID: %s\n", sid)
	fmt.Printf("Expires in: %s\n", cfg.Session.TTL)
	fmt.Printf("\nSend it with every request:\n")
	fmt.Printf("X-Session-ID: %s\n", sid)
}
