// Package main demonstrates the smallest useful codex client.
//
// This example shows:
//   - Starting codex app-server and completing the handshake
//   - Listing recent threads and available models
//   - Shutting the process down cleanly
//
// Prerequisites: the codex CLI on PATH and a logged-in account.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/conneroisu/codex/pkg/codex"
	"github.com/conneroisu/codex/pkg/codex/options"
	"github.com/conneroisu/codex/pkg/codex/protocol"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := codex.NewClient(&options.ClientOptions{
		ClientInfo: options.ClientInfo{
			Name:    "quickstart",
			Title:   "Quickstart",
			Version: "0.1.0",
		},
	})
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() {
		if err := client.Close(context.Background()); err != nil {
			log.Printf("Close: %v", err)
		}
	}()

	if err := client.Start(ctx); err != nil {
		log.Fatalf("Failed to start codex: %v", err)
	}
	fmt.Printf("codex app-server running (pid %d)\n", client.Pid())

	limit := 5
	threads, err := client.ListThreads(ctx, &protocol.ThreadListParams{Limit: &limit})
	if err != nil {
		log.Fatalf("thread/list: %v", err)
	}
	fmt.Println("Recent threads:")
	for _, t := range threads.Data {
		fmt.Printf("  %s  %s\n", t.ID, t.Preview)
	}

	models, err := client.ListModels(ctx, nil)
	if err != nil {
		log.Fatalf("model/list: %v", err)
	}
	fmt.Printf("%d models available\n", len(models.Data))
}
