// Package main demonstrates interrupting a running turn.
//
// This example shows:
//   - Starting a long turn
//   - Calling turn/interrupt after a delay
//   - Waiting for the turn/completed notification that follows
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

const (
	interruptDelay = 3 * time.Second
	waitTimeout    = 30 * time.Second
)

func main() {
	ctx := context.Background()

	client, err := codex.NewClient(&options.ClientOptions{
		ClientInfo: options.ClientInfo{Name: "interrupt", Version: "0.1.0"},
	}, codex.WithApprovals(codex.AutoDecline()))
	if err != nil {
		log.Fatalf("Failed to create client: %v", err)
	}
	defer func() { _ = client.Close(context.Background()) }()

	sub := client.Subscribe(codex.WithTypes(codex.EventNotification))
	defer sub.Close()

	thread, err := client.StartThread(ctx, protocol.ThreadStartParams{})
	if err != nil {
		log.Fatalf("thread/start: %v", err)
	}

	turn, err := client.StartTurn(ctx, protocol.TurnStartParams{
		ThreadID: thread.Thread.ID,
		Input:    []protocol.UserInput{protocol.TextInput("Count slowly from 1 to 500, one number per line.")},
	})
	if err != nil {
		log.Fatalf("turn/start: %v", err)
	}

	time.AfterFunc(interruptDelay, func() {
		fmt.Println("\n--- interrupting ---")
		_, err := client.InterruptTurn(ctx, protocol.TurnInterruptParams{
			ThreadID: thread.Thread.ID,
			TurnID:   turn.Turn.ID,
		})
		if err != nil {
			log.Printf("turn/interrupt: %v", err)
		}
	})

	timeout := time.After(waitTimeout)
	for {
		select {
		case <-timeout:
			log.Fatal("turn did not finish after interrupt")
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			switch ev.Notification.Method {
			case protocol.NotifyAgentMessageDelta:
				var d protocol.DeltaNotification
				if ev.Notification.DecodeParams(&d) == nil {
					fmt.Print(d.Delta)
				}
			case protocol.NotifyTurnCompleted:
				var n protocol.TurnNotification
				if err := ev.Notification.DecodeParams(&n); err != nil {
					log.Fatal(err)
				}
				fmt.Printf("turn ended with status %q\n", n.Turn.Status)

				return
			}
		}
	}
}
