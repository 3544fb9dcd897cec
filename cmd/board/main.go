package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/tavola/backoffice/internal/board"
	"github.com/tavola/backoffice/internal/clients"
	"github.com/tavola/backoffice/internal/config"
	"github.com/tavola/backoffice/pkg/logger"
)

// toastNotifier prints board notifications to the terminal
type toastNotifier struct{}

func (toastNotifier) Success(title, description string) {
	fmt.Printf("[ok] %s - %s\n", title, description)
}

func (toastNotifier) Failure(title, description string) {
	fmt.Printf("[error] %s - %s\n", title, description)
}

func main() {
	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	l := logger.NewLogger(cfg.LogLevel)

	client := clients.NewOrdersClient(cfg.Board.APIBaseURL, cfg.Board.RequestTimeout, l)

	b := board.New(client, toastNotifier{}, board.Config{
		DragThreshold:   cfg.Board.DragThreshold,
		RequestTimeout:  cfg.Board.RequestTimeout,
		TrustServerTime: cfg.Board.TrustServerTime,
	}, l)

	ctx := context.Background()
	b.Load(ctx)

	fmt.Println("Order board. Commands: board, grab <id>, drag <dx> <dy>, drop <target>, confirm, cancel, reload, quit")
	printBoard(b)

	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")

		if !scanner.Scan() {
			break
		}

		fields := strings.Fields(scanner.Text())

		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "board":
			printBoard(b)
		case "grab":
			if len(fields) != 2 {
				fmt.Println("usage: grab <order-id>")
				continue
			}
			b.StartDrag(fields[1])
		case "drag":
			if len(fields) != 3 {
				fmt.Println("usage: drag <dx> <dy>")
				continue
			}
			dx, errX := strconv.ParseFloat(fields[1], 64)
			dy, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				fmt.Println("usage: drag <dx> <dy>")
				continue
			}
			b.MoveDrag(dx, dy)
		case "drop":
			if len(fields) != 2 {
				fmt.Println("usage: drop <column-or-card-id>")
				continue
			}
			b.Drop(fields[1])
			printPrompt(b)
		case "confirm":
			b.Confirm(ctx)
			printBoard(b)
		case "cancel":
			b.Cancel()
		case "reload":
			b.Load(ctx)
			printBoard(b)
		case "quit", "exit":
			return
		default:
			fmt.Printf("unknown command: %s\n", fields[0])
		}
	}
}

func printBoard(b *board.Board) {
	for _, col := range b.Columns() {
		fmt.Printf("== %s (%s) ==\n", col.Title, col.ID)

		if len(col.Orders) == 0 {
			fmt.Println("  (no orders)")
			continue
		}

		for _, order := range col.Orders {
			fmt.Printf("  %s  %s  R$ %.2f\n", order.ID, order.CustomerName, order.Total)
		}
	}
}

func printPrompt(b *board.Board) {
	pending := b.Pending()

	if pending == nil {
		return
	}

	fmt.Printf("Move %s's order to %s? (confirm/cancel)\n", pending.Order.CustomerName, pending.TargetStatus)
}
