package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/linesrv/linesrv/client"
)

func main() {
	addr := flag.String("addr", "localhost:10497", "server address")
	flag.Parse()

	fmt.Printf("linesrv CLI - connected to %s\n", *addr)
	fmt.Println("Commands: get <n>, stats, shutdown, quit")
	fmt.Println()

	c, err := client.New(*addr, client.Config{})
	if err != nil {
		fmt.Printf("Failed to create client: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		parts := strings.Fields(strings.TrimSpace(scanner.Text()))
		if len(parts) == 0 {
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		switch strings.ToLower(parts[0]) {
		case "get":
			if len(parts) != 2 {
				fmt.Println("Usage: get <line-number>")
				break
			}
			n, err := strconv.ParseUint(parts[1], 10, 32)
			if err != nil {
				fmt.Printf("Invalid line number: %v\n", err)
				break
			}
			handleGet(ctx, c, uint32(n))

		case "stats":
			stat := c.Stat()
			fmt.Printf("pool: total=%d idle=%d acquired=%d\n",
				stat.TotalResources(), stat.IdleResources(), stat.AcquiredResources())

		case "shutdown":
			if err := c.Shutdown(ctx); err != nil {
				fmt.Printf("Shutdown failed: %v\n", err)
			} else {
				fmt.Println("Server shutting down.")
			}
			cancel()
			return

		case "quit", "exit":
			cancel()
			return

		default:
			fmt.Printf("Unknown command: %s\n", parts[0])
		}
		cancel()
	}
}

func handleGet(ctx context.Context, c *client.Client, n uint32) {
	line, err := c.Get(ctx, n)
	if errors.Is(err, client.ErrRejected) {
		fmt.Println("ERR (bad index?)")
		return
	}
	if err != nil {
		fmt.Printf("Get failed: %v\n", err)
		return
	}
	fmt.Println(line)
}
