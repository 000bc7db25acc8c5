package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// User represents the structure of a user record to insert
type User struct {
	Name  string `json:"name"`
	Age   int    `json:"age"`
	Email string `json:"email"`
}

// generateRandomName generates a random 6-letter name
func generateRandomName() string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := make([]byte, 6)
	for i := range name {
		name[i] = letters[rand.Intn(len(letters))]
	}
	name[0] = name[0] - 32
	return string(name)
}

// generateRandomAge generates a random age between 18 and 99
func generateRandomAge() int {
	return rand.Intn(82) + 18
}

// insertUser posts a user and returns the HTTP status of the response
func insertUser(ctx context.Context, client *http.Client, url string, user User) (int, error) {
	body, err := json.Marshal(user)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal user: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	return resp.StatusCode, nil
}

// Inserts users concurrently and reports how many were admitted and how
// many were turned away by the collection's concurrency limit.
func main() {
	var (
		numUsers   = flag.Int("n", 1000, "Number of users to insert")
		workers    = flag.Int("workers", 16, "Concurrent requests in flight")
		serverURL  = flag.String("url", "http://localhost:8080", "Server base URL")
		collection = flag.String("collection", "users", "Target collection")
	)
	flag.Parse()

	if *numUsers <= 0 || *workers <= 0 {
		fmt.Println("Error: -n and -workers must be greater than 0")
		os.Exit(1)
	}

	url := fmt.Sprintf("%s/collections/%s", *serverURL, *collection)
	client := &http.Client{Timeout: 10 * time.Second}

	fmt.Printf("Starting load test: inserting %d users to %s with %d workers\n", *numUsers, url, *workers)

	var accepted, rejected, failed atomic.Int64
	startTime := time.Now()

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(*workers)
	for i := 0; i < *numUsers; i++ {
		g.Go(func() error {
			name := generateRandomName()
			status, err := insertUser(ctx, client, url, User{
				Name:  name,
				Age:   generateRandomAge(),
				Email: strings.ToLower(name) + "@example.com",
			})
			switch {
			case err != nil:
				return err
			case status == http.StatusOK:
				accepted.Add(1)
			case status == http.StatusTooManyRequests:
				rejected.Add(1)
			default:
				failed.Add(1)
			}
			return nil
		})
	}
	err := g.Wait()

	totalTime := time.Since(startTime)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("LOAD TEST COMPLETE")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Total users attempted: %d\n", *numUsers)
	fmt.Printf("Accepted:              %d\n", accepted.Load())
	fmt.Printf("Rejected (429):        %d\n", rejected.Load())
	fmt.Printf("Other failures:        %d\n", failed.Load())
	fmt.Printf("Total time:            %v\n", totalTime)
	fmt.Printf("Average rate:          %.2f requests/sec\n", float64(*numUsers)/totalTime.Seconds())

	if err != nil {
		fmt.Printf("\nLoad test aborted: %v\n", err)
		os.Exit(1)
	}
	if failed.Load() > 0 {
		os.Exit(1)
	}
}
