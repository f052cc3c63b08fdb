// Command portico-chat is a terminal client for trying out a running
// portico instance. It reads questions from stdin, posts each one to
// /api/v1/ask and prints the answer tokens as they stream back.
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

type askRequest struct {
	Question string `json:"question"`
}

type tokenPayload struct {
	Token string `json:"token"`
}

type errorPayload struct {
	Error string `json:"error"`
}

func main() {
	serverURL := flag.String("server", "http://localhost:8080", "portico server base URL")
	showContext := flag.Bool("context", false, "print retrieved snippets before the answer")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Minute}

	fmt.Println("portico chat. Type a question, or \"quit\" to exit.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "quit" || question == "exit" {
			break
		}

		if err := ask(client, *serverURL, question, *showContext); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
}

func ask(client *http.Client, serverURL, question string, showContext bool) error {
	body, err := json.Marshal(askRequest{Question: question})
	if err != nil {
		return err
	}

	resp, err := client.Post(serverURL+"/api/v1/ask", "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ep errorPayload
		if err := json.NewDecoder(resp.Body).Decode(&ep); err == nil && ep.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, ep.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	if err := printStream(resp.Body, showContext); err != nil {
		return err
	}
	fmt.Println()
	return nil
}

// printStream reads server-sent events and writes answer tokens to
// stdout as they arrive.
func printStream(r io.Reader, showContext bool) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	event := ""
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			switch event {
			case "context":
				if showContext {
					printContext(data)
				}
			case "token":
				var tp tokenPayload
				if err := json.Unmarshal([]byte(data), &tp); err == nil {
					fmt.Print(tp.Token)
				}
			case "done":
				return nil
			}
		}
	}
	return scanner.Err()
}

func printContext(data string) {
	var payload struct {
		Snippets []json.RawMessage `json:"snippets"`
	}
	if err := json.Unmarshal([]byte(data), &payload); err != nil {
		return
	}
	for _, raw := range payload.Snippets {
		var tuple []json.RawMessage
		if err := json.Unmarshal(raw, &tuple); err != nil || len(tuple) != 2 {
			continue
		}
		var text string
		var score float64
		if json.Unmarshal(tuple[0], &text) != nil || json.Unmarshal(tuple[1], &score) != nil {
			continue
		}
		fmt.Printf("[%.3f] %s\n", score, text)
	}
	fmt.Println("---")
}
