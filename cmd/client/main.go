// Command client is a terminal chat client for the relay: it logs in, opens
// the websocket, renders incoming events, and turns stdin lines into frames.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gookit/color"
	"github.com/mama165/sdk-go/logs"
	"github.com/olekukonko/tablewriter"
	"nhooyr.io/websocket"
)

// Exit codes for the client application.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Client error: %v\n", err)
	}
	os.Exit(code)
}

func run() (int, error) {
	// 1. Load configuration from environment variables.
	config, err := LoadConfig()
	if err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}

	log := logs.GetLoggerFromString(config.LogLevel)
	color.Enable = config.Colours

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Obtain a session token, logging in when none was provided.
	token := config.Token
	if token == "" {
		token, err = login(ctx, config)
		if err != nil {
			return exitRuntime, err
		}
		log.Info("Logged in", "email", config.Email)
	}

	// 3. Open the websocket.
	wsURL := strings.Replace(config.ServerURL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return exitRuntime, fmt.Errorf("could not connect to %s: %w", config.ServerURL, err)
	}
	defer func() {
		log.Info("Closing connection...")
		_ = conn.Close(websocket.StatusNormalClosure, "")
	}()

	if config.Room != "" {
		if err := sendFrame(ctx, conn, outboundFrame{Event: "enterRoom", Room: config.Room}); err != nil {
			return exitRuntime, err
		}
	}

	// 4. Stdin loop: /join switches rooms, anything else is a message.
	go readStdin(ctx, conn)

	// 5. Event loop until Ctrl+C or server close.
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return exitOK, nil
			}
			return exitRuntime, fmt.Errorf("connection lost: %w", err)
		}
		render(data)
	}
}

func login(ctx context.Context, config Config) (string, error) {
	body, _ := json.Marshal(map[string]string{
		"email":    config.Email,
		"password": config.Password,
	})
	request, err := http.NewRequestWithContext(ctx, http.MethodPost,
		config.ServerURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(request)
	if err != nil {
		return "", fmt.Errorf("login request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login refused with status %d", resp.StatusCode)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Token, nil
}

type outboundFrame struct {
	Event string `json:"event"`
	Room  string `json:"room,omitempty"`
	Text  string `json:"text,omitempty"`
}

func sendFrame(ctx context.Context, conn *websocket.Conn, frame outboundFrame) error {
	data, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return conn.Write(ctx, websocket.MessageText, data)
}

func readStdin(ctx context.Context, conn *websocket.Conn) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		frame := outboundFrame{Event: "message", Text: line}
		if room, ok := strings.CutPrefix(line, "/join "); ok {
			frame = outboundFrame{Event: "enterRoom", Room: strings.TrimSpace(room)}
		}

		if err := sendFrame(ctx, conn, frame); err != nil {
			return
		}
	}
}

type inboundMessage struct {
	Name string `json:"name"`
	Text string `json:"text"`
	Room string `json:"room"`
	Time string `json:"time"`
}

func render(data []byte) {
	var frame struct {
		Event string          `json:"event"`
		Data  json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &frame); err != nil {
		return
	}

	switch frame.Event {
	case "message":
		var msg inboundMessage
		if err := json.Unmarshal(frame.Data, &msg); err != nil {
			return
		}
		printMessage(msg)

	case "messageHistory":
		var batch struct {
			Room     string           `json:"room"`
			Messages []inboundMessage `json:"messages"`
		}
		if err := json.Unmarshal(frame.Data, &batch); err != nil {
			return
		}
		color.Gray.Printf("--- last %d messages in %s ---\n", len(batch.Messages), batch.Room)
		for _, msg := range batch.Messages {
			printMessage(msg)
		}

	case "userList":
		var list struct {
			Room  string   `json:"room"`
			Users []string `json:"users"`
		}
		if err := json.Unmarshal(frame.Data, &list); err != nil {
			return
		}
		printTable("Users in "+list.Room, list.Users)

	case "roomList":
		var list struct {
			Rooms []string `json:"rooms"`
		}
		if err := json.Unmarshal(frame.Data, &list); err != nil {
			return
		}
		printTable("Active rooms", list.Rooms)

	case "activityPing":
		var ping struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(frame.Data, &ping); err != nil {
			return
		}
		color.Gray.Printf("%s is typing...\n", ping.Name)
	}
}

func printMessage(msg inboundMessage) {
	if msg.Name == "Admin" {
		color.Yellow.Printf("[%s] %s\n", msg.Time, msg.Text)
		return
	}
	color.Cyan.Printf("[%s] %s: ", msg.Time, msg.Name)
	fmt.Println(msg.Text)
}

func printTable(header string, rows []string) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{header})
	for _, row := range rows {
		table.Append([]string{row})
	}
	table.Render()
}
