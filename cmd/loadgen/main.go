// loadgen drives the websocket surface with a fleet of clients to
// observe assignment and fan-out behavior under concurrency. It is a
// manual soak tool, not part of the server.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gookit/color"
	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"

	"matchroom/gateway"
)

type result struct {
	name        string
	room        string
	sent        int
	received    int
	historySize int
	errors      int
}

func main() {
	_ = godotenv.Load()

	serverURL := envOr("LOADGEN_URL", "ws://localhost:8080/ws")
	clients := envIntOr("LOADGEN_CLIENTS", 12)
	messages := envIntOr("LOADGEN_MESSAGES", 5)
	drainWait := time.Duration(envIntOr("LOADGEN_DRAIN_SECONDS", 2)) * time.Second

	color.Green.Printf("Starting %d clients against %s\n", clients, serverURL)

	results := make([]result, clients)
	var wg sync.WaitGroup
	for i := 0; i < clients; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = runClient(serverURL, fmt.Sprintf("loadgen-%d", i), messages, drainWait)
		}(i)
	}
	wg.Wait()

	render(results)
}

func runClient(url, name string, messages int, drainWait time.Duration) result {
	res := result{name: name}

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		res.errors++
		return res
	}
	defer conn.Close()

	send(conn, gateway.EventJoinRoom, gateway.JoinRoomPayload{UserID: name, UserName: name})

	deadline := time.Now().Add(drainWait)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
		_, data, err := conn.ReadMessage()
		if err != nil {
			continue
		}

		var frame gateway.Frame
		if err := json.Unmarshal(data, &frame); err != nil {
			res.errors++
			continue
		}
		switch frame.Event {
		case gateway.EventRoomAssigned:
			var payload struct {
				RoomID string `json:"roomId"`
			}
			_ = json.Unmarshal(frame.Data, &payload)
			res.room = payload.RoomID
			// Assigned: start talking.
			for n := 0; n < messages; n++ {
				send(conn, gateway.EventSendMessage, gateway.SendMessagePayload{
					SenderID:   name,
					SenderName: name,
					Message:    fmt.Sprintf("hello %d from %s", n, name),
					RoomID:     res.room,
					Timestamp:  time.Now().UTC(),
				})
				res.sent++
			}
		case gateway.EventMessageHistory:
			var payload struct {
				Messages []gateway.MessagePayload `json:"messages"`
			}
			_ = json.Unmarshal(frame.Data, &payload)
			res.historySize = len(payload.Messages)
		case gateway.EventNewMessage:
			res.received++
		case gateway.EventError:
			res.errors++
		}
	}
	return res
}

func send(conn *websocket.Conn, eventName string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	_ = conn.WriteJSON(gateway.Frame{Event: eventName, Data: data})
}

func render(results []result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Client", "Room", "Sent", "Received", "History", "Errors"})

	totalErrors := 0
	for _, r := range results {
		totalErrors += r.errors
		table.Append([]string{
			r.name,
			r.room,
			strconv.Itoa(r.sent),
			strconv.Itoa(r.received),
			strconv.Itoa(r.historySize),
			strconv.Itoa(r.errors),
		})
	}
	table.Render()

	if totalErrors > 0 {
		color.Red.Printf("%d errors observed\n", totalErrors)
		return
	}
	color.Green.Println("All clients finished without errors")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
