// Command voxgate-client is a simple WebSocket client for manual testing.
// It sends a single text payload to a running gateway and stores the audio
// reply on disk.
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/gorilla/websocket"
)

func main() {
	serverURL := flag.String("url", "ws://127.0.0.1:8000/ws", "WebSocket URL of the gateway")
	text := flag.String("text", "", "input text to convert (required)")
	save := flag.String("save", "", "optional output file (mp3)")
	timeout := flag.Duration("timeout", 60*time.Second, "how long to wait for synthesis to complete")
	flag.Parse()

	if *text == "" {
		flag.Usage()
		os.Exit(2)
	}

	start := time.Now()

	log.Printf("connecting to %s", *serverURL)
	c, _, err := websocket.DefaultDialer.Dial(*serverURL, nil)
	if err != nil {
		log.Fatal("dial:", err)
	}
	defer c.Close()

	payload, err := json.Marshal(map[string]string{"text": *text})
	if err != nil {
		log.Fatal("marshal:", err)
	}
	if err := c.WriteMessage(websocket.TextMessage, payload); err != nil {
		log.Fatal("write:", err)
	}
	log.Printf("sent text payload (%d chars)", len(*text))

	if err := c.SetReadDeadline(time.Now().Add(*timeout)); err != nil {
		log.Fatal("set deadline:", err)
	}
	messageType, message, err := c.ReadMessage()
	if err != nil {
		log.Fatal("read:", err)
	}

	// Error reports arrive as text frames, audio as a single binary frame.
	if messageType == websocket.TextMessage {
		log.Fatalf("received error frame: %s", message)
	}

	log.Printf("received audio payload (%d bytes) in %.2fs", len(message), time.Since(start).Seconds())

	if *save != "" {
		if err := os.WriteFile(*save, message, 0644); err != nil {
			log.Fatal("save:", err)
		}
		log.Printf("audio written to %s", *save)
	}

	// Cleanly close the connection by sending a close message.
	err = c.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	if err != nil {
		log.Println("write close:", err)
	}
}
