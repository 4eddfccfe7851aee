// Mock Telegram Bot API server for local development. Supports the
// three methods the service calls: sendMessage, sendPhoto and getFile,
// plus the file download path.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync/atomic"
	"time"
)

var fileCounter atomic.Int64

func main() {
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		// Simulate network latency (50-200ms)
		time.Sleep(time.Duration(50+time.Now().UnixNano()%150) * time.Millisecond)

		var method string
		if _, err := fmt.Sscanf(r.URL.Path, "/bot%s", &method); err != nil {
			http.NotFound(w, r)
			return
		}
		// Path is /bot<token>/<method>
		for i := 0; i < len(method); i++ {
			if method[i] == '/' {
				method = method[i+1:]
				break
			}
		}

		w.Header().Set("Content-Type", "application/json")

		switch method {
		case "sendMessage":
			writeJSON(w, map[string]any{"ok": true, "result": map[string]any{"message_id": 1}})
		case "sendPhoto":
			n := fileCounter.Add(1)
			writeJSON(w, map[string]any{
				"ok": true,
				"result": map[string]any{
					"message_id": n,
					"photo": []map[string]any{
						{"file_id": fmt.Sprintf("thumb-%d", n), "file_size": 1200},
						{"file_id": fmt.Sprintf("medium-%d", n), "file_size": 42000},
						{"file_id": fmt.Sprintf("full-%d", n), "file_size": 230000},
					},
				},
			})
		case "getFile":
			fileID := r.FormValue("file_id")
			writeJSON(w, map[string]any{
				"ok":     true,
				"result": map[string]any{"file_path": "photos/" + fileID + ".jpg"},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			writeJSON(w, map[string]any{"ok": false, "description": "method not found"})
		}

		log.Printf("[Telegram] %s %s", r.Method, r.URL.Path)
	})

	http.HandleFunc("/file/", func(w http.ResponseWriter, r *http.Request) {
		// Serve a 1x1 GIF for any file path
		w.Header().Set("Content-Type", "image/gif")
		if _, err := w.Write([]byte("GIF89a\x01\x00\x01\x00\x80\x00\x00\x00\x00\x00\xff\xff\xff,\x00\x00\x00\x00\x01\x00\x01\x00\x00\x02\x02D\x01\x00;")); err != nil {
			log.Printf("[Telegram] File write error: %v", err)
		}
	})

	log.Println("Mock Telegram Bot API running on :8081")
	server := &http.Server{
		Addr:         ":8081",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	log.Fatal(server.ListenAndServe())
}

func writeJSON(w http.ResponseWriter, v any) {
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[Telegram] Write error: %v", err)
	}
}
