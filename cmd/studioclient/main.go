package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// studioclient uploads a media file to a running transcript-studio
// instance and prints the resulting session and transcript.
func main() {
	mediaFile := flag.String("media", "", "Path to an audio or video file")
	serverAddr := flag.String("server", "http://localhost:8080", "API base URL")
	language := flag.String("language", "", "Language hint (e.g. en, fi)")
	model := flag.String("model", "", "Recognition model override")
	flag.Parse()

	if *mediaFile == "" {
		log.Fatal("-media is required")
	}

	f, err := os.Open(*mediaFile)
	if err != nil {
		log.Fatalf("Failed to open media file: %v", err)
	}
	defer f.Close()

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		defer pw.Close()
		defer mw.Close()

		part, err := mw.CreateFormFile("file", filepath.Base(*mediaFile))
		if err != nil {
			pw.CloseWithError(err)
			return
		}
		if _, err := io.Copy(part, f); err != nil {
			pw.CloseWithError(err)
			return
		}
		if *language != "" {
			_ = mw.WriteField("language", *language)
		}
		if *model != "" {
			_ = mw.WriteField("model", *model)
		}
	}()

	client := &http.Client{Timeout: 10 * time.Minute}
	req, err := http.NewRequest(http.MethodPost, *serverAddr+"/v1/transcribe", pr)
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		log.Fatalf("Server returned %d: %s", resp.StatusCode, body)
	}

	var result struct {
		SessionID string `json:"sessionId"`
		Text      string `json:"text"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		log.Fatalf("Failed to parse response: %v", err)
	}

	log.Printf("Transcribed in %s, session %s", time.Since(start).Round(time.Millisecond), result.SessionID)
	fmt.Println()
	fmt.Println(result.Text)
}
